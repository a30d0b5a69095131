package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/tools"

	"github.com/forkful/forkful/store"
)

// Each catalog tool is a tools.Tool executing against the domain store with
// the authenticated user's id. Call returns a human-readable confirmation on
// success; validation and store failures come back as errors for the executor
// to fold into the action log.

// ─────────────────────────────────────────────────────────────────────────────
// add_meal_plan
// ─────────────────────────────────────────────────────────────────────────────

type addMealPlanTool struct {
	domain DomainStore
	userID string
	now    func() time.Time
}

func newAddMealPlanTool(domain DomainStore, userID string, now func() time.Time) tools.Tool {
	return &addMealPlanTool{domain: domain, userID: userID, now: now}
}

func (t *addMealPlanTool) Name() string { return ToolAddMealPlan }
func (t *addMealPlanTool) Description() string {
	return "Add a meal to the meal plan for a specific date and meal type."
}

func (t *addMealPlanTool) Call(ctx context.Context, input string) (string, error) {
	var payload struct {
		Date     string `json:"date"`
		MealType string `json:"meal_type"`
		MealName string `json:"meal_name"`
		RecipeID string `json:"recipe_id"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "", errors.New("invalid input JSON")
	}
	if _, err := time.Parse("2006-01-02", payload.Date); err != nil {
		return "", errors.Errorf("date must be YYYY-MM-DD, got %q", payload.Date)
	}
	switch payload.MealType {
	case store.MealBreakfast, store.MealLunch, store.MealDinner, store.MealSnack:
	default:
		return "", errors.Errorf("meal_type must be one of breakfast, lunch, dinner, snack, got %q", payload.MealType)
	}
	if strings.TrimSpace(payload.MealName) == "" {
		return "", errors.New("meal_name is required")
	}

	if _, err := t.domain.CreateMealPlan(ctx, &store.MealPlan{
		ID:        uuid.NewString(),
		UserID:    t.userID,
		Date:      payload.Date,
		MealType:  payload.MealType,
		MealName:  payload.MealName,
		RecipeID:  payload.RecipeID,
		CreatedTs: t.now().Unix(),
	}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully added %s to %s on %s", payload.MealName, payload.MealType, payload.Date), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// add_pantry_item
// ─────────────────────────────────────────────────────────────────────────────

type addPantryItemTool struct {
	domain DomainStore
	userID string
	now    func() time.Time
}

func newAddPantryItemTool(domain DomainStore, userID string, now func() time.Time) tools.Tool {
	return &addPantryItemTool{domain: domain, userID: userID, now: now}
}

func (t *addPantryItemTool) Name() string { return ToolAddPantryItem }
func (t *addPantryItemTool) Description() string {
	return "Add an item to the pantry inventory."
}

func (t *addPantryItemTool) Call(ctx context.Context, input string) (string, error) {
	var payload struct {
		Name       string  `json:"name"`
		Quantity   float64 `json:"quantity"`
		Unit       string  `json:"unit"`
		Category   string  `json:"category"`
		ExpiryDate string  `json:"expiry_date"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "", errors.New("invalid input JSON")
	}
	if strings.TrimSpace(payload.Name) == "" {
		return "", errors.New("name is required")
	}
	if payload.Quantity <= 0 {
		return "", errors.Errorf("quantity must be positive, got %v", payload.Quantity)
	}
	if strings.TrimSpace(payload.Unit) == "" {
		return "", errors.New("unit is required")
	}
	if payload.ExpiryDate != "" {
		if _, err := time.Parse("2006-01-02", payload.ExpiryDate); err != nil {
			return "", errors.Errorf("expiry_date must be YYYY-MM-DD, got %q", payload.ExpiryDate)
		}
	}

	if _, err := t.domain.CreatePantryItem(ctx, &store.PantryItem{
		ID:         uuid.NewString(),
		UserID:     t.userID,
		Name:       payload.Name,
		Quantity:   payload.Quantity,
		Unit:       payload.Unit,
		Category:   payload.Category,
		ExpiryDate: payload.ExpiryDate,
		CreatedTs:  t.now().Unix(),
	}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully added %s %s of %s to pantry",
		formatQuantity(payload.Quantity), payload.Unit, payload.Name), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// add_grocery_item
// ─────────────────────────────────────────────────────────────────────────────

type addGroceryItemTool struct {
	domain DomainStore
	userID string
	now    func() time.Time
}

func newAddGroceryItemTool(domain DomainStore, userID string, now func() time.Time) tools.Tool {
	return &addGroceryItemTool{domain: domain, userID: userID, now: now}
}

func (t *addGroceryItemTool) Name() string { return ToolAddGroceryItem }
func (t *addGroceryItemTool) Description() string {
	return "Add an item to the grocery list, creating a list when none exists."
}

func (t *addGroceryItemTool) Call(ctx context.Context, input string) (string, error) {
	var payload struct {
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
		Category string  `json:"category"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "", errors.New("invalid input JSON")
	}
	if strings.TrimSpace(payload.Name) == "" {
		return "", errors.New("name is required")
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}
	if payload.Quantity < 0 {
		return "", errors.Errorf("quantity must be positive, got %v", payload.Quantity)
	}
	if payload.Unit == "" {
		payload.Unit = "item"
	}

	// Target the most recently created list; create one when the user has
	// none. A list created earlier in the same turn is picked up here, so
	// sibling invocations land on the same list.
	lists, err := t.domain.ListGroceryLists(ctx, &store.FindGroceryList{UserID: &t.userID})
	if err != nil {
		return "", err
	}
	var listID string
	if len(lists) > 0 {
		listID = lists[0].ID
	} else {
		list, err := t.domain.CreateGroceryList(ctx, &store.GroceryList{
			ID:        uuid.NewString(),
			UserID:    t.userID,
			Name:      fmt.Sprintf("Grocery List - %s", t.now().Format("Jan 2")),
			CreatedTs: t.now().Unix(),
		})
		if err != nil {
			return "", err
		}
		listID = list.ID
	}

	if _, err := t.domain.CreateGroceryItem(ctx, &store.GroceryItem{
		ID:        uuid.NewString(),
		ListID:    listID,
		Name:      payload.Name,
		Quantity:  payload.Quantity,
		Unit:      payload.Unit,
		Category:  payload.Category,
		CreatedTs: t.now().Unix(),
	}); err != nil {
		return "", err
	}

	plural := ""
	if payload.Quantity != 1 {
		plural = "s"
	}
	return fmt.Sprintf("Successfully added %s %s%s of %s to grocery list",
		formatQuantity(payload.Quantity), payload.Unit, plural, payload.Name), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// update_allergies
// ─────────────────────────────────────────────────────────────────────────────

type updateAllergiesTool struct {
	domain DomainStore
	userID string
	now    func() time.Time
}

func newUpdateAllergiesTool(domain DomainStore, userID string, now func() time.Time) tools.Tool {
	return &updateAllergiesTool{domain: domain, userID: userID, now: now}
}

func (t *updateAllergiesTool) Name() string { return ToolUpdateAllergies }
func (t *updateAllergiesTool) Description() string {
	return "Replace, extend or prune the user's allergy list."
}

func (t *updateAllergiesTool) Call(ctx context.Context, input string) (string, error) {
	var payload struct {
		Allergies []string `json:"allergies"`
		Action    string   `json:"action"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "", errors.New("invalid input JSON")
	}

	profile, err := t.domain.GetProfile(ctx, t.userID)
	if err != nil {
		return "", err
	}
	if profile == nil {
		profile = &store.Profile{ID: t.userID}
	}

	switch payload.Action {
	case "replace":
		profile.Allergies = payload.Allergies
	case "add":
		profile.Allergies = mergeAllergies(profile.Allergies, payload.Allergies)
	case "remove":
		profile.Allergies = removeAllergies(profile.Allergies, payload.Allergies)
	default:
		return "", errors.Errorf("action must be one of replace, add, remove, got %q", payload.Action)
	}

	profile.UpdatedTs = t.now().Unix()
	if _, err := t.domain.UpsertProfile(ctx, profile); err != nil {
		return "", err
	}

	// Always confirm with the final set, never just the delta.
	current := "None"
	if len(profile.Allergies) > 0 {
		current = strings.Join(profile.Allergies, ", ")
	}
	return fmt.Sprintf("Successfully updated allergies. Current allergies: %s", current), nil
}

// mergeAllergies unions existing-then-new with case-sensitive exact-string
// dedup; the first occurrence wins.
func mergeAllergies(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing)+len(incoming))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, a := range existing {
		if !seen[a] {
			seen[a] = true
			merged = append(merged, a)
		}
	}
	for _, a := range incoming {
		if !seen[a] {
			seen[a] = true
			merged = append(merged, a)
		}
	}
	return merged
}

func removeAllergies(existing, toRemove []string) []string {
	drop := make(map[string]bool, len(toRemove))
	for _, a := range toRemove {
		drop[a] = true
	}
	kept := make([]string, 0, len(existing))
	for _, a := range existing {
		if !drop[a] {
			kept = append(kept, a)
		}
	}
	return kept
}
