package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/forkful/forkful/store"
)

// Bounds on the snapshot rendered into the system prompt. Longer lists are
// silently truncated, preserving order.
const (
	maxPromptRecipes      = 5
	maxPromptPantryItems  = 15
	maxPromptMeals        = 10
	maxPromptGroceryItems = 15

	// Meal plans are fetched for a sliding window around today.
	mealWindowPastDays   = 7
	mealWindowFutureDays = 14

	// Unchecked grocery items come from the most recent lists only.
	maxContextGroceryLists = 5
)

// ContextBundle is a read-only, point-in-time aggregate of the user's domain
// state, fetched fresh each turn.
type ContextBundle struct {
	Profile      *store.Profile
	Recipes      []*store.Recipe
	PantryItems  []*store.PantryItem
	MealPlans    []*store.MealPlan
	GroceryItems []*store.GroceryItem
}

// Assembler gathers a bounded domain snapshot and renders the system prompt.
type Assembler struct {
	domain DomainStore
}

func NewAssembler(domain DomainStore) *Assembler {
	return &Assembler{domain: domain}
}

// FetchBundle reads the snapshot for userID: profile, all recipes, all pantry
// items, meal plans within [today-7d, today+14d] and unchecked items from the
// five most recent grocery lists.
func (a *Assembler) FetchBundle(ctx context.Context, userID string, today time.Time) (*ContextBundle, error) {
	profile, err := a.domain.GetProfile(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "fetch profile")
	}
	recipes, err := a.domain.ListRecipes(ctx, &store.FindRecipe{UserID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "fetch recipes")
	}
	pantry, err := a.domain.ListPantryItems(ctx, &store.FindPantryItem{UserID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "fetch pantry")
	}

	from := today.AddDate(0, 0, -mealWindowPastDays).Format("2006-01-02")
	to := today.AddDate(0, 0, mealWindowFutureDays).Format("2006-01-02")
	meals, err := a.domain.ListMealPlans(ctx, &store.FindMealPlan{UserID: &userID, DateFrom: &from, DateTo: &to})
	if err != nil {
		return nil, errors.Wrap(err, "fetch meal plans")
	}

	lists, err := a.domain.ListGroceryLists(ctx, &store.FindGroceryList{UserID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "fetch grocery lists")
	}
	if len(lists) > maxContextGroceryLists {
		lists = lists[:maxContextGroceryLists]
	}
	var groceryItems []*store.GroceryItem
	if len(lists) > 0 {
		ids := make([]string, 0, len(lists))
		for _, l := range lists {
			ids = append(ids, l.ID)
		}
		unchecked := false
		groceryItems, err = a.domain.ListGroceryItems(ctx, &store.FindGroceryItem{ListIDs: ids, IsChecked: &unchecked})
		if err != nil {
			return nil, errors.Wrap(err, "fetch grocery items")
		}
	}

	return &ContextBundle{
		Profile:      profile,
		Recipes:      recipes,
		PantryItems:  pantry,
		MealPlans:    meals,
		GroceryItems: groceryItems,
	}, nil
}

// BuildSystemPrompt renders the bundle into the system prompt. It is a pure
// function: the same bundle always yields byte-identical output. Sections are
// emitted in fixed order and only when their source list is non-empty; the
// allergy directive always comes first so it is the first thing the model
// reads.
func BuildSystemPrompt(bundle *ContextBundle) string {
	var b strings.Builder
	b.WriteString("You are a helpful cooking and meal planning assistant with the ability to take actions. Here's the context about the user:\n\n")

	if bundle.Profile != nil && len(bundle.Profile.Allergies) > 0 {
		b.WriteString("IMPORTANT: The user has the following allergies: ")
		b.WriteString(strings.Join(bundle.Profile.Allergies, ", "))
		b.WriteString(". Always consider these when suggesting recipes or ingredients.\n\n")
	}

	var favorites []*store.Recipe
	for _, r := range bundle.Recipes {
		if r.IsFavorite {
			favorites = append(favorites, r)
		}
	}
	if len(favorites) > 0 {
		b.WriteString("User's favorite recipes:\n")
		for i, r := range favorites {
			if i >= maxPromptRecipes {
				break
			}
			fmt.Fprintf(&b, "- %s\n", r.Title)
		}
		b.WriteString("\n")
	}

	if len(bundle.PantryItems) > 0 {
		b.WriteString("Items currently in pantry:\n")
		for i, item := range bundle.PantryItems {
			if i >= maxPromptPantryItems {
				break
			}
			fmt.Fprintf(&b, "- %s (%s %s)\n", item.Name, formatQuantity(item.Quantity), item.Unit)
		}
		b.WriteString("\n")
	}

	if len(bundle.MealPlans) > 0 {
		b.WriteString("Upcoming meals planned:\n")
		for i, meal := range bundle.MealPlans {
			if i >= maxPromptMeals {
				break
			}
			name := meal.MealName
			if name == "" {
				name = "Unnamed meal"
			}
			fmt.Fprintf(&b, "- %s %s: %s\n", formatMealDate(meal.Date), meal.MealType, name)
		}
		b.WriteString("\n")
	}

	if len(bundle.GroceryItems) > 0 {
		b.WriteString("Items on grocery list (need to buy):\n")
		for i, item := range bundle.GroceryItems {
			if i >= maxPromptGroceryItems {
				break
			}
			fmt.Fprintf(&b, "- %s (%s %s)\n", item.Name, formatQuantity(item.Quantity), item.Unit)
		}
		b.WriteString("\n")
	}

	b.WriteString("You can help with:\n")
	b.WriteString("- Meal suggestions based on what's in the pantry\n")
	b.WriteString("- Recipe recommendations\n")
	b.WriteString("- Cooking tips and substitutions\n")
	b.WriteString("- Nutritional information\n")
	b.WriteString("- Meal planning and grocery shopping advice\n\n")

	b.WriteString("IMPORTANT: You have access to tools that allow you to:\n")
	b.WriteString("- Add meals to the user's meal plan\n")
	b.WriteString("- Add items to the user's pantry (when they buy/have ingredients)\n")
	b.WriteString("- Add items to the user's grocery list (when they need to buy something)\n")
	b.WriteString("- Update the user's allergy information\n\n")

	b.WriteString("Be smart about context:\n")
	b.WriteString("- When suggesting recipes, check if ingredients are in the pantry or grocery list\n")
	b.WriteString("- If ingredients are missing, offer to add them to the grocery list\n")
	b.WriteString("- Consider upcoming meals when making suggestions\n")
	b.WriteString("- When user says \"I bought X\", add to pantry. When they say \"I need X\", add to grocery list\n\n")

	b.WriteString("Be friendly, concise, and helpful. Always remember the user's allergies.")

	return b.String()
}

// formatMealDate renders a YYYY-MM-DD date as "Sun, Nov 23". Unparseable
// dates pass through verbatim.
func formatMealDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Mon, Jan 2")
}

// formatQuantity renders quantities without a trailing ".0" for whole numbers.
func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", q), "0"), ".")
}
