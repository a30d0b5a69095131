package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful/store"
)

func TestBuildSystemPromptDeterministic(t *testing.T) {
	bundle := &ContextBundle{
		Profile: &store.Profile{ID: "u1", Allergies: []string{"peanuts", "shellfish"}},
		Recipes: []*store.Recipe{
			{Title: "Pad Thai", IsFavorite: true},
			{Title: "Oatmeal", IsFavorite: false},
		},
		PantryItems: []*store.PantryItem{
			{Name: "rice", Quantity: 2, Unit: "cups"},
		},
		MealPlans: []*store.MealPlan{
			{Date: "2025-11-23", MealType: store.MealDinner, MealName: "Tacos"},
		},
		GroceryItems: []*store.GroceryItem{
			{Name: "milk", Quantity: 1, Unit: "gallon"},
		},
	}

	first := BuildSystemPrompt(bundle)
	second := BuildSystemPrompt(bundle)
	require.Equal(t, first, second)

	require.True(t, strings.HasPrefix(first, "You are a helpful cooking and meal planning assistant"))
	require.Contains(t, first, "IMPORTANT: The user has the following allergies: peanuts, shellfish.")
	require.Contains(t, first, "- Pad Thai\n")
	require.NotContains(t, first, "Oatmeal")
	require.Contains(t, first, "- rice (2 cups)\n")
	require.Contains(t, first, "- Sun, Nov 23 dinner: Tacos\n")
	require.Contains(t, first, "- milk (1 gallon)\n")

	// Section order is fixed: allergies, favorites, pantry, meals, grocery.
	allergyIdx := strings.Index(first, "allergies:")
	favIdx := strings.Index(first, "favorite recipes:")
	pantryIdx := strings.Index(first, "in pantry:")
	mealIdx := strings.Index(first, "meals planned:")
	groceryIdx := strings.Index(first, "grocery list")
	require.True(t, allergyIdx < favIdx && favIdx < pantryIdx && pantryIdx < mealIdx && mealIdx < groceryIdx)
}

func TestBuildSystemPromptOmitsEmptySections(t *testing.T) {
	prompt := BuildSystemPrompt(&ContextBundle{})
	require.NotContains(t, prompt, "allergies:")
	require.NotContains(t, prompt, "favorite recipes")
	require.NotContains(t, prompt, "in pantry")
	require.NotContains(t, prompt, "meals planned")
	require.NotContains(t, prompt, "Items on grocery list")
	require.Contains(t, prompt, "You can help with:")
}

func TestBuildSystemPromptTruncatesPreservingOrder(t *testing.T) {
	bundle := &ContextBundle{}
	for i := 0; i < 20; i++ {
		bundle.PantryItems = append(bundle.PantryItems, &store.PantryItem{
			Name: fmt.Sprintf("item-%02d", i), Quantity: 1, Unit: "piece",
		})
	}

	prompt := BuildSystemPrompt(bundle)
	require.Contains(t, prompt, "item-00")
	require.Contains(t, prompt, "item-14")
	require.NotContains(t, prompt, "item-15")
	require.NotContains(t, prompt, "item-19")

	// First 15 in original order.
	last := -1
	for i := 0; i < 15; i++ {
		idx := strings.Index(prompt, fmt.Sprintf("item-%02d", i))
		require.Greater(t, idx, last)
		last = idx
	}
}

func TestBuildSystemPromptUnnamedMeal(t *testing.T) {
	prompt := BuildSystemPrompt(&ContextBundle{
		MealPlans: []*store.MealPlan{{Date: "2025-11-24", MealType: store.MealLunch}},
	})
	require.Contains(t, prompt, "- Mon, Nov 24 lunch: Unnamed meal\n")
}

func TestFetchBundleWindowAndGroceryFilter(t *testing.T) {
	userID := "u1"
	domain := newFakeDomain()
	today := time.Date(2025, 11, 23, 12, 0, 0, 0, time.UTC)

	domain.meals = []*store.MealPlan{
		{UserID: userID, Date: "2025-11-15", MealName: "too old"},
		{UserID: userID, Date: "2025-11-16", MealName: "window start"},
		{UserID: userID, Date: "2025-12-07", MealName: "window end"},
		{UserID: userID, Date: "2025-12-08", MealName: "too far"},
	}
	for i := 0; i < 7; i++ {
		domain.lists = append(domain.lists, &store.GroceryList{ID: fmt.Sprintf("l%d", i), UserID: userID})
	}
	domain.items = []*store.GroceryItem{
		{ID: "i1", ListID: "l6", Name: "unchecked newest"},
		{ID: "i2", ListID: "l6", Name: "checked", IsChecked: true},
		{ID: "i3", ListID: "l0", Name: "old list item"},
	}

	bundle, err := NewAssembler(domain).FetchBundle(context.Background(), userID, today)
	require.NoError(t, err)

	var names []string
	for _, m := range bundle.MealPlans {
		names = append(names, m.MealName)
	}
	require.Equal(t, []string{"window start", "window end"}, names)

	// Only unchecked items from the five most recent lists (l6..l2).
	require.Len(t, bundle.GroceryItems, 1)
	require.Equal(t, "unchecked newest", bundle.GroceryItems[0].Name)
}

func TestFormatQuantity(t *testing.T) {
	require.Equal(t, "2", formatQuantity(2))
	require.Equal(t, "0.5", formatQuantity(0.5))
	require.Equal(t, "1.25", formatQuantity(1.25))
	require.Equal(t, "3", formatQuantity(3.0))
}
