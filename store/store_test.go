package store_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful/store"
	"github.com/forkful/forkful/store/db/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	driver, err := sqlite.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	st := store.New(driver)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func strPtr(s string) *string { return &s }

func TestConversationRoundtrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	input, _ := json.Marshal(map[string]any{"name": "rice"})
	conv := &store.Conversation{
		ID:     "c1",
		UserID: "u1",
		Title:  "groceries",
		Messages: []store.Message{
			{ID: "m1", Role: store.RoleUser, Content: "I bought rice", Timestamp: time.Unix(1700000000, 0).UTC()},
			{ID: "m2", Role: store.RoleAssistant, Content: "Done!", Timestamp: time.Unix(1700000001, 0).UTC(),
				ToolInvocations: []store.ToolInvocation{{ID: "t1", Name: "add_pantry_item", Input: input, Result: "ok"}}},
		},
		UpdatedTs: 1700000001,
	}
	_, err := st.UpsertConversation(ctx, conv)
	require.NoError(t, err)

	got, err := st.GetConversation(ctx, &store.FindConversation{ID: strPtr("c1"), UserID: strPtr("u1")})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "groceries", got.Title)
	require.Len(t, got.Messages, 2)
	require.Equal(t, "add_pantry_item", got.Messages[1].ToolInvocations[0].Name)
	require.Equal(t, "ok", got.Messages[1].ToolInvocations[0].Result)

	// Upsert replaces the message list wholesale.
	conv.Messages = conv.Messages[:1]
	conv.Title = "shorter"
	_, err = st.UpsertConversation(ctx, conv)
	require.NoError(t, err)
	got, err = st.GetConversation(ctx, &store.FindConversation{ID: strPtr("c1")})
	require.NoError(t, err)
	require.Equal(t, "shorter", got.Title)
	require.Len(t, got.Messages, 1)

	// Other users never see it.
	other, err := st.GetConversation(ctx, &store.FindConversation{ID: strPtr("c1"), UserID: strPtr("u2")})
	require.NoError(t, err)
	require.Nil(t, other)

	require.NoError(t, st.DeleteConversation(ctx, "c1", "u1"))
	got, err = st.GetConversation(ctx, &store.FindConversation{ID: strPtr("c1")})
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestListConversationsNewestFirst(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"c1", "c2", "c3"} {
		_, err := st.UpsertConversation(ctx, &store.Conversation{
			ID: id, UserID: "u1", Title: id, UpdatedTs: int64(1700000000 + i),
		})
		require.NoError(t, err)
	}
	_, err := st.UpsertConversation(ctx, &store.Conversation{ID: "cx", UserID: "u2", UpdatedTs: 1800000000})
	require.NoError(t, err)

	convs, err := st.ListConversations(ctx, &store.FindConversation{UserID: strPtr("u1")})
	require.NoError(t, err)
	require.Len(t, convs, 3)
	require.Equal(t, "c3", convs[0].ID)
	require.Equal(t, "c1", convs[2].ID)
}

func TestProfileUpsert(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p, err := st.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, p)

	_, err = st.UpsertProfile(ctx, &store.Profile{ID: "u1", FullName: "Sam", Allergies: []string{"peanuts"}, UpdatedTs: 1})
	require.NoError(t, err)
	_, err = st.UpsertProfile(ctx, &store.Profile{ID: "u1", FullName: "Sam", Allergies: []string{"peanuts", "soy"}, UpdatedTs: 2})
	require.NoError(t, err)

	p, err = st.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"peanuts", "soy"}, p.Allergies)
	require.EqualValues(t, 2, p.UpdatedTs)
}

func TestMealPlanWindow(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i, date := range []string{"2025-11-10", "2025-11-20", "2025-12-01", "2025-12-10"} {
		_, err := st.CreateMealPlan(ctx, &store.MealPlan{
			ID: string(rune('a' + i)), UserID: "u1", Date: date, MealType: store.MealDinner,
			MealName: date, CreatedTs: int64(i),
		})
		require.NoError(t, err)
	}

	plans, err := st.ListMealPlans(ctx, &store.FindMealPlan{
		UserID:   strPtr("u1"),
		DateFrom: strPtr("2025-11-16"),
		DateTo:   strPtr("2025-12-07"),
	})
	require.NoError(t, err)
	require.Len(t, plans, 2)
	// Ordered by date ascending.
	require.Equal(t, "2025-11-20", plans[0].Date)
	require.Equal(t, "2025-12-01", plans[1].Date)
}

func TestGroceryItemsCheckedFilter(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	list, err := st.CreateGroceryList(ctx, &store.GroceryList{ID: "l1", UserID: "u1", Name: "weekly", CreatedTs: 1})
	require.NoError(t, err)

	_, err = st.CreateGroceryItem(ctx, &store.GroceryItem{ID: "i1", ListID: list.ID, Name: "milk", Quantity: 1, Unit: "gallon", CreatedTs: 1})
	require.NoError(t, err)
	_, err = st.CreateGroceryItem(ctx, &store.GroceryItem{ID: "i2", ListID: list.ID, Name: "eggs", Quantity: 12, Unit: "piece", CreatedTs: 2})
	require.NoError(t, err)

	checked := true
	item, err := st.UpdateGroceryItem(ctx, &store.UpdateGroceryItem{ID: "i1", IsChecked: &checked})
	require.NoError(t, err)
	require.True(t, item.IsChecked)

	unchecked := false
	items, err := st.ListGroceryItems(ctx, &store.FindGroceryItem{ListIDs: []string{list.ID}, IsChecked: &unchecked})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "eggs", items[0].Name)

	require.NoError(t, st.DeleteGroceryItem(ctx, "i2"))
	items, err = st.ListGroceryItems(ctx, &store.FindGroceryItem{ListID: strPtr(list.ID)})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "milk", items[0].Name)

	// Deleting the list cascades to its items.
	require.NoError(t, st.DeleteGroceryList(ctx, list.ID, "u1"))
	items, err = st.ListGroceryItems(ctx, &store.FindGroceryItem{ListID: strPtr(list.ID)})
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestRecipeFavoriteFilter(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.CreateRecipe(ctx, &store.Recipe{ID: "r1", UserID: "u1", Title: "Pad Thai", IsFavorite: true, CreatedTs: 1})
	require.NoError(t, err)
	_, err = st.CreateRecipe(ctx, &store.Recipe{ID: "r2", UserID: "u1", Title: "Oatmeal", CreatedTs: 2})
	require.NoError(t, err)

	fav := true
	recipes, err := st.ListRecipes(ctx, &store.FindRecipe{UserID: strPtr("u1"), IsFavorite: &fav})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	require.Equal(t, "Pad Thai", recipes[0].Title)
}
