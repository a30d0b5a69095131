// Package chat is the tool-calling conversation engine: it turns one user
// message plus the user's current domain state into a grounded assistant
// reply and a set of executed, auditable side effects. The engine owns prompt
// assembly, the model invocation protocol, sequential tool execution and the
// per-turn state machine; domain CRUD and transport live elsewhere.
package chat

import (
	"context"

	"github.com/forkful/forkful/store"
)

// DomainStore is the slice of the domain store the engine reads for context
// and mutates through tool execution. *store.Store satisfies it; tests use
// in-memory fakes.
type DomainStore interface {
	GetProfile(ctx context.Context, userID string) (*store.Profile, error)
	UpsertProfile(ctx context.Context, upsert *store.Profile) (*store.Profile, error)
	ListRecipes(ctx context.Context, find *store.FindRecipe) ([]*store.Recipe, error)
	ListPantryItems(ctx context.Context, find *store.FindPantryItem) ([]*store.PantryItem, error)
	CreatePantryItem(ctx context.Context, create *store.PantryItem) (*store.PantryItem, error)
	ListMealPlans(ctx context.Context, find *store.FindMealPlan) ([]*store.MealPlan, error)
	CreateMealPlan(ctx context.Context, create *store.MealPlan) (*store.MealPlan, error)
	ListGroceryLists(ctx context.Context, find *store.FindGroceryList) ([]*store.GroceryList, error)
	CreateGroceryList(ctx context.Context, create *store.GroceryList) (*store.GroceryList, error)
	ListGroceryItems(ctx context.Context, find *store.FindGroceryItem) ([]*store.GroceryItem, error)
	CreateGroceryItem(ctx context.Context, create *store.GroceryItem) (*store.GroceryItem, error)
}

// ConversationPersistence is the durable backend for conversations.
// *store.Store satisfies it.
type ConversationPersistence interface {
	UpsertConversation(ctx context.Context, upsert *store.Conversation) (*store.Conversation, error)
	GetConversation(ctx context.Context, find *store.FindConversation) (*store.Conversation, error)
}
