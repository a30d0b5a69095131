package store

import "context"

// Driver is the contract every SQL backend implements. The facade methods on
// Store delegate 1:1; dialect-specific SQL lives behind this interface.
type Driver interface {
	Migrate(ctx context.Context) error
	Close() error

	// Conversations are persisted as a whole: the full message list is written
	// on every update (last write wins, single owner per conversation).
	UpsertConversation(ctx context.Context, upsert *Conversation) (*Conversation, error)
	GetConversation(ctx context.Context, find *FindConversation) (*Conversation, error)
	ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error)
	DeleteConversation(ctx context.Context, id, userID string) error

	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpsertProfile(ctx context.Context, upsert *Profile) (*Profile, error)

	ListRecipes(ctx context.Context, find *FindRecipe) ([]*Recipe, error)
	CreateRecipe(ctx context.Context, create *Recipe) (*Recipe, error)
	DeleteRecipe(ctx context.Context, id, userID string) error

	ListPantryItems(ctx context.Context, find *FindPantryItem) ([]*PantryItem, error)
	CreatePantryItem(ctx context.Context, create *PantryItem) (*PantryItem, error)
	DeletePantryItem(ctx context.Context, id, userID string) error

	ListMealPlans(ctx context.Context, find *FindMealPlan) ([]*MealPlan, error)
	CreateMealPlan(ctx context.Context, create *MealPlan) (*MealPlan, error)
	DeleteMealPlan(ctx context.Context, id, userID string) error

	ListGroceryLists(ctx context.Context, find *FindGroceryList) ([]*GroceryList, error)
	CreateGroceryList(ctx context.Context, create *GroceryList) (*GroceryList, error)
	DeleteGroceryList(ctx context.Context, id, userID string) error

	ListGroceryItems(ctx context.Context, find *FindGroceryItem) ([]*GroceryItem, error)
	CreateGroceryItem(ctx context.Context, create *GroceryItem) (*GroceryItem, error)
	UpdateGroceryItem(ctx context.Context, update *UpdateGroceryItem) (*GroceryItem, error)
	DeleteGroceryItem(ctx context.Context, id string) error
}
