package store

import "context"

// Recipe is a saved recipe.
type Recipe struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsFavorite  bool   `json:"is_favorite"`
	CreatedTs   int64  `json:"created_ts"`
}

// FindRecipe filters for ListRecipes. Results are newest first.
type FindRecipe struct {
	UserID     *string
	IsFavorite *bool
}

func (s *Store) ListRecipes(ctx context.Context, find *FindRecipe) ([]*Recipe, error) {
	return s.driver.ListRecipes(ctx, find)
}

func (s *Store) CreateRecipe(ctx context.Context, create *Recipe) (*Recipe, error) {
	return s.driver.CreateRecipe(ctx, create)
}

func (s *Store) DeleteRecipe(ctx context.Context, id, userID string) error {
	return s.driver.DeleteRecipe(ctx, id, userID)
}
