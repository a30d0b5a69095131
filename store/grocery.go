package store

import "context"

// GroceryList is a named shopping list.
type GroceryList struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	CreatedTs int64  `json:"created_ts"`
}

// FindGroceryList filters for ListGroceryLists. Results are newest first, so
// the first element is the most recently created list.
type FindGroceryList struct {
	UserID *string
}

// GroceryItem is one line on a grocery list.
type GroceryItem struct {
	ID        string  `json:"id"`
	ListID    string  `json:"list_id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Category  string  `json:"category,omitempty"`
	IsChecked bool    `json:"is_checked"`
	CreatedTs int64   `json:"created_ts"`
}

// FindGroceryItem filters for ListGroceryItems. ListIDs restricts to a set of
// lists; IsChecked filters by checked state when set.
type FindGroceryItem struct {
	ListID    *string
	ListIDs   []string
	IsChecked *bool
}

// UpdateGroceryItem carries the mutable fields of a grocery item.
type UpdateGroceryItem struct {
	ID        string
	IsChecked *bool
}

func (s *Store) ListGroceryLists(ctx context.Context, find *FindGroceryList) ([]*GroceryList, error) {
	return s.driver.ListGroceryLists(ctx, find)
}

func (s *Store) CreateGroceryList(ctx context.Context, create *GroceryList) (*GroceryList, error) {
	return s.driver.CreateGroceryList(ctx, create)
}

func (s *Store) DeleteGroceryList(ctx context.Context, id, userID string) error {
	return s.driver.DeleteGroceryList(ctx, id, userID)
}

func (s *Store) ListGroceryItems(ctx context.Context, find *FindGroceryItem) ([]*GroceryItem, error) {
	return s.driver.ListGroceryItems(ctx, find)
}

func (s *Store) CreateGroceryItem(ctx context.Context, create *GroceryItem) (*GroceryItem, error) {
	return s.driver.CreateGroceryItem(ctx, create)
}

func (s *Store) UpdateGroceryItem(ctx context.Context, update *UpdateGroceryItem) (*GroceryItem, error) {
	return s.driver.UpdateGroceryItem(ctx, update)
}

func (s *Store) DeleteGroceryItem(ctx context.Context, id string) error {
	return s.driver.DeleteGroceryItem(ctx, id)
}
