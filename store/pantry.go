package store

import "context"

// PantryItem is an ingredient the user currently has.
type PantryItem struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	Category   string  `json:"category,omitempty"`
	ExpiryDate string  `json:"expiry_date,omitempty"` // YYYY-MM-DD, empty when unknown
	CreatedTs  int64   `json:"created_ts"`
}

// FindPantryItem filters for ListPantryItems. Results are newest first.
type FindPantryItem struct {
	UserID *string
}

func (s *Store) ListPantryItems(ctx context.Context, find *FindPantryItem) ([]*PantryItem, error) {
	return s.driver.ListPantryItems(ctx, find)
}

func (s *Store) CreatePantryItem(ctx context.Context, create *PantryItem) (*PantryItem, error) {
	return s.driver.CreatePantryItem(ctx, create)
}

func (s *Store) DeletePantryItem(ctx context.Context, id, userID string) error {
	return s.driver.DeletePantryItem(ctx, id, userID)
}
