package store

import "context"

// Profile is the per-user profile record. ID is the authenticated user id.
type Profile struct {
	ID        string   `json:"id"`
	FullName  string   `json:"full_name"`
	Allergies []string `json:"allergies"`
	UpdatedTs int64    `json:"updated_ts"`
}

// GetProfile returns the profile for userID, or nil when none exists yet.
func (s *Store) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	return s.driver.GetProfile(ctx, userID)
}

// UpsertProfile creates or replaces the profile row for upsert.ID.
func (s *Store) UpsertProfile(ctx context.Context, upsert *Profile) (*Profile, error) {
	return s.driver.UpsertProfile(ctx, upsert)
}
