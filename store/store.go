// Package store owns the persistent domain state: user profiles, recipes,
// pantry items, meal plans, grocery lists and chat conversations. It is a thin
// facade over a SQL driver so the rest of the application never sees dialect
// differences.
package store

import "context"

// Store is the database-backed domain store.
type Store struct {
	driver Driver
}

// New creates a Store over the given driver.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

// Migrate creates any missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.driver.Close()
}
