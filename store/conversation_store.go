package store

import "context"

// UpsertConversation writes the conversation, replacing the stored message
// list wholesale. Last full-list write wins.
func (s *Store) UpsertConversation(ctx context.Context, upsert *Conversation) (*Conversation, error) {
	return s.driver.UpsertConversation(ctx, upsert)
}

// GetConversation returns the first conversation matching the filter, or nil.
func (s *Store) GetConversation(ctx context.Context, find *FindConversation) (*Conversation, error) {
	return s.driver.GetConversation(ctx, find)
}

// ListConversations lists conversations matching the filter, newest first.
func (s *Store) ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error) {
	return s.driver.ListConversations(ctx, find)
}

// DeleteConversation deletes a conversation owned by userID.
func (s *Store) DeleteConversation(ctx context.Context, id, userID string) error {
	return s.driver.DeleteConversation(ctx, id, userID)
}
