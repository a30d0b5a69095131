package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful/plugin/convcache"
	"github.com/forkful/forkful/store"
)

func newTestCache(t *testing.T) *convcache.Cache {
	t.Helper()
	cache, err := convcache.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestLoadEmptyWithoutID(t *testing.T) {
	persist := newFakePersistence()
	conversations := NewConversations(persist, nil, nil)

	conv := conversations.Load(context.Background(), "u1", "")
	require.NotNil(t, conv)
	require.Empty(t, conv.ID)
	require.Empty(t, conv.Messages)
	require.Equal(t, "u1", conv.UserID)
}

func TestLoadDegradesToEmptyOnFailure(t *testing.T) {
	persist := newFakePersistence()
	persist.getErr = errors.New("connection refused")
	conversations := NewConversations(persist, nil, nil)

	conv := conversations.Load(context.Background(), "u1", "c1")
	require.NotNil(t, conv)
	require.Empty(t, conv.Messages)
}

func TestLoadFallsBackToCachedSnapshot(t *testing.T) {
	cache := newTestCache(t)
	persist := newFakePersistence()
	conversations := NewConversations(persist, cache, nil)

	// First append goes through the cache.
	conv := conversations.Append("u1", store.Message{Role: store.RoleUser, Content: "hello"})
	conversations.Flush()

	// Backend dies; a fresh store must still recover the local copy.
	persist.getErr = errors.New("connection refused")
	fresh := NewConversations(persist, cache, nil)
	loaded := fresh.Load(context.Background(), "u1", "")
	require.Equal(t, conv.ID, loaded.ID)
	require.Len(t, loaded.Messages, 1)
	require.Equal(t, "hello", loaded.Messages[0].Content)
}

func TestAppendAssignsIDsAndPersists(t *testing.T) {
	persist := newFakePersistence()
	conversations := NewConversations(persist, nil, nil)

	conv := conversations.Append("u1", store.Message{Role: store.RoleUser, Content: "plan my week"})
	require.NotEmpty(t, conv.ID)
	require.Len(t, conv.Messages, 1)
	require.NotEmpty(t, conv.Messages[0].ID)
	require.False(t, conv.Messages[0].Timestamp.IsZero())

	conv = conversations.Append("u1", store.Message{Role: store.RoleAssistant, Content: "sure"})
	require.Len(t, conv.Messages, 2)
	require.True(t, conv.Messages[0].ID < conv.Messages[1].ID ||
		!conv.Messages[1].Timestamp.Before(conv.Messages[0].Timestamp))

	conversations.Flush()
	stored, err := persist.GetConversation(context.Background(), &store.FindConversation{ID: &conv.ID, UserID: strPtr("u1")})
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, stored.Messages, 2)
}

func TestAppendSurvivesPersistenceFailure(t *testing.T) {
	persist := newFakePersistence()
	persist.upsertErr = errors.New("disk full")
	conversations := NewConversations(persist, nil, nil)

	conv := conversations.Append("u1", store.Message{Role: store.RoleUser, Content: "hello"})
	conversations.Flush()

	// Message stays visible in memory even though every save failed.
	require.Len(t, conversations.Active("u1").Messages, 1)
	require.Equal(t, conv.ID, conversations.Active("u1").ID)
}

func TestFlushedStoreHoldsFullMessageList(t *testing.T) {
	// Background saves may be scheduled in any order; whichever runs last must
	// still write the complete current list, never the shorter one captured at
	// append time. Iterate to give the scheduler room to reorder.
	for i := 0; i < 50; i++ {
		persist := newFakePersistence()
		conversations := NewConversations(persist, nil, nil)

		conv := conversations.Append("u1", store.Message{Role: store.RoleUser, Content: "add milk"})
		conversations.Append("u1", store.Message{Role: store.RoleAssistant, Content: "Done!"})
		conversations.Flush()

		stored, err := persist.GetConversation(context.Background(), &store.FindConversation{ID: &conv.ID, UserID: strPtr("u1")})
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.Len(t, stored.Messages, 2, "a stale save overwrote the newer list")
		require.Equal(t, store.RoleAssistant, stored.Messages[1].Role)
	}
}

func TestNoPendingSaveStateAfterFlush(t *testing.T) {
	conversations := NewConversations(newFakePersistence(), nil, nil)
	for i := 0; i < 5; i++ {
		conversations.Append("u1", store.Message{Role: store.RoleUser, Content: "hi"})
	}
	conversations.Append("u2", store.Message{Role: store.RoleUser, Content: "hello"})
	conversations.Flush()

	conversations.mu.Lock()
	defer conversations.mu.Unlock()
	require.Empty(t, conversations.saves)
}

func TestAppendMonotonicTimestamps(t *testing.T) {
	times := []time.Time{
		time.Date(2025, 11, 23, 10, 0, 5, 0, time.UTC),
		time.Date(2025, 11, 23, 10, 0, 5, 0, time.UTC),
		time.Date(2025, 11, 23, 10, 0, 1, 0, time.UTC), // clock went backwards
	}
	i := 0
	clock := func() time.Time {
		t := times[i%len(times)]
		i++
		return t
	}
	conversations := NewConversations(newFakePersistence(), nil, clock)

	conversations.Append("u1", store.Message{Role: store.RoleUser, Content: "a"})
	conv := conversations.Append("u1", store.Message{Role: store.RoleAssistant, Content: "b"})

	first := conv.Messages[0].Timestamp
	second := conv.Messages[1].Timestamp
	require.False(t, second.Before(first))
}

func TestDeriveTitle(t *testing.T) {
	require.Equal(t, "hello", DeriveTitle("hello"))

	long := strings.Repeat("a", 150)
	require.Len(t, DeriveTitle(long), 100)

	// Rune-safe: multibyte characters are never split.
	multibyte := strings.Repeat("é", 120)
	title := DeriveTitle(multibyte)
	require.Equal(t, 100, len([]rune(title)))
	require.True(t, strings.HasSuffix(title, "é"))
}

func TestTitleSetOnceFromFirstUserMessage(t *testing.T) {
	conversations := NewConversations(newFakePersistence(), nil, nil)

	conv := conversations.Append("u1", store.Message{Role: store.RoleUser, Content: "first message"})
	require.Equal(t, "first message", conv.Title)

	conv = conversations.Append("u1", store.Message{Role: store.RoleUser, Content: "second message"})
	require.Equal(t, "first message", conv.Title)
}

func TestClearDropsLocalStateOnly(t *testing.T) {
	cache := newTestCache(t)
	persist := newFakePersistence()
	conversations := NewConversations(persist, cache, nil)

	conv := conversations.Append("u1", store.Message{Role: store.RoleUser, Content: "hello"})
	conversations.Flush()
	conversations.Clear("u1")

	require.Nil(t, conversations.Active("u1"))
	id, err := cache.ActiveConversationID("u1")
	require.NoError(t, err)
	require.Empty(t, id)

	// Persisted history is untouched.
	stored, err := persist.GetConversation(context.Background(), &store.FindConversation{ID: &conv.ID, UserID: strPtr("u1")})
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func strPtr(s string) *string { return &s }
