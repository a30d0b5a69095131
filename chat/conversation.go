package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"

	"github.com/forkful/forkful/plugin/convcache"
	"github.com/forkful/forkful/store"
)

// maxTitleLength bounds the derived conversation title.
const maxTitleLength = 100

// persistTimeout bounds one background save.
const persistTimeout = 10 * time.Second

// Conversations owns the message list for each user's active conversation.
// The in-memory copy is the source of truth for the session; the local cache
// and the durable store trail behind it. Loads never hard-fail: any miss or
// backend failure degrades to an empty conversation. Persistence is
// best-effort and asynchronous, serialized per conversation, always writing
// the full message list (last write wins).
type Conversations struct {
	persist ConversationPersistence
	cache   *convcache.Cache // optional
	now     func() time.Time

	mu     sync.Mutex
	active map[string]*store.Conversation
	saves  map[string]*pendingSave
	wg     sync.WaitGroup
}

// pendingSave serializes saves for one conversation. Entries live in
// Conversations.saves only while saves are in flight; the last save to finish
// removes the entry.
type pendingSave struct {
	mu      sync.Mutex
	pending int
}

// NewConversations builds the store. cache may be nil; now defaults to
// time.Now.
func NewConversations(persist ConversationPersistence, cache *convcache.Cache, now func() time.Time) *Conversations {
	if now == nil {
		now = time.Now
	}
	return &Conversations{
		persist: persist,
		cache:   cache,
		now:     now,
		active:  make(map[string]*store.Conversation),
		saves:   make(map[string]*pendingSave),
	}
}

// DeriveTitle returns the conversation title for its first user message: the
// first 100 characters, rune-safe. Computed once; immutable thereafter.
func DeriveTitle(firstUserMessage string) string {
	runes := []rune(firstUserMessage)
	if len(runes) > maxTitleLength {
		runes = runes[:maxTitleLength]
	}
	return string(runes)
}

// Load makes the given conversation active for userID and returns it. With no
// id and no locally cached id it returns a fresh empty conversation without
// touching the network. A stored id that cannot be fetched degrades to the
// local snapshot, then to an empty conversation.
func (c *Conversations) Load(ctx context.Context, userID, conversationID string) *store.Conversation {
	if conversationID == "" && c.cache != nil {
		if id, err := c.cache.ActiveConversationID(userID); err == nil {
			conversationID = id
		} else {
			slog.Warn("failed to read active conversation id", "err", err)
		}
	}
	if conversationID == "" {
		conv := &store.Conversation{UserID: userID}
		c.setActive(userID, conv)
		return conv
	}

	conv, err := c.persist.GetConversation(ctx, &store.FindConversation{ID: &conversationID, UserID: &userID})
	if err != nil {
		slog.Warn("failed to load conversation, falling back to local copy", "conversation", conversationID, "err", err)
		conv = nil
	}
	if conv == nil && c.cache != nil {
		snapshot, err := c.cache.LoadSnapshot(userID, conversationID)
		if err != nil {
			slog.Warn("failed to load conversation snapshot", "conversation", conversationID, "err", err)
		} else {
			conv = snapshot
		}
	}
	if conv == nil {
		conv = &store.Conversation{UserID: userID}
		c.setActive(userID, conv)
		return conv
	}
	c.Activate(userID, conv)
	return conv
}

// Activate makes an already-fetched conversation the active one for userID and
// refreshes the local cache. Callers that hold the conversation use this
// instead of Load to avoid a second fetch.
func (c *Conversations) Activate(userID string, conv *store.Conversation) {
	if c.cache != nil && conv.ID != "" {
		if err := c.cache.SetActiveConversationID(userID, conv.ID); err != nil {
			slog.Warn("failed to cache active conversation id", "err", err)
		}
		if err := c.cache.SaveSnapshot(userID, conv); err != nil {
			slog.Warn("failed to cache conversation snapshot", "err", err)
		}
	}
	c.setActive(userID, conv)
}

// Active returns the in-memory active conversation for userID, or nil.
func (c *Conversations) Active(userID string) *store.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active[userID]
}

// Append adds msg to the user's active conversation, assigning the message id
// and a monotonically non-decreasing timestamp, then kicks off a background
// save of the full message list. The in-memory copy is updated before any IO:
// the caller sees the message even when every save fails.
func (c *Conversations) Append(userID string, msg store.Message) *store.Conversation {
	c.mu.Lock()
	conv := c.active[userID]
	if conv == nil {
		conv = &store.Conversation{UserID: userID}
		c.active[userID] = conv
	}
	if conv.ID == "" {
		conv.ID = uuid.NewString()
		if c.cache != nil {
			if err := c.cache.SetActiveConversationID(userID, conv.ID); err != nil {
				slog.Warn("failed to cache active conversation id", "err", err)
			}
		}
	}

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = c.now()
	}
	if n := len(conv.Messages); n > 0 && conv.Messages[n-1].Timestamp.After(ts) {
		ts = conv.Messages[n-1].Timestamp
	}
	msg.Timestamp = ts
	if msg.ID == "" {
		msg.ID = newMessageID(ts)
	}
	if conv.Title == "" && msg.Role == store.RoleUser {
		conv.Title = DeriveTitle(msg.Content)
	}

	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedTs = c.now().Unix()
	snapshot := cloneConversation(conv)
	saver := c.saves[conv.ID]
	if saver == nil {
		saver = &pendingSave{}
		c.saves[conv.ID] = saver
	}
	saver.pending++
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.SaveSnapshot(userID, snapshot); err != nil {
			slog.Warn("failed to cache conversation snapshot", "err", err)
		}
	}

	c.wg.Add(1)
	go c.persistConversation(userID, snapshot, saver)
	return snapshot
}

// Clear resets the user's in-memory state and drops the local reference.
// Server-side history is untouched: this is "new chat", not deletion.
func (c *Conversations) Clear(userID string) {
	c.mu.Lock()
	delete(c.active, userID)
	c.mu.Unlock()
	if c.cache != nil {
		if err := c.cache.ClearActive(userID); err != nil {
			slog.Warn("failed to clear cached conversation", "err", err)
		}
	}
}

// Flush blocks until all pending background saves finish. Used on shutdown
// and by tests.
func (c *Conversations) Flush() {
	c.wg.Wait()
}

// persistConversation writes the full message list. Saves for the same
// conversation are mutually exclusive, and each save re-reads the current
// in-memory list right before writing: goroutine scheduling order does not
// matter, because a save that runs late still writes the list as it is now,
// never the shorter one captured at append time. The snapshot is only the
// fallback for when the conversation was cleared before the save ran.
func (c *Conversations) persistConversation(userID string, snapshot *store.Conversation, saver *pendingSave) {
	defer c.wg.Done()

	saver.mu.Lock()
	c.mu.Lock()
	payload := snapshot
	if cur := c.active[userID]; cur != nil && cur.ID == snapshot.ID {
		payload = cloneConversation(cur)
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	if _, err := c.persist.UpsertConversation(ctx, payload); err != nil {
		slog.Warn("failed to persist conversation", "conversation", payload.ID, "err", err)
	}
	cancel()
	saver.mu.Unlock()

	c.mu.Lock()
	saver.pending--
	if saver.pending == 0 {
		delete(c.saves, snapshot.ID)
	}
	c.mu.Unlock()
}

func (c *Conversations) setActive(userID string, conv *store.Conversation) {
	c.mu.Lock()
	c.active[userID] = conv
	c.mu.Unlock()
}

// newMessageID yields ids that sort in creation order: a millisecond
// timestamp prefix plus a short random suffix for uniqueness.
func newMessageID(ts time.Time) string {
	return fmt.Sprintf("%013d-%s", ts.UnixMilli(), shortuuid.New())
}

func cloneConversation(conv *store.Conversation) *store.Conversation {
	clone := *conv
	clone.Messages = make([]store.Message, len(conv.Messages))
	copy(clone.Messages, conv.Messages)
	return &clone
}
