package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/forkful/forkful/store"
)

// defaultModelTimeout bounds one model invocation within a turn.
const defaultModelTimeout = 45 * time.Second

// TurnResult is the outcome of one completed turn.
type TurnResult struct {
	ConversationID string
	Title          string
	UserMessage    store.Message
	Assistant      store.Message
}

// Engine drives one turn end to end: append the user message, assemble the
// context snapshot, invoke the model once, execute every requested tool
// invocation in order, compose the reply and append it. One turn per user at
// a time; concurrent submissions are rejected, not queued. There is no
// feedback loop: tool results are composed into the reply, never fed back to
// the model within the same turn.
type Engine struct {
	assembler     *Assembler
	model         ModelClient
	executor      *Executor
	conversations *Conversations
	now           func() time.Time
	modelTimeout  time.Duration

	mu       sync.Mutex
	inFlight map[string]bool
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithModelTimeout overrides the per-invocation model timeout.
func WithModelTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.modelTimeout = d
		}
	}
}

// WithClock overrides the engine clock. Used by tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine wires the turn pipeline over the given stores and model client.
func NewEngine(domain DomainStore, conversations *Conversations, model ModelClient, opts ...EngineOption) *Engine {
	e := &Engine{
		assembler:     NewAssembler(domain),
		model:         model,
		conversations: conversations,
		now:           time.Now,
		modelTimeout:  defaultModelTimeout,
		inFlight:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.executor = NewExecutor(domain, e.now)
	return e
}

// Conversations exposes the engine's conversation store for callers that
// list, load or clear conversations outside of a turn.
func (e *Engine) Conversations() *Conversations {
	return e.conversations
}

// ProcessTurn runs one turn for userID. conversationID may be empty: the
// active (or a fresh) conversation is used. The user message is committed
// before the model is invoked and survives any later failure; an assistant
// message is appended only when the turn completes.
func (e *Engine) ProcessTurn(ctx context.Context, userID, conversationID, text string) (*TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if !e.beginTurn(userID) {
		return nil, ErrTurnInFlight
	}
	defer e.endTurn(userID)

	conv := e.conversations.Load(ctx, userID, conversationID)
	slog.Info("[TURN START]", "user", userID, "conversation", conv.ID, "messages", len(conv.Messages))

	conv = e.conversations.Append(userID, store.Message{
		Role:    store.RoleUser,
		Content: text,
	})
	userMsg := conv.Messages[len(conv.Messages)-1]

	bundle, err := e.assembler.FetchBundle(ctx, userID, e.now())
	if err != nil {
		return nil, err
	}
	systemPrompt := BuildSystemPrompt(bundle)

	modelCtx, cancel := context.WithTimeout(ctx, e.modelTimeout)
	defer cancel()
	reply, err := e.model.Complete(modelCtx, systemPrompt, conv.Messages, Catalog())
	if err != nil {
		slog.Warn("[TURN ABORT]", "user", userID, "conversation", conv.ID, "err", err)
		return nil, err
	}

	executed := e.executor.Execute(ctx, userID, reply.ToolInvocations)

	content := ComposeReply(reply.Text, executed)
	if content == "" {
		content = "Done!"
	}

	conv = e.conversations.Append(userID, store.Message{
		Role:            store.RoleAssistant,
		Content:         content,
		ToolInvocations: executed,
	})
	assistant := conv.Messages[len(conv.Messages)-1]
	slog.Info("[TURN DONE]", "user", userID, "conversation", conv.ID, "tools", len(executed))

	return &TurnResult{
		ConversationID: conv.ID,
		Title:          conv.Title,
		UserMessage:    userMsg,
		Assistant:      assistant,
	}, nil
}

func (e *Engine) beginTurn(userID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inFlight[userID] {
		return false
	}
	e.inFlight[userID] = true
	return true
}

func (e *Engine) endTurn(userID string) {
	e.mu.Lock()
	delete(e.inFlight, userID)
	e.mu.Unlock()
}
