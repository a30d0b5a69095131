package chat

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful/store"
)

func newTestEngine(domain *fakeDomain, model ModelClient) *Engine {
	conversations := NewConversations(newFakePersistence(), nil, nil)
	return NewEngine(domain, conversations, model, WithClock(fixedClock))
}

func TestProcessTurnPlainReply(t *testing.T) {
	model := &fakeModel{reply: &ModelReply{Text: "Try a stir fry tonight."}}
	engine := newTestEngine(newFakeDomain(), model)

	result, err := engine.ProcessTurn(context.Background(), "u1", "", "what should I cook?")
	require.NoError(t, err)
	require.NotEmpty(t, result.ConversationID)
	require.Equal(t, "what should I cook?", result.Title)
	require.Equal(t, store.RoleUser, result.UserMessage.Role)
	require.Equal(t, store.RoleAssistant, result.Assistant.Role)
	require.Equal(t, "Try a stir fry tonight.", result.Assistant.Content)
	require.Empty(t, result.Assistant.ToolInvocations)

	// The model saw the user message at the end of history and the catalog.
	require.Equal(t, 1, model.calls)
	require.Equal(t, "what should I cook?", model.lastHistory[len(model.lastHistory)-1].Content)
	require.Len(t, model.lastCatalog, len(CatalogNames()))
}

func TestProcessTurnExecutesToolsAndComposesReply(t *testing.T) {
	input, _ := json.Marshal(map[string]any{"date": "2025-11-24", "meal_type": "dinner", "meal_name": "Tacos"})
	model := &fakeModel{reply: &ModelReply{
		Text:            "Adding that now.",
		ToolInvocations: []store.ToolInvocation{{ID: "t1", Name: ToolAddMealPlan, Input: input}},
	}}
	domain := newFakeDomain()
	engine := newTestEngine(domain, model)

	result, err := engine.ProcessTurn(context.Background(), "u1", "", "plan tacos for tomorrow")
	require.NoError(t, err)
	require.Equal(t,
		"Adding that now.\n\n✅ Actions completed:\n• Successfully added Tacos to dinner on 2025-11-24",
		result.Assistant.Content)
	require.Len(t, result.Assistant.ToolInvocations, 1)
	require.Equal(t, 1, domain.createdMealPlans)
}

func TestProcessTurnDoneFallback(t *testing.T) {
	model := &fakeModel{reply: &ModelReply{Text: ""}}
	engine := newTestEngine(newFakeDomain(), model)

	result, err := engine.ProcessTurn(context.Background(), "u1", "", "hm")
	require.NoError(t, err)
	require.Equal(t, "Done!", result.Assistant.Content)
}

func TestProcessTurnRejectsEmptyMessage(t *testing.T) {
	model := &fakeModel{}
	engine := newTestEngine(newFakeDomain(), model)

	_, err := engine.ProcessTurn(context.Background(), "u1", "", "   \n\t")
	require.ErrorIs(t, err, ErrEmptyMessage)
	require.Zero(t, model.calls)
	require.Nil(t, engine.Conversations().Active("u1"))
}

func TestProcessTurnModelFailureKeepsUserMessage(t *testing.T) {
	model := &fakeModel{err: ErrModelAuth}
	engine := newTestEngine(newFakeDomain(), model)

	_, err := engine.ProcessTurn(context.Background(), "u1", "", "hello")
	require.ErrorIs(t, err, ErrModelAuth)

	// The user message was committed before the model call and stays.
	conv := engine.Conversations().Active("u1")
	require.NotNil(t, conv)
	require.Len(t, conv.Messages, 1)
	require.Equal(t, store.RoleUser, conv.Messages[0].Role)

	// The next turn works once the model recovers.
	model.err = nil
	model.reply = &ModelReply{Text: "hi"}
	result, err := engine.ProcessTurn(context.Background(), "u1", "", "hello again")
	require.NoError(t, err)
	require.Len(t, engine.Conversations().Active("u1").Messages, 3)
	require.Equal(t, "hi", result.Assistant.Content)
}

func TestProcessTurnRejectsConcurrentTurns(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	model := &blockingModel{release: release, started: started}
	engine := newTestEngine(newFakeDomain(), model)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := engine.ProcessTurn(context.Background(), "u1", "", "slow turn")
		require.NoError(t, err)
	}()

	<-started
	_, err := engine.ProcessTurn(context.Background(), "u1", "", "eager second turn")
	require.ErrorIs(t, err, ErrTurnInFlight)

	// A different user is unaffected.
	otherEngineCheck := make(chan error, 1)
	go func() {
		_, err := engine.ProcessTurn(context.Background(), "u2", "", "other user")
		otherEngineCheck <- err
	}()

	close(release)
	wg.Wait()
	require.NoError(t, <-otherEngineCheck)
}

// blockingModel blocks Complete until released, to hold a turn in flight.
type blockingModel struct {
	release <-chan struct{}
	started chan<- struct{}
	once    sync.Once
}

func (m *blockingModel) Complete(ctx context.Context, _ string, _ []store.Message, _ []ToolDefinition) (*ModelReply, error) {
	m.once.Do(func() { close(m.started) })
	select {
	case <-m.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &ModelReply{Text: "done"}, nil
}
