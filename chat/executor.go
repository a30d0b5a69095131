package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/tools"

	"github.com/forkful/forkful/store"
)

// Executor runs tool invocations against the domain store. Execution is
// strictly sequential in the order received: later invocations in the same
// turn may depend on the state left behind by earlier ones (a list created by
// one invocation is the target of the next). One invocation's failure never
// aborts its siblings.
type Executor struct {
	domain DomainStore
	now    func() time.Time
}

func NewExecutor(domain DomainStore, now func() time.Time) *Executor {
	if now == nil {
		now = time.Now
	}
	return &Executor{domain: domain, now: now}
}

// dispatch maps a tool name to its implementation for userID. The case set
// here and the catalog are the same closed set; the fallback exists only so a
// catalog/executor mismatch degrades to a visible result string instead of a
// crash.
func (e *Executor) dispatch(name, userID string) (tools.Tool, bool) {
	switch name {
	case ToolAddMealPlan:
		return newAddMealPlanTool(e.domain, userID, e.now), true
	case ToolAddPantryItem:
		return newAddPantryItemTool(e.domain, userID, e.now), true
	case ToolAddGroceryItem:
		return newAddGroceryItemTool(e.domain, userID, e.now), true
	case ToolUpdateAllergies:
		return newUpdateAllergiesTool(e.domain, userID, e.now), true
	default:
		return nil, false
	}
}

// ExecutableNames returns the names the executor can dispatch, in catalog
// order. Used to verify the catalog invariant.
func (e *Executor) ExecutableNames() []string {
	return []string{ToolAddMealPlan, ToolAddPantryItem, ToolAddGroceryItem, ToolUpdateAllergies}
}

// Execute processes the invocations in order and returns them with a result
// string attached to every one. Every invocation gets a result: success
// confirmation, "Error executing {name}: {message}" or "Unknown tool: {name}".
func (e *Executor) Execute(ctx context.Context, userID string, invocations []store.ToolInvocation) []store.ToolInvocation {
	executed := make([]store.ToolInvocation, len(invocations))
	for i, inv := range invocations {
		slog.Info("[TOOL CALL]", "tool", inv.Name, "input", string(inv.Input))

		tool, ok := e.dispatch(inv.Name, userID)
		if !ok {
			inv.Result = fmt.Sprintf("Unknown tool: %s", inv.Name)
			executed[i] = inv
			continue
		}

		result, err := tool.Call(ctx, string(inv.Input))
		if err != nil {
			result = fmt.Sprintf("Error executing %s: %s", inv.Name, err.Error())
		}
		slog.Info("[TOOL RESULT]", "tool", inv.Name, "result", result)
		inv.Result = result
		executed[i] = inv
	}
	return executed
}

// ComposeReply deterministically combines the model's own text with the
// action log: a "✅ Actions completed:" header followed by one bullet per
// invocation in original order, separated from non-empty text by a blank
// line. With no executed invocations the model text passes through unchanged.
func ComposeReply(modelText string, executed []store.ToolInvocation) string {
	if len(executed) == 0 {
		return modelText
	}
	var b strings.Builder
	if modelText != "" {
		b.WriteString(modelText)
		b.WriteString("\n\n")
	}
	b.WriteString("✅ Actions completed:\n")
	for i, inv := range executed {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %s", inv.Result)
	}
	return b.String()
}
