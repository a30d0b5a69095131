package chat

import "errors"

// Turn-boundary errors. These abort the turn and are surfaced to the caller
// as a single user-facing failure; the user's own message is never rolled
// back. Failures inside the tool loop are not errors at this level — they are
// folded into per-invocation result strings.
var (
	// ErrEmptyMessage is returned when the submitted text is empty or
	// whitespace only.
	ErrEmptyMessage = errors.New("message is required")

	// ErrTurnInFlight is returned when a turn is already being processed for
	// the same user; the submission is rejected, not queued.
	ErrTurnInFlight = errors.New("a turn is already in progress")

	// ErrModelNotConfigured means the completion API credential is missing.
	// The message names the configuration, never the credential value.
	ErrModelNotConfigured = errors.New("model API key is not configured (set ANTHROPIC_API_KEY)")

	// ErrModelAuth means the completion API rejected the credential. Fatal
	// for the turn; retrying without operator intervention cannot help.
	ErrModelAuth = errors.New("model API rejected the configured credential")

	// ErrModelUnavailable covers network failures and transient service
	// errors from the completion API. The turn can be retried by re-sending.
	ErrModelUnavailable = errors.New("model service is unavailable")
)
