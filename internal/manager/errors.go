package manager

import "fmt"

// voiceNotFoundError signals that neither the requested agent nor the catalog
// default resolves to a cached voice prompt. Effectively a caller input
// problem, so the HTTP layer maps it to 400.
type voiceNotFoundError struct{ agent string }

func (e voiceNotFoundError) Error() string {
	return fmt.Sprintf("no voice prompt available for %q or default", e.agent)
}

// ErrVoiceNotFound constructs a voiceNotFoundError.
func ErrVoiceNotFound(agent string) error { return voiceNotFoundError{agent: agent} }

// IsVoiceNotFound reports whether err indicates an unresolvable voice.
func IsVoiceNotFound(err error) bool {
	_, ok := err.(voiceNotFoundError)
	return ok
}

// voiceConflictError signals a duplicate agent name on voice creation (409).
type voiceConflictError struct{ agent string }

func (e voiceConflictError) Error() string {
	return fmt.Sprintf("voice for agent %q already exists", e.agent)
}

// ErrVoiceConflict constructs a voiceConflictError.
func ErrVoiceConflict(agent string) error { return voiceConflictError{agent: agent} }

// IsVoiceConflict reports whether err indicates a duplicate agent name.
func IsVoiceConflict(err error) bool {
	_, ok := err.(voiceConflictError)
	return ok
}

// modelNotReadyError signals that a required model reference is absent.
// Should not occur after a successful Startup.
type modelNotReadyError struct{ model string }

func (e modelNotReadyError) Error() string { return e.model + " model not loaded" }

// ErrModelNotReady constructs a modelNotReadyError.
func ErrModelNotReady(model string) error { return modelNotReadyError{model: model} }

// IsModelNotReady reports whether err indicates an absent model reference.
func IsModelNotReady(err error) bool {
	_, ok := err.(modelNotReadyError)
	return ok
}

// upstreamError wraps a failure inside an inference capability. The message
// carries a short operation summary only; full context goes to the log.
type upstreamError struct {
	op  string
	err error
}

func (e upstreamError) Error() string { return e.op + " failed" }
func (e upstreamError) Unwrap() error { return e.err }

func errUpstream(op string, err error) error { return upstreamError{op: op, err: err} }

// IsUpstream reports whether err came from an inference capability.
func IsUpstream(err error) bool {
	_, ok := err.(upstreamError)
	return ok
}

// persistenceError signals a failed catalog or voice-file write. The message
// is a fixed summary; the cause stays in the wrapped error for logs.
type persistenceError struct{ err error }

func (e persistenceError) Error() string { return "voice persistence failed" }
func (e persistenceError) Unwrap() error { return e.err }

func errPersistence(err error) error { return persistenceError{err: err} }

// IsPersistence reports whether err indicates a failed durable write.
func IsPersistence(err error) bool {
	_, ok := err.(persistenceError)
	return ok
}
