package engine

import "errors"

// Structural errors: the event itself is unusable regardless of state.
var (
	ErrMalformedEvent   = errors.New("malformed event")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrMalformedCard    = errors.New("malformed card")
)

// Domain errors: the event is well-formed but illegal against the current
// state. ApplyEvent fails closed on these; callers are expected to hit
// ValidateAction first so the happy path never sees them.
var (
	ErrHandComplete       = errors.New("hand is complete")
	ErrHandInitialized    = errors.New("hand already initialized")
	ErrHandNotInitialized = errors.New("hand not initialized")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrNotPlayersTurn     = errors.New("not player's turn")
	ErrIllegalAction      = errors.New("action not legal for player")
	ErrAmountOutOfRange   = errors.New("amount outside legal bounds")
	ErrStreetRegression   = errors.New("street cannot move backwards")
	ErrPotMismatch        = errors.New("award total does not match pot")
)

// ValidationResult is the outcome of a pre-flight action check. A caller
// that receives Valid==true can construct the corresponding ACTION_TAKEN
// event and expect ApplyEvent to accept it.
type ValidationResult struct {
	Valid bool
	Err   error
}

func valid() ValidationResult { return ValidationResult{Valid: true} }

func invalid(err error) ValidationResult { return ValidationResult{Err: err} }
