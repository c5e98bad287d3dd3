package lending

import "errors"

// Kind classifies a coordinator failure for the caller. NotFound and
// InvalidState are normal user-facing outcomes; DataIntegrity means an
// internal invariant was violated and must be alerted on; Transaction means
// the storage layer could not commit and the caller may retry.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidState
	KindValidation
	KindDataIntegrity
	KindTransaction
)

// Error is the typed failure returned by every coordinator operation.
type Error struct {
	Kind   Kind
	Reason string // stable machine-readable sub-reason
	msg    string
	cause  error
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.cause }

var (
	ErrItemNotFound     = &Error{Kind: KindNotFound, Reason: "item_not_found", msg: "item not found"}
	ErrBorrowerNotFound = &Error{Kind: KindNotFound, Reason: "borrower_not_found", msg: "borrower not found"}

	ErrAlreadyLent   = &Error{Kind: KindInvalidState, Reason: "already_lent", msg: "item is already lent"}
	ErrInMaintenance = &Error{Kind: KindInvalidState, Reason: "in_maintenance", msg: "item is in maintenance"}
	ErrNotLent       = &Error{Kind: KindInvalidState, Reason: "not_lent", msg: "item is not currently lent"}

	ErrNotesTooLong = &Error{Kind: KindValidation, Reason: "notes_too_long", msg: "notes exceed 1000 characters"}
)

// ErrNoRow is the contract between the coordinator and store
// implementations: a store returns it (possibly wrapped) when a row does not
// exist. The coordinator translates it into the entity-specific NotFound.
var ErrNoRow = errors.New("no such row")

func integrityFault(reason, msg string) *Error {
	return &Error{Kind: KindDataIntegrity, Reason: reason, msg: msg}
}

func txFailure(cause error) *Error {
	return &Error{Kind: KindTransaction, Reason: "tx_failed", msg: "storage transaction failed: " + cause.Error(), cause: cause}
}

// KindOf extracts the failure kind from err, or 0 if err is not a
// coordinator error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
