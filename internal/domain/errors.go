package domain

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ErrorKind string

const (
	KindInvalidArgument  ErrorKind = "INVALID_ARGUMENT"
	KindInvalidState     ErrorKind = "INVALID_STATE"
	KindUnauthorized     ErrorKind = "UNAUTHORIZED"
	KindNotFound         ErrorKind = "NOT_FOUND"
	KindWindowExpired    ErrorKind = "WINDOW_EXPIRED"
	KindLedgerFailure    ErrorKind = "LEDGER_FAILURE"
	KindAlreadyProcessed ErrorKind = "ALREADY_PROCESSED"
)

// Error is the engine-wide error surface: a taxonomy kind plus a
// human-readable reason for the caller.
type Error struct {
	Kind   ErrorKind
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// GRPCStatus lets status.FromError map engine errors to transport codes.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(grpcCode(e.Kind), e.Reason)
}

func grpcCode(kind ErrorKind) codes.Code {
	switch kind {
	case KindInvalidArgument:
		return codes.InvalidArgument
	case KindInvalidState:
		return codes.FailedPrecondition
	case KindUnauthorized:
		return codes.PermissionDenied
	case KindNotFound:
		return codes.NotFound
	case KindWindowExpired:
		return codes.DeadlineExceeded
	case KindLedgerFailure:
		return codes.Unavailable
	case KindAlreadyProcessed:
		return codes.AlreadyExists
	}
	return codes.Internal
}

func E(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// KindOf extracts the taxonomy kind, or empty for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsAlreadyProcessed reports the idempotent no-op case that callers
// (the scheduler in particular) treat as success.
func IsAlreadyProcessed(err error) bool {
	return KindOf(err) == KindAlreadyProcessed
}

var (
	ErrEnginePaused = E(KindInvalidState, "engine is paused")

	// ErrReconcileRequired marks the transfer-succeeded/status-write-failed
	// case. Never retried automatically: re-running would pay twice.
	ErrReconcileRequired = errors.New("ledger transfer succeeded but status write failed, manual reconciliation required")
)
