package mirror

import (
	"errors"
	"fmt"
)

// FailureKind tags a SyncError. The taxonomy is the single classification
// every store-touching failure is folded into at the client boundary.
type FailureKind int

const (
	// ConnectionFailure: the client itself cannot be obtained or used.
	// Never retried by Policy.
	ConnectionFailure FailureKind = iota + 1
	// QueryFailure: a read (select, catalog, RPC) failed. Retryable.
	QueryFailure
	// DataFailure: a write failed or a row could not be flattened. The
	// retry allow-list decides transient vs permanent, not the taxonomy.
	DataFailure
	// SchemaFailure: table or column shape could not be determined or
	// reconciled after exhausting fallback strategies.
	SchemaFailure
)

func (k FailureKind) String() string {
	switch k {
	case ConnectionFailure:
		return "connection failure"
	case QueryFailure:
		return "query failure"
	case DataFailure:
		return "data failure"
	case SchemaFailure:
		return "schema failure"
	default:
		return "unknown failure"
	}
}

// SyncError carries a human-readable context string and wraps the original
// cause; it is never a silent downgrade of the underlying error.
type SyncError struct {
	Kind    FailureKind
	Context string
	Cause   error
}

func (e *SyncError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Cause)
}

func (e *SyncError) Unwrap() error { return e.Cause }

// Fail classifies a failure at the point it happens.
func Fail(kind FailureKind, cause error, format string, args ...any) *SyncError {
	return &SyncError{Kind: kind, Context: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf reports the failure kind of err, or 0 when err is not classified.
func KindOf(err error) FailureKind {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
