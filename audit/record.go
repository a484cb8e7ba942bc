package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event names for audit records.
const (
	EventContextBuilt = "context_built"
	EventDecision     = "authorization_decision"
)

// Decision values for EventDecision records.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// Record is a single audit trail entry.
type Record struct {
	// ID uniquely identifies the record.
	ID string

	// Time is when the record was created.
	Time time.Time

	// Event names what happened (EventContextBuilt, EventDecision).
	Event string

	// Subject is the caller identity the record concerns.
	Subject string

	// Tool is the tool name for decision records.
	Tool string

	// Decision is allow or deny for decision records.
	Decision string

	// Kind is the machine-readable denial kind, empty on allow.
	Kind string

	// DevMode flags records produced under the local-development bypass.
	DevMode bool

	// ScopeCount is the number of granted scopes for context records.
	ScopeCount int

	// TokenDigest is a truncated token hash for correlation; never the
	// token itself.
	TokenDigest string
}

// Recorder receives audit records.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: recording is best-effort and must not panic or block the
//     authorization path.
type Recorder interface {
	Record(ctx context.Context, rec Record)
}

// NewRecord stamps a record with an ID and timestamp.
func NewRecord(event string) Record {
	return Record{
		ID:    uuid.NewString(),
		Time:  time.Now().UTC(),
		Event: event,
	}
}

// NopRecorder discards all records.
type NopRecorder struct{}

// Record does nothing.
func (NopRecorder) Record(context.Context, Record) {}

var _ Recorder = NopRecorder{}
