package log

import (
	"time"
)

// Event represents a protocol log event captured by the discovery engine.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the discovery session (UUID).
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Entity is the remote entity the event concerns, if any.
	Entity string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Query    *QueryEvent     `cbor:"6,keyasint,omitempty"`  // Disco request/result
	Probe    *ProbeEvent     `cbor:"7,keyasint,omitempty"`  // Capability probe
	Cache    *CacheEvent     `cbor:"8,keyasint,omitempty"`  // Cache activity
	Presence *PresenceEvent  `cbor:"9,keyasint,omitempty"`  // Capability advertisement
	Error    *ErrorEventData `cbor:"10,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryQuery indicates a disco request or result.
	CategoryQuery Category = 0
	// CategoryProbe indicates a capability probe event.
	CategoryProbe Category = 1
	// CategoryCache indicates cache activity.
	CategoryCache Category = 2
	// CategoryPresence indicates a capability advertisement.
	CategoryPresence Category = 3
	// CategoryError indicates an error event.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryQuery:
		return "QUERY"
	case CategoryProbe:
		return "PROBE"
	case CategoryCache:
		return "CACHE"
	case CategoryPresence:
		return "PRESENCE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// QueryEvent captures an outbound discovery request or its result.
type QueryEvent struct {
	// RequestID correlates request/result pairs.
	RequestID string `cbor:"1,keyasint"`

	// Kind is the query type ("info", "items", "publish", "retract").
	Kind string `cbor:"2,keyasint"`

	// Node is the sub-node the query addressed, if any.
	Node string `cbor:"3,keyasint,omitempty"`

	// Identities is the identity count of an info result.
	Identities int `cbor:"4,keyasint,omitempty"`

	// Features is the feature count of an info result.
	Features int `cbor:"5,keyasint,omitempty"`

	// Items is the item count of an items result.
	Items int `cbor:"6,keyasint,omitempty"`
}

// ProbeEvent captures one step of a capability probe.
type ProbeEvent struct {
	// Algo is the hash algorithm of the probed key.
	Algo string `cbor:"1,keyasint"`

	// Ver is the claimed verification value of the probed key.
	Ver string `cbor:"2,keyasint"`

	// Node is the node-qualified identifier the probe addressed.
	Node string `cbor:"3,keyasint,omitempty"`

	// Outcome is the probe step outcome.
	Outcome ProbeOutcome `cbor:"4,keyasint"`

	// Candidates is the fallback queue length after this step.
	Candidates int `cbor:"5,keyasint,omitempty"`
}

// ProbeOutcome classifies a probe step.
type ProbeOutcome uint8

const (
	// ProbeStarted indicates a probe request was issued.
	ProbeStarted ProbeOutcome = 0
	// ProbeQueued indicates an entity was enqueued as a fallback candidate.
	ProbeQueued ProbeOutcome = 1
	// ProbeVerified indicates the recomputed hash matched the claim.
	ProbeVerified ProbeOutcome = 2
	// ProbeMismatch indicates the recomputed hash did not match the claim.
	ProbeMismatch ProbeOutcome = 3
	// ProbeFailed indicates the probe request failed.
	ProbeFailed ProbeOutcome = 4
	// ProbeAbandoned indicates resolution was abandoned (candidates exhausted).
	ProbeAbandoned ProbeOutcome = 5
	// ProbeStale indicates a late response for a superseded attempt was dropped.
	ProbeStale ProbeOutcome = 6
)

// String returns the outcome name.
func (o ProbeOutcome) String() string {
	switch o {
	case ProbeStarted:
		return "STARTED"
	case ProbeQueued:
		return "QUEUED"
	case ProbeVerified:
		return "VERIFIED"
	case ProbeMismatch:
		return "MISMATCH"
	case ProbeFailed:
		return "FAILED"
	case ProbeAbandoned:
		return "ABANDONED"
	case ProbeStale:
		return "STALE"
	default:
		return "UNKNOWN"
	}
}

// CacheEvent captures disco cache activity.
type CacheEvent struct {
	// Op is the cache operation.
	Op CacheOp `cbor:"1,keyasint"`

	// Kind is the cache the operation targeted ("info", "items", "caps").
	Kind string `cbor:"2,keyasint"`

	// Node is the sub-node of the cache key, if any.
	Node string `cbor:"3,keyasint,omitempty"`
}

// CacheOp classifies a cache operation.
type CacheOp uint8

const (
	// CacheHit indicates a lookup was served from the cache.
	CacheHit CacheOp = 0
	// CacheMiss indicates a lookup fell through to the network.
	CacheMiss CacheOp = 1
	// CacheStore indicates a response was stored.
	CacheStore CacheOp = 2
	// CacheInvalidate indicates an entry was explicitly removed.
	CacheInvalidate CacheOp = 3
)

// String returns the operation name.
func (o CacheOp) String() string {
	switch o {
	case CacheHit:
		return "HIT"
	case CacheMiss:
		return "MISS"
	case CacheStore:
		return "STORE"
	case CacheInvalidate:
		return "INVALIDATE"
	default:
		return "UNKNOWN"
	}
}

// PresenceEvent captures a capability advertisement seen in presence.
type PresenceEvent struct {
	// Algo is the advertised hash algorithm (empty on legacy advertisements).
	Algo string `cbor:"1,keyasint,omitempty"`

	// Node is the advertised node URI.
	Node string `cbor:"2,keyasint,omitempty"`

	// Ver is the advertised verification value.
	Ver string `cbor:"3,keyasint,omitempty"`

	// Legacy indicates a pre-hash advertisement that was ignored.
	Legacy bool `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures error details.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what was being done when the error occurred.
	Context string `cbor:"2,keyasint,omitempty"`

	// Condition is the protocol error condition, if the error came from
	// a peer's error response.
	Condition string `cbor:"3,keyasint,omitempty"`
}
