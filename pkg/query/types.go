package query

import (
	"errors"
	"fmt"

	"github.com/disco-protocol/disco-go/pkg/disco"
)

// Client errors.
var (
	ErrRequestTimeout  = errors.New("request timed out")
	ErrClientClosed    = errors.New("client is closed")
	ErrUnexpectedReply = errors.New("unexpected reply")
)

// Kind selects the discovery request type.
type Kind uint8

const (
	// KindInfo is a disco#info get.
	KindInfo Kind = iota

	// KindItems is a disco#items get.
	KindItems

	// KindPublish is a disco#items set adding or updating own items.
	KindPublish

	// KindRetract is a disco#items set removing own items.
	KindRetract
)

// String returns the kind name as used on the wire and in trace events.
func (k Kind) String() string {
	switch k {
	case KindInfo:
		return "info"
	case KindItems:
		return "items"
	case KindPublish:
		return "publish"
	case KindRetract:
		return "retract"
	default:
		return "unknown"
	}
}

// Request is a parsed outbound discovery request.
type Request struct {
	// ID is the request identifier, assigned at send time.
	ID string

	// To is the target entity address.
	To string

	// Kind is the request type.
	Kind Kind

	// Node is the optional sub-node the query addresses.
	Node string

	// Items carries the payload of publish/retract requests.
	Items []disco.Item
}

// Result is a parsed discovery response delivered by the transport.
type Result struct {
	// ID matches the request identifier.
	ID string

	// From is the responding entity as reported on the wire.
	From string

	// Node is the node reported in the response. Responders may redirect
	// to a different node than the one queried; the reported node is
	// authoritative for caching.
	Node string

	// Info is set for info results.
	Info *disco.Info

	// Items is set for items results.
	Items []disco.Item
}

// ConditionError is a protocol error response from a peer: the defined
// error condition plus optional human-readable text.
type ConditionError struct {
	// Condition is the defined error condition (e.g., "item-not-found").
	Condition string

	// Text is the optional descriptive text.
	Text string
}

// Error returns the condition, with text when present.
func (e *ConditionError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("%s: %s", e.Condition, e.Text)
	}
	return e.Condition
}
