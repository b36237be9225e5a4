package caps

import (
	"time"

	"github.com/disco-protocol/disco-go/pkg/disco"
)

// State is the resolution state of a capability key.
type State uint8

const (
	// StateUnknown - the key has never been seen, or resolution was
	// abandoned after all candidates were exhausted.
	StateUnknown State = iota

	// StatePending - a probe is in flight for the key.
	StatePending

	// StateResolved - the key has been verified and its info is cached.
	StateResolved
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnknown:
		return "UNKNOWN"
	case StatePending:
		return "PENDING"
	case StateResolved:
		return "RESOLVED"
	default:
		return "INVALID"
	}
}

// entry is the cache slot for one capability key. The state tag is
// explicit: probe bookkeeping and resolved info must never be told apart
// by value shape.
type entry struct {
	state State // StatePending or StateResolved
	probe *probeState
	info  *disco.Info
}

// candidate is one queued fallback peer: the entity to ask and the
// node-qualified identifier to ask it for.
type candidate struct {
	entity string
	node   string
}

// probeState tracks an unresolved key: when the in-flight attempt started
// and which alternative peers can be asked if it fails.
type probeState struct {
	// startedAt is when the current attempt was issued. It doubles as
	// the attempt discriminator: responses carry the startedAt they
	// were issued under, so a late response for a superseded attempt
	// can never corrupt newer bookkeeping.
	startedAt time.Time

	// candidates is the ordered fallback queue, excluding the entity
	// currently being asked.
	candidates []candidate
}

// enqueue appends a fallback candidate. Idempotent per entity: an entity
// already queued is not queued twice.
func (p *probeState) enqueue(entity, node string) bool {
	for _, c := range p.candidates {
		if c.entity == entity {
			return false
		}
	}
	p.candidates = append(p.candidates, candidate{entity: entity, node: node})
	return true
}

// pop removes and returns the next candidate.
func (p *probeState) pop() (candidate, bool) {
	if len(p.candidates) == 0 {
		return candidate{}, false
	}
	c := p.candidates[0]
	p.candidates = p.candidates[1:]
	return c, true
}

// remove drops the entity from the queue if present. Used when a queued
// entity takes over a stalled probe and must not be asked a second time.
func (p *probeState) remove(entity string) {
	for i, c := range p.candidates {
		if c.entity == entity {
			p.candidates = append(p.candidates[:i], p.candidates[i+1:]...)
			return
		}
	}
}
