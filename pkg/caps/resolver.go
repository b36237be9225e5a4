package caps

import (
	"context"
	"sync"
	"time"

	"github.com/disco-protocol/disco-go/pkg/disco"
	"github.com/disco-protocol/disco-go/pkg/log"
)

// DefaultProbeTimeout is how long a probe may stall before another
// observer of the same key takes over. A heuristic liveness bound, not a
// protocol guarantee.
const DefaultProbeTimeout = 10 * time.Second

// Prober issues a disco#info request for a capability probe. It blocks
// until the peer answers or the request fails; the resolver calls it from
// its own goroutine, never while holding locks.
type Prober interface {
	DiscoInfo(ctx context.Context, entity, node string) (*disco.Info, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, entity, node string) (*disco.Info, error)

// DiscoInfo calls f.
func (f ProberFunc) DiscoInfo(ctx context.Context, entity, node string) (*disco.Info, error) {
	return f(ctx, entity, node)
}

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	// ProbeTimeout is the stall bound after which a new observer takes
	// over a pending probe. Default: DefaultProbeTimeout.
	ProbeTimeout time.Duration

	// Logger receives protocol trace events. Nil disables tracing.
	Logger log.Logger
}

// Resolver verifies capability advertisements and caches the results.
//
// For each capability key at most one outbound probe is in flight at any
// time; additional observers are queued as fallback candidates. A response
// is committed only when the recomputed verification value matches the key
// exactly. All state lives behind a single mutex, preserving the
// at-most-one-probe-per-key invariant under concurrency.
type Resolver struct {
	mu      sync.Mutex
	entries map[Key]*entry

	prober  Prober
	timeout time.Duration
	logger  log.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// NewResolver creates a resolver probing through the given prober.
func NewResolver(prober Prober, cfg ResolverConfig) *Resolver {
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Resolver{
		entries: make(map[Key]*entry),
		prober:  prober,
		timeout: cfg.ProbeTimeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Lookup returns the cached info for key and its resolution state. Info is
// non-nil only in StateResolved. Resolved entries are immutable: the same
// *disco.Info is handed to every caller.
func (r *Resolver) Lookup(key Key) (*disco.Info, State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return nil, StateUnknown
	}
	if e.state == StateResolved {
		return e.info, StateResolved
	}
	return nil, StatePending
}

// Observe records that entity is advertising ad and drives resolution:
//
//   - unknown key: a probe is issued to entity
//   - pending and fresh: entity joins the fallback queue
//   - pending but stalled (older than the probe timeout): entity takes
//     over with a fresh probe
//   - resolved: nothing to do
//
// Advertisements with unsupported hash algorithms are declined silently.
// The context is held by the probe goroutine for the life of the attempt.
func (r *Resolver) Observe(ctx context.Context, entity string, ad Advertisement) {
	if ad.Legacy() || !Supported(ad.Algo) {
		return
	}
	key := ad.Key()
	node := ad.QueryNode()

	r.mu.Lock()
	e, ok := r.entries[key]

	switch {
	case !ok:
		e = &entry{
			state: StatePending,
			probe: &probeState{startedAt: r.now()},
		}
		r.entries[key] = e
		started := e.probe.startedAt
		r.mu.Unlock()
		r.startProbe(ctx, key, entity, node, started)

	case e.state == StateResolved:
		r.mu.Unlock()

	case r.now().Sub(e.probe.startedAt) >= r.timeout:
		// The original requestee is treated as unresponsive; this
		// entity replaces the stalled attempt.
		e.probe.remove(entity)
		e.probe.startedAt = r.now()
		started := e.probe.startedAt
		r.mu.Unlock()
		r.startProbe(ctx, key, entity, node, started)

	default:
		queued := e.probe.enqueue(entity, node)
		n := len(e.probe.candidates)
		r.mu.Unlock()
		if queued {
			r.trace(log.DirectionOut, entity, &log.ProbeEvent{
				Algo:       key.Algo,
				Ver:        key.Ver,
				Node:       node,
				Outcome:    log.ProbeQueued,
				Candidates: n,
			})
		}
	}
}

// startProbe issues one probe attempt in its own goroutine. started tags
// the attempt so the outcome can be discarded if a newer attempt has taken
// over by the time it arrives.
func (r *Resolver) startProbe(ctx context.Context, key Key, entity, node string, started time.Time) {
	r.trace(log.DirectionOut, entity, &log.ProbeEvent{
		Algo:    key.Algo,
		Ver:     key.Ver,
		Node:    node,
		Outcome: log.ProbeStarted,
	})

	go func() {
		info, err := r.prober.DiscoInfo(ctx, entity, node)
		if err != nil {
			r.onFailure(ctx, key, entity, started)
			return
		}
		r.onResponse(ctx, key, entity, info, started)
	}()
}

// onResponse handles a probe response: verify, then commit or advance.
func (r *Resolver) onResponse(ctx context.Context, key Key, entity string, info *disco.Info, started time.Time) {
	// Recompute outside the lock; verification is pure.
	ver, ok := VerificationValue(key.Algo, info)

	r.mu.Lock()
	e, live := r.entries[key]
	if !live || e.state != StatePending || !e.probe.startedAt.Equal(started) {
		// Late response for a superseded or finished attempt.
		r.mu.Unlock()
		r.trace(log.DirectionIn, entity, &log.ProbeEvent{
			Algo: key.Algo, Ver: key.Ver, Outcome: log.ProbeStale,
		})
		return
	}

	if ok && ver == key.Ver {
		// Terminal: a resolved entry is never probed again.
		e.state = StateResolved
		e.info = info
		e.probe = nil
		r.mu.Unlock()
		r.trace(log.DirectionIn, entity, &log.ProbeEvent{
			Algo: key.Algo, Ver: key.Ver, Outcome: log.ProbeVerified,
		})
		return
	}

	// The peer's claimed hash does not match its reported info. A trust
	// failure, handled exactly like a transport failure.
	r.trace(log.DirectionIn, entity, &log.ProbeEvent{
		Algo: key.Algo, Ver: key.Ver, Outcome: log.ProbeMismatch,
	})
	r.advanceLocked(ctx, key, e)
}

// onFailure handles a failed probe request.
func (r *Resolver) onFailure(ctx context.Context, key Key, entity string, started time.Time) {
	r.mu.Lock()
	e, live := r.entries[key]
	if !live || e.state != StatePending || !e.probe.startedAt.Equal(started) {
		r.mu.Unlock()
		r.trace(log.DirectionIn, entity, &log.ProbeEvent{
			Algo: key.Algo, Ver: key.Ver, Outcome: log.ProbeStale,
		})
		return
	}
	r.trace(log.DirectionIn, entity, &log.ProbeEvent{
		Algo: key.Algo, Ver: key.Ver, Outcome: log.ProbeFailed,
		Candidates: len(e.probe.candidates),
	})
	r.advanceLocked(ctx, key, e)
}

// advanceLocked moves a pending probe to the next candidate, or abandons
// the key when the queue is empty. Called with r.mu held; unlocks it.
func (r *Resolver) advanceLocked(ctx context.Context, key Key, e *entry) {
	next, ok := e.probe.pop()
	if !ok {
		// Exhausted. Drop the entry entirely; a future Observe for
		// the same key restarts resolution from scratch.
		delete(r.entries, key)
		r.mu.Unlock()
		r.trace(log.DirectionIn, "", &log.ProbeEvent{
			Algo: key.Algo, Ver: key.Ver, Outcome: log.ProbeAbandoned,
		})
		return
	}
	e.probe.startedAt = r.now()
	started := e.probe.startedAt
	r.mu.Unlock()
	r.startProbe(ctx, key, next.entity, next.node, started)
}

// trace emits a probe event to the protocol logger.
func (r *Resolver) trace(dir log.Direction, entity string, pe *log.ProbeEvent) {
	r.logger.Log(log.Event{
		Timestamp: r.now(),
		Direction: dir,
		Category:  log.CategoryProbe,
		Entity:    entity,
		Probe:     pe,
	})
}
