package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/disco-protocol/disco-go/pkg/caps"
	"github.com/disco-protocol/disco-go/pkg/disco"
	"github.com/disco-protocol/disco-go/pkg/log"
	"github.com/disco-protocol/disco-go/pkg/query"
)

// Session is the discovery engine for one connection.
type Session struct {
	id       string
	client   *query.Client
	resolver *caps.Resolver
	registry *caps.Registry
	logger   *slog.Logger
	plog     log.Logger

	mu         sync.Mutex
	infoCache  map[cacheKey]*disco.Info
	itemsCache map[cacheKey][]disco.Item
}

// New creates a Session sending requests through the given transport.
func New(sender query.Sender, cfg Config) *Session {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	plog := cfg.ProtocolLogger
	if plog == nil {
		plog = log.NoopLogger{}
	}

	client := query.NewClient(sender)
	client.SetTimeout(cfg.RequestTimeout)
	client.SetProtocolLogger(plog)

	resolver := caps.NewResolver(
		caps.ProberFunc(client.Info),
		caps.ResolverConfig{
			ProbeTimeout: cfg.ProbeTimeout,
			Logger:       plog,
		},
	)

	return &Session{
		id:         uuid.NewString(),
		client:     client,
		resolver:   resolver,
		registry:   caps.NewRegistry(),
		logger:     cfg.Logger,
		plog:       plog,
		infoCache:  make(map[cacheKey]*disco.Info),
		itemsCache: make(map[cacheKey][]disco.Item),
	}
}

// ID returns the session identifier used in trace events.
func (s *Session) ID() string {
	return s.id
}

// Client returns the query client. The stanza layer delivers results and
// error responses through it.
func (s *Session) Client() *query.Client {
	return s.client
}

// Resolver returns the capability resolver.
func (s *Session) Resolver() *caps.Resolver {
	return s.resolver
}

// Registry returns the capability binding registry.
func (s *Session) Registry() *caps.Registry {
	return s.registry
}

// Close shuts the session down. Pending requests fail.
func (s *Session) Close() error {
	return s.client.Close()
}

// Info returns the disco#info of entity (optionally scoped to node).
//
// Unless force is set, a cached result is returned immediately; for
// queries without a node, a verified capability resolution for the
// entity's current advertisement short-circuits the network exactly like a
// cache hit. Otherwise the entity is queried and the result cached under
// the entity and node reported in the response, which are authoritative
// over the request's addressing. Protocol errors are returned without
// touching the cache.
func (s *Session) Info(ctx context.Context, entity, node string, force bool) (*disco.Info, error) {
	if !force {
		if info, ok := s.cachedInfo(entity, node); ok {
			s.traceCache(log.CacheHit, "info", entity, node)
			return info, nil
		}
		if node == "" {
			if info, ok := s.capsInfo(entity); ok {
				s.traceCache(log.CacheHit, "caps", entity, "")
				return info, nil
			}
		}
		s.traceCache(log.CacheMiss, "info", entity, node)
	}

	res, err := s.client.Do(ctx, query.KindInfo, entity, node)
	if err != nil {
		return nil, err
	}
	if res.Info == nil {
		return nil, query.ErrUnexpectedReply
	}

	storedEntity := res.From
	if storedEntity == "" {
		storedEntity = entity
	}
	s.mu.Lock()
	s.infoCache[cacheKey{entity: storedEntity, node: res.Info.Node}] = res.Info
	s.mu.Unlock()
	s.traceCache(log.CacheStore, "info", storedEntity, res.Info.Node)
	s.debug("info cached", "entity", storedEntity, "node", res.Info.Node)

	return res.Info, nil
}

// Items returns the disco#items of entity (optionally scoped to node),
// with the same cache contract as Info.
func (s *Session) Items(ctx context.Context, entity, node string, force bool) ([]disco.Item, error) {
	if !force {
		s.mu.Lock()
		items, ok := s.itemsCache[cacheKey{entity: entity, node: node}]
		s.mu.Unlock()
		if ok {
			s.traceCache(log.CacheHit, "items", entity, node)
			return items, nil
		}
		s.traceCache(log.CacheMiss, "items", entity, node)
	}

	res, err := s.client.Do(ctx, query.KindItems, entity, node)
	if err != nil {
		return nil, err
	}

	storedEntity := res.From
	if storedEntity == "" {
		storedEntity = entity
	}
	s.mu.Lock()
	s.itemsCache[cacheKey{entity: storedEntity, node: res.Node}] = res.Items
	s.mu.Unlock()
	s.traceCache(log.CacheStore, "items", storedEntity, res.Node)

	return res.Items, nil
}

// Invalidate removes any cached info and items for (entity, node). It does
// not cancel in-flight requests; the next lookup goes to the network.
func (s *Session) Invalidate(entity, node string) {
	k := cacheKey{entity: entity, node: node}
	s.mu.Lock()
	delete(s.infoCache, k)
	delete(s.itemsCache, k)
	s.mu.Unlock()
	s.traceCache(log.CacheInvalidate, "info", entity, node)
}

// HandlePresence processes the capability advertisement of a presence
// update from entity (a full address including the resource).
//
// A nil advertisement means the presence carried none. Legacy
// advertisements (no hash algorithm) are deliberately ignored: there is
// nothing to verify. Unsupported hash algorithms are declined silently.
// Otherwise the (entity, resource) binding is recorded and the resolver
// observes the key, probing it if unknown.
func (s *Session) HandlePresence(ctx context.Context, entity string, ad *caps.Advertisement) {
	if ad == nil {
		return
	}

	s.plog.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.id,
		Direction: log.DirectionIn,
		Category:  log.CategoryPresence,
		Entity:    entity,
		Presence: &log.PresenceEvent{
			Algo:   ad.Algo,
			Node:   ad.Node,
			Ver:    ad.Ver,
			Legacy: ad.Legacy(),
		},
	})

	if ad.Legacy() {
		// Pre-hash advertisements carry nothing verifiable.
		return
	}
	if !caps.Supported(ad.Algo) {
		s.debug("unsupported caps hash", "entity", entity, "algo", ad.Algo)
		return
	}

	key := ad.Key()
	s.registry.Bind(disco.Bare(entity), disco.Resource(entity), key)
	s.resolver.Observe(ctx, entity, *ad)

	// Already-resolved keys seed the per-entity info cache.
	if info, state := s.resolver.Lookup(key); state == caps.StateResolved {
		s.mu.Lock()
		s.infoCache[cacheKey{entity: entity}] = info
		s.mu.Unlock()
		s.traceCache(log.CacheStore, "info", entity, "")
	}
}

// PublishItems advertises own discovery items. One-shot: done receives the
// outcome, and no cache is read or written.
func (s *Session) PublishItems(ctx context.Context, node string, items []disco.Item, done func(error)) {
	s.client.Publish(ctx, node, items, done)
}

// RemoveItems removes previously published discovery items. One-shot like
// PublishItems.
func (s *Session) RemoveItems(ctx context.Context, node string, items []disco.Item, done func(error)) {
	s.client.Retract(ctx, node, items, done)
}

// cachedInfo returns the cached info for (entity, node), if any.
func (s *Session) cachedInfo(entity, node string) (*disco.Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.infoCache[cacheKey{entity: entity, node: node}]
	return info, ok
}

// capsInfo returns the verified capability info for the entity's current
// advertisement, if the entity has a binding and the key is resolved.
func (s *Session) capsInfo(entity string) (*disco.Info, bool) {
	key, ok := s.registry.Binding(disco.Bare(entity), disco.Resource(entity))
	if !ok {
		return nil, false
	}
	info, state := s.resolver.Lookup(key)
	if state != caps.StateResolved {
		return nil, false
	}
	return info, true
}

// traceCache emits a cache trace event.
func (s *Session) traceCache(op log.CacheOp, kind, entity, node string) {
	s.plog.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.id,
		Direction: log.DirectionIn,
		Category:  log.CategoryCache,
		Entity:    entity,
		Cache: &log.CacheEvent{
			Op:   op,
			Kind: kind,
			Node: node,
		},
	})
}

// debug logs to the operational logger when one is configured.
func (s *Session) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
