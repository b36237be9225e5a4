package query

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/disco-protocol/disco-go/pkg/disco"
	"github.com/disco-protocol/disco-go/pkg/log"
)

// Sender transmits a parsed discovery request over the connection. The
// transport must deliver the peer's answer back through HandleResult or
// HandleError with the same request ID.
type Sender interface {
	Send(req *Request) error
}

// outcome is what a pending request resolves to.
type outcome struct {
	res *Result
	err error
}

// Client provides a high-level API for making discovery requests.
type Client struct {
	mu sync.RWMutex

	sender  Sender
	timeout time.Duration
	logger  log.Logger

	// Pending requests awaiting responses, keyed by request ID.
	pending   map[string]chan outcome
	pendingMu sync.RWMutex

	closed bool
}

// NewClient creates a new discovery client.
func NewClient(sender Sender) *Client {
	return &Client{
		sender:  sender,
		timeout: 30 * time.Second,
		logger:  log.NoopLogger{},
		pending: make(map[string]chan outcome),
	}
}

// SetTimeout sets the request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = timeout
}

// SetProtocolLogger sets the protocol trace logger.
func (c *Client) SetProtocolLogger(logger log.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if logger == nil {
		logger = log.NoopLogger{}
	}
	c.logger = logger
}

// Close closes the client. Pending requests fail with ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.pendingMu.Lock()
	for _, ch := range c.pending {
		close(ch)
	}
	c.pending = make(map[string]chan outcome)
	c.pendingMu.Unlock()

	return nil
}

// nextRequestID generates a unique request identifier.
func nextRequestID() string {
	return uuid.NewString()
}

// sendRequest sends a request and waits for the response.
func (c *Client) sendRequest(ctx context.Context, req *Request) (*Result, error) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return nil, ErrClientClosed
	}
	timeout := c.timeout
	logger := c.logger
	c.mu.RUnlock()

	req.ID = nextRequestID()

	// Create response channel
	respCh := make(chan outcome, 1)

	c.pendingMu.Lock()
	c.pending[req.ID] = respCh
	c.pendingMu.Unlock()

	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, req.ID)
		c.pendingMu.Unlock()
	}()

	logger.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionOut,
		Category:  log.CategoryQuery,
		Entity:    req.To,
		Query: &log.QueryEvent{
			RequestID: req.ID,
			Kind:      req.Kind.String(),
			Node:      req.Node,
		},
	})

	if err := c.sender.Send(req); err != nil {
		return nil, err
	}

	// Wait for response with timeout
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(timeout):
		return nil, ErrRequestTimeout
	case out, ok := <-respCh:
		if !ok {
			return nil, ErrClientClosed
		}
		return out.res, out.err
	}
}

// HandleResult should be called when a discovery result is received.
// Results for requests no longer pending return ErrUnexpectedReply and are
// otherwise ignored; a late answer from a superseded probe lands here.
func (c *Client) HandleResult(res *Result) error {
	return c.deliver(res.ID, outcome{res: res})
}

// HandleError should be called when a peer answers a request with an error
// stanza.
func (c *Client) HandleError(requestID string, cerr *ConditionError) error {
	return c.deliver(requestID, outcome{err: cerr})
}

func (c *Client) deliver(requestID string, out outcome) error {
	c.pendingMu.RLock()
	ch, exists := c.pending[requestID]
	c.pendingMu.RUnlock()

	if !exists {
		return ErrUnexpectedReply
	}

	select {
	case ch <- out:
	default:
		// Channel full or closed
	}
	return nil
}

// Do issues a get-type discovery request and returns the parsed result.
// Session-layer callers use it to access the responder's reported entity
// and node.
func (c *Client) Do(ctx context.Context, kind Kind, entity, node string) (*Result, error) {
	res, err := c.sendRequest(ctx, &Request{
		To:   entity,
		Kind: kind,
		Node: node,
	})
	if err != nil {
		return nil, err
	}
	c.traceResult(entity, kind, res)
	return res, nil
}

// Info queries an entity for its disco#info and returns the parsed result.
func (c *Client) Info(ctx context.Context, entity, node string) (*disco.Info, error) {
	res, err := c.Do(ctx, KindInfo, entity, node)
	if err != nil {
		return nil, err
	}
	if res.Info == nil {
		return nil, ErrUnexpectedReply
	}
	return res.Info, nil
}

// Items queries an entity for its disco#items and returns the parsed list.
func (c *Client) Items(ctx context.Context, entity, node string) ([]disco.Item, error) {
	res, err := c.Do(ctx, KindItems, entity, node)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Publish advertises own discovery items on the server. One-shot: the
// callback receives the outcome, and no cache is read or written.
func (c *Client) Publish(ctx context.Context, node string, items []disco.Item, done func(error)) {
	c.fireAndForget(ctx, KindPublish, node, items, done)
}

// Retract removes previously published discovery items. One-shot like
// Publish.
func (c *Client) Retract(ctx context.Context, node string, items []disco.Item, done func(error)) {
	c.fireAndForget(ctx, KindRetract, node, items, done)
}

func (c *Client) fireAndForget(ctx context.Context, kind Kind, node string, items []disco.Item, done func(error)) {
	go func() {
		_, err := c.sendRequest(ctx, &Request{
			Kind:  kind,
			Node:  node,
			Items: items,
		})
		if done != nil {
			done(err)
		}
	}()
}

// traceResult emits a query trace event for an inbound result.
func (c *Client) traceResult(entity string, kind Kind, res *Result) {
	c.mu.RLock()
	logger := c.logger
	c.mu.RUnlock()

	qe := &log.QueryEvent{
		RequestID: res.ID,
		Kind:      kind.String(),
		Node:      res.Node,
		Items:     len(res.Items),
	}
	if res.Info != nil {
		qe.Identities = len(res.Info.Identities)
		qe.Features = len(res.Info.Features)
	}
	logger.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionIn,
		Category:  log.CategoryQuery,
		Entity:    entity,
		Query:     qe,
	})
}
