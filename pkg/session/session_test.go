package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disco-protocol/disco-go/pkg/caps"
	"github.com/disco-protocol/disco-go/pkg/disco"
	"github.com/disco-protocol/disco-go/pkg/query"
)

// stubSender records outbound requests and answers them through the
// session's client. respond is set after New so it can close over the
// session.
type stubSender struct {
	mu      sync.Mutex
	sent    []*query.Request
	respond func(req *query.Request)
}

func (s *stubSender) Send(req *query.Request) error {
	s.mu.Lock()
	s.sent = append(s.sent, req)
	respond := s.respond
	s.mu.Unlock()

	if respond != nil {
		go respond(req)
	}
	return nil
}

func (s *stubSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func clientInfo() *disco.Info {
	return &disco.Info{
		Identities: []disco.Identity{{Category: "client", Type: "pc", Name: "Psi"}},
		Features:   []string{disco.NSInfo, disco.NSItems, "http://jabber.org/protocol/muc"},
	}
}

// answerInfo makes sender answer every request with the given info,
// echoing the request's addressing.
func answerInfo(sess *Session, sender *stubSender, info *disco.Info) {
	sender.respond = func(req *query.Request) {
		_ = sess.Client().HandleResult(&query.Result{
			ID:   req.ID,
			From: req.To,
			Node: req.Node,
			Info: info,
		})
	}
}

func TestInfoCachedAfterFirstQuery(t *testing.T) {
	sender := &stubSender{}
	sess := New(sender, Config{})
	defer sess.Close()
	info := clientInfo()
	answerInfo(sess, sender, info)

	ctx := context.Background()
	first, err := sess.Info(ctx, "juliet@capulet.lit/balcony", "", false)
	require.NoError(t, err)
	assert.Same(t, info, first)

	second, err := sess.Info(ctx, "juliet@capulet.lit/balcony", "", false)
	require.NoError(t, err)
	assert.Same(t, first, second)

	assert.Equal(t, 1, sender.count(), "second lookup must be served from the cache")
}

func TestInfoForceRefresh(t *testing.T) {
	sender := &stubSender{}
	sess := New(sender, Config{})
	defer sess.Close()
	ctx := context.Background()

	old := clientInfo()
	answerInfo(sess, sender, old)
	_, err := sess.Info(ctx, "juliet@capulet.lit/balcony", "", false)
	require.NoError(t, err)

	fresh := &disco.Info{Features: []string{disco.NSInfo}}
	answerInfo(sess, sender, fresh)

	got, err := sess.Info(ctx, "juliet@capulet.lit/balcony", "", true)
	require.NoError(t, err)
	assert.Same(t, fresh, got)
	assert.Equal(t, 2, sender.count())

	// The forced result replaced the cached one.
	got, err = sess.Info(ctx, "juliet@capulet.lit/balcony", "", false)
	require.NoError(t, err)
	assert.Same(t, fresh, got)
	assert.Equal(t, 2, sender.count())
}

func TestInfoErrorDoesNotTouchCache(t *testing.T) {
	sender := &stubSender{}
	sess := New(sender, Config{})
	defer sess.Close()
	ctx := context.Background()

	sender.respond = func(req *query.Request) {
		_ = sess.Client().HandleError(req.ID, &query.ConditionError{Condition: "service-unavailable"})
	}

	_, err := sess.Info(ctx, "down@example.org", "", false)
	var cerr *query.ConditionError
	require.ErrorAs(t, err, &cerr)

	// The failure left no entry behind; the next lookup queries again.
	info := clientInfo()
	answerInfo(sess, sender, info)
	got, err := sess.Info(ctx, "down@example.org", "", false)
	require.NoError(t, err)
	assert.Same(t, info, got)
	assert.Equal(t, 2, sender.count())
}

func TestInfoResponseAddressingWins(t *testing.T) {
	sender := &stubSender{}
	sess := New(sender, Config{})
	defer sess.Close()
	ctx := context.Background()

	// The responder identifies itself differently than it was addressed.
	info := clientInfo()
	info.Node = "real-node"
	sender.respond = func(req *query.Request) {
		_ = sess.Client().HandleResult(&query.Result{
			ID:   req.ID,
			From: "actual@example.org",
			Info: info,
		})
	}

	_, err := sess.Info(ctx, "alias@example.org", "asked-node", false)
	require.NoError(t, err)

	// Cached under the response's addressing, not the request's.
	got, err := sess.Info(ctx, "actual@example.org", "real-node", false)
	require.NoError(t, err)
	assert.Same(t, info, got)
	assert.Equal(t, 1, sender.count())

	_, _ = sess.Info(ctx, "alias@example.org", "asked-node", false)
	assert.Equal(t, 2, sender.count(), "the request's addressing must stay a cache miss")
}

func TestItemsCached(t *testing.T) {
	sender := &stubSender{}
	sess := New(sender, Config{})
	defer sess.Close()
	ctx := context.Background()

	items := []disco.Item{
		{JID: "people.shakespeare.lit", Name: "Directory of Characters"},
		{JID: "plays.shakespeare.lit", Name: "Play-Specific Chatrooms"},
	}
	sender.respond = func(req *query.Request) {
		_ = sess.Client().HandleResult(&query.Result{
			ID:    req.ID,
			From:  req.To,
			Node:  req.Node,
			Items: items,
		})
	}

	first, err := sess.Items(ctx, "shakespeare.lit", "", false)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	_, err = sess.Items(ctx, "shakespeare.lit", "", false)
	require.NoError(t, err)
	assert.Equal(t, 1, sender.count())
}

func TestInvalidate(t *testing.T) {
	sender := &stubSender{}
	sess := New(sender, Config{})
	defer sess.Close()
	ctx := context.Background()
	answerInfo(sess, sender, clientInfo())

	_, err := sess.Info(ctx, "juliet@capulet.lit/balcony", "", false)
	require.NoError(t, err)

	sess.Invalidate("juliet@capulet.lit/balcony", "")

	_, err = sess.Info(ctx, "juliet@capulet.lit/balcony", "", false)
	require.NoError(t, err)
	assert.Equal(t, 2, sender.count(), "invalidation must force the next lookup to the network")
}

func TestHandlePresenceResolvesAndShortCircuits(t *testing.T) {
	sender := &stubSender{}
	sess := New(sender, Config{})
	defer sess.Close()
	ctx := context.Background()

	info := clientInfo()
	ver, ok := caps.VerificationValue("sha-1", info)
	require.True(t, ok)
	ad := &caps.Advertisement{Algo: "sha-1", Node: "https://psi-im.org", Ver: ver}
	answerInfo(sess, sender, info)

	sess.HandlePresence(ctx, "juliet@capulet.lit/balcony", ad)

	// The presence recorded the binding.
	key, bound := sess.Registry().Binding("juliet@capulet.lit", "balcony")
	require.True(t, bound)
	assert.Equal(t, ad.Key(), key)

	// The probe verifies the advertisement.
	require.Eventually(t, func() bool {
		_, state := sess.Resolver().Lookup(ad.Key())
		return state == caps.StateResolved
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, 1, sender.count())

	// The verified resolution serves node-less info lookups without a
	// further query.
	got, err := sess.Info(ctx, "juliet@capulet.lit/balcony", "", false)
	require.NoError(t, err)
	assert.Same(t, info, got)
	assert.Equal(t, 1, sender.count())
}

func TestHandlePresenceSharedAcrossEntities(t *testing.T) {
	sender := &stubSender{}
	sess := New(sender, Config{})
	defer sess.Close()
	ctx := context.Background()

	info := clientInfo()
	ver, ok := caps.VerificationValue("sha-1", info)
	require.True(t, ok)
	ad := &caps.Advertisement{Algo: "sha-1", Node: "https://psi-im.org", Ver: ver}
	answerInfo(sess, sender, info)

	sess.HandlePresence(ctx, "romeo@montague.lit/orchard", ad)
	require.Eventually(t, func() bool {
		_, state := sess.Resolver().Lookup(ad.Key())
		return state == caps.StateResolved
	}, time.Second, 5*time.Millisecond)

	// A second entity advertising the same key never triggers a probe.
	sess.HandlePresence(ctx, "juliet@capulet.lit/balcony", ad)

	got, err := sess.Info(ctx, "juliet@capulet.lit/balcony", "", false)
	require.NoError(t, err)
	assert.Same(t, info, got)
	assert.Equal(t, 1, sender.count())
}

func TestHandlePresenceIgnoresLegacyAndNil(t *testing.T) {
	sender := &stubSender{}
	sess := New(sender, Config{})
	defer sess.Close()
	ctx := context.Background()

	sess.HandlePresence(ctx, "old@example.org/res", nil)
	sess.HandlePresence(ctx, "old@example.org/res", &caps.Advertisement{Node: "n", Ver: "v"})
	sess.HandlePresence(ctx, "old@example.org/res", &caps.Advertisement{Algo: "md5", Node: "n", Ver: "v"})

	assert.Equal(t, 0, sender.count())
	if _, bound := sess.Registry().Binding("old@example.org", "res"); bound {
		t.Error("unverifiable advertisements must not bind")
	}
}

func TestPublishItems(t *testing.T) {
	sender := &stubSender{}
	sess := New(sender, Config{})
	defer sess.Close()

	sender.respond = func(req *query.Request) {
		if req.Kind != query.KindPublish {
			t.Errorf("Kind = %v, want publish", req.Kind)
		}
		_ = sess.Client().HandleResult(&query.Result{ID: req.ID})
	}

	done := make(chan error, 1)
	sess.PublishItems(context.Background(), "", []disco.Item{{JID: "x@example.org"}}, func(err error) {
		done <- err
	})

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("PublishItems callback never invoked")
	}
}

func TestCloseFailsPending(t *testing.T) {
	sender := &stubSender{} // never answers
	sess := New(sender, Config{RequestTimeout: 5 * time.Second})

	errs := make(chan error, 1)
	go func() {
		_, err := sess.Info(context.Background(), "slow@example.org", "", false)
		errs <- err
	}()

	require.Eventually(t, func() bool {
		return sender.count() == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, sess.Close())

	select {
	case err := <-errs:
		assert.True(t, errors.Is(err, query.ErrClientClosed))
	case <-time.After(time.Second):
		t.Fatal("pending request did not fail on Close")
	}
}
