package websocket

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/college_crp/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu        sync.Mutex
	written   []interface{}
	closed    bool
	fail      bool
	deadlines int
}

func (c *fakeConn) SetWriteDeadline(time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadlines++
	return nil
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.written = append(c.written, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.written)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startHub(t *testing.T) (*Hub, context.CancelFunc, <-chan struct{}) {
	t.Helper()
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(cancel)
	return h, cancel, stopped
}

func TestHubBroadcast(t *testing.T) {
	h, _, _ := startHub(t)

	good, bad := &fakeConn{}, &fakeConn{fail: true}
	h.Register(NewClient(good))
	h.Register(NewClient(bad))
	require.Eventually(t, func() bool { return h.Count() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, h.Publish(context.Background(), events.Event{Kind: events.PaymentRecorded}))

	require.Eventually(t, func() bool { return good.count() == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, bad.isClosed, time.Second, 5*time.Millisecond)

	good.mu.Lock()
	assert.Equal(t, 1, good.deadlines)
	good.mu.Unlock()
}

// stuckConn never finishes a write until released, like a peer that stopped reading.
type stuckConn struct {
	fakeConn
	release chan struct{}
}

func (c *stuckConn) WriteJSON(v interface{}) error {
	<-c.release
	return c.fakeConn.WriteJSON(v)
}

func TestHubStalledClientDoesNotBlockPublishers(t *testing.T) {
	h, _, _ := startHub(t)

	stuck := &stuckConn{release: make(chan struct{})}
	defer close(stuck.release)
	h.Register(NewClient(stuck))
	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 5*time.Millisecond)

	published := make(chan struct{})
	go func() {
		defer close(published)
		for i := 0; i < 100; i++ {
			_ = h.Publish(context.Background(), events.Event{Kind: events.PaymentRecorded})
		}
	}()
	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked behind a stalled feed client")
	}

	// the stalled client falls behind and is cut off
	require.Eventually(t, func() bool { return h.Count() == 0 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(h.broadcast) == 0 }, time.Second, 5*time.Millisecond)

	good := &fakeConn{}
	h.Register(NewClient(good))
	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, h.Publish(context.Background(), events.Event{Kind: events.LedgerReconciled}))
	require.Eventually(t, func() bool { return good.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHubPublishDropsWhenBacklogFull(t *testing.T) {
	h := NewHub()

	for i := 0; i < hubBacklog+10; i++ {
		require.NoError(t, h.Publish(context.Background(), events.Event{Kind: events.PaymentRecorded}))
	}
	assert.Len(t, h.broadcast, hubBacklog)
}

func TestHubUnregister(t *testing.T) {
	h, _, _ := startHub(t)

	c := NewClient(&fakeConn{})
	h.Register(c)
	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 5*time.Millisecond)

	h.Unregister(c)
	require.Eventually(t, func() bool { return h.Count() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubShutdownClosesClients(t *testing.T) {
	h, cancel, stopped := startHub(t)

	conn := &fakeConn{}
	h.Register(NewClient(conn))
	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-stopped
	assert.Zero(t, h.Count())
	require.Eventually(t, conn.isClosed, time.Second, 5*time.Millisecond)

	// publishing to a stopped hub is a no-op
	assert.NoError(t, h.Publish(context.Background(), events.Event{Kind: events.FeeRecordOverdue}))

	late := &fakeConn{}
	h.Register(NewClient(late))
	assert.True(t, late.isClosed())
}
