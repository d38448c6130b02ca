package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gopkg.in/go-playground/assert.v1"
)

type fakeSubscriber struct {
	mu     sync.Mutex
	points []Point
	fail   bool
}

func (s *fakeSubscriber) Send(p Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("connection gone")
	}
	s.points = append(s.points, p)
	return nil
}

func (s *fakeSubscriber) last() (Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[len(s.points)-1], true
}

func newTestRelay(ctx context.Context) *Relay {
	r := New(NewInProcessBroker(), NewMemoryStore())
	r.Start(ctx)
	return r
}

func point(orderID string, lat, lon float64) Point {
	return Point{
		Order_id:  orderID,
		Rider_id:  "rider-1",
		Latitude:  lat,
		Longitude: lon,
		Timestamp: time.Now(),
	}
}

// Start registers the broker listener asynchronously; publishing before the
// listener is attached would be silently lost with the in-process broker.
func waitForListener(ctx context.Context, r *Relay) {
	waitForListeners(ctx, r.broker.(*InProcessBroker), 1)
}

func waitForListeners(ctx context.Context, b *InProcessBroker, count int) {
	for i := 0; i < 100; i++ {
		b.mu.Lock()
		attached := len(b.handlers) >= count
		b.mu.Unlock()
		if attached {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPublishForInactiveOrderIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := newTestRelay(ctx)
	waitForListener(ctx, r)

	sub := &fakeSubscriber{}
	r.Subscribe(ctx, "o1", sub)

	err := r.PublishLocation(ctx, point("o1", 12.97, 77.59))
	assert.Equal(t, err, nil)
	assert.Equal(t, len(sub.points), 0)

	_, stored, _ := r.store.LoadCurrent(ctx, "o1")
	assert.Equal(t, stored, false)
}

func TestSubscriberObservesLatestPoint(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := newTestRelay(ctx)
	waitForListener(ctx, r)

	r.Activate(ctx, "o1")
	sub := &fakeSubscriber{}
	r.Subscribe(ctx, "o1", sub)

	assert.Equal(t, r.PublishLocation(ctx, point("o1", 12.97, 77.59)), nil)
	assert.Equal(t, r.PublishLocation(ctx, point("o1", 12.98, 77.60)), nil)

	last, ok := sub.last()
	assert.Equal(t, ok, true)
	assert.Equal(t, last.Latitude, 12.98)
	assert.Equal(t, last.Longitude, 77.60)

	current, stored, _ := r.store.LoadCurrent(ctx, "o1")
	assert.Equal(t, stored, true)
	assert.Equal(t, current.Latitude, 12.98)
}

func TestLateSubscriberGetsCurrentPoint(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := newTestRelay(ctx)
	waitForListener(ctx, r)

	r.Activate(ctx, "o1")
	assert.Equal(t, r.PublishLocation(ctx, point("o1", 12.97, 77.59)), nil)

	sub := &fakeSubscriber{}
	r.Subscribe(ctx, "o1", sub)

	last, ok := sub.last()
	assert.Equal(t, ok, true)
	assert.Equal(t, last.Latitude, 12.97)
}

func TestDeactivateDetachesSubscribersAndDropsPoint(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := newTestRelay(ctx)
	waitForListener(ctx, r)

	r.Activate(ctx, "o1")
	sub := &fakeSubscriber{}
	r.Subscribe(ctx, "o1", sub)
	assert.Equal(t, r.PublishLocation(ctx, point("o1", 12.97, 77.59)), nil)

	r.Deactivate(ctx, "o1")
	assert.Equal(t, r.IsActive("o1"), false)

	// Further publishes are dropped and reach nobody.
	before := len(sub.points)
	assert.Equal(t, r.PublishLocation(ctx, point("o1", 12.99, 77.61)), nil)
	assert.Equal(t, len(sub.points), before)

	_, stored, _ := r.store.LoadCurrent(ctx, "o1")
	assert.Equal(t, stored, false)
}

// Two application instances share one channel layer. A terminal status is
// handled by whichever instance got the request, so deactivation must reach
// the instance the rider's connection lives on as well.
func TestDeactivatePropagatesAcrossInstances(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker := NewInProcessBroker()
	rA := New(broker, NewMemoryStore())
	rB := New(broker, NewMemoryStore())
	rA.Start(ctx)
	rB.Start(ctx)
	waitForListeners(ctx, broker, 2)

	rA.Activate(ctx, "o1")
	rB.Activate(ctx, "o1")
	subB := &fakeSubscriber{}
	rB.Subscribe(ctx, "o1", subB)

	assert.Equal(t, rB.PublishLocation(ctx, point("o1", 12.97, 77.59)), nil)
	assert.Equal(t, len(subB.points), 1)

	rA.Deactivate(ctx, "o1")
	assert.Equal(t, rA.IsActive("o1"), false)
	assert.Equal(t, rB.IsActive("o1"), false)

	// A publish handled by the other instance is dropped too.
	assert.Equal(t, rB.PublishLocation(ctx, point("o1", 12.99, 77.61)), nil)
	assert.Equal(t, len(subB.points), 1)
}

func TestFailingSubscriberIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := newTestRelay(ctx)
	waitForListener(ctx, r)

	r.Activate(ctx, "o1")
	healthy := &fakeSubscriber{}
	broken := &fakeSubscriber{fail: true}
	r.Subscribe(ctx, "o1", healthy)
	r.Subscribe(ctx, "o1", broken)

	assert.Equal(t, r.PublishLocation(ctx, point("o1", 12.97, 77.59)), nil)

	r.mu.Lock()
	_, stillThere := r.subscribers["o1"][broken]
	r.mu.Unlock()
	assert.Equal(t, stillThere, false)

	last, ok := healthy.last()
	assert.Equal(t, ok, true)
	assert.Equal(t, last.Latitude, 12.97)
}

func TestUpdatesDoNotLeakAcrossOrders(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := newTestRelay(ctx)
	waitForListener(ctx, r)

	r.Activate(ctx, "o1")
	r.Activate(ctx, "o2")
	sub1 := &fakeSubscriber{}
	sub2 := &fakeSubscriber{}
	r.Subscribe(ctx, "o1", sub1)
	r.Subscribe(ctx, "o2", sub2)

	assert.Equal(t, r.PublishLocation(ctx, point("o1", 1, 1)), nil)

	assert.Equal(t, len(sub1.points), 1)
	assert.Equal(t, len(sub2.points), 0)
}
