package relay

import (
	"context"
	"log"
	"sync"
	"time"
)

// Point is the latest known rider position for an order.
type Point struct {
	Order_id  string    `json:"order_id"`
	Rider_id  string    `json:"rider_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// Update kinds carried on the channel layer.
const (
	UpdateLocation   = "location"
	UpdateDeactivate = "deactivate"
)

// Update is one relay message on the channel layer: a location update for an
// in-transit order, or a deactivation notice telling every instance the
// order left the in-transit phase.
type Update struct {
	Kind  string `json:"kind"`
	Point Point  `json:"point"`
}

// Subscriber is one customer session viewing one order's delivery progress.
// Send must not block indefinitely; a failed send drops the subscriber.
type Subscriber interface {
	Send(p Point) error
}

// Broker is the channel layer carrying relay updates between application
// instances. Delivery is best effort, at most once per update.
type Broker interface {
	Publish(ctx context.Context, u Update) error
	Listen(ctx context.Context, handler func(u Update)) error
}

// Store keeps the current position per active order, last write wins.
type Store interface {
	SaveCurrent(ctx context.Context, p Point) error
	LoadCurrent(ctx context.Context, orderID string) (Point, bool, error)
	DropCurrent(ctx context.Context, orderID string) error
}

// Relay fans the latest rider coordinate for an in-transit order out to every
// subscriber of that order. Orders are activated when they go out for
// delivery and deactivated on a terminal status.
type Relay struct {
	broker Broker
	store  Store

	mu          sync.Mutex
	active      map[string]bool
	subscribers map[string]map[Subscriber]bool
}

func New(broker Broker, store Store) *Relay {
	return &Relay{
		broker:      broker,
		store:       store,
		active:      make(map[string]bool),
		subscribers: make(map[string]map[Subscriber]bool),
	}
}

// Start consumes the broker stream until ctx is cancelled. Fan-out to local
// subscribers happens only here, so updates published by another instance
// reach this instance's sessions the same way as local ones.
func (r *Relay) Start(ctx context.Context) {
	go func() {
		if err := r.broker.Listen(ctx, r.deliver); err != nil && ctx.Err() == nil {
			log.Printf("relay: broker listener stopped: %v", err)
		}
	}()
}

func (r *Relay) Activate(ctx context.Context, orderID string) {
	r.mu.Lock()
	r.active[orderID] = true
	r.mu.Unlock()
}

// Deactivate drops the stored point, detaches every local subscriber of the
// order, and broadcasts the deactivation so every other instance does the
// same. Called when the order reaches a terminal state.
func (r *Relay) Deactivate(ctx context.Context, orderID string) {
	r.deactivateLocal(orderID)

	if err := r.store.DropCurrent(ctx, orderID); err != nil {
		log.Printf("relay: dropping current point for order %s: %v", orderID, err)
	}
	err := r.broker.Publish(ctx, Update{Kind: UpdateDeactivate, Point: Point{Order_id: orderID}})
	if err != nil {
		log.Printf("relay: broadcasting deactivation for order %s: %v", orderID, err)
	}
}

func (r *Relay) deactivateLocal(orderID string) {
	r.mu.Lock()
	delete(r.active, orderID)
	delete(r.subscribers, orderID)
	r.mu.Unlock()
}

// Current returns the order's stored position, if any.
func (r *Relay) Current(ctx context.Context, orderID string) (Point, bool, error) {
	return r.store.LoadCurrent(ctx, orderID)
}

func (r *Relay) IsActive(orderID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[orderID]
}

// Subscribe attaches a session to an order. If a current point is already
// stored the subscriber receives it immediately.
func (r *Relay) Subscribe(ctx context.Context, orderID string, sub Subscriber) {
	r.mu.Lock()
	subs, ok := r.subscribers[orderID]
	if !ok {
		subs = make(map[Subscriber]bool)
		r.subscribers[orderID] = subs
	}
	subs[sub] = true
	r.mu.Unlock()

	p, ok, err := r.store.LoadCurrent(ctx, orderID)
	if err != nil {
		log.Printf("relay: loading current point for order %s: %v", orderID, err)
		return
	}
	if ok {
		if err := sub.Send(p); err != nil {
			r.Unsubscribe(orderID, sub)
		}
	}
}

func (r *Relay) Unsubscribe(orderID string, sub Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subs, ok := r.subscribers[orderID]
	if !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(r.subscribers, orderID)
	}
}

// PublishLocation records p as the order's current position and publishes it
// on the broker. Updates for orders that are not in transit are silently
// dropped since rider clients may lag behind a status change.
func (r *Relay) PublishLocation(ctx context.Context, p Point) error {
	if !r.IsActive(p.Order_id) {
		return nil
	}
	if err := r.store.SaveCurrent(ctx, p); err != nil {
		return err
	}
	return r.broker.Publish(ctx, Update{Kind: UpdateLocation, Point: p})
}

// deliver handles one broker message. A deactivation notice clears the local
// registry; a location update is pushed to every subscriber of the order.
// Sends happen outside the registry lock; a subscriber whose send fails is
// dropped rather than allowed to block the publisher.
func (r *Relay) deliver(u Update) {
	if u.Kind == UpdateDeactivate {
		r.deactivateLocal(u.Point.Order_id)
		return
	}

	r.mu.Lock()
	subs := make([]Subscriber, 0, len(r.subscribers[u.Point.Order_id]))
	for sub := range r.subscribers[u.Point.Order_id] {
		subs = append(subs, sub)
	}
	r.mu.Unlock()

	for _, sub := range subs {
		if err := sub.Send(u.Point); err != nil {
			r.Unsubscribe(u.Point.Order_id, sub)
		}
	}
}
