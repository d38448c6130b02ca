package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Order statuses, in lifecycle order. DELIVERED and CANCELLED are terminal.
const (
	StatusPlaced         = "PLACED"
	StatusConfirmed      = "CONFIRMED"
	StatusPreparing      = "PREPARING"
	StatusOutForDelivery = "OUT_FOR_DELIVERY"
	StatusDelivered      = "DELIVERED"
	StatusCancelled      = "CANCELLED"
)

const (
	RoleAdmin      = "ADMIN"
	RoleCustomer   = "CUSTOMER"
	RoleRider      = "RIDER"
	RoleRestaurant = "RESTAURANT"
)

var (
	ErrUnknownOrder      = errors.New("order not found")
	ErrAlreadyTerminal   = errors.New("order is already in a terminal state")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("actor is not allowed to perform this transition")
)

var transitions = map[string][]string{
	StatusPlaced:         {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

func IsTerminal(status string) bool {
	return status == StatusDelivered || status == StatusCancelled
}

func CanTransition(from string, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Actor is the authenticated identity requesting a transition. The role claim
// comes from the JWT and is opaque to this package beyond the role constants.
type Actor struct {
	User_id string
	Role    string
}

// OrderState is the slice of an order the state machine needs.
type OrderState struct {
	Order_id string
	User_id  string
	Status   string
}

type HistoryEntry struct {
	Order_id   string
	Status     string
	Updated_by string
	Timestamp  time.Time
}

// Store persists order status and the append-only status history.
type Store interface {
	GetOrder(ctx context.Context, orderID string) (OrderState, error)
	UpdateStatus(ctx context.Context, orderID string, status string) error
	AppendHistory(ctx context.Context, entry HistoryEntry) error
}

// Relay is notified when an order enters or leaves the in-transit phase.
type Relay interface {
	Activate(ctx context.Context, orderID string)
	Deactivate(ctx context.Context, orderID string)
}

// Tracker serializes status transitions per order. Transitions on distinct
// orders proceed in parallel.
type Tracker struct {
	store Store
	relay Relay

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTracker(store Store, relay Relay) *Tracker {
	return &Tracker{
		store: store,
		relay: relay,
		locks: make(map[string]*sync.Mutex),
	}
}

func (t *Tracker) lockFor(orderID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.locks[orderID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[orderID] = lock
	}
	return lock
}

// Transition moves an order to target if the edge exists in the state graph
// and the actor's role permits it. On success it persists the new status,
// appends a timestamped history entry and registers or deregisters the order
// with the delivery relay.
func (t *Tracker) Transition(ctx context.Context, orderID string, target string, actor Actor) error {
	lock := t.lockFor(orderID)
	lock.Lock()
	defer lock.Unlock()

	order, err := t.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if IsTerminal(order.Status) {
		return ErrAlreadyTerminal
	}
	// A cancel request past the cancellation window reads as "too late",
	// not as a graph violation.
	if target == StatusCancelled && order.Status == StatusOutForDelivery {
		return ErrAlreadyTerminal
	}
	if !CanTransition(order.Status, target) {
		return ErrInvalidTransition
	}
	if err := authorize(actor, order, target); err != nil {
		return err
	}

	// History is written before the status moves: a failed transition may
	// leave a duplicate history row once retried, but the trail never misses
	// a status the order actually reached.
	if err := t.store.AppendHistory(ctx, HistoryEntry{
		Order_id:   orderID,
		Status:     target,
		Updated_by: actor.User_id,
		Timestamp:  time.Now(),
	}); err != nil {
		return err
	}
	if err := t.store.UpdateStatus(ctx, orderID, target); err != nil {
		return err
	}

	if t.relay != nil {
		if target == StatusOutForDelivery {
			t.relay.Activate(ctx, orderID)
		} else if IsTerminal(target) {
			t.relay.Deactivate(ctx, orderID)
		}
	}

	t.mu.Lock()
	if IsTerminal(target) {
		delete(t.locks, orderID)
	}
	t.mu.Unlock()
	return nil
}

// authorize enforces the role gate: a customer may only cancel their own
// order while it is still PLACED; every other edge needs the admin or
// restaurant role.
func authorize(actor Actor, order OrderState, target string) error {
	switch actor.Role {
	case RoleAdmin, RoleRestaurant:
		return nil
	case RoleCustomer:
		if target == StatusCancelled && order.Status == StatusPlaced && actor.User_id == order.User_id {
			return nil
		}
		return ErrUnauthorized
	default:
		return ErrUnauthorized
	}
}
