package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gopkg.in/go-playground/assert.v1"
)

type fakeStore struct {
	mu         sync.Mutex
	orders     map[string]OrderState
	history    map[string][]HistoryEntry
	historyErr error
	updateErr  error
}

func newFakeStore(orders ...OrderState) *fakeStore {
	s := &fakeStore{
		orders:  make(map[string]OrderState),
		history: make(map[string][]HistoryEntry),
	}
	for _, order := range orders {
		s.orders[order.Order_id] = order
	}
	return s
}

func (s *fakeStore) GetOrder(ctx context.Context, orderID string) (OrderState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return OrderState{}, ErrUnknownOrder
	}
	return order, nil
}

func (s *fakeStore) UpdateStatus(ctx context.Context, orderID string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	order := s.orders[orderID]
	order.Status = status
	s.orders[orderID] = order
	return nil
}

func (s *fakeStore) AppendHistory(ctx context.Context, entry HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.historyErr != nil {
		return s.historyErr
	}
	s.history[entry.Order_id] = append(s.history[entry.Order_id], entry)
	return nil
}

type fakeRelay struct {
	mu          sync.Mutex
	activated   []string
	deactivated []string
}

func (r *fakeRelay) Activate(ctx context.Context, orderID string) {
	r.mu.Lock()
	r.activated = append(r.activated, orderID)
	r.mu.Unlock()
}

func (r *fakeRelay) Deactivate(ctx context.Context, orderID string) {
	r.mu.Lock()
	r.deactivated = append(r.deactivated, orderID)
	r.mu.Unlock()
}

var (
	admin    = Actor{User_id: "admin-1", Role: RoleAdmin}
	customer = Actor{User_id: "cust-1", Role: RoleCustomer}
	rider    = Actor{User_id: "rider-1", Role: RoleRider}
)

func placedOrder(id string) OrderState {
	return OrderState{Order_id: id, User_id: "cust-1", Status: StatusPlaced}
}

func TestTransitionFullPath(t *testing.T) {
	store := newFakeStore(placedOrder("o1"))
	rel := &fakeRelay{}
	tracker := NewTracker(store, rel)
	ctx := context.Background()

	path := []string{StatusConfirmed, StatusPreparing, StatusOutForDelivery, StatusDelivered}
	for _, target := range path {
		err := tracker.Transition(ctx, "o1", target, admin)
		assert.Equal(t, err, nil)
	}

	order, _ := store.GetOrder(ctx, "o1")
	assert.Equal(t, order.Status, StatusDelivered)
	assert.Equal(t, len(store.history["o1"]), 4)
	for i, entry := range store.history["o1"] {
		assert.Equal(t, entry.Status, path[i])
		assert.Equal(t, entry.Updated_by, "admin-1")
	}
	assert.Equal(t, rel.activated, []string{"o1"})
	assert.Equal(t, rel.deactivated, []string{"o1"})
}

func TestTransitionSkippingEdgeFails(t *testing.T) {
	store := newFakeStore(placedOrder("o1"))
	tracker := NewTracker(store, &fakeRelay{})

	err := tracker.Transition(context.Background(), "o1", StatusOutForDelivery, admin)
	assert.Equal(t, err, ErrInvalidTransition)

	order, _ := store.GetOrder(context.Background(), "o1")
	assert.Equal(t, order.Status, StatusPlaced)
	assert.Equal(t, len(store.history["o1"]), 0)
}

func TestTransitionReverseEdgeFails(t *testing.T) {
	store := newFakeStore(OrderState{Order_id: "o1", User_id: "cust-1", Status: StatusOutForDelivery})
	tracker := NewTracker(store, &fakeRelay{})

	err := tracker.Transition(context.Background(), "o1", StatusPreparing, admin)
	assert.Equal(t, err, ErrInvalidTransition)
}

func TestCustomerCancelsOwnPlacedOrder(t *testing.T) {
	store := newFakeStore(placedOrder("o1"))
	tracker := NewTracker(store, &fakeRelay{})

	err := tracker.Transition(context.Background(), "o1", StatusCancelled, customer)
	assert.Equal(t, err, nil)

	order, _ := store.GetOrder(context.Background(), "o1")
	assert.Equal(t, order.Status, StatusCancelled)
}

func TestCustomerCannotCancelSomeoneElsesOrder(t *testing.T) {
	store := newFakeStore(OrderState{Order_id: "o1", User_id: "cust-2", Status: StatusPlaced})
	tracker := NewTracker(store, &fakeRelay{})

	err := tracker.Transition(context.Background(), "o1", StatusCancelled, customer)
	assert.Equal(t, err, ErrUnauthorized)
}

func TestCustomerCannotCancelAfterConfirmation(t *testing.T) {
	store := newFakeStore(OrderState{Order_id: "o1", User_id: "cust-1", Status: StatusConfirmed})
	tracker := NewTracker(store, &fakeRelay{})

	err := tracker.Transition(context.Background(), "o1", StatusCancelled, customer)
	assert.Equal(t, err, ErrUnauthorized)
}

func TestAdminCancelsWhilePreparing(t *testing.T) {
	store := newFakeStore(OrderState{Order_id: "o1", User_id: "cust-1", Status: StatusPreparing})
	rel := &fakeRelay{}
	tracker := NewTracker(store, rel)

	err := tracker.Transition(context.Background(), "o1", StatusCancelled, admin)
	assert.Equal(t, err, nil)
	assert.Equal(t, rel.deactivated, []string{"o1"})
}

func TestCancelOutForDeliveryIsTooLate(t *testing.T) {
	store := newFakeStore(OrderState{Order_id: "o1", User_id: "cust-1", Status: StatusOutForDelivery})
	tracker := NewTracker(store, &fakeRelay{})

	err := tracker.Transition(context.Background(), "o1", StatusCancelled, admin)
	assert.Equal(t, err, ErrAlreadyTerminal)
}

func TestTerminalOrderRejectsEverything(t *testing.T) {
	store := newFakeStore(
		OrderState{Order_id: "done", User_id: "cust-1", Status: StatusDelivered},
		OrderState{Order_id: "gone", User_id: "cust-1", Status: StatusCancelled},
	)
	tracker := NewTracker(store, &fakeRelay{})

	for _, id := range []string{"done", "gone"} {
		err := tracker.Transition(context.Background(), id, StatusConfirmed, admin)
		assert.Equal(t, err, ErrAlreadyTerminal)
	}
}

func TestCustomerCannotSkipToDelivered(t *testing.T) {
	store := newFakeStore(placedOrder("o1"))
	tracker := NewTracker(store, &fakeRelay{})

	err := tracker.Transition(context.Background(), "o1", StatusDelivered, customer)
	if err != ErrUnauthorized && err != ErrInvalidTransition {
		t.Fatalf("expected unauthorized or invalid transition, got %v", err)
	}
}

func TestRiderCannotTransition(t *testing.T) {
	store := newFakeStore(placedOrder("o1"))
	tracker := NewTracker(store, &fakeRelay{})

	err := tracker.Transition(context.Background(), "o1", StatusConfirmed, rider)
	assert.Equal(t, err, ErrUnauthorized)
}

func TestUnknownOrder(t *testing.T) {
	tracker := NewTracker(newFakeStore(), &fakeRelay{})

	err := tracker.Transition(context.Background(), "nope", StatusConfirmed, admin)
	assert.Equal(t, err, ErrUnknownOrder)
}

// A history write failure must leave the order where it was: the trail may
// gain a duplicate row on retry but never misses a status the order reached.
func TestFailedHistoryWriteLeavesStatusUnchanged(t *testing.T) {
	store := newFakeStore(placedOrder("o1"))
	store.historyErr = errors.New("history collection unavailable")
	tracker := NewTracker(store, &fakeRelay{})

	err := tracker.Transition(context.Background(), "o1", StatusConfirmed, admin)
	assert.NotEqual(t, err, nil)

	order, _ := store.GetOrder(context.Background(), "o1")
	assert.Equal(t, order.Status, StatusPlaced)

	// Once the store recovers the same transition goes through.
	store.historyErr = nil
	assert.Equal(t, tracker.Transition(context.Background(), "o1", StatusConfirmed, admin), nil)
	order, _ = store.GetOrder(context.Background(), "o1")
	assert.Equal(t, order.Status, StatusConfirmed)
}

func TestFailedStatusWriteSurfacesError(t *testing.T) {
	store := newFakeStore(placedOrder("o1"))
	store.updateErr = errors.New("orders collection unavailable")
	tracker := NewTracker(store, &fakeRelay{})

	err := tracker.Transition(context.Background(), "o1", StatusConfirmed, admin)
	assert.NotEqual(t, err, nil)
	order, _ := store.GetOrder(context.Background(), "o1")
	assert.Equal(t, order.Status, StatusPlaced)
}

func TestConcurrentTransitionsAreSerializedPerOrder(t *testing.T) {
	store := newFakeStore(placedOrder("o1"))
	tracker := NewTracker(store, &fakeRelay{})

	const workers = 8
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- tracker.Transition(context.Background(), "o1", StatusConfirmed, admin)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, err, ErrInvalidTransition)
		}
	}
	assert.Equal(t, succeeded, 1)
	assert.Equal(t, len(store.history["o1"]), 1)
}

func TestIndependentOrdersTransitionInParallel(t *testing.T) {
	store := newFakeStore(placedOrder("a"), OrderState{Order_id: "b", User_id: "cust-2", Status: StatusPlaced})
	tracker := NewTracker(store, &fakeRelay{})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{"a", "b"} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = tracker.Transition(context.Background(), id, StatusConfirmed, admin)
		}(i, id)
	}
	wg.Wait()
	assert.Equal(t, errs[0], nil)
	assert.Equal(t, errs[1], nil)
}
