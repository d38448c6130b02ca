package relay

import (
	"context"
	"sync"
)

// InProcessBroker is the single-instance channel layer: published updates
// are handed straight to the registered listeners.
type InProcessBroker struct {
	mu       sync.Mutex
	handlers []func(u Update)
}

func NewInProcessBroker() *InProcessBroker {
	return &InProcessBroker{}
}

func (b *InProcessBroker) Publish(ctx context.Context, u Update) error {
	b.mu.Lock()
	handlers := make([]func(u Update), len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, handler := range handlers {
		handler(u)
	}
	return nil
}

func (b *InProcessBroker) Listen(ctx context.Context, handler func(u Update)) error {
	b.mu.Lock()
	b.handlers = append(b.handlers, handler)
	b.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}

// MemoryStore keeps current points in memory. Used with the in-process
// broker when no shared store is configured.
type MemoryStore struct {
	mu     sync.Mutex
	points map[string]Point
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{points: make(map[string]Point)}
}

func (s *MemoryStore) SaveCurrent(ctx context.Context, p Point) error {
	s.mu.Lock()
	s.points[p.Order_id] = p
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadCurrent(ctx context.Context, orderID string) (Point, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.points[orderID]
	return p, ok, nil
}

func (s *MemoryStore) DropCurrent(ctx context.Context, orderID string) error {
	s.mu.Lock()
	delete(s.points, orderID)
	s.mu.Unlock()
	return nil
}
