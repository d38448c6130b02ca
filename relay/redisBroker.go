package relay

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	trackingChannelPrefix = "tracking:order:"
	currentPointPrefix    = "tracking:current:"

	// An in-transit order gets a location update every few seconds; a point
	// older than this is stale anyway.
	currentPointTTL = 10 * time.Minute
)

// RedisBroker carries relay updates over redis pub/sub so every application
// instance sees every update regardless of which instance the rider is
// connected to. Deactivation notices travel the same channels, so a terminal
// status on one instance shuts the order's relay down everywhere.
type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func (b *RedisBroker) Publish(ctx context.Context, u Update) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, trackingChannelPrefix+u.Point.Order_id, data).Err()
}

func (b *RedisBroker) Listen(ctx context.Context, handler func(u Update)) error {
	pubsub := b.client.PSubscribe(ctx, trackingChannelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var u Update
			if err := json.Unmarshal([]byte(msg.Payload), &u); err != nil {
				log.Printf("relay: dropping malformed relay payload: %v", err)
				continue
			}
			handler(u)
		}
	}
}

// RedisStore keeps the current point per order under a TTL'd key, last write
// wins.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SaveCurrent(ctx context.Context, p Point) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, currentPointPrefix+p.Order_id, data, currentPointTTL).Err()
}

func (s *RedisStore) LoadCurrent(ctx context.Context, orderID string) (Point, bool, error) {
	data, err := s.client.Get(ctx, currentPointPrefix+orderID).Result()
	if err == redis.Nil {
		return Point{}, false, nil
	}
	if err != nil {
		return Point{}, false, err
	}
	var p Point
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Point{}, false, err
	}
	return p, true, nil
}

func (s *RedisStore) DropCurrent(ctx context.Context, orderID string) error {
	return s.client.Del(ctx, currentPointPrefix+orderID).Err()
}
