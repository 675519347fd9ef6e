package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"eventmanager/internal/domain"
)

const eventKeyPrefix = "event:"

type eventCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEventCache returns a domain.EventCache storing events as JSON with the given TTL.
func NewEventCache(client *redis.Client, ttl time.Duration) domain.EventCache {
	return &eventCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *eventCache) Get(ctx context.Context, id string) (*domain.Event, error) {
	data, err := c.client.Get(ctx, eventKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	var e domain.Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *eventCache) Set(ctx context.Context, e *domain.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, eventKeyPrefix+e.ID, data, c.ttl).Err()
}

func (c *eventCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, eventKeyPrefix+id).Err()
}

type noopEventCache struct{}

// NewNoopEventCache returns a cache that never hits. Used when Redis is not configured.
func NewNoopEventCache() domain.EventCache {
	return noopEventCache{}
}

func (noopEventCache) Get(context.Context, string) (*domain.Event, error) {
	return nil, domain.ErrEventNotFound
}

func (noopEventCache) Set(context.Context, *domain.Event) error { return nil }

func (noopEventCache) Delete(context.Context, string) error { return nil }
