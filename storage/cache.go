package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"sprintboard-api/domain"
)

type backend interface {
	ActiveSprint(ctx context.Context) (domain.Sprint, error)
	AddTask(ctx context.Context, nt domain.NewTask) (domain.Task, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) (domain.Task, error)
	ListTasks(ctx context.Context, filter *domain.Status) ([]domain.Task, error)
	GetStats(ctx context.Context) (domain.Stats, error)
	Ping(ctx context.Context) error
}

// Cache wraps a store with Redis-backed caching for board reads. Writes pass
// through to the base store and evict every cached read so the next fetch
// observes the mutation.
type Cache struct {
	base  backend
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching store wrapper using the provided Redis client
// and TTL.
func NewCache(base backend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base store is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) ActiveSprint(ctx context.Context) (domain.Sprint, error) {
	return c.base.ActiveSprint(ctx)
}

func (c *Cache) Ping(ctx context.Context) error { return c.base.Ping(ctx) }

func (c *Cache) ListTasks(ctx context.Context, filter *domain.Status) ([]domain.Task, error) {
	key := tasksCacheKey(filter)
	if c.redis != nil {
		data, err := c.redis.Get(ctx, key).Bytes()
		if err == nil {
			var tasks []domain.Task
			if err := json.Unmarshal(data, &tasks); err == nil {
				return tasks, nil
			}
			_ = c.redis.Del(ctx, key).Err()
		} else if err != redis.Nil {
			// On redis errors fall back to the backing store without failing.
			_ = c.redis.Del(ctx, key).Err()
		}
	}

	tasks, err := c.base.ListTasks(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, tasks)
	return tasks, nil
}

func (c *Cache) GetStats(ctx context.Context) (domain.Stats, error) {
	if c.redis != nil {
		data, err := c.redis.Get(ctx, statsCacheKey).Bytes()
		if err == nil {
			var stats domain.Stats
			if err := json.Unmarshal(data, &stats); err == nil {
				return stats, nil
			}
			_ = c.redis.Del(ctx, statsCacheKey).Err()
		} else if err != redis.Nil {
			_ = c.redis.Del(ctx, statsCacheKey).Err()
		}
	}

	stats, err := c.base.GetStats(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	c.store(ctx, statsCacheKey, stats)
	return stats, nil
}

func (c *Cache) AddTask(ctx context.Context, nt domain.NewTask) (domain.Task, error) {
	task, err := c.base.AddTask(ctx, nt)
	if err != nil {
		return domain.Task{}, err
	}
	c.evict(ctx)
	return task, nil
}

func (c *Cache) UpdateStatus(ctx context.Context, id int64, status domain.Status) (domain.Task, error) {
	task, err := c.base.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Task{}, err
	}
	c.evict(ctx)
	return task, nil
}

func (c *Cache) DeleteTask(ctx context.Context, id int64) (domain.Task, error) {
	task, err := c.base.DeleteTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	c.evict(ctx)
	return task, nil
}

func (c *Cache) store(ctx context.Context, key string, v any) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	keys := []string{tasksCacheKey(nil), statsCacheKey}
	for _, status := range domain.Statuses {
		s := status
		keys = append(keys, tasksCacheKey(&s))
	}
	_, _ = c.redis.Del(ctx, keys...).Result()
}

const statsCacheKey = "stats"

func tasksCacheKey(filter *domain.Status) string {
	if filter == nil {
		return "tasks:all"
	}
	return "tasks:" + string(*filter)
}
