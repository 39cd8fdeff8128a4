package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"unify-api/domain"
)

type backend interface {
	domain.TaskStore
	domain.HistoryStore
	FetchTasks(ctx context.Context, projectID string) ([]domain.Task, error)
}

// Cache wraps a Store with Redis-backed caching of per-project task lists.
// Every task write evicts the owning project's cached list so the next board
// read reflects it.
type Cache struct {
	base  backend
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching wrapper using the provided Redis client and TTL.
func NewCache(base backend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) FetchTasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	if tasks, ok := c.loadFromCache(ctx, projectID); ok {
		return tasks, nil
	}

	tasks, err := c.base.FetchTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}

	c.store(ctx, projectID, tasks)
	return tasks, nil
}

// GetTask always hits the backend: the move gateway reads the stored status
// through it and must not see a stale value.
func (c *Cache) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	return c.base.GetTask(ctx, taskID)
}

func (c *Cache) InsertTask(ctx context.Context, t domain.Task) error {
	if err := c.base.InsertTask(ctx, t); err != nil {
		return err
	}
	c.evict(ctx, t.ProjectID)
	return nil
}

func (c *Cache) UpdateTask(ctx context.Context, projectID, taskID string, patch domain.TaskPatch) error {
	if err := c.base.UpdateTask(ctx, projectID, taskID, patch); err != nil {
		return err
	}
	c.evict(ctx, projectID)
	return nil
}

func (c *Cache) DeleteTask(ctx context.Context, projectID, taskID string) error {
	if err := c.base.DeleteTask(ctx, projectID, taskID); err != nil {
		return err
	}
	c.evict(ctx, projectID)
	return nil
}

// InsertStatusHistory passes through; history rows never feed the board
// projection.
func (c *Cache) InsertStatusHistory(ctx context.Context, e domain.StatusHistoryEntry) error {
	return c.base.InsertStatusHistory(ctx, e)
}

func (c *Cache) loadFromCache(ctx context.Context, projectID string) ([]domain.Task, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, boardCacheKey(projectID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, boardCacheKey(projectID)).Err()
		}
		return nil, false
	}
	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		_ = c.redis.Del(ctx, boardCacheKey(projectID)).Err()
		return nil, false
	}
	return tasks, true
}

func (c *Cache) store(ctx context.Context, projectID string, tasks []domain.Task) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, boardCacheKey(projectID), data, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context, projectID string) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, boardCacheKey(projectID)).Result()
}

func boardCacheKey(projectID string) string {
	return "board:" + projectID
}
