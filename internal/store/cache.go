package store

import (
	"context"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"weekboard/internal/board"
	"weekboard/internal/model"
)

const tasksCachePrefix = "weekboard:tasks:"

var (
	_ board.Service = (*Store)(nil)
	_ board.Service = (*Cache)(nil)
)

func tasksCacheKey(year int) string {
	return tasksCachePrefix + strconv.Itoa(year)
}

// Cache wraps a board.Service with a redis cache-aside for year fetches. Any mutation
// evicts every cached year, since a shift can move a task across years.
type Cache struct {
	base  board.Service
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(base board.Service, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("store.NewCache: base service is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

func (c *Cache) FetchTasksForYear(ctx context.Context, year int) (model.YearTasks, error) {
	if res, ok := c.load(ctx, year); ok {
		return res, nil
	}
	res, err := c.base.FetchTasksForYear(ctx, year)
	if err != nil {
		return model.YearTasks{}, err
	}
	c.store(ctx, year, res)
	return res, nil
}

func (c *Cache) FetchProjects(ctx context.Context) ([]model.Project, error) {
	return c.base.FetchProjects(ctx)
}

func (c *Cache) SetTaskDateToWeekStart(ctx context.Context, id string, year, week int) (model.Task, error) {
	return c.evictAfter(ctx)(c.base.SetTaskDateToWeekStart(ctx, id, year, week))
}

func (c *Cache) ShiftTaskByWeeks(ctx context.Context, id string, weeks int) (model.Task, error) {
	return c.evictAfter(ctx)(c.base.ShiftTaskByWeeks(ctx, id, weeks))
}

func (c *Cache) UpdateTaskField(ctx context.Context, id string, field model.Field, value string) (model.Task, error) {
	return c.evictAfter(ctx)(c.base.UpdateTaskField(ctx, id, field, value))
}

// Invalidate drops every cached year. Callers that write around the cache use it.
func (c *Cache) Invalidate(ctx context.Context) {
	c.evict(ctx)
}

func (c *Cache) evictAfter(ctx context.Context) func(model.Task, error) (model.Task, error) {
	return func(t model.Task, err error) (model.Task, error) {
		if err != nil {
			return model.Task{}, err
		}
		c.evict(ctx)
		return t, nil
	}
}

func (c *Cache) load(ctx context.Context, year int) (model.YearTasks, bool) {
	if c.redis == nil {
		return model.YearTasks{}, false
	}
	key := tasksCacheKey(year)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing service without failing.
			log.WithError(err).WithField("key", key).Warn("cache read failed")
			_ = c.redis.Del(ctx, key).Err()
		}
		return model.YearTasks{}, false
	}
	var res model.YearTasks
	if err := sonic.Unmarshal(data, &res); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return model.YearTasks{}, false
	}
	return res, true
}

func (c *Cache) store(ctx context.Context, year int, res model.YearTasks) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(res)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, tasksCacheKey(year), data, c.ttl).Err(); err != nil {
		log.WithError(err).WithField("year", year).Warn("cache write failed")
	}
}

func (c *Cache) evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	iter := c.redis.Scan(ctx, 0, tasksCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.WithError(err).Warn("cache scan failed")
	}
	if len(keys) > 0 {
		_, _ = c.redis.Del(ctx, keys...).Result()
	}
}
