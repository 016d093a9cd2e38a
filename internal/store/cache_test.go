package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"weekboard/internal/calendar"
	"weekboard/internal/model"
)

type stubService struct {
	fetchFn  func(ctx context.Context, year int) (model.YearTasks, error)
	updateFn func(ctx context.Context, id string, f model.Field, v string) (model.Task, error)
}

func (s *stubService) FetchTasksForYear(ctx context.Context, year int) (model.YearTasks, error) {
	if s.fetchFn == nil {
		return model.YearTasks{}, errors.New("unexpected FetchTasksForYear call")
	}
	return s.fetchFn(ctx, year)
}

func (s *stubService) FetchProjects(context.Context) ([]model.Project, error) {
	return nil, nil
}

func (s *stubService) SetTaskDateToWeekStart(context.Context, string, int, int) (model.Task, error) {
	return model.Task{}, errors.New("unexpected SetTaskDateToWeekStart call")
}

func (s *stubService) ShiftTaskByWeeks(context.Context, string, int) (model.Task, error) {
	return model.Task{}, errors.New("unexpected ShiftTaskByWeeks call")
}

func (s *stubService) UpdateTaskField(ctx context.Context, id string, f model.Field, v string) (model.Task, error) {
	if s.updateFn == nil {
		return model.Task{}, errors.New("unexpected UpdateTaskField call")
	}
	return s.updateFn(ctx, id, f, v)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCacheFetchTasksForYear_MissThenHit(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	expected := model.YearTasks{
		Year:      2024,
		WeekCount: 52,
		Tasks: []model.Task{
			{ID: "t1", Name: "Dated", CompletionDate: calendar.NewDate(2024, time.March, 4), Handler: model.HandlerInternal, Status: model.StatusLate, Week: 10},
			{ID: "t2", Name: "Pool", Handler: model.HandlerOther, Status: model.StatusOnHold},
		},
	}
	var calls int
	cache := NewCache(&stubService{
		fetchFn: func(ctx context.Context, year int) (model.YearTasks, error) {
			calls++
			if year != 2024 {
				t.Fatalf("unexpected year: %d", year)
			}
			return expected, nil
		},
	}, client, time.Minute)

	for i := 0; i < 2; i++ {
		got, err := cache.FetchTasksForYear(ctx, 2024)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if !reflect.DeepEqual(got, expected) {
			t.Fatalf("fetch %d: unexpected result: %#v", i, got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 call to backend, got %d", calls)
	}
	if ttl := mr.TTL(tasksCacheKey(2024)); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected TTL: %v", ttl)
	}
}

func TestCacheMutationEvictsEveryYear(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	cache := NewCache(&stubService{
		fetchFn: func(ctx context.Context, year int) (model.YearTasks, error) {
			return model.YearTasks{Year: year, WeekCount: 52, Tasks: []model.Task{}}, nil
		},
		updateFn: func(ctx context.Context, id string, f model.Field, v string) (model.Task, error) {
			return model.Task{ID: id, Name: v}, nil
		},
	}, client, time.Minute)

	for _, y := range []int{2023, 2024} {
		if _, err := cache.FetchTasksForYear(ctx, y); err != nil {
			t.Fatalf("fetch %d: %v", y, err)
		}
	}
	if err := mr.Set("unrelated", "keep"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := cache.UpdateTaskField(ctx, "t1", model.FieldName, "New"); err != nil {
		t.Fatalf("update: %v", err)
	}
	for _, y := range []int{2023, 2024} {
		if mr.Exists(tasksCacheKey(y)) {
			t.Fatalf("expected %s evicted", tasksCacheKey(y))
		}
	}
	if !mr.Exists("unrelated") {
		t.Fatalf("expected unrelated key untouched")
	}
}

func TestCacheFailedMutationKeepsEntries(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	cache := NewCache(&stubService{
		fetchFn: func(ctx context.Context, year int) (model.YearTasks, error) {
			return model.YearTasks{Year: year}, nil
		},
		updateFn: func(ctx context.Context, id string, f model.Field, v string) (model.Task, error) {
			return model.Task{}, model.ErrInvalidValue
		},
	}, client, time.Minute)

	if _, err := cache.FetchTasksForYear(ctx, 2024); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, err := cache.UpdateTaskField(ctx, "t1", model.FieldStatus, "?"); !errors.Is(err, model.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if !mr.Exists(tasksCacheKey(2024)) {
		t.Fatalf("expected cache entry kept after a failed mutation")
	}
}

func TestCacheCorruptEntryFallsBack(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	if err := mr.Set(tasksCacheKey(2024), "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var calls int
	cache := NewCache(&stubService{
		fetchFn: func(ctx context.Context, year int) (model.YearTasks, error) {
			calls++
			return model.YearTasks{Year: year, WeekCount: 52}, nil
		},
	}, client, time.Minute)

	got, err := cache.FetchTasksForYear(ctx, 2024)
	if err != nil || got.Year != 2024 || calls != 1 {
		t.Fatalf("expected fallback to backend, got %+v calls=%d err=%v", got, calls, err)
	}
}

func TestCacheWithoutRedisPassesThrough(t *testing.T) {
	var calls int
	cache := NewCache(&stubService{
		fetchFn: func(ctx context.Context, year int) (model.YearTasks, error) {
			calls++
			return model.YearTasks{Year: year}, nil
		},
	}, nil, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.FetchTasksForYear(context.Background(), 2024); err != nil {
			t.Fatalf("fetch: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("expected every fetch to reach the backend, got %d", calls)
	}
}
