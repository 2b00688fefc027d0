package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSeasonBusy is returned when a seed batch for the same season key is
// still active.
var ErrSeasonBusy = errors.New("a seed batch is already active for this season")

// ActiveGuard enforces at most one active seed batch per logical key.
type ActiveGuard interface {
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string)
}

type redisGuard struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (g *redisGuard) Acquire(ctx context.Context, key string) error {
	ok, err := g.client.SetNX(ctx, g.prefix+":"+key, "1", g.ttl).Result()
	if err != nil {
		// Guard unavailability must not block seeding; callers still own
		// concurrent-start responsibility per the store invariants.
		return nil
	}
	if !ok {
		return ErrSeasonBusy
	}
	return nil
}

func (g *redisGuard) Release(ctx context.Context, key string) {
	_ = g.client.Del(ctx, g.prefix+":"+key).Err()
}

type memoryGuard struct {
	mu     sync.Mutex
	active map[string]time.Time
	ttl    time.Duration
}

func newMemoryGuard(ttl time.Duration) *memoryGuard {
	return &memoryGuard{active: make(map[string]time.Time), ttl: ttl}
}

func (g *memoryGuard) Acquire(_ context.Context, key string) error {
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if exp, ok := g.active[key]; ok && exp.After(now) {
		return ErrSeasonBusy
	}
	g.active[key] = now.Add(g.ttl)
	return nil
}

func (g *memoryGuard) Release(_ context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, key)
}

// NewActiveGuard builds a Redis-backed guard and falls back to in-memory when
// Redis is unreachable or unconfigured.
func NewActiveGuard(addr, pass string, db int, ttl time.Duration) (ActiveGuard, error) {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if addr == "" {
		return newMemoryGuard(ttl), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return newMemoryGuard(ttl), err
	}

	return &redisGuard{client: client, prefix: "seed:season", ttl: ttl}, nil
}
