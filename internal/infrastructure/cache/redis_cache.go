package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"time"

	"invoice-dashboard/internal/domain/report"

	"github.com/redis/go-redis/v9"
)

const (
	tagKeyPart = "path:"
	genKeyPart = "gen:"
)

// RedisViewCache stores JSON encoded views in redis. Each path keeps a set of
// the view keys tagged with it so Invalidate can drop them together, and a
// generation counter that Set compares against the caller's snapshot.
type RedisViewCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

var _ ViewCache = (*RedisViewCache)(nil)

func NewRedisViewCache(client *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger) *RedisViewCache {
	if client == nil {
		panic("redis client cannot be nil for RedisViewCache")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisViewCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With("component", "RedisViewCache"),
	}
}

func (c *RedisViewCache) viewKey(key string) string {
	return c.prefix + key
}

func (c *RedisViewCache) tagKey(path string) string {
	return c.prefix + tagKeyPart + path
}

func (c *RedisViewCache) genKey(path string) string {
	return c.prefix + genKeyPart + path
}

func (c *RedisViewCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.viewKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cached view %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached view %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisViewCache) Snapshot(ctx context.Context, paths ...string) (report.Snapshot, error) {
	snap, err := c.generations(ctx, c.client, paths)
	if err != nil {
		return nil, fmt.Errorf("failed to read view generations: %w", err)
	}
	return snap, nil
}

// Set stores value only while the generation of every path still matches
// snap. The generation keys are watched so an Invalidate racing the write
// aborts it.
func (c *RedisViewCache) Set(ctx context.Context, key string, value any, snap report.Snapshot) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode view %s: %w", key, err)
	}

	paths := slices.Sorted(maps.Keys(snap))
	genKeys := make([]string, len(paths))
	for i, p := range paths {
		genKeys[i] = c.genKey(p)
	}

	vk := c.viewKey(key)
	stale := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generations(ctx, tx, paths)
		if err != nil {
			return err
		}
		for _, p := range paths {
			if current[p] != snap[p] {
				stale = true
				return nil
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, vk, data, c.ttl)
			for _, p := range paths {
				tk := c.tagKey(p)
				pipe.SAdd(ctx, tk, vk)
				if c.ttl > 0 {
					pipe.Expire(ctx, tk, c.ttl)
				}
			}
			return nil
		})
		return err
	}, genKeys...)
	if errors.Is(err, redis.TxFailedErr) {
		stale, err = true, nil
	}
	if err != nil {
		return fmt.Errorf("failed to store view %s: %w", key, err)
	}

	if stale {
		c.logger.DebugContext(ctx, "Dropped view invalidated during load", slog.String("key", key))
		return nil
	}
	c.logger.DebugContext(ctx, "Cached view", slog.String("key", key), slog.Any("paths", paths))
	return nil
}

// Invalidate bumps the generation of each path and deletes every view tagged
// with it.
func (c *RedisViewCache) Invalidate(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		if err := c.client.Incr(ctx, c.genKey(p)).Err(); err != nil {
			return fmt.Errorf("failed to bump generation of %s: %w", p, err)
		}
		tk := c.tagKey(p)
		keys, err := c.client.SMembers(ctx, tk).Result()
		if err != nil {
			return fmt.Errorf("failed to read views tagged %s: %w", p, err)
		}
		if err := c.client.Del(ctx, append(keys, tk)...).Err(); err != nil {
			return fmt.Errorf("failed to drop views tagged %s: %w", p, err)
		}
		c.logger.DebugContext(ctx, "Invalidated views", slog.String("path", p), slog.Int("count", len(keys)))
	}
	return nil
}

type multiGetter interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// generations reads the generation of each path. A missing key is 0.
func (c *RedisViewCache) generations(ctx context.Context, r multiGetter, paths []string) (report.Snapshot, error) {
	snap := make(report.Snapshot, len(paths))
	if len(paths) == 0 {
		return snap, nil
	}

	keys := make([]string, len(paths))
	for i, p := range paths {
		keys[i] = c.genKey(p)
	}
	vals, err := r.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			snap[paths[i]] = 0
			continue
		}
		gen, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed generation for %s: %w", paths[i], err)
		}
		snap[paths[i]] = gen
	}
	return snap, nil
}
