// Package kv implements the KV primitives, the batched write buffer with
// read-through cache, and the key-space conventions that back the
// denormalized authentication projection (spec.md §3, §4.1, §4.2).
package kv

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client is the KV store collaborator required by spec.md §6: get, set,
// del, sadd, srem, smembers, plus a pipeline type supporting all of the
// above with atomic commit. It is intentionally narrow so a test double
// (or a future non-Redis store) only needs to satisfy this surface.
type Client interface {
	// Get returns (value, true, nil) if key exists, ("", false, nil) if
	// it does not, or an error wrapping ErrTransport on transport failure.
	Get(ctx context.Context, key string) (string, bool, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	NewPipeline() Pipeline
}

// Pipeline is a queue of commands flushed atomically on Exec, matching
// go-redis's Pipeliner contract (spec.md §4.1 "pipeline/transaction
// type").
type Pipeline interface {
	Set(key, value string)
	Del(key string)
	SAdd(key, member string)
	SRem(key, member string)
	Exec(ctx context.Context) error
}

// RedisClient adapts *redis.Client to the Client interface.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient wraps an already-constructed go-redis client. Connection
// setup (sentinel, TLS, ACL) is the caller's concern; this constructor
// only adapts the command surface.
func NewRedisClient(rdb *redis.Client) *RedisClient {
	return &RedisClient{rdb: rdb}
}

// Get implements Client.
func (c *RedisClient) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: GET %s: %v", ErrTransport, key, err)
	}
	return val, true, nil
}

// SMembers implements Client.
func (c *RedisClient) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := c.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: SMEMBERS %s: %v", ErrTransport, key, err)
	}
	return members, nil
}

// NewPipeline implements Client. The queued commands are sent as one
// MULTI/EXEC transaction.
func (c *RedisClient) NewPipeline() Pipeline {
	return &redisPipeline{pipe: c.rdb.TxPipeline()}
}

type redisPipeline struct {
	pipe redis.Pipeliner
}

func (p *redisPipeline) Set(key, value string) { p.pipe.Set(context.Background(), key, value, 0) }
func (p *redisPipeline) Del(key string)         { p.pipe.Del(context.Background(), key) }
func (p *redisPipeline) SAdd(key, member string) {
	p.pipe.SAdd(context.Background(), key, member)
}
func (p *redisPipeline) SRem(key, member string) {
	p.pipe.SRem(context.Background(), key, member)
}

func (p *redisPipeline) Exec(ctx context.Context) error {
	if _, err := p.pipe.Exec(ctx); err != nil && err != redis.Nil {
		return fmt.Errorf("%w: pipeline commit: %v", ErrTransport, err)
	}
	return nil
}
