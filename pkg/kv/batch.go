package kv

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// cacheEntry overlays one queued write (or the absence of one) on top of
// whatever the client would return for a key.
type cacheEntry struct {
	value     string
	tombstone bool
}

// Batch is a per-changelog-entry collection of KV commands with a
// read-through cache, committed atomically (spec.md §4.1). It is not
// safe to share a Batch across changelog entries; a new one is created
// per entry and discarded after commit.
type Batch struct {
	client Client
	pipe   Pipeline
	log    *zap.SugaredLogger

	mu    sync.Mutex
	cache map[string]cacheEntry

	keyLocks sync.Map // key string -> *sync.Mutex
}

// NewBatch begins a batch bound to client.
func NewBatch(client Client, log *zap.SugaredLogger) *Batch {
	return &Batch{
		client: client,
		pipe:   client.NewPipeline(),
		log:    log,
		cache:  make(map[string]cacheEntry),
	}
}

// Set queues a string set and updates the batch-local cache.
func (b *Batch) Set(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cache[key] = cacheEntry{value: value}
	b.pipe.Set(key, value)
}

// Del queues a delete and tombstones the batch-local cache entry.
func (b *Batch) Del(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cache[key] = cacheEntry{tombstone: true}
	b.pipe.Del(key)
}

// SAdd queues a set-membership addition. Set-typed keys are not cached;
// callers that need read-your-writes on a /set/... key within a batch
// must track membership themselves (no transform in this module does).
func (b *Batch) SAdd(key, member string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pipe.SAdd(key, member)
}

// SRem queues a set-membership removal.
func (b *Batch) SRem(key, member string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pipe.SRem(key, member)
}

// Get returns the cached value if present (including a tombstone, which
// reports !ok), otherwise reads through to the client and caches the
// result.
func (b *Batch) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	b.mu.Lock()
	if entry, hit := b.cache[key]; hit {
		b.mu.Unlock()
		return entry.value, !entry.tombstone, nil
	}
	b.mu.Unlock()

	val, ok, err := b.client.Get(ctx, key)
	if err != nil {
		return "", false, err
	}

	b.mu.Lock()
	b.cache[key] = cacheEntry{value: val, tombstone: !ok}
	b.mu.Unlock()

	return val, ok, nil
}

// SMembers reads directly from the client; set-typed keys bypass the cache.
func (b *Batch) SMembers(ctx context.Context, key string) ([]string, error) {
	return b.client.SMembers(ctx, key)
}

// Commit flushes queued commands as one pipeline against the client.
func (b *Batch) Commit(ctx context.Context) error {
	return b.pipe.Exec(ctx)
}

// Log returns the logger this batch was created with, for primitives
// that need to warn without threading a separate parameter everywhere.
func (b *Batch) Log() *zap.SugaredLogger { return b.log }

// LockKey serializes read-modify-write access to key across concurrent
// sub-steps within this batch (spec.md §5 constraint 2: two sub-steps
// touching the same key must not interleave). It returns an unlock
// function; callers must defer it. Distinct keys do not block each
// other, so transforms may fan out across distinct uniquemember targets
// with an errgroup and still get correct read-modify-write semantics.
func (b *Batch) LockKey(key string) func() {
	muIface, _ := b.keyLocks.LoadOrStore(key, &sync.Mutex{})
	mu := muIface.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
