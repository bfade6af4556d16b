package transform

import (
	"encoding/json"
	"testing"

	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBatch(t *testing.T) (*kv.Batch, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	client := kv.NewRedisClient(rdb)
	return kv.NewBatch(client, zap.NewNop().Sugar()), mr
}

func getJSON(t *testing.T, mr *miniredis.Miniredis, key string, target any) bool {
	t.Helper()
	raw, err := mr.Get(key)
	if err == miniredis.ErrKeyNotFound {
		return false
	}
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(raw), target))
	return true
}

func getString(t *testing.T, mr *miniredis.Miniredis, key string) (string, bool) {
	t.Helper()
	raw, err := mr.Get(key)
	if err == miniredis.ErrKeyNotFound {
		return "", false
	}
	require.NoError(t, err)
	return raw, true
}

func memberOf(t *testing.T, mr *miniredis.Miniredis, key string) []string {
	t.Helper()
	members, err := mr.SMembers(key)
	require.NoError(t, err)
	return members
}

var nopLog = zap.NewNop().Sugar()

// reuseBatch builds a fresh Batch against an already-populated miniredis
// instance, for tests that apply a second entry against state committed by
// a first (e.g. add then modify, add then delete).
func reuseBatch(t *testing.T, mr *miniredis.Miniredis) (*kv.Batch, *miniredis.Miniredis) {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	client := kv.NewRedisClient(rdb)
	return kv.NewBatch(client, zap.NewNop().Sugar()), mr
}
