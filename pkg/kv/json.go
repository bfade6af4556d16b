package kv

import (
	"context"
	"encoding/json"
	"fmt"
)

// PutJSON marshals value and queues it as a write at key. Object-class
// transforms use this for whole-record writes (building a fresh account,
// role, policy, ... blob), while the field-level primitives in
// primitives.go operate on the untyped blob representation so one
// transform can mutate a field on another object class's record without
// needing to know its full schema.
func PutJSON(b *Batch, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv: cannot marshal value for %s: %w", key, err)
	}
	b.Set(key, string(raw))
	return nil
}

// GetJSON reads key through the batch and unmarshals it into target,
// returning (false, nil) if the key does not exist.
func GetJSON(ctx context.Context, b *Batch, key string, target any) (bool, error) {
	raw, ok, err := b.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return false, fmt.Errorf("kv: malformed value at %s: %w", key, err)
	}
	return true, nil
}
