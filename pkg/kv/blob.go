package kv

import (
	"context"
	"encoding/json"
	"fmt"
)

// blob is the in-memory representation of a JSON entity: an account,
// sub-user, role, policy, or group record. KV primitives operate on it
// generically by field name so that, e.g., addToSortedSet can maintain
// "roles" on a user blob without knowing the rest of the user schema.
type blob map[string]any

// loadBlob reads key through the batch (empty blob if absent) and
// unmarshals it.
func loadBlob(ctx context.Context, b *Batch, key string) (blob, error) {
	raw, ok, err := b.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return blob{}, nil
	}
	return unmarshalBlob(raw)
}

// unmarshalBlob parses a non-empty JSON blob value.
func unmarshalBlob(raw string) (blob, error) {
	var m blob
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("kv: malformed blob: %w", err)
	}
	return m, nil
}

// saveBlob marshals m and queues it as a write.
func saveBlob(b *Batch, key string, m blob) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("kv: cannot marshal blob for %s: %w", key, err)
	}
	b.Set(key, string(raw))
	return nil
}

// stringSlice reads blob[field] as a []string, tolerating an absent or
// wrongly-typed field by returning nil.
func (m blob) stringSlice(field string) []string {
	raw, ok := m[field]
	if !ok || raw == nil {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (m blob) setStringSlice(field string, values []string) {
	if values == nil {
		values = []string{}
	}
	m[field] = values
}

// Rule is a policy rule: the raw rule text plus whatever the injected
// parser produced for it. Stored on the wire as a 2-element JSON array
// [raw, parsed] (spec.md §3 Policy.rules), not as an object, to match
// the data model exactly.
type Rule struct {
	Raw    string
	Parsed any
}

// MarshalJSON renders a Rule as the [raw, parsed] tuple the data model
// specifies, not as a {"Raw":...,"Parsed":...} object.
func (r Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{r.Raw, r.Parsed})
}

// UnmarshalJSON parses a Rule back out of its [raw, parsed] tuple form.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("kv: rule must be a [raw, parsed] tuple: %w", err)
	}
	if err := json.Unmarshal(tuple[0], &r.Raw); err != nil {
		return fmt.Errorf("kv: rule raw text must be a string: %w", err)
	}
	return json.Unmarshal(tuple[1], &r.Parsed)
}

func (m blob) ruleSlice(field string) []Rule {
	raw, ok := m[field]
	if !ok || raw == nil {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]Rule, 0, len(items))
	for _, it := range items {
		tuple, ok := it.([]any)
		if !ok || len(tuple) != 2 {
			continue
		}
		rawText, _ := tuple[0].(string)
		out = append(out, Rule{Raw: rawText, Parsed: tuple[1]})
	}
	return out
}

func (m blob) setRuleSlice(field string, rules []Rule) {
	out := make([]any, 0, len(rules))
	for _, r := range rules {
		out = append(out, []any{r.Raw, r.Parsed})
	}
	m[field] = out
}

func (m blob) boolField(field string) (bool, bool) {
	raw, ok := m[field]
	if !ok {
		return false, false
	}
	v, ok := raw.(bool)
	return v, ok
}

func (m blob) mapField(field string) map[string]bool {
	raw, ok := m[field]
	if !ok || raw == nil {
		return map[string]bool{}
	}
	asMap, ok := raw.(map[string]any)
	if !ok {
		return map[string]bool{}
	}
	out := make(map[string]bool, len(asMap))
	for k, v := range asMap {
		if b, ok := v.(bool); ok {
			out[k] = b
		}
	}
	return out
}

func (m blob) setMapField(field string, value map[string]bool) {
	m[field] = value
}

// mapAnyField reads blob[field] as a map[string]any, used for the
// heterogeneous-valued maps (keys, key_info, accesskeys) that the map-bool
// legacy group shape (mapField/setMapField) doesn't fit.
func (m blob) mapAnyField(field string) map[string]any {
	raw, ok := m[field]
	if !ok || raw == nil {
		return map[string]any{}
	}
	asMap, ok := raw.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return asMap
}

func (m blob) setMapAnyField(field string, value map[string]any) {
	m[field] = value
}
