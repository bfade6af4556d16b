package kv

import (
	"context"
	"sort"
)

// AddToSortedSet inserts element into the sorted array at blob[key][field],
// creating the blob if absent. No-op if element is already present
// (spec.md §4.2, §8 property 7).
func AddToSortedSet(ctx context.Context, b *Batch, key, field, element string) error {
	unlock := b.LockKey(key)
	defer unlock()

	m, err := loadBlob(ctx, b, key)
	if err != nil {
		return err
	}
	arr := m.stringSlice(field)
	m.setStringSlice(field, insertSortedString(arr, element))
	return saveBlob(b, key, m)
}

// DelFromSortedSet removes element from the sorted array at blob[key][field].
// No-op if absent (spec.md §8 property 11).
func DelFromSortedSet(ctx context.Context, b *Batch, key, field, element string) error {
	unlock := b.LockKey(key)
	defer unlock()

	m, err := loadBlob(ctx, b, key)
	if err != nil {
		return err
	}
	arr := m.stringSlice(field)
	m.setStringSlice(field, removeSortedString(arr, element))
	return saveBlob(b, key, m)
}

// SetUnion merges the supplied elements into the existing sorted array,
// deduplicating. elements need not be pre-sorted.
func SetUnion(ctx context.Context, b *Batch, key, field string, elements []string) error {
	unlock := b.LockKey(key)
	defer unlock()

	m, err := loadBlob(ctx, b, key)
	if err != nil {
		return err
	}
	sorted := append([]string(nil), elements...)
	sort.Strings(sorted)
	arr := m.stringSlice(field)
	m.setStringSlice(field, mergeUnionBy(arr, sorted, identity))
	return saveBlob(b, key, m)
}

// SetDifference removes every element present in elements from the
// existing sorted array.
func SetDifference(ctx context.Context, b *Batch, key, field string, elements []string) error {
	unlock := b.LockKey(key)
	defer unlock()

	m, err := loadBlob(ctx, b, key)
	if err != nil {
		return err
	}
	arr := m.stringSlice(field)
	m.setStringSlice(field, mergeDifferenceBy(arr, elements, identity))
	return saveBlob(b, key, m)
}

// AddRuleToSortedSet inserts rule into the rule-tuple array at
// blob[key][field], sorted and deduplicated by Raw text.
func AddRuleToSortedSet(ctx context.Context, b *Batch, key, field string, rule Rule) error {
	unlock := b.LockKey(key)
	defer unlock()

	m, err := loadBlob(ctx, b, key)
	if err != nil {
		return err
	}
	arr := m.ruleSlice(field)
	m.setRuleSlice(field, mergeUnionBy(arr, []Rule{rule}, ruleKey))
	return saveBlob(b, key, m)
}

// DelRuleFromSortedSet removes the rule whose Raw text matches raw.
func DelRuleFromSortedSet(ctx context.Context, b *Batch, key, field, raw string) error {
	unlock := b.LockKey(key)
	defer unlock()

	m, err := loadBlob(ctx, b, key)
	if err != nil {
		return err
	}
	arr := m.ruleSlice(field)
	m.setRuleSlice(field, mergeDifferenceBy(arr, []Rule{{Raw: raw}}, ruleKey))
	return saveBlob(b, key, m)
}

// RuleSetUnion merges rules into the existing rule-tuple array, deduplicating by Raw.
func RuleSetUnion(ctx context.Context, b *Batch, key, field string, rules []Rule) error {
	unlock := b.LockKey(key)
	defer unlock()

	m, err := loadBlob(ctx, b, key)
	if err != nil {
		return err
	}
	arr := m.ruleSlice(field)
	m.setRuleSlice(field, mergeUnionBy(arr, rules, ruleKey))
	return saveBlob(b, key, m)
}

// RuleSetDifference removes every rule present in rules (matched by Raw)
// from the existing rule-tuple array.
func RuleSetDifference(ctx context.Context, b *Batch, key, field string, rules []Rule) error {
	unlock := b.LockKey(key)
	defer unlock()

	m, err := loadBlob(ctx, b, key)
	if err != nil {
		return err
	}
	arr := m.ruleSlice(field)
	m.setRuleSlice(field, mergeDifferenceBy(arr, rules, ruleKey))
	return saveBlob(b, key, m)
}

// SetRuleList replaces blob[key][field] wholesale with rules, sorted by
// Raw (used for a modify "replace" operation, spec.md §4.3.4).
func SetRuleList(ctx context.Context, b *Batch, key, field string, rules []Rule) error {
	unlock := b.LockKey(key)
	defer unlock()

	m, err := loadBlob(ctx, b, key)
	if err != nil {
		return err
	}
	sorted := append([]Rule(nil), rules...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Raw < sorted[j].Raw })
	m.setRuleSlice(field, sorted)
	return saveBlob(b, key, m)
}

// AddToMap sets blob[key][field][element] = true, for the legacy
// map-backed group membership shape (spec.md §4.3.6).
func AddToMap(ctx context.Context, b *Batch, key, field, element string) error {
	unlock := b.LockKey(key)
	defer unlock()

	m, err := loadBlob(ctx, b, key)
	if err != nil {
		return err
	}
	asMap := m.mapField(field)
	asMap[element] = true
	m.setMapField(field, asMap)
	return saveBlob(b, key, m)
}

// DelFromMap removes blob[key][field][element].
func DelFromMap(ctx context.Context, b *Batch, key, field, element string) error {
	unlock := b.LockKey(key)
	defer unlock()

	m, err := loadBlob(ctx, b, key)
	if err != nil {
		return err
	}
	asMap := m.mapField(field)
	delete(asMap, element)
	m.setMapField(field, asMap)
	return saveBlob(b, key, m)
}

// SetMapEntry sets blob[key][field][mapKey] = value, for the heterogeneous
// owner-scoped maps sdckey and accesskey maintain (keys, key_info,
// accesskeys: spec.md §4.3.7, §4.3.8).
func SetMapEntry(ctx context.Context, b *Batch, key, field, mapKey string, value any) error {
	unlock := b.LockKey(key)
	defer unlock()

	m, err := loadBlob(ctx, b, key)
	if err != nil {
		return err
	}
	asMap := m.mapAnyField(field)
	asMap[mapKey] = value
	m.setMapAnyField(field, asMap)
	return saveBlob(b, key, m)
}

// DelMapEntry removes blob[key][field][mapKey].
func DelMapEntry(ctx context.Context, b *Batch, key, field, mapKey string) error {
	unlock := b.LockKey(key)
	defer unlock()

	m, err := loadBlob(ctx, b, key)
	if err != nil {
		return err
	}
	asMap := m.mapAnyField(field)
	delete(asMap, mapKey)
	m.setMapAnyField(field, asMap)
	return saveBlob(b, key, m)
}

// SetValue sets blob[key][property] = value.
func SetValue(ctx context.Context, b *Batch, key, property string, value any) error {
	unlock := b.LockKey(key)
	defer unlock()

	m, err := loadBlob(ctx, b, key)
	if err != nil {
		return err
	}
	m[property] = value
	return saveBlob(b, key, m)
}

// Rename moves the secondary-index pointer for an entity after a
// name-attribute change: it deletes the old IndexKey(typ, account, old),
// writes the new one, and updates blob.name in place. If the primary
// blob is missing, it logs a warning and does nothing else (spec.md
// §4.2 rename, §8 property 12).
func Rename(ctx context.Context, b *Batch, primaryKey, typ, newName string) error {
	unlock := b.LockKey(primaryKey)
	defer unlock()

	raw, ok, err := b.Get(ctx, primaryKey)
	if err != nil {
		return err
	}
	if !ok {
		b.Log().Warnw("rename: primary blob missing, skipping", "key", primaryKey, "type", typ, "new_name", newName)
		return nil
	}

	m, err := unmarshalBlob(raw)
	if err != nil {
		return err
	}

	account, _ := m["account"].(string)
	oldName, _ := m["name"].(string)
	uuid, _ := m["uuid"].(string)

	b.Del(IndexKey(typ, account, oldName))
	b.Set(IndexKey(typ, account, newName), uuid)
	m["name"] = newName
	return saveBlob(b, primaryKey, m)
}
