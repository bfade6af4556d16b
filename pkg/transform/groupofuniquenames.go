package transform

import (
	"context"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"go.uber.org/zap"
)

// GroupOfUniqueNames implements the operator-style flat group transform
// (spec.md §4.3.6). Unlike sdcaccountrole/sdcaccountgroup, this objectclass
// has no primary record of its own: its only effect is denormalizing the
// group's cn into every member account's /uuid/{account}.groups map. An add
// entry with no uniquemember values is a successful no-op (spec.md §8
// property 13).
type GroupOfUniqueNames struct{}

var _ Handler = GroupOfUniqueNames{}

func (GroupOfUniqueNames) Add(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	name := groupName(entry)
	members := dnUUIDs(entry.AttrAll("uniquemember"), 0)
	return fanOut(ctx, members, func(ctx context.Context, accountUUID string) error {
		return kv.AddToMap(ctx, b, kv.UUIDKey(accountUUID), "groups", name)
	})
}

func (GroupOfUniqueNames) Modify(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, log *zap.SugaredLogger) error {
	name := groupName(entry)

	for _, mod := range entry.Modifications {
		if mod.Type != "uniquemember" {
			log.Warnw("groupofuniquenames: ignoring unknown modification", "type", mod.Type, "name", name)
			continue
		}
		members := dnUUIDs(mod.Values, 0)
		if err := fanOut(ctx, members, func(ctx context.Context, accountUUID string) error {
			key := kv.UUIDKey(accountUUID)
			if mod.Operation == changelog.ModDelete {
				return kv.DelFromMap(ctx, b, key, "groups", name)
			}
			return kv.AddToMap(ctx, b, key, "groups", name)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (GroupOfUniqueNames) Delete(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	name := groupName(entry)
	members := dnUUIDs(entry.AttrAll("uniquemember"), 0)
	return fanOut(ctx, members, func(ctx context.Context, accountUUID string) error {
		return kv.DelFromMap(ctx, b, kv.UUIDKey(accountUUID), "groups", name)
	})
}

// groupName resolves an operator group's cn, preferring the explicit
// attribute (add/delete entries) and falling back to DN position 0 (modify
// entries, which identify their target by DN alone).
func groupName(entry *changelog.Entry) string {
	if cn := entry.Attr("cn"); cn != "" {
		return cn
	}
	return changelog.DNValue(entry.TargetDN, 0)
}
