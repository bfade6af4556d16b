package transform

import (
	"context"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"go.uber.org/zap"
)

// SDCAccountGroup implements the legacy pre-role group transform (spec.md
// §4.3.5): a v1-uuid-namespace mirror of SDCAccountRole, identified by "cn"
// rather than "name", whose members pick up the group's own uuid in their
// /uuid/{user}.roles array exactly as a role membership would.
type SDCAccountGroup struct{}

var _ Handler = SDCAccountGroup{}

func (SDCAccountGroup) Add(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	account := entry.Attr("account")
	name := entry.Attr("cn")

	group := kv.Group{
		Type:    "group",
		UUID:    uuid,
		Account: account,
		Name:    name,
		Roles:   []string{},
	}
	if err := kv.PutJSON(b, kv.UUIDKey(uuid), group); err != nil {
		return err
	}
	b.Set(kv.GroupKey(account, name), uuid)
	b.SAdd(kv.SetGroupsKey(account), uuid)

	members := dnUUIDs(entry.AttrAll("uniquemember"), 0)
	return fanOut(ctx, members, func(ctx context.Context, userUUID string) error {
		return kv.AddToSortedSet(ctx, b, kv.UUIDKey(userUUID), "roles", uuid)
	})
}

func (SDCAccountGroup) Modify(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, log *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	key := kv.UUIDKey(uuid)

	for _, mod := range entry.Modifications {
		switch mod.Type {
		case "cn":
			if len(mod.Values) == 0 {
				continue
			}
			if err := kv.Rename(ctx, b, key, "group", mod.Values[0]); err != nil {
				return err
			}

		case "uniquemember":
			userUUIDs := dnUUIDs(mod.Values, 0)
			if err := fanOutMembership(ctx, b, mod.Operation, userUUIDs, "roles", uuid); err != nil {
				return err
			}

		default:
			log.Warnw("sdcaccountgroup: ignoring unknown modification", "type", mod.Type, "uuid", uuid)
		}
	}
	return nil
}

func (SDCAccountGroup) Delete(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	key := kv.UUIDKey(uuid)

	var group kv.Group
	ok, err := kv.GetJSON(ctx, b, key, &group)
	if err != nil {
		return err
	}

	b.Del(key)
	account, name := entry.Attr("account"), entry.Attr("cn")
	if ok {
		account, name = group.Account, group.Name
	}
	if account != "" && name != "" {
		b.Del(kv.GroupKey(account, name))
	}
	if account != "" {
		b.SRem(kv.SetGroupsKey(account), uuid)
	}

	members := dnUUIDs(entry.AttrAll("uniquemember"), 0)
	return fanOut(ctx, members, func(ctx context.Context, userUUID string) error {
		return kv.DelFromSortedSet(ctx, b, kv.UUIDKey(userUUID), "roles", uuid)
	})
}
