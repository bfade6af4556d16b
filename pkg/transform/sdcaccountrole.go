package transform

import (
	"context"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"go.uber.org/zap"
)

// SDCAccountRole implements the role transform (spec.md §4.3.3). Roles live
// in the v2 uuid namespace alongside policies and carry two reciprocal
// membership lists that spec.md §9 requires stay consistent no matter which
// side of the relation last changed: memberpolicy edits here, and memberrole
// edits from SDCAccountPolicy, both ultimately write /uuidv2/{role}.policies.
type SDCAccountRole struct{}

var _ Handler = SDCAccountRole{}

func (SDCAccountRole) Add(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	account := entry.Attr("account")
	name := entry.Attr("name")

	var doc *string
	if d := entry.Attr("assumerolepolicydocument"); d != "" {
		doc = &d
	}

	role := kv.Role{
		Type:                     "role",
		UUID:                     uuid,
		Account:                  account,
		Name:                     name,
		Policies:                 []string{},
		AssumeRolePolicyDocument: doc,
	}
	if err := kv.PutJSON(b, kv.UUIDv2Key(uuid), role); err != nil {
		return err
	}
	b.Set(kv.RoleKey(account, name), uuid)
	b.SAdd(kv.SetRolesKey(account), uuid)

	members := entry.AttrAll("uniquemember")
	if err := fanOut(ctx, members, func(ctx context.Context, dn string) error {
		userUUID := changelog.DNValue(dn, 0)
		return kv.AddToSortedSet(ctx, b, kv.UUIDKey(userUUID), "roles", uuid)
	}); err != nil {
		return err
	}

	defaults := entry.AttrAll("uniquememberdefault")
	return fanOut(ctx, defaults, func(ctx context.Context, dn string) error {
		userUUID := changelog.DNValue(dn, 0)
		return kv.AddToSortedSet(ctx, b, kv.UUIDKey(userUUID), "defaultRoles", uuid)
	})
}

func (SDCAccountRole) Modify(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, log *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	key := kv.UUIDv2Key(uuid)

	for _, mod := range entry.Modifications {
		switch mod.Type {
		case "name":
			if len(mod.Values) == 0 {
				continue
			}
			if err := kv.Rename(ctx, b, key, "role", mod.Values[0]); err != nil {
				return err
			}

		case "memberpolicy":
			policyUUIDs := dnUUIDs(mod.Values, 0)
			var err error
			if mod.Operation == changelog.ModDelete {
				err = kv.SetDifference(ctx, b, key, "policies", policyUUIDs)
			} else {
				err = kv.SetUnion(ctx, b, key, "policies", policyUUIDs)
			}
			if err != nil {
				return err
			}

		case "uniquemember":
			userUUIDs := dnUUIDs(mod.Values, 0)
			field := "roles"
			if err := fanOutMembership(ctx, b, mod.Operation, userUUIDs, field, uuid); err != nil {
				return err
			}

		case "uniquememberdefault":
			userUUIDs := dnUUIDs(mod.Values, 0)
			field := "defaultRoles"
			if err := fanOutMembership(ctx, b, mod.Operation, userUUIDs, field, uuid); err != nil {
				return err
			}

		case "assumerolepolicydocument":
			var value any
			if mod.Operation != changelog.ModDelete && len(mod.Values) > 0 {
				value = mod.Values[0]
			}
			if err := kv.SetValue(ctx, b, key, "assumerolepolicydocument", value); err != nil {
				return err
			}

		default:
			log.Warnw("sdcaccountrole: ignoring unknown modification", "type", mod.Type, "uuid", uuid)
		}
	}
	return nil
}

func (SDCAccountRole) Delete(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	key := kv.UUIDv2Key(uuid)

	var role kv.Role
	ok, err := kv.GetJSON(ctx, b, key, &role)
	if err != nil {
		return err
	}

	b.Del(key)
	account, name := entry.Attr("account"), entry.Attr("name")
	if ok {
		account, name = role.Account, role.Name
	}
	if account != "" && name != "" {
		b.Del(kv.RoleKey(account, name))
	}
	if account != "" {
		b.SRem(kv.SetRolesKey(account), uuid)
	}

	members := dnUUIDs(entry.AttrAll("uniquemember"), 0)
	if err := fanOut(ctx, members, func(ctx context.Context, userUUID string) error {
		return kv.DelFromSortedSet(ctx, b, kv.UUIDKey(userUUID), "roles", uuid)
	}); err != nil {
		return err
	}

	defaults := dnUUIDs(entry.AttrAll("uniquememberdefault"), 0)
	return fanOut(ctx, defaults, func(ctx context.Context, userUUID string) error {
		return kv.DelFromSortedSet(ctx, b, kv.UUIDKey(userUUID), "defaultRoles", uuid)
	})
}

// dnUUIDs extracts DN component i from every DN in dns.
func dnUUIDs(dns []string, i int) []string {
	out := make([]string, len(dns))
	for idx, dn := range dns {
		out[idx] = changelog.DNValue(dn, i)
	}
	return out
}

// fanOutMembership applies an add or delete of roleUUID to blob[field] for
// every user uuid in userUUIDs, concurrently across distinct users.
func fanOutMembership(ctx context.Context, b *kv.Batch, op changelog.ModOp, userUUIDs []string, field, roleUUID string) error {
	return fanOut(ctx, userUUIDs, func(ctx context.Context, userUUID string) error {
		key := kv.UUIDKey(userUUID)
		if op == changelog.ModDelete {
			return kv.DelFromSortedSet(ctx, b, key, field, roleUUID)
		}
		return kv.AddToSortedSet(ctx, b, key, field, roleUUID)
	})
}
