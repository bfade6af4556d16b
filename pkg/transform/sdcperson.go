package transform

import (
	"context"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"go.uber.org/zap"
)

// SDCPerson implements the top-level account transform (spec.md §4.3.1).
type SDCPerson struct{}

var _ Handler = SDCPerson{}

// Add builds a fresh account record, the login secondary index, and
// membership in /set/accounts (spec.md §8 S1).
func (SDCPerson) Add(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	login := entry.Attr("login")

	account := kv.Account{
		Type:                    "account",
		UUID:                    uuid,
		Login:                   login,
		Groups:                  []string{},
		ApprovedForProvisioning: parseLDAPBool(entry.Attr("approved_for_provisioning")),
		TritonCNSEnabled:        parseLDAPBool(entry.Attr("triton_cns_enabled")),
	}

	if err := kv.PutJSON(b, kv.UUIDKey(uuid), account); err != nil {
		return err
	}
	b.Set(kv.AccountKey(login), uuid)
	b.SAdd(kv.SetAccountsKey(), uuid)
	return nil
}

// Modify handles approved_for_provisioning/triton_cns_enabled boolean
// flips, login rename, and warns-and-skips anything else (spec.md
// §4.3.1, §8 S4).
func (SDCPerson) Modify(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, log *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	key := kv.UUIDKey(uuid)

	for _, mod := range entry.Modifications {
		switch mod.Type {
		case "approved_for_provisioning", "triton_cns_enabled":
			value := false
			if mod.Operation != changelog.ModDelete && len(mod.Values) > 0 {
				value = parseLDAPBool(mod.Values[0])
			}
			if err := kv.SetValue(ctx, b, key, mod.Type, value); err != nil {
				return err
			}
		case "login":
			if err := renameAccountLogin(ctx, b, key, uuid, mod); err != nil {
				return err
			}
		default:
			log.Warnw("sdcperson: ignoring unknown modification", "type", mod.Type, "uuid", uuid)
		}
	}
	return nil
}

func renameAccountLogin(ctx context.Context, b *kv.Batch, key, uuid string, mod changelog.Modification) error {
	var account kv.Account
	ok, err := kv.GetJSON(ctx, b, key, &account)
	if err != nil {
		return err
	}
	if !ok || len(mod.Values) == 0 {
		return nil
	}
	newLogin := mod.Values[0]
	b.Del(kv.AccountKey(account.Login))
	b.Set(kv.AccountKey(newLogin), uuid)
	return kv.SetValue(ctx, b, key, "login", newLogin)
}

// Delete removes the account blob, its login index, its membership in
// /set/accounts, and the account-scoped set keys (spec.md §3 invariants,
// §4.3.1).
func (SDCPerson) Delete(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	key := kv.UUIDKey(uuid)

	var account kv.Account
	ok, err := kv.GetJSON(ctx, b, key, &account)
	if err != nil {
		return err
	}

	b.Del(key)
	if ok {
		b.Del(kv.AccountKey(account.Login))
	} else if login := entry.Attr("login"); login != "" {
		b.Del(kv.AccountKey(login))
	}
	b.SRem(kv.SetAccountsKey(), uuid)
	b.Del(kv.SetUsersKey(uuid))
	b.Del(kv.SetPoliciesKey(uuid))
	b.Del(kv.SetRolesKey(uuid))
	return nil
}
