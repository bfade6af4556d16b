package transform

import (
	"context"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"go.uber.org/zap"
)

// SDCAccountUser implements the sub-user transform (spec.md §4.3.2): the
// combined sdcaccountuser+sdcperson object class.
type SDCAccountUser struct{}

var _ Handler = SDCAccountUser{}

func (SDCAccountUser) Add(_ context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	account := entry.Attr("account")
	login := entry.Attr("login")

	user := kv.User{
		Type:    "user",
		UUID:    uuid,
		Account: account,
		Login:   login,
	}
	if err := kv.PutJSON(b, kv.UUIDKey(uuid), user); err != nil {
		return err
	}
	b.Set(kv.UserKey(account, login), uuid)
	b.SAdd(kv.SetUsersKey(account), uuid)
	return nil
}

func (SDCAccountUser) Modify(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, log *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	key := kv.UUIDKey(uuid)

	for _, mod := range entry.Modifications {
		if mod.Type != "login" || len(mod.Values) == 0 {
			log.Warnw("sdcaccountuser: ignoring unknown modification", "type", mod.Type, "uuid", uuid)
			continue
		}

		var user kv.User
		ok, err := kv.GetJSON(ctx, b, key, &user)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		newLogin := mod.Values[0]
		b.Del(kv.UserKey(user.Account, user.Login))
		b.Set(kv.UserKey(user.Account, newLogin), uuid)
		if err := kv.SetValue(ctx, b, key, "login", newLogin); err != nil {
			return err
		}
	}
	return nil
}

func (SDCAccountUser) Delete(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	key := kv.UUIDKey(uuid)

	var user kv.User
	ok, err := kv.GetJSON(ctx, b, key, &user)
	if err != nil {
		return err
	}

	b.Del(key)
	account := entry.Attr("account")
	login := entry.Attr("login")
	if ok {
		account, login = user.Account, user.Login
	}
	if account != "" && login != "" {
		b.Del(kv.UserKey(account, login))
	}
	if account != "" {
		b.SRem(kv.SetUsersKey(account), uuid)
	}
	return nil
}
