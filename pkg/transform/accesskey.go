package transform

import (
	"context"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"go.uber.org/zap"
)

// AccessKey implements the HMAC credential transform (spec.md §4.3.8): it
// denormalizes onto the owning account/sub-user's .accesskeys map (access
// key id -> secret) and maintains the /accesskey/{id} reverse index the STS
// layer needs to resolve a credential back to its owning uuid without a
// table scan. Modify is a no-op, matching SDCKey.
type AccessKey struct{}

var _ Handler = AccessKey{}

func (AccessKey) Add(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	owner := ownerUUID(entry)
	id := accessKeyID(entry)

	if err := kv.SetMapEntry(ctx, b, kv.UUIDKey(owner), "accesskeys", id, entry.Attr("accesskeysecret")); err != nil {
		return err
	}
	b.Set(kv.AccessKeyKey(id), owner)
	return nil
}

func (AccessKey) Modify(_ context.Context, _ *changelog.Entry, _ *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	return nil
}

func (AccessKey) Delete(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	owner := ownerUUID(entry)
	id := accessKeyID(entry)

	if err := kv.DelMapEntry(ctx, b, kv.UUIDKey(owner), "accesskeys", id); err != nil {
		return err
	}
	b.Del(kv.AccessKeyKey(id))
	return nil
}

// accessKeyID resolves an access-key entry's id from the accesskeyid
// attribute or DN position 0.
func accessKeyID(entry *changelog.Entry) string {
	if id := entry.Attr("accesskeyid"); id != "" {
		return id
	}
	return changelog.DNValue(entry.TargetDN, 0)
}
