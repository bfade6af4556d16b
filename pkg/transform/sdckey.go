package transform

import (
	"context"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"go.uber.org/zap"
)

// SDCKey implements the public-key transform (spec.md §4.3.7): it
// denormalizes onto the owning account/sub-user's blob rather than keeping
// a record of its own, under .keys (fingerprint -> raw key material) and
// .key_info (fingerprint -> yubikey attestation flags). Modify is a no-op:
// a key changelog entry never carries an in-place update, only add/delete.
type SDCKey struct{}

var _ Handler = SDCKey{}

func (SDCKey) Add(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	owner := ownerUUID(entry)
	fp := keyFingerprint(entry)
	key := kv.UUIDKey(owner)

	if err := kv.SetMapEntry(ctx, b, key, "keys", fp, entry.Attr("pkcs")); err != nil {
		return err
	}
	if info, ok := keyInfoFromEntry(entry); ok {
		return kv.SetMapEntry(ctx, b, key, "key_info", fp, info)
	}
	return nil
}

func (SDCKey) Modify(_ context.Context, _ *changelog.Entry, _ *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	return nil
}

func (SDCKey) Delete(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	owner := ownerUUID(entry)
	fp := keyFingerprint(entry)
	key := kv.UUIDKey(owner)

	if err := kv.DelMapEntry(ctx, b, key, "keys", fp); err != nil {
		return err
	}
	return kv.DelMapEntry(ctx, b, key, "key_info", fp)
}

// keyFingerprint resolves a key entry's fingerprint, its identity within
// the owner's .keys map, from the fingerprint attribute or DN position 0.
func keyFingerprint(entry *changelog.Entry) string {
	if fp := entry.Attr("fingerprint"); fp != "" {
		return fp
	}
	return changelog.DNValue(entry.TargetDN, 0)
}

func keyInfoFromEntry(entry *changelog.Entry) (kv.KeyInfo, bool) {
	var info kv.KeyInfo
	set := false
	if v := entry.Attr("attested"); v != "" {
		b := parseLDAPBool(v)
		info.Attested = &b
		set = true
	}
	if v := entry.Attr("ykpinrequired"); v != "" {
		b := parseLDAPBool(v)
		info.Pin = &b
		set = true
	}
	if v := entry.Attr("yktouchrequired"); v != "" {
		b := parseLDAPBool(v)
		info.Touch = &b
		set = true
	}
	return info, set
}
