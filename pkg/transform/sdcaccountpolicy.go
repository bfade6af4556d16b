package transform

import (
	"context"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"go.uber.org/zap"
)

// SDCAccountPolicy implements the policy transform (spec.md §4.3.4). Rule
// text arrives as raw strings and is run through the parser collaborator to
// produce the [raw, parsed] tuples kv.Rule stores; memberrole edits update
// the referenced role's .policies field one role at a time, reciprocal to
// SDCAccountRole's memberpolicy path (spec.md §9).
//
// Open question resolved here (DESIGN.md): an entry's "account" attribute is
// single-valued in this model, so a delete entry's account-scoped cleanup
// uses entry.Attr("account") (its first, and only meaningful, value) rather
// than folding every value of a multi-valued attribute into the key.
type SDCAccountPolicy struct{}

var _ Handler = SDCAccountPolicy{}

func (SDCAccountPolicy) Add(ctx context.Context, entry *changelog.Entry, b *kv.Batch, parser Parser, _ *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	account := entry.Attr("account")
	name := entry.Attr("name")

	rules, err := parseRules(parser, entry.AttrAll("rule"))
	if err != nil {
		return err
	}

	policy := kv.Policy{
		Type:    "policy",
		UUID:    uuid,
		Account: account,
		Name:    name,
		Rules:   rules,
	}
	if err := kv.PutJSON(b, kv.UUIDv2Key(uuid), policy); err != nil {
		return err
	}
	b.Set(kv.PolicyKey(account, name), uuid)
	b.SAdd(kv.SetPoliciesKey(account), uuid)

	members := dnUUIDs(entry.AttrAll("memberrole"), 0)
	return fanOut(ctx, members, func(ctx context.Context, roleUUID string) error {
		return kv.AddToSortedSet(ctx, b, kv.UUIDv2Key(roleUUID), "policies", uuid)
	})
}

func (SDCAccountPolicy) Modify(ctx context.Context, entry *changelog.Entry, b *kv.Batch, parser Parser, log *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	key := kv.UUIDv2Key(uuid)

	for _, mod := range entry.Modifications {
		switch mod.Type {
		case "name":
			if len(mod.Values) == 0 {
				continue
			}
			if err := kv.Rename(ctx, b, key, "policy", mod.Values[0]); err != nil {
				return err
			}

		case "rule":
			rules, err := parseRules(parser, mod.Values)
			if err != nil {
				return err
			}
			switch mod.Operation {
			case changelog.ModAdd:
				err = kv.RuleSetUnion(ctx, b, key, "rules", rules)
			case changelog.ModDelete:
				err = kv.RuleSetDifference(ctx, b, key, "rules", rules)
			case changelog.ModReplace:
				err = kv.SetRuleList(ctx, b, key, "rules", rules)
			}
			if err != nil {
				return err
			}

		case "memberrole":
			roleUUIDs := dnUUIDs(mod.Values, 0)
			if err := fanOut(ctx, roleUUIDs, func(ctx context.Context, roleUUID string) error {
				roleKey := kv.UUIDv2Key(roleUUID)
				if mod.Operation == changelog.ModDelete {
					return kv.DelFromSortedSet(ctx, b, roleKey, "policies", uuid)
				}
				return kv.AddToSortedSet(ctx, b, roleKey, "policies", uuid)
			}); err != nil {
				return err
			}

		default:
			log.Warnw("sdcaccountpolicy: ignoring unknown modification", "type", mod.Type, "uuid", uuid)
		}
	}
	return nil
}

func (SDCAccountPolicy) Delete(ctx context.Context, entry *changelog.Entry, b *kv.Batch, _ Parser, _ *zap.SugaredLogger) error {
	uuid := entryUUID(entry)
	key := kv.UUIDv2Key(uuid)

	var policy kv.Policy
	ok, err := kv.GetJSON(ctx, b, key, &policy)
	if err != nil {
		return err
	}

	b.Del(key)
	account, name := entry.Attr("account"), entry.Attr("name")
	if ok {
		account, name = policy.Account, policy.Name
	}
	if account != "" && name != "" {
		b.Del(kv.PolicyKey(account, name))
	}
	if account != "" {
		b.SRem(kv.SetPoliciesKey(account), uuid)
	}

	members := dnUUIDs(entry.AttrAll("memberrole"), 0)
	return fanOut(ctx, members, func(ctx context.Context, roleUUID string) error {
		return kv.DelFromSortedSet(ctx, b, kv.UUIDv2Key(roleUUID), "policies", uuid)
	})
}

func parseRules(parser Parser, raw []string) ([]kv.Rule, error) {
	rules := make([]kv.Rule, len(raw))
	for i, text := range raw {
		parsed, err := parser.Parse(text)
		if err != nil {
			return nil, err
		}
		rules[i] = kv.Rule{Raw: text, Parsed: parsed}
	}
	return rules, nil
}
