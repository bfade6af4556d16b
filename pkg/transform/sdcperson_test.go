package transform

import (
	"context"
	"testing"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSDCPerson_Add(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, mr := newTestBatch(t)

	entry := &changelog.Entry{
		ChangeType:  changelog.Add,
		ObjectClass: []string{"sdcperson"},
		TargetDN:    "uuid=acct-1, ou=users, o=smartdc",
		Attrs: map[string][]string{
			"uuid":                      {"acct-1"},
			"login":                     {"alice"},
			"approved_for_provisioning": {"true"},
		},
	}
	require.NoError(t, SDCPerson{}.Add(ctx, entry, b, nil, nopLog))
	require.NoError(t, b.Commit(ctx))

	var account kv.Account
	require.True(t, getJSON(t, mr, kv.UUIDKey("acct-1"), &account))
	assert.Equal(t, "alice", account.Login)
	assert.True(t, account.ApprovedForProvisioning)
	assert.False(t, account.TritonCNSEnabled)

	uuid, ok := getString(t, mr, kv.AccountKey("alice"))
	require.True(t, ok)
	assert.Equal(t, "acct-1", uuid)
	assert.Contains(t, memberOf(t, mr, kv.SetAccountsKey()), "acct-1")
}

func TestSDCPerson_Modify_Rename(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, mr := newTestBatch(t)

	add := &changelog.Entry{
		ChangeType:  changelog.Add,
		ObjectClass: []string{"sdcperson"},
		Attrs: map[string][]string{
			"uuid":  {"acct-1"},
			"login": {"alice"},
		},
	}
	require.NoError(t, SDCPerson{}.Add(ctx, add, b, nil, nopLog))
	require.NoError(t, b.Commit(ctx))

	b2, _ := reuseBatch(t, mr)
	rename := &changelog.Entry{
		ChangeType:  changelog.Modify,
		ObjectClass: []string{"sdcperson"},
		TargetDN:    "uuid=acct-1, ou=users, o=smartdc",
		Modifications: []changelog.Modification{
			{Operation: changelog.ModReplace, Type: "login", Values: []string{"alice2"}},
		},
	}
	require.NoError(t, SDCPerson{}.Modify(ctx, rename, b2, nil, nopLog))
	require.NoError(t, b2.Commit(ctx))

	_, ok := getString(t, mr, kv.AccountKey("alice"))
	assert.False(t, ok)
	uuid, ok := getString(t, mr, kv.AccountKey("alice2"))
	require.True(t, ok)
	assert.Equal(t, "acct-1", uuid)

	var account kv.Account
	require.True(t, getJSON(t, mr, kv.UUIDKey("acct-1"), &account))
	assert.Equal(t, "alice2", account.Login)
}

func TestSDCPerson_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, mr := newTestBatch(t)

	add := &changelog.Entry{
		ChangeType:  changelog.Add,
		ObjectClass: []string{"sdcperson"},
		Attrs: map[string][]string{
			"uuid":  {"acct-1"},
			"login": {"alice"},
		},
	}
	require.NoError(t, SDCPerson{}.Add(ctx, add, b, nil, nopLog))
	require.NoError(t, b.Commit(ctx))

	b2, _ := reuseBatch(t, mr)
	del := &changelog.Entry{
		ChangeType:  changelog.Delete,
		ObjectClass: []string{"sdcperson"},
		TargetDN:    "uuid=acct-1, ou=users, o=smartdc",
	}
	require.NoError(t, SDCPerson{}.Delete(ctx, del, b2, nil, nopLog))
	require.NoError(t, b2.Commit(ctx))

	_, err := mr.Get(kv.UUIDKey("acct-1"))
	assert.Error(t, err)
	_, ok2 := getString(t, mr, kv.AccountKey("alice"))
	assert.False(t, ok2)
	assert.NotContains(t, memberOf(t, mr, kv.SetAccountsKey()), "acct-1")
}
