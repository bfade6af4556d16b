package transform

import (
	"context"
	"testing"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSDCAccountUser_Add(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, mr := newTestBatch(t)

	entry := &changelog.Entry{
		ChangeType:  changelog.Add,
		ObjectClass: []string{"sdcaccountuser", "sdcperson"},
		Attrs: map[string][]string{
			"uuid":    {"user-1"},
			"account": {"acct-1"},
			"login":   {"bob"},
		},
	}
	require.NoError(t, SDCAccountUser{}.Add(ctx, entry, b, nil, nopLog))
	require.NoError(t, b.Commit(ctx))

	var user kv.User
	require.True(t, getJSON(t, mr, kv.UUIDKey("user-1"), &user))
	assert.Equal(t, "acct-1", user.Account)
	assert.Equal(t, "bob", user.Login)

	uuid, ok := getString(t, mr, kv.UserKey("acct-1", "bob"))
	require.True(t, ok)
	assert.Equal(t, "user-1", uuid)
	assert.Contains(t, memberOf(t, mr, kv.SetUsersKey("acct-1")), "user-1")
}

func TestSDCAccountUser_Modify_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, mr := newTestBatch(t)

	add := &changelog.Entry{
		ChangeType:  changelog.Add,
		ObjectClass: []string{"sdcaccountuser", "sdcperson"},
		Attrs: map[string][]string{
			"uuid":    {"user-1"},
			"account": {"acct-1"},
			"login":   {"bob"},
		},
	}
	require.NoError(t, SDCAccountUser{}.Add(ctx, add, b, nil, nopLog))
	require.NoError(t, b.Commit(ctx))

	b2, _ := reuseBatch(t, mr)
	mod := &changelog.Entry{
		ChangeType: changelog.Modify,
		Attrs:      map[string][]string{"uuid": {"user-1"}},
		Modifications: []changelog.Modification{
			{Operation: changelog.ModReplace, Type: "login", Values: []string{"bobby"}},
		},
	}
	require.NoError(t, SDCAccountUser{}.Modify(ctx, mod, b2, nil, nopLog))
	require.NoError(t, b2.Commit(ctx))

	_, ok := getString(t, mr, kv.UserKey("acct-1", "bob"))
	assert.False(t, ok)
	uuid, ok := getString(t, mr, kv.UserKey("acct-1", "bobby"))
	require.True(t, ok)
	assert.Equal(t, "user-1", uuid)
}

func TestSDCAccountUser_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, mr := newTestBatch(t)

	add := &changelog.Entry{
		ChangeType:  changelog.Add,
		ObjectClass: []string{"sdcaccountuser", "sdcperson"},
		Attrs: map[string][]string{
			"uuid":    {"user-1"},
			"account": {"acct-1"},
			"login":   {"bob"},
		},
	}
	require.NoError(t, SDCAccountUser{}.Add(ctx, add, b, nil, nopLog))
	require.NoError(t, b.Commit(ctx))

	b2, _ := reuseBatch(t, mr)
	del := &changelog.Entry{
		ChangeType: changelog.Delete,
		Attrs:      map[string][]string{"uuid": {"user-1"}},
	}
	require.NoError(t, SDCAccountUser{}.Delete(ctx, del, b2, nil, nopLog))
	require.NoError(t, b2.Commit(ctx))

	_, ok := getString(t, mr, kv.UserKey("acct-1", "bob"))
	assert.False(t, ok)
	assert.NotContains(t, memberOf(t, mr, kv.SetUsersKey("acct-1")), "user-1")
}
