package transform

import (
	"context"
	"testing"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSDCAccountRole_Add_MembersFanOut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, mr := newTestBatch(t)

	entry := &changelog.Entry{
		ChangeType:  changelog.Add,
		ObjectClass: []string{"sdcaccountrole"},
		Attrs: map[string][]string{
			"uuid":                 {"role-1"},
			"account":              {"acct-1"},
			"name":                 {"admin"},
			"uniquemember":         {"uuid=user-1, ou=users, o=smartdc"},
			"uniquememberdefault":  {"uuid=user-1, ou=users, o=smartdc"},
		},
	}
	require.NoError(t, SDCAccountRole{}.Add(ctx, entry, b, nil, nopLog))
	require.NoError(t, b.Commit(ctx))

	var role kv.Role
	require.True(t, getJSON(t, mr, kv.UUIDv2Key("role-1"), &role))
	assert.Equal(t, "admin", role.Name)
	assert.Empty(t, role.Policies)

	uuid, ok := getString(t, mr, kv.RoleKey("acct-1", "admin"))
	require.True(t, ok)
	assert.Equal(t, "role-1", uuid)

	var user struct {
		Roles        []string `json:"roles"`
		DefaultRoles []string `json:"defaultRoles"`
	}
	require.True(t, getJSON(t, mr, kv.UUIDKey("user-1"), &user))
	assert.Equal(t, []string{"role-1"}, user.Roles)
	assert.Equal(t, []string{"role-1"}, user.DefaultRoles)
}

func TestSDCAccountRole_Modify_MemberPolicy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, mr := newTestBatch(t)

	add := &changelog.Entry{
		ChangeType:  changelog.Add,
		ObjectClass: []string{"sdcaccountrole"},
		Attrs: map[string][]string{
			"uuid":    {"role-1"},
			"account": {"acct-1"},
			"name":    {"admin"},
		},
	}
	require.NoError(t, SDCAccountRole{}.Add(ctx, add, b, nil, nopLog))
	require.NoError(t, b.Commit(ctx))

	b2, _ := reuseBatch(t, mr)
	mod := &changelog.Entry{
		ChangeType: changelog.Modify,
		Attrs:      map[string][]string{"uuid": {"role-1"}},
		Modifications: []changelog.Modification{
			{Operation: changelog.ModAdd, Type: "memberpolicy", Values: []string{
				"uuid=pol-1, ou=policies, o=smartdc",
				"uuid=pol-2, ou=policies, o=smartdc",
			}},
		},
	}
	require.NoError(t, SDCAccountRole{}.Modify(ctx, mod, b2, nil, nopLog))
	require.NoError(t, b2.Commit(ctx))

	var role kv.Role
	require.True(t, getJSON(t, mr, kv.UUIDv2Key("role-1"), &role))
	assert.Equal(t, []string{"pol-1", "pol-2"}, role.Policies)
}

func TestSDCAccountRole_Modify_Rename(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, mr := newTestBatch(t)

	add := &changelog.Entry{
		ChangeType:  changelog.Add,
		ObjectClass: []string{"sdcaccountrole"},
		Attrs: map[string][]string{
			"uuid":    {"role-1"},
			"account": {"acct-1"},
			"name":    {"admin"},
		},
	}
	require.NoError(t, SDCAccountRole{}.Add(ctx, add, b, nil, nopLog))
	require.NoError(t, b.Commit(ctx))

	b2, _ := reuseBatch(t, mr)
	mod := &changelog.Entry{
		ChangeType: changelog.Modify,
		Attrs:      map[string][]string{"uuid": {"role-1"}},
		Modifications: []changelog.Modification{
			{Operation: changelog.ModReplace, Type: "name", Values: []string{"superadmin"}},
		},
	}
	require.NoError(t, SDCAccountRole{}.Modify(ctx, mod, b2, nil, nopLog))
	require.NoError(t, b2.Commit(ctx))

	_, ok := getString(t, mr, kv.RoleKey("acct-1", "admin"))
	assert.False(t, ok)
	uuid, ok := getString(t, mr, kv.RoleKey("acct-1", "superadmin"))
	require.True(t, ok)
	assert.Equal(t, "role-1", uuid)
}

func TestSDCAccountRole_Delete_RemovesMembership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, mr := newTestBatch(t)

	add := &changelog.Entry{
		ChangeType:  changelog.Add,
		ObjectClass: []string{"sdcaccountrole"},
		Attrs: map[string][]string{
			"uuid":         {"role-1"},
			"account":      {"acct-1"},
			"name":         {"admin"},
			"uniquemember": {"uuid=user-1, ou=users, o=smartdc"},
		},
	}
	require.NoError(t, SDCAccountRole{}.Add(ctx, add, b, nil, nopLog))
	require.NoError(t, b.Commit(ctx))

	b2, _ := reuseBatch(t, mr)
	del := &changelog.Entry{
		ChangeType: changelog.Delete,
		Attrs: map[string][]string{
			"uuid":         {"role-1"},
			"uniquemember": {"uuid=user-1, ou=users, o=smartdc"},
		},
	}
	require.NoError(t, SDCAccountRole{}.Delete(ctx, del, b2, nil, nopLog))
	require.NoError(t, b2.Commit(ctx))

	_, err := mr.Get(kv.UUIDv2Key("role-1"))
	assert.Error(t, err)
	var user struct {
		Roles []string `json:"roles"`
	}
	require.True(t, getJSON(t, mr, kv.UUIDKey("user-1"), &user))
	assert.Empty(t, user.Roles)
}
