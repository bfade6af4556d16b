package kv

import "fmt"

// Key builders for the key families in spec.md §3. Centralizing them here
// keeps every transform and primitive consistent about the exact string
// shape of a key, since secondary-index lookups and rename all depend on
// byte-for-byte agreement between writer and reader.

// UUIDKey returns the primary-record key for the v1 uuid namespace
// (accounts, sub-users, keys, access-keys).
func UUIDKey(uuid string) string { return "/uuid/" + uuid }

// UUIDv2Key returns the primary-record key for the v2 uuid namespace
// (roles, policies), kept distinct from UUIDKey so sub-user and role
// uuids can never collide (spec.md §9 "Two uuid namespaces").
func UUIDv2Key(uuid string) string { return "/uuidv2/" + uuid }

// AccountKey is the login -> uuid secondary index for top-level accounts.
func AccountKey(login string) string { return "/account/" + login }

// UserKey is the login -> uuid secondary index for a sub-user within an account.
func UserKey(accountUUID, login string) string { return "/user/" + accountUUID + "/" + login }

// RoleKey is the name -> uuid secondary index for a role within an account.
func RoleKey(accountUUID, name string) string { return "/role/" + accountUUID + "/" + name }

// PolicyKey is the name -> uuid secondary index for a policy within an account.
func PolicyKey(accountUUID, name string) string { return "/policy/" + accountUUID + "/" + name }

// GroupKey is the name -> uuid secondary index for an account-scoped group.
func GroupKey(accountUUID, name string) string { return "/group/" + accountUUID + "/" + name }

// IndexKey builds a secondary-index key from its object-class type name,
// used generically by the rename primitive.
func IndexKey(typ, account, name string) string {
	return fmt.Sprintf("/%s/%s/%s", typ, account, name)
}

// SetAccountsKey is the set of all top-level account uuids.
func SetAccountsKey() string { return "/set/accounts" }

// SetUsersKey is the set of sub-user uuids belonging to an account.
func SetUsersKey(accountUUID string) string { return "/set/users/" + accountUUID }

// SetRolesKey is the set of role uuids belonging to an account.
func SetRolesKey(accountUUID string) string { return "/set/roles/" + accountUUID }

// SetPoliciesKey is the set of policy uuids belonging to an account.
func SetPoliciesKey(accountUUID string) string { return "/set/policies/" + accountUUID }

// SetGroupsKey is the set of account-scoped group uuids belonging to an account.
func SetGroupsKey(accountUUID string) string { return "/set/groups/" + accountUUID }

// AccessKeyKey is the reverse index from an access-key id to its owning uuid.
func AccessKeyKey(accessKeyID string) string { return "/accesskey/" + accessKeyID }
