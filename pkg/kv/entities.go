package kv

// Entity blobs, per spec.md §3. Fields are the minimal set the spec
// requires transforms to preserve; all are JSON so that unrelated
// fields an upstream directory might add (and that the primitives
// generically maintain, e.g. .keys/.accesskeys on an account) round-trip
// through the untyped blob path as well as this typed one.

// KeyInfo is optional per-fingerprint metadata for a public key.
type KeyInfo struct {
	Attested *bool `json:"attested,omitempty"`
	Pin      *bool `json:"pin,omitempty"`
	Touch    *bool `json:"touch,omitempty"`
}

// Account is a top-level account record (sdcperson), stored at
// UUIDKey(uuid).
type Account struct {
	Type                    string             `json:"type"`
	UUID                    string             `json:"uuid"`
	Login                   string             `json:"login"`
	Groups                  []string           `json:"groups"`
	ApprovedForProvisioning bool               `json:"approved_for_provisioning"`
	TritonCNSEnabled        bool               `json:"triton_cns_enabled"`
	Keys                    map[string]string  `json:"keys,omitempty"`
	KeyInfo                 map[string]KeyInfo `json:"key_info,omitempty"`
	AccessKeys              map[string]string  `json:"accesskeys,omitempty"`
}

// User is a sub-user record (sdcaccountuser), stored at UUIDKey(uuid).
type User struct {
	Type         string             `json:"type"`
	UUID         string             `json:"uuid"`
	Account      string             `json:"account"`
	Login        string             `json:"login"`
	Roles        []string           `json:"roles"`
	DefaultRoles []string           `json:"defaultRoles"`
	Keys         map[string]string  `json:"keys,omitempty"`
	KeyInfo      map[string]KeyInfo `json:"key_info,omitempty"`
	AccessKeys   map[string]string  `json:"accesskeys,omitempty"`
}

// Role is a role record (sdcaccountrole), stored at UUIDv2Key(uuid).
type Role struct {
	Type                     string   `json:"type"`
	UUID                     string   `json:"uuid"`
	Account                  string   `json:"account"`
	Name                     string   `json:"name"`
	Policies                 []string `json:"policies"`
	AssumeRolePolicyDocument *string  `json:"assumerolepolicydocument"`
}

// Policy is a policy record (sdcaccountpolicy), stored at UUIDv2Key(uuid).
type Policy struct {
	Type    string `json:"type"`
	UUID    string `json:"uuid"`
	Account string `json:"account"`
	Name    string `json:"name"`
	Rules   []Rule `json:"rules"`
}

// Group is an account-scoped group record (sdcaccountgroup, pre-role
// model), stored at UUIDKey(uuid).
type Group struct {
	Type    string   `json:"type"`
	UUID    string   `json:"uuid"`
	Account string   `json:"account"`
	Name    string   `json:"name"`
	Roles   []string `json:"roles"`
}
