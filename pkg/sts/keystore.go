// Package sts implements the secret-rotation-aware STS session-token
// issuer/verifier (spec.md §4.5): HS256 compact JWTs, a multi-key store
// keyed by keyId, and a grace window during which a superseded signing key
// still verifies tokens it previously signed.
package sts

import (
	"sync"
	"time"

	"github.com/TritonDataCenter/mahi-sub003/pkg/config"
)

// Key is one entry in the rotation-aware key store.
type Key struct {
	ID      string
	Secret  []byte
	Primary bool

	// RotatedAt is set the moment this key stops being primary; nil while
	// it is still primary or has never been rotated out. Grace-period
	// eviction is computed from it.
	RotatedAt *time.Time
}

// KeyStore holds the signing/verification keys named `secrets` in spec.md
// §4.5, plus the grace period. Exactly one key is Primary at a time,
// matching the single-trusted-key-at-a-time concurrency character this
// module shares with the batch/cache primitives (spec.md §1).
type KeyStore struct {
	mu          sync.RWMutex
	keys        map[string]Key
	gracePeriod time.Duration
}

// NewKeyStore builds an empty KeyStore with the given grace period.
func NewKeyStore(gracePeriod time.Duration) *KeyStore {
	return &KeyStore{keys: make(map[string]Key), gracePeriod: gracePeriod}
}

// LoadKeyStore builds a KeyStore from the loaded STS config section. It
// copies the keys as given and does not check the exactly-one-primary
// rule itself; config.Validate enforces that when the file is loaded.
// With no primary key, Primary reports ErrNoPrimaryKey; with several, it
// returns any one of them.
func LoadKeyStore(cfg config.STSConfig) *KeyStore {
	store := NewKeyStore(cfg.GracePeriod)
	for id, k := range cfg.Keys {
		store.keys[id] = Key{ID: id, Secret: []byte(k.Secret), Primary: k.Primary}
	}
	return store
}

// Put inserts or replaces a key. If it is marked Primary, any existing
// primary key is demoted and stamped with RotatedAt=now, starting its
// grace-period clock (spec.md §4.5 "Key store", §8 S6).
func (s *KeyStore) Put(k Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if k.Primary {
		now := time.Now()
		for id, existing := range s.keys {
			if existing.Primary && id != k.ID {
				existing.Primary = false
				existing.RotatedAt = &now
				s.keys[id] = existing
			}
		}
	}
	s.keys[k.ID] = k
}

// Rotate is Put for the common case: promote a newly generated key to
// primary, demoting whatever key held that role.
func (s *KeyStore) Rotate(id string, secret []byte) {
	s.Put(Key{ID: id, Secret: secret, Primary: true})
}

// Evict removes a key unconditionally (an operator-initiated hard
// revocation, distinct from grace-period expiry).
func (s *KeyStore) Evict(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, id)
}

// EvictExpired removes every non-primary key whose grace period has
// elapsed as of now. Spec.md §4.5 assigns this responsibility to "an
// external collaborator"; neither the replicator driver nor the CLI calls
// it, so the owner of the store decides when it runs.
func (s *KeyStore) EvictExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, k := range s.keys {
		if !k.Primary && k.RotatedAt != nil && now.Sub(*k.RotatedAt) > s.gracePeriod {
			delete(s.keys, id)
		}
	}
}

// Primary returns the current signing key, or ErrNoPrimaryKey if none is set.
func (s *KeyStore) Primary() (Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range s.keys {
		if k.Primary {
			return k, nil
		}
	}
	return Key{}, ErrNoPrimaryKey
}

// Lookup resolves a keyId to its key, reporting whether it is still present
// (spec.md §4.5 verify step 5, §8 property 14).
func (s *KeyStore) Lookup(id string) (Key, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.keys[id]
	return k, ok
}
