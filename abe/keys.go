/*
 * Copyright (c) 2021 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package abe

import (
	"math/big"
	"sort"
	"sync"

	"github.com/fentec-project/dcpabe/group"
	"github.com/pkg/errors"
)

// PublicKey is the public key of an attribute: (g^k, g^n), where k is
// the secret of the attribute and n the scalar shared by all
// authorities.
type PublicKey struct {
	GToK group.Element
	GToN group.Element
}

// SecretKey is the secret key (k, n) of an attribute, kept by the
// authority managing it.
type SecretKey struct {
	K *big.Int
	N *big.Int
}

// PersonalKey is the key of attribute Attrib issued to the user with
// global identifier GID: k + H(GID) * n.
type PersonalKey struct {
	GID    string
	Attrib string
	Key    *big.Int
}

// AuthorityKeys holds the keys of the attributes managed by one
// authority.
type AuthorityKeys struct {
	ID         string
	PublicKeys map[string]*PublicKey
	SecretKeys map[string]*SecretKey
}

// Attributes returns the attributes managed by the authority, sorted.
func (a *AuthorityKeys) Attributes() []string {
	attribs := make([]string, 0, len(a.SecretKeys))
	for at := range a.SecretKeys {
		attribs = append(attribs, at)
	}
	sort.Strings(attribs)

	return attribs
}

// GenerateKey issues the personal key of attribute attrib to the user
// gid. It fails if the authority does not manage attrib.
func (a *AuthorityKeys) GenerateKey(d *DCPABE, gid, attrib string) (*PersonalKey, error) {
	sk, ok := a.SecretKeys[attrib]
	if !ok {
		return nil, errors.Errorf("attribute %q not managed by authority %q", attrib, a.ID)
	}

	return d.KeyGen(gid, attrib, sk)
}

// PublicKeys collects the public keys of attributes, possibly
// published by many authorities. It is safe for concurrent use.
type PublicKeys struct {
	mu   sync.RWMutex
	keys map[string]*PublicKey
}

// NewPublicKeys returns an empty PublicKeys.
func NewPublicKeys() *PublicKeys {
	return &PublicKeys{keys: make(map[string]*PublicKey)}
}

// Add adds the public key of attrib. Adding a second key for the same
// attribute fails with ErrDuplicateAttribute.
func (p *PublicKeys) Add(attrib string, pk *PublicKey) error {
	if pk == nil {
		return errors.Errorf("nil public key for attribute %q", attrib)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.keys[attrib]; ok {
		return errors.Wrapf(ErrDuplicateAttribute, "attribute %q", attrib)
	}
	p.keys[attrib] = pk

	return nil
}

// SubscribeAuthority adds all public keys published by an authority.
// Either all keys are added or, if any attribute is already present,
// none.
func (p *PublicKeys) SubscribeAuthority(pks map[string]*PublicKey) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for at, pk := range pks {
		if pk == nil {
			return errors.Errorf("nil public key for attribute %q", at)
		}
		if _, ok := p.keys[at]; ok {
			return errors.Wrapf(ErrDuplicateAttribute, "attribute %q", at)
		}
	}
	for at, pk := range pks {
		p.keys[at] = pk
	}

	return nil
}

// Get returns the public key of attrib.
func (p *PublicKeys) Get(attrib string) (*PublicKey, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pk, ok := p.keys[attrib]

	return pk, ok
}

// Attributes returns the attributes with a public key, sorted.
func (p *PublicKeys) Attributes() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return sortedKeys(p.keys)
}

// Len returns the number of public keys.
func (p *PublicKeys) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.keys)
}

// PersonalKeys is the key ring of the user with global identifier GID.
// It is safe for concurrent use.
type PersonalKeys struct {
	GID  string
	mu   sync.RWMutex
	keys map[string]*PersonalKey
}

// NewPersonalKeys returns an empty key ring of user gid.
func NewPersonalKeys(gid string) *PersonalKeys {
	return &PersonalKeys{GID: gid, keys: make(map[string]*PersonalKey)}
}

// AddKey adds a personal key to the ring. The key must be issued to the
// owner of the ring and its attribute must not be in the ring yet.
func (p *PersonalKeys) AddKey(k *PersonalKey) error {
	if k == nil {
		return errors.New("nil personal key")
	}
	if k.GID != p.GID {
		return errors.Wrapf(ErrGIDMismatch, "key of %q added to ring of %q", k.GID, p.GID)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.keys[k.Attrib]; ok {
		return errors.Wrapf(ErrDuplicateAttribute, "attribute %q", k.Attrib)
	}
	p.keys[k.Attrib] = k

	return nil
}

// Get returns the personal key of attrib.
func (p *PersonalKeys) Get(attrib string) (*PersonalKey, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	k, ok := p.keys[attrib]

	return k, ok
}

// Attributes returns the attributes of the keys in the ring, sorted.
func (p *PersonalKeys) Attributes() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return sortedKeys(p.keys)
}

// snapshot returns a copy of the keys for use outside the lock.
func (p *PersonalKeys) snapshot() map[string]*PersonalKey {
	p.mu.RLock()
	defer p.mu.RUnlock()

	keys := make(map[string]*PersonalKey, len(p.keys))
	for at, k := range p.keys {
		keys[at] = k
	}

	return keys
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
