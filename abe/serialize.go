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
	"encoding/json"
	"math/big"

	"github.com/fentec-project/dcpabe/group"
	"github.com/fentec-project/dcpabe/internal"
	"github.com/pkg/errors"
)

// Group elements are encoded with Element.Marshal and scalars as
// big-endian bytes; encoding/json writes both in base64. Elements carry
// no tag of their group, so everything containing elements is decoded
// through the GlobalParameters it belongs to.

type globalParametersJSON struct {
	Group string `json:"group"`
	G     []byte `json:"g"`
}

// MarshalJSON encodes the name of the group and the element g.
func (gp *GlobalParameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(&globalParametersJSON{Group: gp.Group.Name(), G: gp.G.Marshal()})
}

// UnmarshalJSON decodes global parameters.
func (gp *GlobalParameters) UnmarshalJSON(b []byte) error {
	var enc globalParametersJSON
	if err := json.Unmarshal(b, &enc); err != nil {
		return errors.Wrap(internal.MalformedInput, err.Error())
	}
	grp, err := group.New(enc.Group)
	if err != nil {
		return err
	}
	g, err := grp.Unmarshal(enc.G)
	if err != nil {
		return err
	}
	gp.Group = grp
	gp.G = g

	return nil
}

func (gp *GlobalParameters) element(b []byte) (group.Element, error) {
	if len(b) == 0 {
		return nil, errors.Wrap(group.ErrGroupArithmetic, "missing group element")
	}

	return gp.Group.Unmarshal(b)
}

type publicKeyJSON struct {
	GToK []byte `json:"gk"`
	GToN []byte `json:"gn"`
}

func (pk *PublicKey) encode() *publicKeyJSON {
	return &publicKeyJSON{GToK: pk.GToK.Marshal(), GToN: pk.GToN.Marshal()}
}

// MarshalJSON encodes the two elements of the public key.
func (pk *PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(pk.encode())
}

func (gp *GlobalParameters) decodePublicKey(enc *publicKeyJSON) (*PublicKey, error) {
	gToK, err := gp.element(enc.GToK)
	if err != nil {
		return nil, errors.Wrap(err, internal.MalformedPubKey.Error())
	}
	gToN, err := gp.element(enc.GToN)
	if err != nil {
		return nil, errors.Wrap(err, internal.MalformedPubKey.Error())
	}

	return &PublicKey{GToK: gToK, GToN: gToN}, nil
}

// UnmarshalPublicKey decodes a public key encoded by PublicKey.MarshalJSON.
func (gp *GlobalParameters) UnmarshalPublicKey(b []byte) (*PublicKey, error) {
	var enc publicKeyJSON
	if err := json.Unmarshal(b, &enc); err != nil {
		return nil, errors.Wrap(internal.MalformedPubKey, err.Error())
	}

	return gp.decodePublicKey(&enc)
}

// MarshalJSON encodes the public keys as an object keyed by attribute.
func (p *PublicKeys) MarshalJSON() ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	enc := make(map[string]*publicKeyJSON, len(p.keys))
	for at, pk := range p.keys {
		enc[at] = pk.encode()
	}

	return json.Marshal(enc)
}

// UnmarshalPublicKeys decodes public keys encoded by PublicKeys.MarshalJSON.
func (gp *GlobalParameters) UnmarshalPublicKeys(b []byte) (*PublicKeys, error) {
	var enc map[string]*publicKeyJSON
	if err := json.Unmarshal(b, &enc); err != nil {
		return nil, errors.Wrap(internal.MalformedPubKey, err.Error())
	}
	pks := NewPublicKeys()
	for at, e := range enc {
		if e == nil {
			return nil, errors.Wrapf(internal.MalformedPubKey, "attribute %q", at)
		}
		pk, err := gp.decodePublicKey(e)
		if err != nil {
			return nil, err
		}
		pks.keys[at] = pk
	}

	return pks, nil
}

type secretKeyJSON struct {
	K []byte `json:"k"`
	N []byte `json:"n"`
}

// MarshalJSON encodes the two scalars of the secret key.
func (sk *SecretKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(&secretKeyJSON{K: sk.K.Bytes(), N: sk.N.Bytes()})
}

// UnmarshalJSON decodes a secret key.
func (sk *SecretKey) UnmarshalJSON(b []byte) error {
	var enc secretKeyJSON
	if err := json.Unmarshal(b, &enc); err != nil {
		return errors.Wrap(internal.MalformedSecKey, err.Error())
	}
	if enc.K == nil || enc.N == nil {
		return internal.MalformedSecKey
	}
	sk.K = new(big.Int).SetBytes(enc.K)
	sk.N = new(big.Int).SetBytes(enc.N)

	return nil
}

type personalKeyJSON struct {
	GID    string `json:"gid"`
	Attrib string `json:"attrib"`
	Key    []byte `json:"key"`
}

// MarshalJSON encodes the personal key together with its user and
// attribute.
func (k *PersonalKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(&personalKeyJSON{GID: k.GID, Attrib: k.Attrib, Key: k.Key.Bytes()})
}

// UnmarshalJSON decodes a personal key.
func (k *PersonalKey) UnmarshalJSON(b []byte) error {
	var enc personalKeyJSON
	if err := json.Unmarshal(b, &enc); err != nil {
		return errors.Wrap(internal.MalformedDecKey, err.Error())
	}
	if enc.GID == "" || enc.Attrib == "" || enc.Key == nil {
		return internal.MalformedDecKey
	}
	k.GID = enc.GID
	k.Attrib = enc.Attrib
	k.Key = new(big.Int).SetBytes(enc.Key)

	return nil
}

type personalKeysJSON struct {
	GID  string         `json:"gid"`
	Keys []*PersonalKey `json:"keys"`
}

// MarshalJSON encodes the key ring with its keys sorted by attribute.
func (p *PersonalKeys) MarshalJSON() ([]byte, error) {
	ring := p.snapshot()
	enc := &personalKeysJSON{GID: p.GID, Keys: make([]*PersonalKey, 0, len(ring))}
	for _, at := range sortedKeys(ring) {
		enc.Keys = append(enc.Keys, ring[at])
	}

	return json.Marshal(enc)
}

// UnmarshalJSON decodes a key ring. Keys of other users and repeated
// attributes are rejected as by AddKey.
func (p *PersonalKeys) UnmarshalJSON(b []byte) error {
	var enc personalKeysJSON
	if err := json.Unmarshal(b, &enc); err != nil {
		return errors.Wrap(internal.MalformedDecKey, err.Error())
	}
	ring := NewPersonalKeys(enc.GID)
	for _, k := range enc.Keys {
		if err := ring.AddKey(k); err != nil {
			return err
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.GID = ring.GID
	p.keys = ring.keys

	return nil
}

type ciphertextJSON struct {
	AccessStructure *AccessStructure `json:"as"`
	C0              []byte           `json:"c0"`
	C1              [][]byte         `json:"c1"`
	C2              [][]byte         `json:"c2"`
}

// MarshalJSON encodes the access structure and the elements of the
// ciphertext.
func (ct *Ciphertext) MarshalJSON() ([]byte, error) {
	enc := &ciphertextJSON{
		AccessStructure: ct.AccessStructure,
		C0:              ct.C0.Marshal(),
		C1:              make([][]byte, len(ct.C1)),
		C2:              make([][]byte, len(ct.C2)),
	}
	for i := range ct.C1 {
		enc.C1[i] = ct.C1[i].Marshal()
	}
	for i := range ct.C2 {
		enc.C2[i] = ct.C2[i].Marshal()
	}

	return json.Marshal(enc)
}

// UnmarshalCiphertext decodes a ciphertext encoded by
// Ciphertext.MarshalJSON.
func (gp *GlobalParameters) UnmarshalCiphertext(b []byte) (*Ciphertext, error) {
	var enc ciphertextJSON
	if err := json.Unmarshal(b, &enc); err != nil {
		return nil, errors.Wrap(internal.MalformedCipher, err.Error())
	}
	if enc.AccessStructure == nil {
		return nil, errors.Wrap(internal.MalformedCipher, "missing access structure")
	}
	n := enc.AccessStructure.Rows()
	if len(enc.C1) != n || len(enc.C2) != n {
		return nil, errors.Wrap(internal.MalformedCipher, "number of ciphertext components does not match the access structure")
	}

	c0, err := gp.element(enc.C0)
	if err != nil {
		return nil, err
	}
	c1 := make([]group.Element, n)
	c2 := make([]group.Element, n)
	for x := 0; x < n; x++ {
		if c1[x], err = gp.element(enc.C1[x]); err != nil {
			return nil, err
		}
		if c2[x], err = gp.element(enc.C2[x]); err != nil {
			return nil, err
		}
	}

	return &Ciphertext{
		AccessStructure: enc.AccessStructure,
		C0:              c0,
		C1:              c1,
		C2:              c2,
	}, nil
}

// UnmarshalMessage decodes a message encoded with Element.Marshal.
func (gp *GlobalParameters) UnmarshalMessage(b []byte) (group.Element, error) {
	return gp.element(b)
}
