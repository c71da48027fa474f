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

package abe_test

import (
	"encoding/json"
	"testing"

	"github.com/fentec-project/dcpabe/abe"
	"github.com/fentec-project/dcpabe/group"
	"github.com/fentec-project/dcpabe/internal"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialization(t *testing.T) {
	for _, name := range group.Names() {
		t.Run(name, func(t *testing.T) {
			d, pks, auths := setupAuthorities(t, name)

			// global parameters
			gpJSON, err := json.Marshal(d.GP)
			require.NoError(t, err)
			var gp abe.GlobalParameters
			require.NoError(t, json.Unmarshal(gpJSON, &gp))
			assert.Equal(t, name, gp.Group.Name())
			assert.True(t, d.GP.G.Equal(gp.G))

			// public keys
			pksJSON, err := json.Marshal(pks)
			require.NoError(t, err)
			decPks, err := gp.UnmarshalPublicKeys(pksJSON)
			require.NoError(t, err)
			assert.Equal(t, pks.Attributes(), decPks.Attributes())
			pkA, _ := pks.Get("a")
			decPkA, _ := decPks.Get("a")
			assert.True(t, pkA.GToK.Equal(decPkA.GToK))
			assert.True(t, pkA.GToN.Equal(decPkA.GToN))

			pkJSON, err := json.Marshal(pkA)
			require.NoError(t, err)
			decPk, err := gp.UnmarshalPublicKey(pkJSON)
			require.NoError(t, err)
			assert.True(t, pkA.GToK.Equal(decPk.GToK))

			// secret keys
			skJSON, err := json.Marshal(auths["a"].SecretKeys["a"])
			require.NoError(t, err)
			var sk abe.SecretKey
			require.NoError(t, json.Unmarshal(skJSON, &sk))
			assert.Equal(t, 0, sk.K.Cmp(auths["a"].SecretKeys["a"].K))
			assert.Equal(t, 0, sk.N.Cmp(auths["a"].SecretKeys["a"].N))

			// personal keys
			ring := userKeys(t, d, auths, "user", "a", "d")
			ringJSON, err := json.Marshal(ring)
			require.NoError(t, err)
			var decRing abe.PersonalKeys
			require.NoError(t, json.Unmarshal(ringJSON, &decRing))
			assert.Equal(t, "user", decRing.GID)
			assert.Equal(t, []string{"a", "d"}, decRing.Attributes())

			// ciphertext and message
			as, err := abe.BuildFromPolicy("and a or d and b c")
			require.NoError(t, err)
			msg, err := d.RandomMessage()
			require.NoError(t, err)
			ct, err := abe.NewDCPABE(&gp).Encrypt(msg, as, decPks)
			require.NoError(t, err)
			ctJSON, err := json.Marshal(ct)
			require.NoError(t, err)
			decCt, err := gp.UnmarshalCiphertext(ctJSON)
			require.NoError(t, err)
			assert.Equal(t, as.Policy(), decCt.AccessStructure.Policy())

			dec, err := d.Decrypt(decCt, &decRing)
			require.NoError(t, err)
			decMsg, err := gp.UnmarshalMessage(msg.Marshal())
			require.NoError(t, err)
			assert.True(t, decMsg.Equal(dec))
		})
	}
}

// stripPolicy removes the policy from an encoded ciphertext, leaving
// only the matrix and the row mapping.
func stripPolicy(t *testing.T, ctJSON []byte) []byte {
	var enc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(ctJSON, &enc))
	var as map[string]interface{}
	require.NoError(t, json.Unmarshal(enc["as"], &as))
	delete(as, "policy")
	asJSON, err := json.Marshal(as)
	require.NoError(t, err)
	enc["as"] = asJSON
	b, err := json.Marshal(enc)
	require.NoError(t, err)

	return b
}

func TestCiphertextWithoutPolicy(t *testing.T) {
	d, pks, auths := setupAuthorities(t, group.BN256)
	as, err := abe.BuildFromPolicy("and a or d and b c")
	require.NoError(t, err)
	msg, err := d.RandomMessage()
	require.NoError(t, err)
	ct, err := d.Encrypt(msg, as, pks)
	require.NoError(t, err)
	ctJSON, err := json.Marshal(ct)
	require.NoError(t, err)

	decCt, err := d.GP.UnmarshalCiphertext(stripPolicy(t, ctJSON))
	require.NoError(t, err)
	assert.Equal(t, "", decCt.AccessStructure.Policy())
	assert.Equal(t, as.Rows(), decCt.AccessStructure.Rows())

	for _, attribs := range [][]string{{"a", "b", "c"}, {"a", "d"}} {
		dec, err := d.Decrypt(decCt, userKeys(t, d, auths, "user", attribs...))
		require.NoError(t, err)
		assert.True(t, msg.Equal(dec), "Original and decrypted messages should be equal for %v", attribs)
	}
	_, err = d.Decrypt(decCt, userKeys(t, d, auths, "user", "b", "c", "d"))
	assert.True(t, errors.Is(err, abe.ErrNotSatisfying))
}

func TestMalformedEncodings(t *testing.T) {
	d, pks, _ := setupAuthorities(t, group.BN256)

	var as abe.AccessStructure
	err := json.Unmarshal([]byte(`{"n":1,"l":1,"mat":[[2]],"rho":["a"]}`), &as)
	assert.True(t, errors.Is(err, internal.MalformedInput))
	err = json.Unmarshal([]byte(`{"n":2,"l":1,"mat":[[1]],"rho":["a"]}`), &as)
	assert.True(t, errors.Is(err, internal.MalformedInput))
	err = json.Unmarshal([]byte(`{"n":1,"l":1,"mat":[[1]],"rho":["a"],"policy":"and a b"}`), &as)
	assert.True(t, errors.Is(err, internal.MalformedInput))
	err = json.Unmarshal([]byte(`{"n":1,"l":1,"mat":[[1]],"rho":["a"],"policy":"and a"}`), &as)
	assert.True(t, errors.Is(err, abe.ErrMalformedPolicy))
	require.NoError(t, json.Unmarshal([]byte(`{"n":1,"l":1,"mat":[[1]],"rho":["a"],"policy":"a"}`), &as))
	assert.True(t, as.IsSatisfiedBy([]string{"a"}))

	_, err = d.GP.UnmarshalPublicKeys([]byte(`{"a":{"gk":"AAAA","gn":"AAAA"}}`))
	assert.Error(t, err)
	_, err = d.GP.UnmarshalPublicKeys([]byte(`[]`))
	assert.True(t, errors.Is(err, internal.MalformedPubKey))

	var sk abe.SecretKey
	err = json.Unmarshal([]byte(`{"k":"AQ=="}`), &sk)
	assert.True(t, errors.Is(err, internal.MalformedSecKey))

	var ring abe.PersonalKeys
	err = json.Unmarshal([]byte(`{"gid":"bob","keys":[{"gid":"alice","attrib":"a","key":"AQ=="}]}`), &ring)
	assert.True(t, errors.Is(err, abe.ErrGIDMismatch))
	err = json.Unmarshal([]byte(`{"gid":"bob","keys":[{"gid":"bob","attrib":"a","key":"AQ=="},{"gid":"bob","attrib":"a","key":"Ag=="}]}`), &ring)
	assert.True(t, errors.Is(err, abe.ErrDuplicateAttribute))
	err = json.Unmarshal([]byte(`{"gid":"bob","keys":[{"gid":"bob","attrib":"a"}]}`), &ring)
	assert.True(t, errors.Is(err, internal.MalformedDecKey))

	policy, err := abe.BuildFromPolicy("or a b")
	require.NoError(t, err)
	msg, err := d.RandomMessage()
	require.NoError(t, err)
	ct, err := d.Encrypt(msg, policy, pks)
	require.NoError(t, err)
	ct.C1 = ct.C1[:1]
	ctJSON, err := json.Marshal(ct)
	require.NoError(t, err)
	_, err = d.GP.UnmarshalCiphertext(ctJSON)
	assert.True(t, errors.Is(err, internal.MalformedCipher))
	_, err = d.GP.UnmarshalCiphertext([]byte(`{"c0":"AQ=="}`))
	assert.True(t, errors.Is(err, internal.MalformedCipher))

	_, err = d.Decrypt(ct, abe.NewPersonalKeys("user"))
	assert.True(t, errors.Is(err, internal.MalformedCipher))
}
