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
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"runtime"

	"github.com/fentec-project/dcpabe/data"
	"github.com/fentec-project/dcpabe/group"
	"github.com/fentec-project/dcpabe/internal"
	"github.com/fentec-project/dcpabe/sample"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// GlobalParameters are the public parameters shared by all
// authorities and users: a group of prime order and a random element
// g of it.
type GlobalParameters struct {
	Group group.Group
	G     group.Element
}

// GlobalSetup creates global parameters over the smallest supported
// pairing group offering lambda bits of security.
func GlobalSetup(lambda int) (*GlobalParameters, error) {
	g, err := group.ForSecurityLevel(lambda)
	if err != nil {
		return nil, err
	}

	return NewGlobalParameters(g, rand.Reader)
}

// GlobalSetupWithGroup creates global parameters over the named group.
func GlobalSetupWithGroup(name string) (*GlobalParameters, error) {
	g, err := group.New(name)
	if err != nil {
		return nil, err
	}

	return NewGlobalParameters(g, rand.Reader)
}

// NewGlobalParameters samples the element g of grp with randomness
// from r.
func NewGlobalParameters(grp group.Group, r io.Reader) (*GlobalParameters, error) {
	g, err := group.RandomElement(grp, r)
	if err != nil {
		return nil, errors.Wrap(err, "cannot sample global parameters")
	}

	return &GlobalParameters{Group: grp, G: g}, nil
}

// DCPABE represents a decentralized ciphertext-policy attribute-based
// encryption scheme based on Rouselakis and Waters
// (https://eprint.iacr.org/2015/016.pdf), simplified to a single prime
// order group. Any number of authorities can issue attribute keys
// without coordination, apart from agreeing on the global parameters
// and a shared scalar n (see NewSharedScalar). Messages are group
// elements; a message is encrypted under a policy and can be decrypted
// by any user whose attribute keys satisfy it. Keys of one user are
// bound to the user's global identifier, so users can not combine their
// keys.
//
// DCPABE is safe for concurrent use if its source of randomness is;
// the default crypto/rand source is.
type DCPABE struct {
	GP   *GlobalParameters
	rand io.Reader
}

// NewDCPABE returns a scheme over the global parameters gp, sampling
// randomness from crypto/rand.
func NewDCPABE(gp *GlobalParameters) *DCPABE {
	return &DCPABE{GP: gp, rand: rand.Reader}
}

// WithRandomness returns a copy of d reading randomness from r.
func (d *DCPABE) WithRandomness(r io.Reader) *DCPABE {
	return &DCPABE{GP: d.GP, rand: r}
}

func (d *DCPABE) sampler() sample.Sampler {
	return sample.NewUniformFrom(d.rand, d.GP.Group.Order())
}

// NewSharedScalar samples the scalar n that all authorities of one
// deployment must use in AuthoritySetup. Distributing it to the
// authorities is up to the deployment.
func (d *DCPABE) NewSharedScalar() (*big.Int, error) {
	return d.sampler().Sample()
}

// AuthoritySetup creates the keys of the attributes managed by the
// authority id. For every attribute a fresh secret k is sampled; its
// public key is (g^k, g^n) and its secret key (k, n).
func (d *DCPABE) AuthoritySetup(id string, n *big.Int, attribs ...string) (*AuthorityKeys, error) {
	// sanity checks
	if len(id) == 0 {
		return nil, fmt.Errorf("empty id string")
	}
	if len(attribs) == 0 {
		return nil, fmt.Errorf("empty set of authority attributes")
	}
	if n == nil {
		return nil, fmt.Errorf("shared scalar cannot be nil")
	}
	seen := make(map[string]bool, len(attribs))
	for _, at := range attribs {
		if len(at) == 0 {
			return nil, fmt.Errorf("attribute cannot be empty")
		}
		if seen[at] {
			return nil, errors.Wrapf(ErrDuplicateAttribute, "attribute %q", at)
		}
		seen[at] = true
	}

	k, err := data.NewRandomVector(len(attribs), d.sampler())
	if err != nil {
		return nil, errors.Wrap(err, "cannot sample attribute secrets")
	}
	nModQ := new(big.Int).Mod(n, d.GP.Group.Order())
	gToN := d.GP.G.ScalarMult(nModQ)

	pks := make(map[string]*PublicKey, len(attribs))
	sks := make(map[string]*SecretKey, len(attribs))
	for i, at := range attribs {
		pks[at] = &PublicKey{GToK: d.GP.G.ScalarMult(k[i]), GToN: gToN}
		sks[at] = &SecretKey{K: k[i], N: new(big.Int).Set(nModQ)}
	}

	return &AuthorityKeys{
		ID:         id,
		PublicKeys: pks,
		SecretKeys: sks,
	}, nil
}

// KeyGen issues the personal key k + H(gid) * n of attribute attrib
// with secret key sk to the user gid.
func (d *DCPABE) KeyGen(gid, attrib string, sk *SecretKey) (*PersonalKey, error) {
	// sanity checks
	if len(gid) == 0 {
		return nil, fmt.Errorf("GID cannot be empty")
	}
	if len(attrib) == 0 {
		return nil, fmt.Errorf("attribute cannot be empty")
	}
	if sk == nil || sk.K == nil || sk.N == nil {
		return nil, fmt.Errorf("secret key of attribute %q is incomplete", attrib)
	}

	q := d.GP.Group.Order()
	hash := d.GP.Group.HashToScalar([]byte(gid))
	key := new(big.Int).Mul(hash, sk.N)
	key.Add(key, sk.K)
	key.Mod(key, q)

	return &PersonalKey{
		GID:    gid,
		Attrib: attrib,
		Key:    key,
	}, nil
}

// Ciphertext is an encryption of a message under an access structure:
// C0 = M + g^s and, for every row x, C1[x] = g^lambda_x + (g^k_rho(x))^w_x
// and C2[x] = g^w_x.
type Ciphertext struct {
	AccessStructure *AccessStructure
	C0              group.Element
	C1              []group.Element
	C2              []group.Element
}

// RandomMessage returns a random element of the group, to be used as
// a message, e.g. as a key of a symmetric cipher.
func (d *DCPABE) RandomMessage() (group.Element, error) {
	return group.RandomElement(d.GP.Group, d.rand)
}

// Encrypt encrypts msg under the access structure as. pks must hold a
// public key for every attribute of as.
func (d *DCPABE) Encrypt(msg group.Element, as *AccessStructure, pks *PublicKeys) (ct *Ciphertext, err error) {
	defer catchGroupError(&err)

	// sanity checks
	if msg == nil {
		return nil, fmt.Errorf("message cannot be nil")
	}
	if as == nil || as.Rows() == 0 || as.Cols() == 0 {
		return nil, fmt.Errorf("empty access structure")
	}
	if pks == nil {
		return nil, fmt.Errorf("public keys cannot be nil")
	}
	rows := as.Rows()
	cols := as.Cols()
	gToK := make([]group.Element, rows)
	for x := 0; x < rows; x++ {
		pk, ok := pks.Get(as.Rho(x))
		if !ok {
			return nil, &MissingAttributeKeyError{Attrib: as.Rho(x)}
		}
		gToK[x] = pk.GToK
	}

	q := d.GP.Group.Order()
	sampler := d.sampler()
	// pick random vector v with random s as first element
	v, err := data.NewRandomVector(cols, sampler)
	if err != nil {
		return nil, errors.Wrap(err, "cannot sample shares")
	}
	s := v[0]
	// pick random vector w with 0 as first element
	w, err := data.NewRandomVector(cols, sampler)
	if err != nil {
		return nil, errors.Wrap(err, "cannot sample shares")
	}
	w[0] = big.NewInt(0)

	mat := as.Matrix()
	lambda, err := mat.MulVecMod(v, q)
	if err != nil {
		return nil, err
	}
	omega, err := mat.MulVecMod(w, q)
	if err != nil {
		return nil, err
	}

	g := d.GP.G
	c1 := make([]group.Element, rows)
	c2 := make([]group.Element, rows)
	err = forEachRow(rows, func(x int) error {
		c1[x] = g.ScalarMult(lambda[x]).Add(gToK[x].ScalarMult(omega[x]))
		c2[x] = g.ScalarMult(omega[x])
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Ciphertext{
		AccessStructure: as,
		C0:              msg.Add(g.ScalarMult(s)),
		C1:              c1,
		C2:              c2,
	}, nil
}

// Decrypt decrypts ct with the key ring of one user. It returns
// ErrNotSatisfying if the attributes of the ring do not satisfy the
// policy of ct.
func (d *DCPABE) Decrypt(ct *Ciphertext, keys *PersonalKeys) (msg group.Element, err error) {
	defer catchGroupError(&err)

	// sanity checks
	if ct == nil || ct.AccessStructure == nil || ct.C0 == nil {
		return nil, internal.MalformedCipher
	}
	as := ct.AccessStructure
	if len(ct.C1) != as.Rows() || len(ct.C2) != as.Rows() {
		return nil, errors.Wrap(internal.MalformedCipher, "number of ciphertext components does not match the access structure")
	}
	if keys == nil {
		return nil, fmt.Errorf("empty set of attribute keys")
	}
	ring := keys.snapshot()
	attribs := make([]string, 0, len(ring))
	for at, k := range ring {
		if k.GID != keys.GID {
			return nil, errors.Wrapf(ErrGIDMismatch, "key of %q in ring of %q", k.GID, keys.GID)
		}
		attribs = append(attribs, at)
	}

	q := d.GP.Group.Order()
	rows, cx, ok := as.reconstruction(attribs, q)
	if !ok || len(rows) == 0 {
		return nil, ErrNotSatisfying
	}

	// t = sum over the rows of C1[x] - C2[x]^key
	terms := make([]group.Element, len(rows))
	err = forEachRow(len(rows), func(i int) error {
		x := rows[i]
		key := ring[as.Rho(x)].Key
		term := ct.C1[x].Add(ct.C2[x].ScalarMult(key).Neg())
		if cx != nil {
			term = term.ScalarMult(cx[i])
		}
		terms[i] = term
		return nil
	})
	if err != nil {
		return nil, err
	}
	t := d.GP.Group.Identity()
	for _, term := range terms {
		t = t.Add(term)
	}

	return ct.C0.Add(t.Neg()), nil
}

// forEachRow calls fn for every row in [0, n), spreading the calls over
// at most GOMAXPROCS goroutines.
func forEachRow(n int, fn func(x int) error) error {
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for x := 0; x < n; x++ {
		x := x
		eg.Go(func() (err error) {
			defer catchGroupError(&err)
			return fn(x)
		})
	}

	return eg.Wait()
}

// catchGroupError turns a panic caused by combining elements of
// different groups into an error.
func catchGroupError(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok && errors.Is(e, group.ErrGroupArithmetic) {
		*err = e
		return
	}
	panic(r)
}
