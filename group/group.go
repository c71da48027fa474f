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

// Package group provides cyclic groups of prime order q used by the
// attribute-based encryption schemes of this module.
//
// Groups are written additively: Add is the group operation, Neg the
// inverse and ScalarMult the repeated addition (exponentiation in
// multiplicative notation). Scalars are *big.Int values and are
// reduced modulo the group order by every operation that takes one.
//
// Three groups are available:
//   - "bn256": the target group GT of the BN256 pairing,
//   - "bls12-381": the target group Gt of the BLS12-381 pairing,
//   - "secp256k1": the secp256k1 elliptic curve group, which has no pairing.
package group

import (
	"fmt"
	"io"
	"math/big"
	"sort"

	"github.com/fentec-project/dcpabe/sample"
	"github.com/pkg/errors"
)

// Names of the supported groups.
const (
	BN256     = "bn256"
	BLS12381  = "bls12-381"
	Secp256k1 = "secp256k1"
)

// ErrGroupArithmetic is returned (or wrapped) whenever an element can
// not be decoded or elements of different groups are combined.
var ErrGroupArithmetic = errors.New("group arithmetic error")

// ErrUnknownGroup is returned by New for names it does not know.
var ErrUnknownGroup = errors.New("unknown group")

// ErrUnsupportedSecurityLevel is returned by ForSecurityLevel when no
// group reaches the requested level.
var ErrUnsupportedSecurityLevel = errors.New("unsupported security level")

// Group is a cyclic group of prime order.
type Group interface {
	// Name identifies the group, e.g. in serialized global parameters.
	Name() string
	// Order returns the prime order q of the group.
	Order() *big.Int
	// SecurityLevel is the approximate security of the group in bits.
	SecurityLevel() int
	// Identity returns the neutral element.
	Identity() Element
	// BaseMult returns k times the fixed base element of the group.
	BaseMult(k *big.Int) Element
	// Unmarshal decodes an element produced by Element.Marshal.
	Unmarshal(b []byte) (Element, error)
	// HashToScalar maps arbitrary bytes to a scalar in Z_q.
	HashToScalar(b []byte) *big.Int
}

// Element is an element of a Group. Elements are immutable; every
// operation returns a new element. Combining elements of two
// different groups panics with an error wrapping ErrGroupArithmetic.
type Element interface {
	Add(other Element) Element
	Neg() Element
	ScalarMult(k *big.Int) Element
	Equal(other Element) bool
	Marshal() []byte
	String() string
}

type entry struct {
	level int
	new   func() Group
}

var registry = map[string]entry{
	BN256:     {level: 100, new: newBN256},
	BLS12381:  {level: 128, new: newBLS12381},
	Secp256k1: {level: 128, new: newSecp256k1},
}

// pairing groups in order of increasing security; ForSecurityLevel
// only picks from these so that schemes relying on a pairing-friendly
// group keep working.
var byLevel = []string{BN256, BLS12381}

// New returns the group with the given name.
func New(name string) (Group, error) {
	e, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownGroup, "%q", name)
	}

	return e.new(), nil
}

// ForSecurityLevel returns the smallest pairing-friendly group offering
// at least lambda bits of security.
func ForSecurityLevel(lambda int) (Group, error) {
	if lambda <= 0 {
		return nil, fmt.Errorf("security parameter should be positive")
	}
	for _, name := range byLevel {
		if registry[name].level >= lambda {
			return New(name)
		}
	}

	return nil, errors.Wrapf(ErrUnsupportedSecurityLevel, "%d bits", lambda)
}

// Names returns the names of all supported groups, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// RandomScalar samples a uniformly random scalar from Z_q using r as
// the source of randomness.
func RandomScalar(g Group, r io.Reader) (*big.Int, error) {
	return sample.NewUniformFrom(r, g.Order()).Sample()
}

// RandomElement samples a uniformly random element different from the
// identity, using r as the source of randomness.
func RandomElement(g Group, r io.Reader) (Element, error) {
	k, err := sample.NewUniformRangeFrom(r, big.NewInt(1), g.Order()).Sample()
	if err != nil {
		return nil, err
	}

	return g.BaseMult(k), nil
}

// mismatch is called by elements when asked to combine with an element
// of another group.
func mismatch(group string, other Element) {
	panic(errors.Wrapf(ErrGroupArithmetic, "cannot combine %s element with %T", group, other))
}

func reduce(k, order *big.Int) *big.Int {
	return new(big.Int).Mod(k, order)
}
