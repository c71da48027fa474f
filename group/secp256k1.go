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

package group

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

// the identity has no compressed SEC1 encoding, it is written as a
// single zero byte
var secpIdentityBytes = []byte{0x00}

type secp256k1Group struct {
	order *big.Int
}

func newSecp256k1() Group {
	return &secp256k1Group{order: btcec.S256().N}
}

func (*secp256k1Group) Name() string {
	return Secp256k1
}

func (g *secp256k1Group) Order() *big.Int {
	return new(big.Int).Set(g.order)
}

func (*secp256k1Group) SecurityLevel() int {
	return registry[Secp256k1].level
}

func (g *secp256k1Group) Identity() Element {
	return &secpElement{order: g.order, identity: true}
}

// BaseMult returns k * G for the standard generator G of secp256k1.
func (g *secp256k1Group) BaseMult(k *big.Int) Element {
	s := toModNScalar(k, g.order)
	if s.IsZero() {
		return g.Identity()
	}
	var p btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(s, &p)

	return newSecpElement(g.order, &p)
}

func (g *secp256k1Group) Unmarshal(b []byte) (Element, error) {
	if len(b) == 1 && b[0] == secpIdentityBytes[0] {
		return g.Identity(), nil
	}
	pk, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, errors.Wrapf(ErrGroupArithmetic, "cannot decode %s element: %v", Secp256k1, err)
	}
	var p btcec.JacobianPoint
	pk.AsJacobian(&p)

	return newSecpElement(g.order, &p), nil
}

func (g *secp256k1Group) HashToScalar(b []byte) *big.Int {
	return hashToScalar(Secp256k1, g.order, b)
}

func toModNScalar(k, order *big.Int) *btcec.ModNScalar {
	s := new(btcec.ModNScalar)
	s.SetByteSlice(reduce(k, order).Bytes())

	return s
}

// secpElement keeps its point in affine coordinates (Z = 1), or sets
// identity for the point at infinity.
type secpElement struct {
	order    *big.Int
	p        btcec.JacobianPoint
	identity bool
}

func newSecpElement(order *big.Int, p *btcec.JacobianPoint) *secpElement {
	if (p.X.IsZero() && p.Y.IsZero()) || p.Z.IsZero() {
		return &secpElement{order: order, identity: true}
	}
	e := &secpElement{order: order}
	e.p.Set(p)
	e.p.ToAffine()

	return e
}

func (e *secpElement) other(o Element) *secpElement {
	oe, ok := o.(*secpElement)
	if !ok {
		mismatch(Secp256k1, o)
	}

	return oe
}

func (e *secpElement) Add(o Element) Element {
	oe := e.other(o)
	if e.identity {
		return oe
	}
	if oe.identity {
		return e
	}
	var sum btcec.JacobianPoint
	btcec.AddNonConst(&e.p, &oe.p, &sum)

	return newSecpElement(e.order, &sum)
}

func (e *secpElement) Neg() Element {
	if e.identity {
		return e
	}
	neg := &secpElement{order: e.order}
	neg.p.Set(&e.p)
	neg.p.Y.Negate(1).Normalize()

	return neg
}

func (e *secpElement) ScalarMult(k *big.Int) Element {
	s := toModNScalar(k, e.order)
	if e.identity || s.IsZero() {
		return &secpElement{order: e.order, identity: true}
	}
	var p btcec.JacobianPoint
	btcec.ScalarMultNonConst(s, &e.p, &p)

	return newSecpElement(e.order, &p)
}

func (e *secpElement) Equal(o Element) bool {
	oe := e.other(o)
	if e.identity || oe.identity {
		return e.identity == oe.identity
	}

	return e.p.X.Equals(&oe.p.X) && e.p.Y.Equals(&oe.p.Y)
}

func (e *secpElement) Marshal() []byte {
	if e.identity {
		return append([]byte{}, secpIdentityBytes...)
	}

	return btcec.NewPublicKey(&e.p.X, &e.p.Y).SerializeCompressed()
}

func (e *secpElement) String() string {
	return fmt.Sprintf("%x", e.Marshal())
}
