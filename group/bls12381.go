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

	"github.com/cloudflare/circl/ecc/bls12381"
	"github.com/pkg/errors"
)

var bls12381Order = new(big.Int).SetBytes(bls12381.Order())

type bls12381Group struct {
	base *bls12381.Gt
}

func newBLS12381() Group {
	return &bls12381Group{
		base: bls12381.Pair(bls12381.G1Generator(), bls12381.G2Generator()),
	}
}

func (*bls12381Group) Name() string {
	return BLS12381
}

func (*bls12381Group) Order() *big.Int {
	return new(big.Int).Set(bls12381Order)
}

func (*bls12381Group) SecurityLevel() int {
	return registry[BLS12381].level
}

func (*bls12381Group) Identity() Element {
	p := new(bls12381.Gt)
	p.SetIdentity()

	return &bls12381Element{p: p}
}

// BaseMult returns k * e(g1, g2).
func (g *bls12381Group) BaseMult(k *big.Int) Element {
	p := new(bls12381.Gt)
	p.Exp(g.base, toBLSScalar(k))

	return &bls12381Element{p: p}
}

func (*bls12381Group) Unmarshal(b []byte) (Element, error) {
	p := new(bls12381.Gt)
	if err := p.UnmarshalBinary(b); err != nil {
		return nil, errors.Wrapf(ErrGroupArithmetic, "cannot decode %s element: %v", BLS12381, err)
	}

	return &bls12381Element{p: p}, nil
}

func (*bls12381Group) HashToScalar(b []byte) *big.Int {
	return hashToScalar(BLS12381, bls12381Order, b)
}

func toBLSScalar(k *big.Int) *bls12381.Scalar {
	s := new(bls12381.Scalar)
	s.SetBytes(reduce(k, bls12381Order).Bytes())

	return s
}

// bls12381Element is written additively on top of the multiplicative
// target group: Add is Mul, Neg is Inv and ScalarMult is Exp.
type bls12381Element struct {
	p *bls12381.Gt
}

func (e *bls12381Element) other(o Element) *bls12381.Gt {
	oe, ok := o.(*bls12381Element)
	if !ok {
		mismatch(BLS12381, o)
	}

	return oe.p
}

func (e *bls12381Element) Add(o Element) Element {
	p := new(bls12381.Gt)
	p.Mul(e.p, e.other(o))

	return &bls12381Element{p: p}
}

func (e *bls12381Element) Neg() Element {
	p := new(bls12381.Gt)
	p.Inv(e.p)

	return &bls12381Element{p: p}
}

func (e *bls12381Element) ScalarMult(k *big.Int) Element {
	p := new(bls12381.Gt)
	p.Exp(e.p, toBLSScalar(k))

	return &bls12381Element{p: p}
}

func (e *bls12381Element) Equal(o Element) bool {
	return e.p.IsEqual(e.other(o))
}

func (e *bls12381Element) Marshal() []byte {
	b, err := e.p.MarshalBinary()
	if err != nil {
		// encoding a valid element does not fail
		panic(errors.Wrap(ErrGroupArithmetic, err.Error()))
	}

	return b
}

func (e *bls12381Element) String() string {
	return fmt.Sprintf("%x", e.Marshal())
}
