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
	"bytes"
	"math/big"

	"github.com/fentec-project/bn256"
	"github.com/pkg/errors"
)

type bn256Group struct{}

func newBN256() Group {
	return bn256Group{}
}

func (bn256Group) Name() string {
	return BN256
}

func (bn256Group) Order() *big.Int {
	return new(big.Int).Set(bn256.Order)
}

func (bn256Group) SecurityLevel() int {
	return registry[BN256].level
}

func (bn256Group) Identity() Element {
	return &bn256Element{p: new(bn256.GT).ScalarBaseMult(big.NewInt(0))}
}

// BaseMult returns k * e(g1, g2).
func (bn256Group) BaseMult(k *big.Int) Element {
	return &bn256Element{p: new(bn256.GT).ScalarBaseMult(reduce(k, bn256.Order))}
}

func (bn256Group) Unmarshal(b []byte) (Element, error) {
	p := new(bn256.GT)
	if _, err := p.Unmarshal(b); err != nil {
		return nil, errors.Wrapf(ErrGroupArithmetic, "cannot decode %s element: %v", BN256, err)
	}

	return &bn256Element{p: p}, nil
}

func (bn256Group) HashToScalar(b []byte) *big.Int {
	return hashToScalar(BN256, bn256.Order, b)
}

type bn256Element struct {
	p *bn256.GT
}

func (e *bn256Element) other(o Element) *bn256.GT {
	oe, ok := o.(*bn256Element)
	if !ok {
		mismatch(BN256, o)
	}

	return oe.p
}

func (e *bn256Element) Add(o Element) Element {
	return &bn256Element{p: new(bn256.GT).Add(e.p, e.other(o))}
}

func (e *bn256Element) Neg() Element {
	return &bn256Element{p: new(bn256.GT).Neg(e.p)}
}

func (e *bn256Element) ScalarMult(k *big.Int) Element {
	return &bn256Element{p: new(bn256.GT).ScalarMult(e.p, reduce(k, bn256.Order))}
}

func (e *bn256Element) Equal(o Element) bool {
	return bytes.Equal(e.p.Marshal(), e.other(o).Marshal())
}

func (e *bn256Element) Marshal() []byte {
	return e.p.Marshal()
}

func (e *bn256Element) String() string {
	return e.p.String()
}
