/*
 * Copyright (c) 2018 XLAB d.o.o
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

package data

import (
	"math/big"
	"testing"

	"github.com/fentec-project/dcpabe/sample"
	"github.com/stretchr/testify/assert"
)

func TestVector(t *testing.T) {
	l := 3
	bound := new(big.Int).Exp(big.NewInt(2), big.NewInt(20), big.NewInt(0))
	sampler := sample.NewUniform(bound)

	x, err := NewRandomVector(l, sampler)
	if err != nil {
		t.Fatalf("Error during random generation: %v", err)
	}

	y, err := NewRandomVector(l, sampler)
	if err != nil {
		t.Fatalf("Error during random generation: %v", err)
	}

	add := x.Add(y)
	mul, err := x.Dot(y)
	if err != nil {
		t.Fatalf("Error during vector multiplication: %v", err)
	}

	modulo := big.NewInt(104729)
	mod := x.Mod(modulo)
	scaled := x.MulScalar(big.NewInt(3))

	innerProd := big.NewInt(0)
	for i := 0; i < l; i++ {
		assert.Equal(t, 0, new(big.Int).Add(x[i], y[i]).Cmp(add[i]), "coordinates should sum correctly")
		innerProd = innerProd.Add(innerProd, new(big.Int).Mul(x[i], y[i]))
		assert.Equal(t, 0, new(big.Int).Mod(x[i], modulo).Cmp(mod[i]), "coordinates should mod correctly")
		assert.Equal(t, 0, new(big.Int).Mul(x[i], big.NewInt(3)).Cmp(scaled[i]))
	}
	assert.Equal(t, 0, innerProd.Cmp(mul), "inner product should calculate correctly")

	_, err = x.Dot(Vector{big.NewInt(1)})
	assert.Error(t, err)

	cp := x.Copy()
	assert.True(t, cp.Equal(x))
	cp[0].Add(cp[0], big.NewInt(1))
	assert.False(t, cp.Equal(x), "copy should not share coordinates")
}

func TestVector_Unit(t *testing.T) {
	assert.True(t, NewUnitVector(3).Equal(Vector{big.NewInt(1), big.NewInt(0), big.NewInt(0)}))
	assert.Equal(t, "(1, 0, 0)", NewUnitVector(3).String())
	assert.Len(t, NewUnitVector(0), 0)
	assert.False(t, NewUnitVector(2).Equal(NewUnitVector(3)))
}
