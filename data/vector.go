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
	"fmt"
	"math/big"
	"strings"

	"github.com/fentec-project/dcpabe/sample"
)

// Vector wraps a slice of *big.Int elements. It holds shares and
// reconstruction coefficients of the linear secret sharing scheme.
type Vector []*big.Int

// NewVector returns a new Vector instance.
func NewVector(coordinates []*big.Int) Vector {
	return Vector(coordinates)
}

// NewRandomVector returns a new Vector instance
// with random elements sampled by the provided sample.Sampler.
// Returns an error in case of sampling failure.
func NewRandomVector(len int, sampler sample.Sampler) (Vector, error) {
	vec := make([]*big.Int, len)
	var err error

	for i := 0; i < len; i++ {
		vec[i], err = sampler.Sample()
		if err != nil {
			return nil, err
		}
	}

	return NewVector(vec), nil
}

// NewConstantVector returns a new Vector instance
// with all elements set to constant c.
func NewConstantVector(len int, c *big.Int) Vector {
	vec := make([]*big.Int, len)
	for i := 0; i < len; i++ {
		vec[i] = new(big.Int).Set(c)
	}

	return vec
}

// NewUnitVector returns the vector (1, 0,..., 0) of length len, the
// target of secret reconstruction.
func NewUnitVector(len int) Vector {
	vec := NewConstantVector(len, big.NewInt(0))
	if len > 0 {
		vec[0].SetInt64(1)
	}

	return vec
}

// Copy creates a new vector with the same values
// of the entries.
func (v Vector) Copy() Vector {
	newVec := make(Vector, len(v))
	for i, c := range v {
		newVec[i] = new(big.Int).Set(c)
	}

	return newVec
}

// MulScalar multiplies vector v by a given scalar x.
// The result is returned in a new Vector.
func (v Vector) MulScalar(x *big.Int) Vector {
	res := make(Vector, len(v))
	for i, vi := range v {
		res[i] = new(big.Int).Mul(x, vi)
	}

	return res
}

// Mod performs modulo operation on vector's elements.
// The result is returned in a new Vector.
func (v Vector) Mod(modulo *big.Int) Vector {
	res := make(Vector, len(v))
	for i, c := range v {
		res[i] = new(big.Int).Mod(c, modulo)
	}

	return res
}

// Add adds vectors v and other.
// The result is returned in a new Vector.
func (v Vector) Add(other Vector) Vector {
	sum := make(Vector, len(v))
	for i, c := range v {
		sum[i] = new(big.Int).Add(c, other[i])
	}

	return sum
}

// Dot calculates the dot product (inner product) of vectors v and other.
// It returns an error if vectors have different numbers of elements.
func (v Vector) Dot(other Vector) (*big.Int, error) {
	if len(v) != len(other) {
		return nil, fmt.Errorf("vectors should be of same length")
	}

	prod := big.NewInt(0)
	for i, c := range v {
		prod.Add(prod, new(big.Int).Mul(c, other[i]))
	}

	return prod, nil
}

// Equal reports whether v and other hold the same values.
func (v Vector) Equal(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for i, c := range v {
		if c.Cmp(other[i]) != 0 {
			return false
		}
	}

	return true
}

// String produces a string representation of a vector.
func (v Vector) String() string {
	coords := make([]string, len(v))
	for i, c := range v {
		coords[i] = c.String()
	}

	return "(" + strings.Join(coords, ", ") + ")"
}
