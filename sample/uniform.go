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

package sample

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// UniformRange samples random values from the interval [min, max).
type UniformRange struct {
	min  *big.Int
	max  *big.Int
	rand io.Reader
}

// NewUniformRange returns an instance of the UniformRange sampler.
// It accepts lower and upper bounds on the sampled values.
func NewUniformRange(min, max *big.Int) *UniformRange {
	return NewUniformRangeFrom(rand.Reader, min, max)
}

// NewUniformRangeFrom returns an instance of the UniformRange sampler
// reading its randomness from r.
func NewUniformRangeFrom(r io.Reader, min, max *big.Int) *UniformRange {
	return &UniformRange{
		min:  min,
		max:  max,
		rand: r,
	}
}

// Sample samples a random value from the interval [min, max).
// It returns an error if the interval is empty or the source of
// randomness fails.
func (u *UniformRange) Sample() (*big.Int, error) {
	width := new(big.Int).Sub(u.max, u.min)
	if width.Sign() <= 0 {
		return nil, errors.New("upper bound on samples should be larger than lower bound")
	}
	x, err := rand.Int(u.rand, width)
	if err != nil {
		return nil, errors.Wrap(err, "error while sampling")
	}

	return x.Add(x, u.min), nil
}

// NewUniform returns an instance of the UniformRange sampler
// over the interval [0, max).
func NewUniform(max *big.Int) *UniformRange {
	return NewUniformRange(big.NewInt(0), max)
}

// NewUniformFrom returns an instance of the UniformRange sampler
// over the interval [0, max) reading its randomness from r.
func NewUniformFrom(r io.Reader, max *big.Int) *UniformRange {
	return NewUniformRangeFrom(r, big.NewInt(0), max)
}

// NewBit returns an instance of a sampler of single random bits
// (values 0 or 1).
func NewBit() *UniformRange {
	return NewUniform(big.NewInt(2))
}
