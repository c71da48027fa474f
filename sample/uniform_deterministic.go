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
	"encoding/binary"
	"math/big"

	"golang.org/x/crypto/salsa20"
)

const detBlockSize = 64

// DetReader is an io.Reader producing a deterministic pseudo-random
// byte stream. Block i of the stream is the salsa20 keystream for the
// key and nonce i, so two readers with the same key return the same
// bytes.
type DetReader struct {
	key   *[32]byte
	block uint64
	buf   []byte
}

// NewDetReader returns a DetReader keyed by key.
func NewDetReader(key *[32]byte) *DetReader {
	return &DetReader{key: key}
}

// Read fills p with the next len(p) bytes of the stream. It never fails.
func (r *DetReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.buf) == 0 {
			r.refill()
		}
		c := copy(p[n:], r.buf)
		r.buf = r.buf[c:]
		n += c
	}

	return n, nil
}

func (r *DetReader) refill() {
	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, r.block)
	r.block++

	in := make([]byte, detBlockSize) // input is initialized to zeros
	out := make([]byte, detBlockSize)
	salsa20.XORKeyStream(out, in, nonce, r.key)
	r.buf = out
}

// NewUniformDet returns a UniformRange sampler over [0, max) whose
// samples are determined by key.
func NewUniformDet(max *big.Int, key *[32]byte) *UniformRange {
	return NewUniformFrom(NewDetReader(key), max)
}
