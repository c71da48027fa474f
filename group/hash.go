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
	"math/big"

	"golang.org/x/crypto/sha3"
)

// hashToScalar maps b to Z_order. The output of SHAKE256 is 128 bits
// longer than the order so the reduction bias is negligible.
func hashToScalar(name string, order *big.Int, b []byte) *big.Int {
	h := sha3.NewShake256()
	h.Write([]byte("dcpabe/hash-to-scalar/" + name + "/"))
	h.Write(b)

	out := make([]byte, (order.BitLen()+7)/8+16)
	h.Read(out)

	return new(big.Int).Mod(new(big.Int).SetBytes(out), order)
}
