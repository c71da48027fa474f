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

package sample_test

import (
	"math/big"
	"testing"

	"github.com/fentec-project/dcpabe/sample"
	"github.com/stretchr/testify/assert"
)

func TestUniformRange(t *testing.T) {
	min := big.NewInt(10)
	max := big.NewInt(20)
	sampler := sample.NewUniformRange(min, max)
	for i := 0; i < 100; i++ {
		x, err := sampler.Sample()
		if err != nil {
			t.Fatalf("Error during sampling: %v", err)
		}
		assert.True(t, x.Cmp(min) >= 0, "sample should not be smaller than min")
		assert.True(t, x.Cmp(max) < 0, "sample should be smaller than max")
	}

	_, err := sample.NewUniformRange(max, min).Sample()
	assert.Error(t, err)
}

func TestBit(t *testing.T) {
	sampler := sample.NewBit()
	for i := 0; i < 20; i++ {
		x, err := sampler.Sample()
		assert.NoError(t, err)
		assert.True(t, x.Int64() == 0 || x.Int64() == 1)
	}
}
