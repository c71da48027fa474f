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
)

// Matrix wraps a slice of Vector elements. It represents a row-major
// order matrix.
//
// The j-th element from the i-th vector of the matrix can be obtained
// as m[i][j].
type Matrix []Vector

// NewMatrix accepts a slice of Vector elements and
// returns a new Matrix instance.
// It returns error if not all the vectors have the same number of elements.
func NewMatrix(vectors []Vector) (Matrix, error) {
	l := -1
	newVectors := make([]Vector, len(vectors))

	if len(vectors) > 0 {
		l = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != l {
			return nil, fmt.Errorf("all vectors should be of the same length")
		}
		newVectors[i] = NewVector(v)
	}

	return Matrix(newVectors), nil
}

// Rows returns the number of rows of matrix m.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the number of columns of matrix m.
func (m Matrix) Cols() int {
	if len(m) != 0 {
		return len(m[0])
	}

	return 0
}

// GetCol returns i-th column of matrix m as a vector.
// It returns error if i >= the number of m's columns.
func (m Matrix) GetCol(i int) (Vector, error) {
	if i >= m.Cols() {
		return nil, fmt.Errorf("column index exceeds matrix dimensions")
	}

	column := make([]*big.Int, m.Rows())
	for j := 0; j < m.Rows(); j++ {
		column[j] = m[j][i]
	}

	return NewVector(column), nil
}

// Transpose transposes matrix m and returns
// the result in a new Matrix.
func (m Matrix) Transpose() Matrix {
	transposed := make([]Vector, m.Cols())
	for i := 0; i < m.Cols(); i++ {
		transposed[i], _ = m.GetCol(i)
	}

	return transposed
}

// SubMatrix returns the matrix made of the given rows of m, in the
// given order. It returns an error if a row index is out of range.
func (m Matrix) SubMatrix(rows []int) (Matrix, error) {
	sub := make([]Vector, len(rows))
	for i, x := range rows {
		if x < 0 || x >= m.Rows() {
			return nil, fmt.Errorf("row index %d exceeds matrix dimensions", x)
		}
		sub[i] = m[x]
	}

	return sub, nil
}

// Mod applies the element-wise modulo operation on matrix m.
// The result is returned in a new Matrix.
func (m Matrix) Mod(modulo *big.Int) Matrix {
	res := make(Matrix, m.Rows())
	for i, v := range m {
		res[i] = v.Mod(modulo)
	}

	return res
}

// MulVec multiplies matrix m and vector v.
// It returns the resulting vector.
// Error is returned if the number of columns of m differs from the number
// of elements of v.
func (m Matrix) MulVec(v Vector) (Vector, error) {
	if m.Cols() != len(v) {
		return nil, fmt.Errorf("cannot multiply matrix by a vector")
	}

	res := make(Vector, m.Rows())
	for i, row := range m {
		res[i], _ = row.Dot(v)
	}

	return res, nil
}

// MulVecMod multiplies matrix m and vector v over Z_p.
func (m Matrix) MulVecMod(v Vector, p *big.Int) (Vector, error) {
	res, err := m.MulVec(v)
	if err != nil {
		return nil, err
	}

	return res.Mod(p), nil
}

// GaussianEliminationSolver solves a vector equation mat * x = v and finds vector x,
// using Gaussian elimination. Arithmetic operations are considered to be over
// Z_p, where p should be a prime number. If such x does not exist, then the
// function returns an error. Free variables of x are set to 0.
func GaussianEliminationSolver(mat Matrix, v Vector, p *big.Int) (Vector, error) {
	if mat.Rows() == 0 || mat.Cols() == 0 {
		return nil, fmt.Errorf("the matrix should not be empty")
	}
	if mat.Rows() != len(v) {
		return nil, fmt.Errorf("dimensions should match: "+
			"rows of the matrix %d, length of the vector %d", mat.Rows(), len(v))
	}

	// we copy matrix mat into m and v into u, both reduced mod p
	m := mat.Mod(p)
	u := v.Mod(p)

	// m and u are transformed to be in the row echelon form,
	// pivots[h] is the column of the pivot in row h
	pivots := make([]int, 0, mat.Cols())
	h := 0
	for k := 0; h < m.Rows() && k < m.Cols(); k++ {
		pivot := -1
		for i := h; i < m.Rows(); i++ {
			if m[i][k].Sign() != 0 {
				pivot = i
				break
			}
		}
		if pivot == -1 {
			continue
		}
		m[h], m[pivot] = m[pivot], m[h]
		u[h], u[pivot] = u[pivot], u[h]

		inv := new(big.Int).ModInverse(m[h][k], p)
		for i := h + 1; i < m.Rows(); i++ {
			if m[i][k].Sign() == 0 {
				continue
			}
			f := new(big.Int).Mul(inv, m[i][k])
			m[i][k] = big.NewInt(0)
			for j := k + 1; j < m.Cols(); j++ {
				m[i][j].Sub(m[i][j], new(big.Int).Mul(f, m[h][j]))
				m[i][j].Mod(m[i][j], p)
			}
			u[i].Sub(u[i], new(big.Int).Mul(f, u[h]))
			u[i].Mod(u[i], p)
		}
		pivots = append(pivots, k)
		h++
	}

	for i := h; i < m.Rows(); i++ {
		if u[i].Sign() != 0 {
			return nil, fmt.Errorf("no solution")
		}
	}

	// back substitution
	ret := NewConstantVector(m.Cols(), big.NewInt(0))
	for i := h - 1; i >= 0; i-- {
		k := pivots[i]
		tmpSum, _ := m[i][k+1:].Dot(ret[k+1:])
		ret[k].Sub(u[i], tmpSum)
		ret[k].Mul(ret[k], new(big.Int).ModInverse(m[i][k], p))
		ret[k].Mod(ret[k], p)
	}

	return ret, nil
}
