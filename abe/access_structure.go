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

package abe

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/fentec-project/dcpabe/data"
	"github.com/fentec-project/dcpabe/internal"
	"github.com/pkg/errors"
)

// MatrixEntry is an entry of an access structure matrix. The
// compiler only ever produces -1, 0 and 1.
type MatrixEntry int8

const (
	MinusOne MatrixEntry = -1
	Zero     MatrixEntry = 0
	One      MatrixEntry = 1
)

// Valid reports whether e is one of MinusOne, Zero, One.
func (e MatrixEntry) Valid() bool {
	return e == MinusOne || e == Zero || e == One
}

// AccessStructure is a linear secret sharing scheme compiled from a
// policy: a matrix whose rows are mapped to attributes, with the
// property that the rows of any set of attributes satisfying the policy
// can be summed to (1, 0,..., 0). The parsed policy is kept to select
// those rows. An AccessStructure is not modified after compilation and
// can be shared by many encryptions.
type AccessStructure struct {
	mat         [][]MatrixEntry
	rowToAttrib []string
	tree        *PolicyNode
}

// BuildFromPolicy compiles a policy in prefix form (see ParsePolicy).
func BuildFromPolicy(policy string) (*AccessStructure, error) {
	tree, err := ParsePolicy(policy)
	if err != nil {
		return nil, err
	}

	return compile(tree), nil
}

// BuildFromInfix compiles a policy in infix form (see ParseInfixPolicy).
func BuildFromInfix(expr string) (*AccessStructure, error) {
	tree, err := ParseInfixPolicy(expr)
	if err != nil {
		return nil, err
	}

	return compile(tree), nil
}

// compile turns a policy tree into an access structure with the
// Lewko-Waters algorithm, see Appendix G in
// https://eprint.iacr.org/2010/351.pdf. The root is labeled (1); an
// AND gate labeled v opens a new column c and labels its children
// v|0..0|1 and 0..0|-1, an OR gate passes v to both children, and every
// leaf becomes a row equal to its label padded with zeros.
func compile(tree *PolicyNode) *AccessStructure {
	c := &compiler{cols: 1}
	c.label(tree, []MatrixEntry{One})

	mat := make([][]MatrixEntry, len(c.rows))
	for i, r := range c.rows {
		mat[i] = make([]MatrixEntry, c.cols)
		copy(mat[i], r)
	}

	return &AccessStructure{
		mat:         mat,
		rowToAttrib: c.rho,
		tree:        tree,
	}
}

type compiler struct {
	cols int
	rows [][]MatrixEntry
	rho  []string
}

func (c *compiler) label(n *PolicyNode, vec []MatrixEntry) {
	switch n.Type {
	case And:
		col := c.cols
		c.cols++
		left, right := makeAndVecs(vec, col)
		c.label(n.Left, left)
		c.label(n.Right, right)
	case Or:
		c.label(n.Left, vec)
		c.label(n.Right, vec)
	default:
		n.Row = len(c.rows)
		c.rows = append(c.rows, vec)
		c.rho = append(c.rho, n.Attrib)
	}
}

// makeAndVecs creates the labels of the children of an AND gate
// labeled vec that opens column col.
func makeAndVecs(vec []MatrixEntry, col int) ([]MatrixEntry, []MatrixEntry) {
	vec1 := make([]MatrixEntry, col+1)
	vec2 := make([]MatrixEntry, col+1)
	copy(vec1, vec)
	vec1[col] = One
	vec2[col] = MinusOne

	return vec1, vec2
}

// Rows returns the number of rows N.
func (a *AccessStructure) Rows() int {
	return len(a.mat)
}

// Cols returns the number of columns L.
func (a *AccessStructure) Cols() int {
	if len(a.mat) == 0 {
		return 0
	}

	return len(a.mat[0])
}

// Row returns a copy of row x.
func (a *AccessStructure) Row(x int) []MatrixEntry {
	return append([]MatrixEntry{}, a.mat[x]...)
}

// Rho returns the attribute mapped to row x.
func (a *AccessStructure) Rho(x int) string {
	return a.rowToAttrib[x]
}

// Attributes returns the distinct attributes of the policy in order of
// their first row.
func (a *AccessStructure) Attributes() []string {
	seen := make(map[string]bool)
	attribs := make([]string, 0, len(a.rowToAttrib))
	for _, at := range a.rowToAttrib {
		if !seen[at] {
			seen[at] = true
			attribs = append(attribs, at)
		}
	}

	return attribs
}

// Policy returns the policy in prefix form, or an empty string if the
// access structure was decoded without one.
func (a *AccessStructure) Policy() string {
	if a.tree == nil {
		return ""
	}

	return a.tree.String()
}

// Matrix returns the matrix of the access structure over the integers.
func (a *AccessStructure) Matrix() data.Matrix {
	mat := make(data.Matrix, len(a.mat))
	for i, row := range a.mat {
		mat[i] = make(data.Vector, len(row))
		for j, e := range row {
			mat[i][j] = big.NewInt(int64(e))
		}
	}

	return mat
}

// String returns the policy followed by the rows of the matrix with
// their attributes.
func (a *AccessStructure) String() string {
	var sb strings.Builder
	sb.WriteString(a.Policy())
	for i, row := range a.mat {
		sb.WriteString(fmt.Sprintf("\n%s:", a.rowToAttrib[i]))
		for _, e := range row {
			sb.WriteString(fmt.Sprintf(" %2d", e))
		}
	}

	return sb.String()
}

// reconstruction returns the rows used to decrypt with attribs and the
// coefficients of their linear combination giving (1, 0,..., 0); nil
// coefficients mean that all of them are one. Without a policy tree the
// coefficients are found by Gaussian elimination over Z_p.
func (a *AccessStructure) reconstruction(attribs []string, p *big.Int) ([]int, data.Vector, bool) {
	if a.tree != nil {
		rows, ok := a.SelectRows(attribs)
		return rows, nil, ok
	}

	held := make(map[string]bool, len(attribs))
	for _, at := range attribs {
		held[at] = true
	}
	rows := make([]int, 0)
	for i, at := range a.rowToAttrib {
		if held[at] {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		return nil, nil, false
	}

	goodMat, err := a.Matrix().SubMatrix(rows)
	if err != nil {
		return nil, nil, false
	}
	c, err := data.GaussianEliminationSolver(goodMat.Transpose(), data.NewUnitVector(a.Cols()), p)
	if err != nil {
		return nil, nil, false
	}

	return rows, c, true
}

type accessStructureJSON struct {
	N      int             `json:"n"`
	L      int             `json:"l"`
	Mat    [][]MatrixEntry `json:"mat"`
	Rho    []string        `json:"rho"`
	Policy string          `json:"policy,omitempty"`
}

// MarshalJSON encodes the matrix, the row to attribute mapping and the
// policy in prefix form.
func (a *AccessStructure) MarshalJSON() ([]byte, error) {
	return json.Marshal(&accessStructureJSON{
		N:      a.Rows(),
		L:      a.Cols(),
		Mat:    a.mat,
		Rho:    a.rowToAttrib,
		Policy: a.Policy(),
	})
}

// UnmarshalJSON decodes an access structure. If a policy is present it
// is compiled again and must give the same matrix and mapping; the
// decoded structure then selects rows by the policy tree. Otherwise
// only the matrix is kept.
func (a *AccessStructure) UnmarshalJSON(b []byte) error {
	var enc accessStructureJSON
	if err := json.Unmarshal(b, &enc); err != nil {
		return errors.Wrap(internal.MalformedInput, err.Error())
	}
	if enc.N <= 0 || enc.L <= 0 || len(enc.Mat) != enc.N || len(enc.Rho) != enc.N {
		return errors.Wrap(internal.MalformedInput, "access structure dimensions do not match")
	}
	for _, row := range enc.Mat {
		if len(row) != enc.L {
			return errors.Wrap(internal.MalformedInput, "access structure rows differ in length")
		}
		for _, e := range row {
			if !e.Valid() {
				return errors.Wrapf(internal.MalformedInput, "invalid matrix entry %d", e)
			}
		}
	}

	dec := &AccessStructure{mat: enc.Mat, rowToAttrib: enc.Rho}
	if enc.Policy != "" {
		compiled, err := BuildFromPolicy(enc.Policy)
		if err != nil {
			return err
		}
		if !compiled.sameMatrix(dec) {
			return errors.Wrap(internal.MalformedInput, "policy does not match the access structure matrix")
		}
		dec = compiled
	}
	*a = *dec

	return nil
}

func (a *AccessStructure) sameMatrix(other *AccessStructure) bool {
	if a.Rows() != other.Rows() || a.Cols() != other.Cols() {
		return false
	}
	for i := range a.mat {
		if a.rowToAttrib[i] != other.rowToAttrib[i] {
			return false
		}
		for j := range a.mat[i] {
			if a.mat[i][j] != other.mat[i][j] {
				return false
			}
		}
	}

	return true
}
