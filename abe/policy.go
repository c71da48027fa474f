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

package abe

import (
	"sort"
	"strings"
)

// NodeType is the kind of a node of a policy tree.
type NodeType int

const (
	// Leaf is an attribute.
	Leaf NodeType = iota
	// And requires both children to be satisfied.
	And
	// Or requires at least one child to be satisfied.
	Or
)

func (t NodeType) String() string {
	switch t {
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return "leaf"
	}
}

// PolicyNode is a node of a parsed policy. Leaves carry an attribute
// and, once compiled, the index of the matrix row created for them.
type PolicyNode struct {
	Type   NodeType
	Attrib string
	Row    int
	Left   *PolicyNode
	Right  *PolicyNode
}

// String returns the policy rooted at n in prefix form.
func (n *PolicyNode) String() string {
	tokens := make([]string, 0)
	n.prefix(&tokens)

	return strings.Join(tokens, " ")
}

func (n *PolicyNode) prefix(tokens *[]string) {
	if n.Type == Leaf {
		*tokens = append(*tokens, n.Attrib)
		return
	}
	*tokens = append(*tokens, n.Type.String())
	n.Left.prefix(tokens)
	n.Right.prefix(tokens)
}

// satisfy evaluates the tree bottom-up for the set of held attributes.
// It returns the rows whose sum reconstructs the secret. At an OR gate
// the first satisfied child, left to right, is used.
func (n *PolicyNode) satisfy(held map[string]bool) ([]int, bool) {
	switch n.Type {
	case And:
		left, ok := n.Left.satisfy(held)
		if !ok {
			return nil, false
		}
		right, ok := n.Right.satisfy(held)
		if !ok {
			return nil, false
		}
		return append(left, right...), true
	case Or:
		if rows, ok := n.Left.satisfy(held); ok {
			return rows, true
		}
		return n.Right.satisfy(held)
	default:
		if held[n.Attrib] {
			return []int{n.Row}, true
		}
		return nil, false
	}
}

func operator(token string) (NodeType, bool) {
	switch strings.ToLower(token) {
	case "and":
		return And, true
	case "or":
		return Or, true
	}

	return Leaf, false
}

// ParsePolicy parses a policy written in prefix form: a whitespace
// separated stream of tokens where every "and" or "or" is followed by
// its two operands and every other token names an attribute. For
// example "and a or d and b c" is a AND (d OR (b AND c)).
func ParsePolicy(policy string) (*PolicyNode, error) {
	p := &prefixParser{tokens: strings.Fields(policy)}
	if len(p.tokens) == 0 {
		return nil, &PolicyError{Pos: 0, Msg: "empty policy"}
	}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, &PolicyError{
			Pos:   p.pos,
			Token: p.tokens[p.pos],
			Msg:   "unexpected token after the end of the policy",
		}
	}

	return root, nil
}

type prefixParser struct {
	tokens []string
	pos    int
}

func (p *prefixParser) parse() (*PolicyNode, error) {
	pos := p.pos
	token := p.tokens[pos]
	p.pos++

	op, isOp := operator(token)
	if !isOp {
		return &PolicyNode{Type: Leaf, Attrib: token}, nil
	}

	children := [2]*PolicyNode{}
	for i := range children {
		if p.pos >= len(p.tokens) {
			return nil, &PolicyError{Pos: pos, Token: token, Msg: "operator is missing an operand"}
		}
		child, err := p.parse()
		if err != nil {
			return nil, err
		}
		children[i] = child
	}

	return &PolicyNode{Type: op, Left: children[0], Right: children[1]}, nil
}

// ParseInfixPolicy parses a boolean expression written with infix AND
// and OR gates and parentheses, such as "a AND (d OR (b AND c))".
// Gates have no precedence: the first gate found outside parentheses
// splits the expression, so "a AND b AND c" is a AND (b AND c).
func ParseInfixPolicy(expr string) (*PolicyNode, error) {
	tokens := tokenizeInfix(expr)
	if len(tokens) == 0 {
		return nil, &PolicyError{Pos: 0, Msg: "empty policy"}
	}

	return parseInfix(tokens, 0)
}

func tokenizeInfix(expr string) []string {
	expr = strings.ReplaceAll(expr, "(", " ( ")
	expr = strings.ReplaceAll(expr, ")", " ) ")

	return strings.Fields(expr)
}

// parseInfix finds the main AND or OR gate of the expression and
// parses both sub-expressions. off is the position of tokens[0] in the
// whole expression, used for error reporting.
func parseInfix(tokens []string, off int) (*PolicyNode, error) {
	if len(tokens) == 0 {
		return nil, &PolicyError{Pos: off, Msg: "missing operand"}
	}

	numBrc := 0
	for i, t := range tokens {
		switch t {
		case "(":
			numBrc++
			continue
		case ")":
			numBrc--
			if numBrc < 0 {
				return nil, &PolicyError{Pos: off + i, Token: t, Msg: "unbalanced parenthesis"}
			}
			continue
		}
		op, isOp := operator(t)
		if numBrc == 0 && isOp {
			left, err := parseInfix(tokens[:i], off)
			if err != nil {
				return nil, err
			}
			right, err := parseInfix(tokens[i+1:], off+i+1)
			if err != nil {
				return nil, err
			}
			return &PolicyNode{Type: op, Left: left, Right: right}, nil
		}
	}
	if numBrc != 0 {
		return nil, &PolicyError{Pos: off, Token: tokens[0], Msg: "unbalanced parenthesis"}
	}

	// no gate on the top level: either the whole expression is
	// in brackets or it is a single attribute
	last := len(tokens) - 1
	if tokens[0] == "(" && tokens[last] == ")" {
		return parseInfix(tokens[1:last], off+1)
	}
	if len(tokens) > 1 {
		return nil, &PolicyError{Pos: off + 1, Token: tokens[1], Msg: "expected a gate"}
	}
	if tokens[0] == "(" || tokens[0] == ")" {
		return nil, &PolicyError{Pos: off, Token: tokens[0], Msg: "unbalanced parenthesis"}
	}

	return &PolicyNode{Type: Leaf, Attrib: tokens[0]}, nil
}

// SelectRows returns the rows of the access structure whose sum is
// (1, 0,..., 0) for a user holding attribs, in ascending order. The
// second return value is false if attribs do not satisfy the policy.
func (a *AccessStructure) SelectRows(attribs []string) ([]int, bool) {
	if a.tree == nil {
		return nil, false
	}
	held := make(map[string]bool, len(attribs))
	for _, at := range attribs {
		held[at] = true
	}
	rows, ok := a.tree.satisfy(held)
	if !ok || len(rows) == 0 {
		return nil, false
	}
	sort.Ints(rows)

	return rows, true
}

// IsSatisfiedBy reports whether attribs satisfy the policy.
func (a *AccessStructure) IsSatisfiedBy(attribs []string) bool {
	_, ok := a.SelectRows(attribs)
	return ok
}
