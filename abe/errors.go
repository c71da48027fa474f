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
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedPolicy is returned when a policy expression can not be
// parsed. The concrete error is a *PolicyError.
var ErrMalformedPolicy = errors.New("malformed policy")

// ErrMissingAttributeKey is returned by Encrypt when no public key is
// known for an attribute of the policy. The concrete error is a
// *MissingAttributeKeyError.
var ErrMissingAttributeKey = errors.New("missing attribute key")

// ErrNotSatisfying is returned by Decrypt when the attribute keys do
// not satisfy the policy of the ciphertext.
var ErrNotSatisfying = errors.New("not satisfying")

// ErrDuplicateAttribute is returned when a key container already holds
// an entry for an attribute.
var ErrDuplicateAttribute = errors.New("duplicate attribute subscription")

// ErrGIDMismatch is returned when personal keys of different users are
// put together.
var ErrGIDMismatch = errors.New("personal keys belong to different users")

// PolicyError describes where parsing of a policy failed.
type PolicyError struct {
	Pos   int    // index of the offending token
	Token string // offending token, empty at the end of input
	Msg   string
}

func (e *PolicyError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: %s at token %d", ErrMalformedPolicy, e.Msg, e.Pos)
	}

	return fmt.Sprintf("%s: %s at token %d (%q)", ErrMalformedPolicy, e.Msg, e.Pos, e.Token)
}

// Is makes errors.Is(err, ErrMalformedPolicy) hold for every PolicyError.
func (e *PolicyError) Is(target error) bool {
	return target == ErrMalformedPolicy
}

// MissingAttributeKeyError names the attribute without a public key.
type MissingAttributeKeyError struct {
	Attrib string
}

func (e *MissingAttributeKeyError) Error() string {
	return fmt.Sprintf("%s: no public key for attribute %q", ErrMissingAttributeKey, e.Attrib)
}

// Is makes errors.Is(err, ErrMissingAttributeKey) hold.
func (e *MissingAttributeKeyError) Is(target error) bool {
	return target == ErrMissingAttributeKey
}
