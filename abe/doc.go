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

// Package abe includes a decentralized ciphertext-policy attribute
// based encryption scheme (DCPABE) together with a compiler of boolean
// policies into linear secret sharing schemes.
//
// Policies are monotone boolean formulas over attribute names with
// AND and OR gates. They are written in prefix form, e.g.
// "and a or d and b c", or in infix form with parentheses, e.g.
// "a AND (d OR (b AND c))". A compiled AccessStructure is shared by
// all encryptions under the same policy.
//
// Attribute keys are issued by independent authorities. A user holds
// the keys issued to its global identifier in a PersonalKeys ring and
// can decrypt every ciphertext whose policy the attributes of the ring
// satisfy.
package abe
