//
// talon - a UCI chess engine search core
//
// MIT License
//
// Copyright (c) 2021-2026 the talon authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

package types

// ValueType tags what a stored search value actually bounds: an exact score,
// or only an upper/lower bound left behind by a cutoff.
type ValueType int8

const (
	Vnone ValueType = 0
	EXACT ValueType = 1
	ALPHA ValueType = 2 // upper bound - a fail-low, the true value is <= this
	BETA  ValueType = 3 // lower bound - a fail-high, the true value is >= this

	Vlength int = 4
)

// IsValid reports whether vt is one of the four defined value types.
func (vt ValueType) IsValid() bool {
	return vt < 4
}

var valueTypeNames = [Vlength]string{"NoneValue", "ExactValue", "AlphaValue", "BetaValue"}

// String returns the display name of vt.
func (vt ValueType) String() string {
	return valueTypeNames[vt]
}
