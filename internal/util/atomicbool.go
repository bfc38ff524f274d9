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

package util

import "sync/atomic"

const (
	boolFalse uint32 = 0
	boolTrue  uint32 = 1
)

// Bool is a boolean that can be read and written concurrently without a
// mutex, backed by a uint32 manipulated through sync/atomic.
type Bool struct{ word uint32 }

// NewBool returns a Bool initialized to initial.
func NewBool(initial bool) *Bool {
	return &Bool{word: encodeBool(initial)}
}

// Load atomically reads the current value.
func (b *Bool) Load() bool {
	return decodeBool(atomic.LoadUint32(&b.word))
}

// Store atomically writes v.
func (b *Bool) Store(v bool) {
	atomic.StoreUint32(&b.word, encodeBool(v))
}

// Swap atomically writes v and returns the value it replaced.
func (b *Bool) Swap(v bool) bool {
	return decodeBool(atomic.SwapUint32(&b.word, encodeBool(v)))
}

// CAS atomically sets the value to newVal only if it currently equals
// oldVal, reporting whether the swap took place.
func (b *Bool) CAS(oldVal, newVal bool) bool {
	return atomic.CompareAndSwapUint32(&b.word, encodeBool(oldVal), encodeBool(newVal))
}

// Toggle atomically flips the value and returns what it was before the flip.
func (b *Bool) Toggle() bool {
	for {
		before := b.Load()
		if b.CAS(before, !before) {
			return before
		}
	}
}

func encodeBool(v bool) uint32 {
	if v {
		return boolTrue
	}
	return boolFalse
}

func decodeBool(word uint32) bool {
	return word == boolTrue
}
