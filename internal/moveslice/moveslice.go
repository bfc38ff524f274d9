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

// Package moveslice adds deque- and sort-style operations on top of a
// plain []Move, since move lists get pushed, popped and re-sorted from
// both ends throughout move generation and search.
package moveslice

import (
	"fmt"
	"strings"
	"sync"

	. "github.com/talonchess/talon/internal/types"
)

// MoveSlice is a []Move with attached deque and ordering operations.
type MoveSlice []Move

// NewMoveSlice returns an empty MoveSlice with capacity reserved upfront.
func NewMoveSlice(capacity int) *MoveSlice {
	backing := make([]Move, 0, capacity)
	return (*MoveSlice)(&backing)
}

// Len reports how many moves are currently stored.
func (ms *MoveSlice) Len() int {
	return len(*ms)
}

// Cap reports the capacity of the underlying array.
func (ms *MoveSlice) Cap() int {
	return cap(*ms)
}

// PushBack appends m to the end of the slice.
func (ms *MoveSlice) PushBack(m Move) {
	*ms = append(*ms, m)
}

// PopBack removes and returns the last move. Panics if ms is empty.
func (ms *MoveSlice) PopBack() Move {
	if len(*ms) == 0 {
		panic("moveslice: PopBack on empty slice")
	}
	last := (*ms)[len(*ms)-1]
	*ms = (*ms)[:len(*ms)-1]
	return last
}

// PushFront prepends m, shifting every existing element up by one slot in
// place rather than allocating a new backing array.
func (ms *MoveSlice) PushFront(m Move) {
	*ms = append(*ms, MoveNone)
	copy((*ms)[1:], *ms)
	(*ms)[0] = m
}

// PopFront removes and returns the first move. Panics if ms is empty.
// Since this only advances the slice's start index, repeated calls can
// trigger earlier reallocation than PopBack would.
func (ms *MoveSlice) PopFront() Move {
	if len(*ms) == 0 {
		panic("moveslice: PopFront on empty slice")
	}
	first := (*ms)[0]
	*ms = (*ms)[1:]
	return first
}

// Front returns the first move without removing it. Panics if ms is empty.
func (ms *MoveSlice) Front() Move {
	if len(*ms) == 0 {
		panic("moveslice: Front on empty slice")
	}
	return (*ms)[0]
}

// Back returns the last move without removing it. Panics if ms is empty.
func (ms *MoveSlice) Back() Move {
	if len(*ms) == 0 {
		panic("moveslice: Back on empty slice")
	}
	return (*ms)[len(*ms)-1]
}

// At returns the move at index i. Panics if i is out of bounds.
func (ms *MoveSlice) At(i int) Move {
	if i < 0 || i >= len(*ms) {
		panic("moveslice: index out of bounds")
	}
	return (*ms)[i]
}

// Set overwrites the move at index i. Panics if i is out of bounds.
func (ms *MoveSlice) Set(i int, move Move) {
	if i < 0 || i >= len(*ms) {
		panic("moveslice: index out of bounds")
	}
	(*ms)[i] = move
}

// Filter keeps only the elements for which keep reports true, compacting
// the underlying array in place rather than allocating a new one.
func (ms *MoveSlice) Filter(keep func(index int) bool) {
	kept := (*ms)[:0]
	for i, m := range *ms {
		if keep(i) {
			kept = append(kept, m)
		}
	}
	*ms = kept
}

// FilterCopy appends to dest every element for which keep reports true,
// leaving ms itself untouched.
func (ms *MoveSlice) FilterCopy(dest *MoveSlice, keep func(index int) bool) {
	for i, m := range *ms {
		if keep(i) {
			*dest = append(*dest, m)
		}
	}
}

// Clone returns a deep copy of ms with the same length and capacity.
func (ms *MoveSlice) Clone() *MoveSlice {
	copied := make([]Move, ms.Len(), ms.Cap())
	copy(copied, *ms)
	return (*MoveSlice)(&copied)
}

// Equals reports whether ms and other hold the same moves in the same order.
func (ms *MoveSlice) Equals(other *MoveSlice) bool {
	if ms.Len() != other.Len() {
		return false
	}
	for i, m := range *ms {
		if m != (*other)[i] {
			return false
		}
	}
	return true
}

// ForEach invokes f with the index of every element, in order.
func (ms *MoveSlice) ForEach(f func(index int)) {
	for i := range *ms {
		f(i)
	}
}

// ForEachParallel invokes f once per index from its own goroutine and
// blocks until all of them return. Callers needing shared-state safety
// inside f must synchronize it themselves.
func (ms *MoveSlice) ForEachParallel(f func(index int)) {
	var wg sync.WaitGroup
	wg.Add(len(*ms))
	for i := range *ms {
		go func(idx int) {
			defer wg.Done()
			f(idx)
		}(i)
	}
	wg.Wait()
}

// Clear empties the slice while keeping its backing array, so repeated
// reuse at high frequency doesn't churn the garbage collector.
func (ms *MoveSlice) Clear() {
	*ms = (*ms)[:0]
}

// Sort orders moves from highest Value to lowest via a stable insertion
// sort - move lists here are small and already close to sorted, which is
// insertion sort's best case. Only the packed Value bits (move&0xFFFF0000)
// drive the comparison; everything else about move order is untouched.
func (ms *MoveSlice) Sort() {
	n := len(*ms)
	for i := 1; i < n; i++ {
		current := (*ms)[i]
		j := i
		for j > 0 && (current&0xFFFF0000) > ((*ms)[j-1]&0xFFFF0000) {
			(*ms)[j] = (*ms)[j-1]
			j--
		}
		(*ms)[j] = current
	}
}

// String renders ms as a human-readable, comma-separated move list.
func (ms *MoveSlice) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "MoveList: [%d] { ", len(*ms))
	for i, m := range *ms {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(m.String())
	}
	b.WriteString(" }")
	return b.String()
}

// StringUci renders ms as a space-separated list of moves in UCI notation.
func (ms *MoveSlice) StringUci() string {
	var b strings.Builder
	for i, m := range *ms {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(m.StringUci())
	}
	return b.String()
}
