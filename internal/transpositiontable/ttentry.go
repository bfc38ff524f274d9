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

package transpositiontable

import (
	. "github.com/talonchess/talon/internal/types"
)

// TtEntry is one hash table slot, packed into 16 bytes: a 64-bit Zobrist
// key plus a move, an eval, a search value, and a bitfield (vmeta) holding
// depth, value type and age so the slot never grows past a cache line
// and a half.
type TtEntry struct {
	key   Key
	move  uint16
	eval  int16
	value int16
	vmeta uint16 // bits [0:3)=age [3:5)=valueType [5:12)=depth
}

// TtEntrySize is sizeof(TtEntry) in bytes.
const TtEntrySize = 16

const (
	ageMask    = uint16(0b0000_0000_0000_0111)
	vtypeMask  = uint16(0b0000_0000_0001_1000)
	vtypeShift = uint16(3)
	depthMask  = uint16(0b0000_1111_1110_0000)
	depthShift = uint16(5)
)

// packVmeta assembles the vmeta bitfield from its three components.
func packVmeta(depth int8, valueType ValueType, age uint16) uint16 {
	return uint16(depth)<<depthShift + uint16(valueType)<<vtypeShift + age
}

// store overwrites the slot with a fresh result, resetting its age to 1.
func (e *TtEntry) store(key Key, move Move, depth int8, value Value, valueType ValueType, eval Value) {
	e.key = key
	e.move = uint16(move)
	e.eval = int16(eval)
	e.value = int16(value)
	e.vmeta = packVmeta(depth, valueType, 1)
}

// decreaseAge makes the slot one generation fresher, floored at 0.
func (e *TtEntry) decreaseAge() {
	if e.Age() > 0 {
		e.vmeta--
	}
}

// increaseAge makes the slot one generation older, capped at the field width.
func (e *TtEntry) increaseAge() {
	if e.Age() < 7 {
		e.vmeta++
	}
}

// Key returns the Zobrist key stored in this slot.
func (e *TtEntry) Key() Key {
	return e.key
}

// Move returns the best move stored in this slot.
func (e *TtEntry) Move() Move {
	return Move(e.move)
}

// Value returns the search value stored in this slot.
func (e *TtEntry) Value() Value {
	return Value(e.value)
}

// Eval returns the static evaluation stored in this slot.
func (e *TtEntry) Eval() Value {
	return Value(e.eval)
}

// Depth returns the search depth the stored value was computed at.
func (e *TtEntry) Depth() int8 {
	return int8((e.vmeta & depthMask) >> depthShift)
}

// Age returns how many generations have passed since this slot was last probed.
func (e *TtEntry) Age() int8 {
	return int8(e.vmeta & ageMask)
}

// Vtype reports whether the stored Value is exact or a search-cutoff bound.
func (e *TtEntry) Vtype() ValueType {
	return ValueType((e.vmeta & vtypeMask) >> vtypeShift)
}
