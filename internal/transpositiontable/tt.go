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

// Package transpositiontable implements the search's hash table: a fixed
// array of slots addressed by the low bits of a position's Zobrist key,
// each slot holding the best move, score and search depth last stored for
// that key. Not safe for concurrent use - Resize and Clear in particular
// must never run while a search is probing the table.
package transpositiontable

import (
	"math"
	"sync"
	"time"
	"unsafe"

	"github.com/frankkopp/workerpool"
	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	myLogging "github.com/talonchess/talon/internal/logging"
	. "github.com/talonchess/talon/internal/types"
	"github.com/talonchess/talon/internal/util"
)

var out = message.NewPrinter(language.German)

// MaxSizeInMB caps how much memory a single table may claim.
const MaxSizeInMB = 65_536

// TtTable is a fixed-size, direct-mapped hash table of TtEntry slots.
// Build one with NewTtTable.
type TtTable struct {
	log             *logging.Logger
	data            []TtEntry
	sizeInByte      uint64
	slotMask        uint64
	capacity        uint64
	numberOfEntries uint64
	Stats           TtStats
}

// TtStats accumulates counters describing how a table has been used.
type TtStats struct {
	numberOfPuts       uint64
	numberOfCollisions uint64
	numberOfOverwrites uint64
	numberOfUpdates    uint64
	numberOfProbes     uint64
	numberOfHits       uint64
	numberOfMisses     uint64
}

// NewTtTable returns a table sized to the largest power-of-two entry count
// that fits within sizeInMByte megabytes - power-of-two capacity lets slot
// lookup use a bitmask instead of a modulo.
func NewTtTable(sizeInMByte int) *TtTable {
	tt := &TtTable{log: myLogging.GetLog()}
	tt.Resize(sizeInMByte)
	return tt
}

// Resize reallocates the table to the largest power-of-two entry count
// fitting within sizeInMByte megabytes, discarding all existing entries.
// Must not be called concurrently with a probing search.
func (tt *TtTable) Resize(sizeInMByte int) {
	if sizeInMByte > MaxSizeInMB {
		tt.log.Error(out.Sprintf("requested TT size %d MB reduced to max %d MB", sizeInMByte, MaxSizeInMB))
		sizeInMByte = MaxSizeInMB
	}

	requestedBytes := uint64(sizeInMByte) * MB
	tt.capacity = 0
	if requestedBytes >= TtEntrySize {
		exponent := uint64(math.Floor(math.Log2(float64(requestedBytes / TtEntrySize))))
		tt.capacity = 1 << exponent
	}
	tt.slotMask = 0
	if tt.capacity > 0 {
		tt.slotMask = tt.capacity - 1
	}
	tt.sizeInByte = tt.capacity * TtEntrySize
	tt.data = make([]TtEntry, tt.capacity)

	tt.log.Info(out.Sprintf("TT size %d MByte, capacity %d entries (%d bytes/entry), requested %d MByte",
		tt.sizeInByte/MB, tt.capacity, unsafe.Sizeof(TtEntry{}), sizeInMByte))
	tt.log.Debug(util.MemStat())
}

// GetEntry returns the slot matching key, or nil if the slot currently
// holds a different position. Does not touch statistics.
func (tt *TtTable) GetEntry(key Key) *TtEntry {
	slot := &tt.data[tt.slot(key)]
	if slot.key == key {
		return slot
	}
	return nil
}

// Probe looks up key, records a hit or miss, and decays the entry's Age
// by one on a hit - a probed entry is "fresh" again.
func (tt *TtTable) Probe(key Key) *TtEntry {
	tt.Stats.numberOfProbes++
	slot := &tt.data[tt.slot(key)]
	if slot.key == key {
		slot.decreaseAge()
		tt.Stats.numberOfHits++
		return slot
	}
	tt.Stats.numberOfMisses++
	return nil
}

// Put stores a search result under key. An empty slot is filled
// unconditionally; a colliding slot is overwritten only when the new
// result is deeper, or equally deep while the old one has aged past a
// single generation;
// a slot already holding key is refreshed in place, keeping whichever
// move/eval/value the caller didn't explicitly clear.
func (tt *TtTable) Put(key Key, move Move, depth int8, value Value, valueType ValueType, eval Value) {
	if tt.capacity == 0 {
		return
	}

	slot := &tt.data[tt.slot(key)]
	tt.Stats.numberOfPuts++

	switch {
	case slot.key == 0:
		tt.numberOfEntries++
		slot.store(key, move, depth, value, valueType, eval)

	case slot.key != key:
		tt.Stats.numberOfCollisions++
		if depth > slot.Depth() || (depth == slot.Depth() && slot.Age() > 1) {
			tt.Stats.numberOfOverwrites++
			slot.store(key, move, depth, value, valueType, eval)
		}

	default:
		tt.Stats.numberOfUpdates++
		slot.key = key
		if move != MoveNone {
			slot.move = uint16(move)
		}
		if eval != ValueNA {
			slot.eval = int16(eval)
		}
		if value != ValueNA {
			slot.value = int16(value)
			slot.vmeta = packVmeta(depth, valueType, 1)
		}
	}
}

// Clear discards every stored entry, keeping the allocated capacity.
// Must not run concurrently with a probing search.
func (tt *TtTable) Clear() {
	tt.data = make([]TtEntry, tt.capacity)
	tt.numberOfEntries = 0
	tt.Stats = TtStats{}
}

// Hashfull reports table occupancy in permill, matching the UCI "hashfull" field.
func (tt *TtTable) Hashfull() int {
	if tt.capacity == 0 {
		return 0
	}
	return int((1000 * tt.numberOfEntries) / tt.capacity)
}

// String summarizes the table's size and lifetime usage counters.
func (tt *TtTable) String() string {
	return out.Sprintf("TT: size %d MB max entries %d of size %d Bytes entries %d (%d%%) puts %d "+
		"updates %d collisions %d overwrites %d probes %d hits %d (%d%%) misses %d (%d%%)",
		tt.sizeInByte/MB, tt.capacity, unsafe.Sizeof(TtEntry{}), tt.numberOfEntries, tt.Hashfull()/10,
		tt.Stats.numberOfPuts, tt.Stats.numberOfUpdates, tt.Stats.numberOfCollisions, tt.Stats.numberOfOverwrites, tt.Stats.numberOfProbes,
		tt.Stats.numberOfHits, (tt.Stats.numberOfHits*100)/(1+tt.Stats.numberOfProbes),
		tt.Stats.numberOfMisses, (tt.Stats.numberOfMisses*100)/(1+tt.Stats.numberOfProbes))
}

// Len reports the number of occupied slots.
func (tt *TtTable) Len() uint64 {
	return tt.numberOfEntries
}

// AgeEntries ages every occupied slot on plain goroutines, one per chunk.
// Used when no WorkerPool has been set up, e.g. by tests that build a
// TtTable directly.
func (tt *TtTable) AgeEntries() {
	tt.AgeEntriesWithPool(nil)
}

// AgeEntriesWithPool ages every occupied slot, splitting the table into a
// fixed number of chunks and submitting one task per chunk to pool. A nil
// pool falls back to a plain goroutine per chunk.
func (tt *TtTable) AgeEntriesWithPool(pool *workerpool.WorkerPool) {
	started := time.Now()
	if tt.numberOfEntries > 0 {
		const chunkCount = uint64(32)
		chunkSize := tt.capacity / chunkCount
		var wg sync.WaitGroup
		wg.Add(int(chunkCount))
		for c := uint64(0); c < chunkCount; c++ {
			ageChunk := func(chunk uint64) func() {
				return func() {
					defer wg.Done()
					lo := chunk * chunkSize
					hi := lo + chunkSize
					if chunk == chunkCount-1 {
						hi = tt.capacity
					}
					for i := lo; i < hi; i++ {
						if tt.data[i].key != 0 {
							tt.data[i].increaseAge()
						}
					}
				}
			}(c)
			if pool != nil {
				pool.Submit(ageChunk)
			} else {
				go ageChunk()
			}
		}
		wg.Wait()
	}
	tt.log.Debug(out.Sprintf("aged %d entries of %d in %d ms", tt.numberOfEntries, len(tt.data), time.Since(started).Milliseconds()))
}

// slot maps key to its slot index via the low bits of the key - capacity
// is always a power of two so a mask stands in for a modulo.
func (tt *TtTable) slot(key Key) uint64 {
	return uint64(key) & tt.slotMask
}


