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

// Package util collects small standalone helpers shared across the engine
// that don't belong to any one package: branch-free arithmetic, timing,
// and memory diagnostics.
package util

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var out = message.NewPrinter(language.German)

// Abs returns the absolute value of n without a conditional branch.
func Abs(n int) int {
	sign := n >> 63
	return (n ^ sign) - sign
}

// Abs16 is Abs for int16.
func Abs16(n int16) int16 {
	sign := n >> 15
	return (n ^ sign) - sign
}

// Abs64 is Abs for int64.
func Abs64(n int64) int64 {
	sign := n >> 63
	return (n ^ sign) - sign
}

// Min returns the smaller of x and y.
func Min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

// Min64 is Min for int64.
func Min64(x, y int64) int64 {
	if x < y {
		return x
	}
	return y
}

// Max returns the larger of x and y.
func Max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// Max64 is Max for int64.
func Max64(x, y int64) int64 {
	if x > y {
		return x
	}
	return y
}

// TimeTrack logs how long has elapsed since start under the given label.
// Usage: defer util.TimeTrack(time.Now(), "some text")
func TimeTrack(start time.Time, label string) {
	elapsed := time.Since(start)
	_, _ = out.Printf("%s took %d ns\n", label, elapsed.Nanoseconds())
}

// Nps computes nodes searched per second, nudging a zero duration up by
// one nanosecond so the division never blows up.
func Nps(nodes uint64, duration time.Duration) uint64 {
	return uint64(int64(nodes) * time.Second.Nanoseconds() / (duration.Nanoseconds() + 1))
}

// MemStat summarizes current heap allocation and GC counters.
func MemStat() string {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return out.Sprintf("Alloc: %d TotalAlloc: %d HeapAlloc: %d HeapObjects: %d NumGC: %d",
		mem.Alloc, mem.TotalAlloc, mem.HeapAlloc, mem.HeapObjects, mem.NumGC)
}

// GcWithStats forces a garbage collection cycle and reports memory stats
// taken immediately before and after, plus how long the cycle took.
func GcWithStats() string {
	var report strings.Builder
	report.WriteString(fmt.Sprintf("Mem stats: %s ", MemStat()))
	started := time.Now()
	runtime.GC()
	report.WriteString(fmt.Sprintf("GC took: %d ms ", time.Since(started).Milliseconds()))
	report.WriteString(fmt.Sprintf("Mem stats: %s", MemStat()))
	return report.String()
}

// IsAlpha reports whether l is an ASCII letter.
func IsAlpha(l uint8) bool {
	return (l >= 'a' && l <= 'z') || (l >= 'A' && l <= 'Z')
}

// IsLower reports whether l is an ASCII lowercase letter.
func IsLower(l uint8) bool {
	return l >= 'a' && l <= 'z'
}

// IsDigit reports whether l is an ASCII digit.
func IsDigit(l uint8) bool {
	return l >= '0' && l <= '9'
}
