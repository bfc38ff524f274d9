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

package movegen

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/talonchess/talon/internal/position"
	. "github.com/talonchess/talon/internal/types"
)

var out = message.NewPrinter(language.German)

// Perft counts leaf nodes reached from a position to a fixed depth, a
// standard move-generator correctness/benchmark test, broken down by
// move-type counters alongside the raw node count.
type Perft struct {
	Nodes            uint64
	CheckCounter     uint64
	CheckMateCounter uint64
	CaptureCounter   uint64
	EnpassantCounter uint64
	CastleCounter    uint64
	PromotionCounter uint64
	stopFlag         bool
}

// NewPerft returns a zeroed Perft ready to run.
func NewPerft() *Perft {
	return &Perft{}
}

// Stop requests that a perft run in progress on another goroutine return early.
func (perft *Perft) Stop() {
	perft.stopFlag = true
}

// StartPerftMulti runs StartPerft once per depth from startDepth to
// endDepth, stopping early if Stop is called from another goroutine.
func (perft *Perft) StartPerftMulti(fen string, startDepth int, endDepth int, onDemandFlag bool) {
	perft.stopFlag = false
	for depth := startDepth; depth <= endDepth; depth++ {
		if perft.stopFlag {
			out.Print("perft multi-depth run stopped\n")
			return
		}
		perft.StartPerft(fen, depth, onDemandFlag)
	}
}

// StartPerft counts leaf nodes from fen to depth, using either bulk
// pseudo-legal generation or on-demand move generation depending on
// onDemandFlag, and prints a summary report. Can be stopped early via Stop.
func (perft *Perft) StartPerft(fen string, depth int, onDemandFlag bool) {
	perft.stopFlag = false

	// set 1 as minimum
	if depth <= 0 {
		depth = 1
	}

	// prepare
	perft.resetCounter()
	posPtr, _ := position.NewPositionFen(fen)
	mgList := make([]*Movegen, depth+1)
	for i := 0; i <= depth; i++ {
		mgList[i] = NewMoveGen()
	}

	out.Printf("Performing PERFT Test for Depth %d\n", depth)
	out.Printf("FEN: %s\n", fen)
	out.Printf("-----------------------------------------\n")

	result := uint64(0)

	// the actual perft call
	start := time.Now()
	if onDemandFlag {
		result = perft.miniMaxOD(depth, posPtr, &mgList)
	} else {
		result = perft.miniMax(depth, posPtr, &mgList)
	}
	elapsed := time.Since(start)

	if result == 0 {
		out.Print("Perft stopped\n")
		return
	}

	perft.Nodes = result

	out.Printf("Time         : %s\n", elapsed)
	out.Printf("NPS          : %d nps\n", (perft.Nodes*uint64(time.Second.Nanoseconds()))/uint64(elapsed.Nanoseconds()+1))
	out.Printf("Results:\n")
	out.Printf("   Nodes     : %d\n", perft.Nodes)
	out.Printf("   Captures  : %d\n", perft.CaptureCounter)
	out.Printf("   EnPassant : %d\n", perft.EnpassantCounter)
	out.Printf("   Checks    : %d\n", perft.CheckCounter)
	out.Printf("   CheckMates: %d\n", perft.CheckMateCounter)
	out.Printf("   Castles   : %d\n", perft.CastleCounter)
	out.Printf("   Promotions: %d\n", perft.PromotionCounter)
	out.Printf("-----------------------------------------\n")
	out.Printf("Finished PERFT Test for Depth %d\n\n", depth)
}

// countLeaf plays move, classifies it (capture/en-passant/castling/
// promotion/check/checkmate) and folds the result into perft's counters.
// Returns 1 if the move was legal, 0 otherwise - callers accumulate this
// into totalNodes instead of recursing further, since depth has bottomed out.
func (perft *Perft) countLeaf(p *position.Position, move Move, rootMg *Movegen) uint64 {
	capture := p.GetPiece(move.To()) != PieceNone
	enpassant := move.MoveType() == EnPassant
	castling := move.MoveType() == Castling
	promotion := move.MoveType() == Promotion

	p.DoMove(move)
	defer p.UndoMove()

	if !p.WasLegalMove() {
		return 0
	}

	if enpassant {
		perft.EnpassantCounter++
		perft.CaptureCounter++
	}
	if capture {
		perft.CaptureCounter++
	}
	if castling {
		perft.CastleCounter++
	}
	if promotion {
		perft.PromotionCounter++
	}
	if p.HasCheck() {
		perft.CheckCounter++
		if !rootMg.HasLegalMove(p) {
			perft.CheckMateCounter++
		}
	}
	return 1
}

// miniMax recurses over a fully materialized pseudo-legal move list at
// every ply - the "bulk generation" perft strategy.
func (perft *Perft) miniMax(depth int, p *position.Position, mgListPtr *[]*Movegen) uint64 {
	totalNodes := uint64(0)
	movegens := *mgListPtr
	movesPtr := movegens[depth].GeneratePseudoLegalMoves(p, GenAll)
	for _, move := range *movesPtr {
		if perft.stopFlag {
			return 0
		}
		if depth > 1 {
			p.DoMove(move)
			if p.WasLegalMove() {
				totalNodes += perft.miniMax(depth-1, p, mgListPtr)
			}
			p.UndoMove()
		} else {
			totalNodes += perft.countLeaf(p, move, movegens[0])
		}
	}
	return totalNodes
}

// miniMaxOD recurses pulling one move at a time from the on-demand
// generator instead of materializing the full list - the "on-demand"
// perft strategy, which exercises GetNextMove's staged generation.
func (perft *Perft) miniMaxOD(depth int, p *position.Position, mgListPtr *[]*Movegen) uint64 {
	totalNodes := uint64(0)
	movegens := *mgListPtr
	mg := movegens[depth]
	for move := mg.GetNextMove(p, GenAll); move != MoveNone; move = mg.GetNextMove(p, GenAll) {
		if perft.stopFlag {
			return 0
		}
		if depth > 1 {
			p.DoMove(move)
			if p.WasLegalMove() {
				totalNodes += perft.miniMaxOD(depth-1, p, mgListPtr)
			}
			p.UndoMove()
		} else {
			totalNodes += perft.countLeaf(p, move, movegens[0])
		}
	}
	return totalNodes
}

// resetCounter zeroes every counter before a fresh run.
func (perft *Perft) resetCounter() {
	perft.Nodes = 0
	perft.CheckCounter = 0
	perft.CheckMateCounter = 0
	perft.CaptureCounter = 0
	perft.EnpassantCounter = 0
	perft.CastleCounter = 0
	perft.PromotionCounter = 0
}
