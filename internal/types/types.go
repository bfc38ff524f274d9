//
// Talon - UCI compatible chess engine
//

// Package types contains the shared chess domain types (squares, pieces,
// moves, bitboards, values) and the precomputed lookup tables the rest of
// the engine is built on. Many of these would be enum candidates in a
// language that had enums.
package types

import (
	myLogging "github.com/talonchess/talon/internal/logging"
)

var log = myLogging.GetLog()

var initialized = false

// init populates the precomputed bitboard and piece-square tables exactly
// once, guarded so repeated package initialization (tests importing this
// package from many directories) does not redo the work.
func init() {
	if initialized {
		return
	}
	log.Debug("Initializing data types")
	initBb()
	initPosValues()
	initialized = true
}

const (
	// SqLength is the number of squares on the board.
	SqLength int = 64

	// MaxDepth is the maximum search depth in plies.
	MaxDepth = 128

	// MaxMoves is the maximum number of half-moves tracked for a game.
	MaxMoves = 512

	// KB is 1024 bytes.
	KB uint64 = 1024
	// MB is KB*KB bytes.
	MB uint64 = KB * KB
	// GB is KB*MB bytes.
	GB uint64 = KB * MB

	// GamePhaseMax is the maximum game phase value used to taper
	// mid-game/end-game evaluation; derived from the officer count on the
	// board at the start of the game.
	GamePhaseMax = 24
)
