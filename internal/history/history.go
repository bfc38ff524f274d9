//
// Talon - UCI compatible chess engine
//

// Package history provides data structures and functionality to manage
// history driven move tables (e.g. history counter, counter moves, etc.)
package history

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	. "github.com/talonchess/talon/internal/types"
)

var out = message.NewPrinter(language.German)

// History is a data structure updated during search to provide the move
// generator with valuable information for move sorting. succ/attempt are
// indexed by [piece][to-square]: a quiet move causing a beta cutoff adds
// to succ, any quiet move tried adds to attempt, and Score ranks moves by
// their success rate rather than their raw cutoff count.
type History struct {
	succ    [PieceLength][SqLength]int64
	attempt [PieceLength][SqLength]int64

	// CounterMoves remembers, for each opponent move, the quiet reply
	// that has most recently caused a beta cutoff against it.
	CounterMoves [SqLength][SqLength]Move
}

// NewHistory creates a new History instance.
func NewHistory() *History {
	return &History{}
}

// AddSuccess records a quiet move that caused a beta cutoff. The
// increment favors deeper searches and repeated success, same as the
// teacher's original flat cutoff counter.
func (h *History) AddSuccess(piece Piece, to Square, depth int) {
	h.succ[piece][to] += int64(1) << uint(depth)
	h.attempt[piece][to]++
}

// AddAttempt records a quiet move that was searched but did not cause a
// cutoff.
func (h *History) AddAttempt(piece Piece, to Square) {
	h.attempt[piece][to]++
}

// Score returns the move's success rate, succ / max(1, attempt), used by
// the move generator to order quiet moves.
func (h *History) Score(piece Piece, to Square) Value {
	attempt := h.attempt[piece][to]
	if attempt < 1 {
		attempt = 1
	}
	return Value(h.succ[piece][to] / attempt)
}

// Decay halves every counter so that long-ago searches lose influence
// without being forgotten outright. Called when a new game starts.
func (h *History) Decay() {
	for p := 0; p < int(PieceLength); p++ {
		for sq := 0; sq < SqLength; sq++ {
			h.succ[p][sq] /= 2
			h.attempt[p][sq] /= 2
		}
	}
}

func (h History) String() string {
	sb := strings.Builder{}
	for p := PieceNone; p < PieceLength; p++ {
		for sq := SqA1; sq < SqNone; sq++ {
			if h.attempt[p][sq] == 0 {
				continue
			}
			sb.WriteString(out.Sprintf("Piece=%s To=%s: succ=%-7d attempt=%-7d score=%-7d\n",
				p.String(), sq.String(), h.succ[p][sq], h.attempt[p][sq], h.Score(p, sq)))
		}
	}
	return sb.String()
}
