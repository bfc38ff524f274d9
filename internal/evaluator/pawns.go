/*
 * talon - a UCI chess engine search core
 *
 * MIT License
 *
 * Copyright (c) 2021-2026 the talon authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package evaluator

import (
	. "github.com/talonchess/talon/internal/config"
	. "github.com/talonchess/talon/internal/types"
)

func (e *Evaluator) evaluatePawns() *Score {
	tmpScore.MidGameValue = 0
	tmpScore.EndGameValue = 0

	// look on cache table
	if Settings.Eval.UsePawnCache {
		entry := e.pawnCache.getEntry(e.position.PawnKey())
		if entry != nil {
			tmpScore.MidGameValue += entry.score.MidGameValue
			tmpScore.EndGameValue += entry.score.EndGameValue
			return &tmpScore
		}
	}

	// no cache hit - calculate from scratch
	white := e.evaluatePawnsForColor(White)
	black := e.evaluatePawnsForColor(Black)
	tmpScore.MidGameValue = white.MidGameValue - black.MidGameValue
	tmpScore.EndGameValue = white.EndGameValue - black.EndGameValue

	// store in cache
	if Settings.Eval.UsePawnCache {
		e.pawnCache.put(e.position.PawnKey(), &tmpScore)
	}

	return &tmpScore
}

// evaluatePawnsForColor scores every pawn term for c: doubled, isolated,
// blocked, phalanx, supported, passed, open-backward, and king tropism.
// Blocked pawns are checked at stride 8/16/24 ahead - one, two or three
// squares - since a pawn can be held back by an obstruction further up
// its own file, not only immediately in front of it.
func (e *Evaluator) evaluatePawnsForColor(c Color) Score {
	var pawnScore Score

	them := c.Flip()
	ownPawns := e.position.PiecesBb(c, Pawn)
	enemyPawns := e.position.PiecesBb(them, Pawn)
	enemyNonPawns := e.position.OccupiedBb(them) &^ enemyPawns
	ownKing := e.position.KingSquare(c)
	enemyKing := e.position.KingSquare(them)
	up := c.MoveDirection()

	remaining := ownPawns
	for remaining != BbZero {
		sq := remaining.PopLsb()
		file := sq.FileOf()
		fileBb := file.Bb()

		// doubled: any other own pawn on the same file
		if (ownPawns&fileBb).PopCount() > 1 {
			pawnScore.MidGameValue += Settings.Eval.PawnDoubledMidMalus
			pawnScore.EndGameValue += Settings.Eval.PawnDoubledEndMalus
		}

		// stopped: a non-pawn enemy piece sits directly ahead, distinct from
		// being blocked further up the file by an enemy pawn
		if stopSq := sq.To(up); stopSq.IsValid() && enemyNonPawns.Has(stopSq) {
			pawnScore.MidGameValue += Settings.Eval.PawnStoppedMidMalus
			pawnScore.EndGameValue += Settings.Eval.PawnStoppedEndMalus
		}

		// isolated: no own pawns on either neighbour file
		neighbourFiles := sq.NeighbourFilesMask()
		isolated := ownPawns&neighbourFiles == BbZero
		if isolated {
			pawnScore.MidGameValue += Settings.Eval.PawnIsolatedMidMalus
			pawnScore.EndGameValue += Settings.Eval.PawnIsolatedEndMalus
		}

		// phalanx: own pawn directly to the left or right
		phalanxMask := ShiftBitboard(sq.Bb(), East) | ShiftBitboard(sq.Bb(), West)
		if ownPawns&phalanxMask != BbZero {
			pawnScore.MidGameValue += Settings.Eval.PawnPhalanxMidBonus
			pawnScore.EndGameValue += Settings.Eval.PawnPhalanxEndBonus
		}

		// supported: defended by another own pawn
		if GetPawnAttacks(them, sq)&ownPawns != BbZero {
			pawnScore.MidGameValue += Settings.Eval.PawnSupportedMidBonus
			pawnScore.EndGameValue += Settings.Eval.PawnSupportedEndBonus
		}

		// passed: no enemy pawn can ever stop or capture it on its way
		passed := enemyPawns&sq.PassedPawnMask(c) == BbZero
		if passed {
			pawnScore.MidGameValue += Settings.Eval.PawnPassedMidBonus
			pawnScore.EndGameValue += Settings.Eval.PawnPassedEndBonus
		}

		// open-backward: isolated, not passed, on a file the
		// enemy no longer contests - it will never be supported going
		// forward and is a standing weakness rather than a passed asset
		if isolated && !passed && enemyPawns&fileBb == BbZero {
			pawnScore.MidGameValue += Settings.Eval.PawnIsolatedMidMalus / 2
			pawnScore.EndGameValue += Settings.Eval.PawnIsolatedEndMalus / 2
		}

		// blocked: an enemy pawn sits one, two or three squares ahead on
		// the same file (stride 8/16/24) and this pawn cannot yet advance
		// past it without help
		for stride := 1; stride <= 3; stride++ {
			aheadSq := sq
			blocked := false
			for step := 0; step < stride; step++ {
				aheadSq = aheadSq.To(up)
				if !aheadSq.IsValid() {
					blocked = false
					break
				}
				blocked = enemyPawns.Has(aheadSq)
			}
			if blocked {
				pawnScore.MidGameValue += Settings.Eval.PawnBlockedMidMalus
				pawnScore.EndGameValue += Settings.Eval.PawnBlockedEndMalus
				break
			}
		}

		// king <-> pawn Manhattan-distance tropism: pawns drifting away
		// from their own king are weighted down, pawns the enemy king
		// must still watch are weighted up, each relative to the pawn's
		// standing (normal / backward-isolated / passed)
		ownDist := FileDistance(file, ownKing.FileOf()) + RankDistance(sq.RankOf(), ownKing.RankOf())
		enemyDist := FileDistance(file, enemyKing.FileOf()) + RankDistance(sq.RankOf(), enemyKing.RankOf())
		tropism := int16(enemyDist - ownDist)
		switch {
		case passed:
			pawnScore.EndGameValue += tropism * 2
		case isolated:
			pawnScore.EndGameValue += tropism / 2
		default:
			pawnScore.EndGameValue += tropism
		}
	}

	return pawnScore
}
