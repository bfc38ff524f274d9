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

// Package uci speaks the UCI protocol: it reads commands from a GUI over
// stdin, drives position/movegen/search accordingly, and writes "info" /
// "bestmove" responses back.
package uci

import (
	"bufio"
	"bytes"
	"fmt"
	golog "log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/talonchess/talon/internal/config"
	myLogging "github.com/talonchess/talon/internal/logging"
	"github.com/talonchess/talon/internal/movegen"
	"github.com/talonchess/talon/internal/moveslice"
	"github.com/talonchess/talon/internal/position"
	"github.com/talonchess/talon/internal/search"
	. "github.com/talonchess/talon/internal/types"
	"github.com/talonchess/talon/internal/uciInterface"
	"github.com/talonchess/talon/internal/util"
	"github.com/talonchess/talon/internal/version"
)

var out = message.NewPrinter(language.German)
var log *logging.Logger

// UciHandler owns one UCI session: the engine-side state (current
// position, move generator, search) plus the I/O streams a GUI talks to
// it through. Build one with NewUciHandler.
type UciHandler struct {
	InIo       *bufio.Scanner
	OutIo      *bufio.Writer
	myMoveGen  *movegen.Movegen
	mySearch   *search.Search
	myPosition *position.Position
	myPerft    *movegen.Perft
	uciLog     *logging.Logger
}

// ///////////////////////////////////////////////////////////
// Public
// ///////////////////////////////////////////////////////////

// NewUciHandler wires up a fresh engine session reading from stdin and
// writing to stdout. Swap InIo/OutIo afterward to redirect, e.g. in tests:
//
//	u.InIo = bufio.NewScanner(os.Stdin)
//	u.OutIo = bufio.NewWriter(os.Stdout)
func NewUciHandler() *UciHandler {
	if log == nil {
		log = myLogging.GetLog()
	}
	u := &UciHandler{
		InIo:       bufio.NewScanner(os.Stdin),
		OutIo:      bufio.NewWriter(os.Stdout),
		myMoveGen:  movegen.NewMoveGen(),
		mySearch:   search.NewSearch(),
		myPosition: position.NewPosition(),
		myPerft:    movegen.NewPerft(),
		uciLog:     getUciLog(),
	}
	var uciDriver uciInterface.UciDriver
	uciDriver = u
	u.mySearch.SetUciHandler(uciDriver)
	return u
}

// Loop starts the main loop to receive commands through
// input stream (pipe or user)
func (u *UciHandler) Loop() {
	u.loop()
}

// Command handles a single line of UCI protocol aka command.
// Returns the uci response as string output.
// Mostly useful for debugging and unit testing.
func (u *UciHandler) Command(cmd string) string {
	tmp := u.OutIo
	buffer := new(bytes.Buffer)
	u.OutIo = bufio.NewWriter(buffer)
	u.handleReceivedCommand(cmd)
	_ = u.OutIo.Flush()
	u.OutIo = tmp
	return buffer.String()
}

// SendReadyOk tells the UciDriver to send the uci response "readyok" to the UCI user interface
func (u *UciHandler) SendReadyOk() {
	u.send("readyok")
}

// SendInfoString send a arbitrary string to the UCI user interface
func (u *UciHandler) SendInfoString(info string) {
	u.send(out.Sprintf("info string %s", info))
}

// SendIterationEndInfo sends information about the last search depth iteration to the UCI ui
func (u *UciHandler) SendIterationEndInfo(depth int, seldepth int, value Value, nodes uint64, nps uint64, time time.Duration, pv moveslice.MoveSlice) {
	u.send(fmt.Sprintf("info depth %d seldepth %d multipv 1 score %s nodes %d nps %d time %d pv %s",
		depth, seldepth, value.String(), nodes, nps, time.Milliseconds(), pv.StringUci()))
}

// SendSearchUpdate sends a periodically update about search stats to the UCI ui
func (u *UciHandler) SendSearchUpdate(depth int, seldepth int, nodes uint64, nps uint64, time time.Duration, hashfull int) {
	u.send(fmt.Sprintf("info depth %d seldepth %d nodes %d nps %d time %d hashfull %d",
		depth, seldepth, nodes, nps, time.Milliseconds(), hashfull))
}

// SendAspirationResearchInfo sends information about Aspiration researches to the UCI ui
func (u *UciHandler) SendAspirationResearchInfo(depth int, seldepth int, value Value, bound string, nodes uint64, nps uint64, time time.Duration, pv moveslice.MoveSlice) {
	u.send(fmt.Sprintf("info depth %d seldepth %d %s multipv 1 score %s nodes %d nps %d time %d pv %s",
		depth, seldepth, bound, value.String(), nodes, nps, time.Milliseconds(), pv.StringUci()))
}

// SendCurrentRootMove sends the currently searched root move to the UCI ui
func (u *UciHandler) SendCurrentRootMove(currMove Move, moveNumber int) {
	u.send(fmt.Sprintf("info currmove %s currmovenumber %d", currMove.StringUci(), moveNumber))
}

// SendCurrentLine sends a periodically update about the currently searched variation ti the UCI ui
func (u *UciHandler) SendCurrentLine(moveList moveslice.MoveSlice) {
	u.send(fmt.Sprintf("info currline %s", moveList.StringUci()))
}

// SendResult send the search result to the UCI ui after the search has ended are has been stopped
func (u *UciHandler) SendResult(bestMove Move, ponderMove Move) {
	var resultStr strings.Builder
	resultStr.WriteString("bestmove ")
	resultStr.WriteString(bestMove.StringUci())
	if ponderMove != MoveNone {
		resultStr.WriteString(" ponder ")
		resultStr.WriteString(ponderMove.StringUci())
	}
	u.send(resultStr.String())
}

// ///////////////////////////////////////////////////////////
// Private
// ///////////////////////////////////////////////////////////

func (u *UciHandler) loop() {
	for {
		log.Debugf("waiting for command")
		for u.InIo.Scan() {
			if u.handleReceivedCommand(u.InIo.Text()) {
				return // "quit" received
			}
			log.Debugf("waiting for command")
		}
	}
}

var regexWhiteSpace = regexp.MustCompile(`\s+`)

// commandHandlers maps each recognized UCI command word to the method
// that executes it, given the command's whitespace-split tokens.
var commandHandlers = map[string]func(*UciHandler, []string){
	"uci":        func(u *UciHandler, _ []string) { u.uciCommand() },
	"setoption":  (*UciHandler).setOptionCommand,
	"isready":    func(u *UciHandler, _ []string) { u.isReadyCommand() },
	"ucinewgame": func(u *UciHandler, _ []string) { u.uciNewGameCommand() },
	"position":   (*UciHandler).positionCommand,
	"go":         (*UciHandler).goCommand,
	"stop":       func(u *UciHandler, _ []string) { u.stopCommand() },
	"ponderhit":  func(u *UciHandler, _ []string) { u.ponderHitCommand() },
	"register":   func(u *UciHandler, _ []string) { u.registerCommand() },
	"debug":      func(u *UciHandler, _ []string) { u.debugCommand() },
	"perft":      (*UciHandler).perftCommand,
	"noop":       func(*UciHandler, []string) {},
}

// handleReceivedCommand dispatches one line of UCI input. It reports
// true when the line was "quit", telling the caller to stop the loop.
func (u *UciHandler) handleReceivedCommand(cmd string) bool {
	if len(cmd) == 0 {
		return false
	}
	log.Debugf("received command: %s", cmd)
	u.uciLog.Infof("<< %s", cmd)

	tokens := regexWhiteSpace.Split(cmd, -1)
	command := strings.TrimSpace(tokens[0])
	if command == "quit" {
		return true
	}
	if handler, ok := commandHandlers[command]; ok {
		handler(u, tokens)
	} else {
		log.Warningf("unknown UCI command: %s", cmd)
	}
	log.Debugf("processed command: %s", cmd)
	return false
}

// uciCommand answers the "uci" handshake with engine identification and
// the supported option list, finished off by "uciok".
func (u *UciHandler) uciCommand() {
	u.send("id name talon " + version.Version())
	u.send("id author the talon authors")
	options := uciOptions.GetOptions()
	for _, o := range *options {
		u.send(o)
	}
	u.send("uciok")
}

// setOptionCommand parses "setoption name <name> value <value>", looks
// up the named option, stores the new value and runs its handler.
func (u *UciHandler) setOptionCommand(tokens []string) {
	if len(tokens) <= 1 || tokens[1] != "name" {
		msg := "command 'setoption' is malformed"
		u.SendInfoString(msg)
		log.Warning(msg)
		return
	}

	var nameParts []string
	i := 2
	for i < len(tokens) && tokens[i] != "value" {
		nameParts = append(nameParts, tokens[i])
		i++
	}
	name := strings.TrimSpace(strings.Join(nameParts, " "))

	value := ""
	if i+1 < len(tokens) && tokens[i] == "value" {
		value = tokens[i+1]
	}

	opt, found := uciOptions[name]
	if !found {
		msg := out.Sprintf("command 'setoption': no such option '%s'", name)
		u.SendInfoString(msg)
		log.Warning(msg)
		return
	}
	opt.CurrentValue = value
	opt.HandlerFunc(u, opt)
}

// isReadyCommand asks the search to finish any lazy initialization, then
// answers "readyok".
func (u *UciHandler) isReadyCommand() {
	u.mySearch.IsReady()
}

// ponderHitCommand tells the search that the opponent played the move it
// was pondering on.
func (u *UciHandler) ponderHitCommand() {
	u.mySearch.PonderHit()
}

// stopCommand halts whichever of search or perft is currently running.
func (u *UciHandler) stopCommand() {
	u.mySearch.StopSearch()
	u.myPerft.Stop()
}

const defaultPerftDepth = 4

// perftCommand runs a node-count test over one or two depths, given as
// "perft <depth> [depth2]".
func (u *UciHandler) perftCommand(tokens []string) {
	depth := defaultPerftDepth
	if len(tokens) > 1 {
		if parsed, err := strconv.Atoi(tokens[1]); err != nil {
			log.Warningf("can't perft on depth='%s'", tokens[1])
		} else {
			depth = parsed
		}
	}
	depth2 := depth
	if len(tokens) > 2 {
		if parsed, err := strconv.Atoi(tokens[2]); err != nil {
			log.Warningf("can't use second perft depth2='%s'", tokens[2])
		} else {
			depth2 = parsed
		}
	}
	go u.myPerft.StartPerftMulti(position.StartFen, depth, depth2, true)
}

// goCommand parses the search limits out of a "go ..." command and kicks
// off the search against the current position.
func (u *UciHandler) goCommand(tokens []string) {
	searchLimits, malformed := u.readSearchLimits(tokens)
	if malformed {
		return
	}
	u.mySearch.StartSearch(*u.myPosition, *searchLimits)
}

// positionCommand sets up the board from "position [startpos|fen <fen>]
// [moves <move>...]" and replays any trailing moves onto it.
func (u *UciHandler) positionCommand(tokens []string) {
	fen := position.StartFen
	i := 1
	switch tokens[i] {
	case "startpos":
		i++
	case "fen":
		i++
		var fenTokens []string
		for i < len(tokens) && tokens[i] != "moves" {
			fenTokens = append(fenTokens, tokens[i])
			i++
		}
		fen = strings.TrimSpace(strings.Join(fenTokens, " "))
		if len(fen) == 0 {
			u.reportMalformed("position", tokens)
			return
		}
	default:
		u.reportMalformed("position", tokens)
		return
	}
	u.myPosition, _ = position.NewPositionFen(fen)

	if i >= len(tokens) {
		log.Debugf("new position: %s", u.myPosition.StringFen())
		return
	}
	if tokens[i] != "moves" {
		msg := out.Sprintf("command 'position' malformed moves. %s", tokens)
		u.SendInfoString(msg)
		log.Warning(msg)
		return
	}
	for i++; i < len(tokens); i++ {
		move := u.myMoveGen.GetMoveFromUci(u.myPosition, tokens[i])
		if !move.IsValid() {
			msg := out.Sprintf("command 'position' malformed. invalid move '%s' (%s)", tokens[i], tokens)
			u.SendInfoString(msg)
			log.Warning(msg)
			return
		}
		u.myPosition.DoMove(move)
	}
	log.Debugf("new position: %s", u.myPosition.StringFen())
}

// reportMalformed sends and logs a generic "malformed command" message.
func (u *UciHandler) reportMalformed(command string, tokens []string) {
	msg := out.Sprintf("command '%s' malformed. %s", command, tokens)
	u.SendInfoString(msg)
	log.Warning(msg)
}

// uciNewGameCommand resets board and search state (hash tables included)
// ahead of a new game.
func (u *UciHandler) uciNewGameCommand() {
	u.myPosition = position.NewPosition()
	u.mySearch.NewGame()
}

// debugCommand is a recognized but unimplemented UCI command.
func (u *UciHandler) debugCommand() {
	msg := "command 'debug' not implemented"
	u.SendInfoString(msg)
	log.Warning(msg)
}

// registerCommand is a recognized but unimplemented UCI command.
func (u *UciHandler) registerCommand() {
	msg := "command 'register' not implemented"
	u.SendInfoString(msg)
	log.Warning(msg)
}

// goIntField parses tokens[i] as an int for the named "go" subcommand,
// reporting and logging a malformed-command message on failure.
func (u *UciHandler) goIntField(tokens []string, i int, field string) (int, bool) {
	v, err := strconv.Atoi(tokens[i])
	if err != nil {
		msg := out.Sprintf("UCI command go malformed. %s value not a number: %s", field, tokens[i])
		u.SendInfoString(msg)
		log.Warning(msg)
		return 0, false
	}
	return v, true
}

// goMillisField parses tokens[i] as milliseconds for the named "go"
// subcommand, reporting and logging a malformed-command message on failure.
func (u *UciHandler) goMillisField(tokens []string, i int, field string) (time.Duration, bool) {
	v, err := strconv.ParseInt(tokens[i], 10, 64)
	if err != nil {
		msg := out.Sprintf("UCI command go malformed. %s value not a number: %s", field, tokens[i])
		u.SendInfoString(msg)
		log.Warning(msg)
		return 0, false
	}
	return time.Duration(v * 1_000_000), true
}

// readSearchLimits parses the subcommands of a "go" command into a
// search.Limits. The bool return is true when the command was malformed
// (an info string has already been sent in that case).
func (u *UciHandler) readSearchLimits(tokens []string) (*search.Limits, bool) {
	limits := search.NewSearchLimits()
	i := 1
	for i < len(tokens) {
		field := tokens[i]
		switch field {
		case "moves":
			i++
			for i < len(tokens) {
				move := u.myMoveGen.GetMoveFromUci(u.myPosition, tokens[i])
				if !move.IsValid() {
					break
				}
				limits.Moves.PushBack(move)
				i++
			}
		case "infinite":
			limits.Infinite = true
			i++
		case "ponder":
			limits.Ponder = true
			i++
		case "depth":
			i++
			if limits.Depth, i = u.consumeIntField(tokens, i, "Depth"); i < 0 {
				return nil, true
			}
		case "nodes":
			i++
			nodes, ok := u.goIntField(tokens, i, "Nodes")
			if !ok {
				return nil, true
			}
			limits.Nodes = uint64(nodes)
			i++
		case "mate":
			i++
			if limits.Mate, i = u.consumeIntField(tokens, i, "Mate"); i < 0 {
				return nil, true
			}
		case "movetime", "moveTime": // UCI spells it moveTime; the STS suite uses movetime
			i++
			d, ok := u.goMillisField(tokens, i, "MoveTime")
			if !ok {
				return nil, true
			}
			limits.MoveTime = d
			limits.TimeControl = true
			i++
		case "wtime":
			i++
			d, ok := u.goMillisField(tokens, i, "WhiteTime")
			if !ok {
				return nil, true
			}
			limits.WhiteTime = d
			limits.TimeControl = true
			i++
		case "btime":
			i++
			d, ok := u.goMillisField(tokens, i, "BlackTime")
			if !ok {
				return nil, true
			}
			limits.BlackTime = d
			limits.TimeControl = true
			i++
		case "winc":
			i++
			d, ok := u.goMillisField(tokens, i, "WhiteInc")
			if !ok {
				return nil, true
			}
			limits.WhiteInc = d
			i++
		case "binc":
			i++
			d, ok := u.goMillisField(tokens, i, "BlackInc")
			if !ok {
				return nil, true
			}
			limits.BlackInc = d
			i++
		case "movestogo":
			i++
			if limits.MovesToGo, i = u.consumeIntField(tokens, i, "Movestogo"); i < 0 {
				return nil, true
			}
		default:
			msg := out.Sprintf("UCI command go malformed. Invalid subcommand: %s", field)
			u.SendInfoString(msg)
			log.Warning(msg)
			return nil, true
		}
	}

	if !(limits.Infinite || limits.Ponder || limits.Depth > 0 || limits.Nodes > 0 ||
		limits.Mate > 0 || limits.TimeControl) {
		msg := out.Sprintf("UCI command go malformed. No effective limits set %s", tokens)
		u.SendInfoString(msg)
		log.Warning(msg)
		return nil, true
	}

	if limits.TimeControl && limits.MoveTime == 0 {
		switch {
		case u.myPosition.NextPlayer() == White && limits.WhiteTime == 0:
			msg := out.Sprintf("UCI command go invalid. White to move but time for white is zero! %s", tokens)
			u.SendInfoString(msg)
			log.Warning(msg)
			return nil, true
		case u.myPosition.NextPlayer() == Black && limits.BlackTime == 0:
			msg := out.Sprintf("UCI command go invalid. Black to move but time for black is zero! %s", tokens)
			u.SendInfoString(msg)
			log.Warning(msg)
			return nil, true
		}
	}

	return limits, false
}

// consumeIntField parses tokens[i] as an int field and returns it along
// with i+1, the index of the next unconsumed token. On parse failure it
// returns a negative index so the caller can treat that as "malformed".
func (u *UciHandler) consumeIntField(tokens []string, i int, field string) (int, int) {
	v, ok := u.goIntField(tokens, i, field)
	if !ok {
		return 0, -1
	}
	return v, i + 1
}

// getUciLog returns an instance of a special Logger preconfigured for
// myLogging all UCI protocol communication to os.Stdout or file
// Format is very simple "time UCI <uci command>"
func getUciLog() *logging.Logger {
	// create logger
	uciLog := logging.MustGetLogger("UCI ")

	// Stdout backend
	uciFormat := logging.MustStringFormatter(`%{time:15:04:05.000} UCI %{message}`)
	backend1 := logging.NewLogBackend(os.Stdout, "", golog.Lmsgprefix)
	backend1Formatter := logging.NewBackendFormatter(backend1, uciFormat)
	uciBackEnd1 := logging.AddModuleLevel(backend1Formatter)
	uciBackEnd1.SetLevel(logging.DEBUG, "")
	uciLog.SetBackend(uciBackEnd1)

	// File backend
	programName, _ := os.Executable()
	exeName := strings.TrimSuffix(filepath.Base(programName), ".exe")

	// find log path
	logPath, err := util.ResolveFolder(config.Settings.Log.LogPath)
	if err != nil {
		golog.Println("Log folder could not be found:", err)
		return uciLog
	}
	logFilePath := filepath.Join(logPath, exeName+"_uci.log")

	// create file backend
	uciLogFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		golog.Println("Logfile could not be created:", err)
		return uciLog
	}
	backend2 := logging.NewLogBackend(uciLogFile, "", golog.Lmsgprefix)
	backend2Formatter := logging.NewBackendFormatter(backend2, uciFormat)
	uciBackEnd2 := logging.AddModuleLevel(backend2Formatter)
	uciBackEnd2.SetLevel(logging.DEBUG, "")
	// multi := logging2.SetBackend(uciBackEnd1, uciBackEnd2)
	uciLog.SetBackend(uciBackEnd2)
	uciLog.Infof("Log %s started at %s:", uciLogFile.Name(), time.Now().String())
	return uciLog
}

// sends any string to the UCI user interface
func (u *UciHandler) send(s string) {
	u.uciLog.Infof(">> %s", s)
	_, _ = u.OutIo.WriteString(s + "\n")
	_ = u.OutIo.Flush()
}
