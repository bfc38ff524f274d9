//
// Talon - UCI compatible chess engine
//

// Package openingbook reads game databases of different formats into an
// in-memory map keyed by Zobrist position hash and can then be queried for
// a book move on a given position.
//
// Supported formats:
//   Simple - one game per line, UCI from-square/to-square notation
//   San    - one game per line, SAN notation
//   Pgn    - PGN formatted games
package openingbook

import (
	"bufio"
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/op/go-logging"

	myLogging "github.com/talonchess/talon/internal/logging"
	"github.com/talonchess/talon/internal/movegen"
	"github.com/talonchess/talon/internal/position"
	. "github.com/talonchess/talon/internal/types"
)

var out = message.NewPrinter(language.German)
var log *logging.Logger

func getLog() *logging.Logger {
	if log == nil {
		log = myLogging.GetLog()
	}
	return log
}

// parallel controls whether lines/games are processed concurrently.
// Useful to disable for debugging.
const parallel = true

// BookFormat identifies the on-disk representation of a book file.
type BookFormat uint8

// Supported book formats.
const (
	Simple BookFormat = iota
	San
	Pgn
)

// FormatFromString maps the config-file/UCI-option spelling of a book
// format onto its BookFormat constant.
var FormatFromString = map[string]BookFormat{
	"Simple": Simple,
	"San":    San,
	"Pgn":    Pgn,
}

// Successor is a move and the Zobrist key of the position it leads to.
type Successor struct {
	Move      uint32
	NextEntry uint64
}

// BookEntry describes exactly one position, keyed by its Zobrist hash,
// with links to the moves and successor positions known from the book.
type BookEntry struct {
	ZobristKey uint64
	Counter    int
	Moves      []Successor
}

// Book is an in-memory opening book built from one or more game files.
type Book struct {
	bookMap     map[uint64]BookEntry
	rootEntry   uint64
	initialized bool
}

// NewBook returns an empty, uninitialized Book.
func NewBook() *Book {
	return &Book{}
}

var bookLock sync.Mutex

// Initialize loads bookFile (resolved relative to bookPath when bookFile is
// non-empty, or bookPath itself when bookFile is empty) in the given format.
// When useCache is set it first tries a sibling ".cache" gob file and only
// falls back to parsing bookFile when no cache is present or recreateCache
// is requested.
func (b *Book) Initialize(bookPath string, bookFile string, bookFormat BookFormat, useCache bool, recreateCache bool) error {
	if b.initialized {
		return nil
	}

	path := bookPath
	if bookFile != "" {
		path = filepath.Join(bookPath, bookFile)
	}

	getLog().Infof("Initializing Opening Book from %s", path)
	startTotal := time.Now()

	if _, err := os.Stat(path); err != nil {
		getLog().Errorf("File \"%s\" does not exist\n", path)
		return err
	}

	if useCache && !recreateCache {
		startReading := time.Now()
		hasCache, err := b.loadFromCache(path)
		elapsedReading := time.Since(startReading)
		if err != nil {
			getLog().Warningf("Cache could not be loaded. Reading original data from \"%s\"", path)
		}
		if hasCache {
			getLog().Infof("Finished reading cache from file in: %d ms\n", elapsedReading.Milliseconds())
			getLog().Infof("Book from cache file contains %d entries\n", len(b.bookMap))
			b.initialized = true
			return nil
		}
	}

	getLog().Infof("Reading opening book file: %s\n", path)
	startReading := time.Now()
	lines, err := b.readFile(path)
	if err != nil {
		getLog().Errorf("File \"%s\" could not be read: %s\n", path, err)
		return err
	}
	elapsedReading := time.Since(startReading)
	getLog().Infof("Finished reading %d lines from file in: %d ms\n", len(*lines), elapsedReading.Milliseconds())

	startPosition := position.NewPosition()
	b.bookMap = make(map[uint64]BookEntry)
	b.rootEntry = uint64(startPosition.ZobristKey())
	b.bookMap[b.rootEntry] = BookEntry{ZobristKey: b.rootEntry, Counter: 0, Moves: []Successor{}}

	if parallel {
		getLog().Infof("Processing %d lines in parallel with format: %v\n", len(*lines), bookFormat)
	} else {
		getLog().Infof("Processing %d lines sequential with format: %v\n", len(*lines), bookFormat)
	}
	startProcessing := time.Now()
	if err := b.process(lines, bookFormat); err != nil {
		getLog().Errorf("Error while processing: %s\n", err)
		return err
	}
	elapsedProcessing := time.Since(startProcessing)
	getLog().Infof("Finished processing %d lines in: %d ms\n", len(*lines), elapsedProcessing.Milliseconds())

	elapsedTotal := time.Since(startTotal)
	getLog().Infof("Book contains %d entries\n", len(b.bookMap))
	getLog().Infof("Total initialization time : %d ms\n", elapsedTotal.Milliseconds())

	if useCache {
		startSave := time.Now()
		cacheFile, nBytes, err := b.saveToCache(path)
		if err != nil {
			getLog().Errorf("Error while saving to cache: %s\n", err)
		} else {
			elapsedSave := time.Since(startSave)
			getLog().Infof("Saved %s kB to cache %s in %d ms\n", out.Sprintf("%d", nBytes/1024), cacheFile, elapsedSave.Milliseconds())
		}
	}

	b.initialized = true
	return nil
}

// NumberOfEntries returns the number of positions known to the book.
func (b *Book) NumberOfEntries() int {
	return len(b.bookMap)
}

// GetEntry returns a copy of the entry for the given Zobrist key.
func (b *Book) GetEntry(key position.Key) (BookEntry, bool) {
	entry, ok := b.bookMap[uint64(key)]
	return entry, ok
}

// Reset clears the book so it can be initialized again.
func (b *Book) Reset() {
	b.bookMap = map[uint64]BookEntry{}
	b.rootEntry = 0
	b.initialized = false
}

// ///////////////////////////////////////////////////////////////////////
// Private
// ///////////////////////////////////////////////////////////////////////

func (b *Book) readFile(bookPath string) (*[]string, error) {
	f, err := os.Open(bookPath)
	if err != nil {
		getLog().Errorf("File \"%s\" could not be read: %s\n", bookPath, err)
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			getLog().Errorf("File \"%s\" could not be closed: %s\n", bookPath, cerr)
		}
	}()
	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		getLog().Errorf("Error while reading file \"%s\": %s\n", bookPath, err)
		return nil, err
	}
	return &lines, nil
}

func (b *Book) process(lines *[]string, format BookFormat) error {
	switch format {
	case Simple:
		b.processSimple(lines)
	case San:
		b.processSan(lines)
	case Pgn:
		b.processPgn(lines)
	}
	return nil
}

func (b *Book) processSimple(lines *[]string) {
	if parallel {
		var wg sync.WaitGroup
		wg.Add(len(*lines))
		for _, line := range *lines {
			go func(line string) {
				defer wg.Done()
				b.processSimpleLine(line)
			}(line)
		}
		wg.Wait()
	} else {
		for _, line := range *lines {
			b.processSimpleLine(line)
		}
	}
}

var regexSimpleUciMove = regexp.MustCompile("([a-h][1-8][a-h][1-8])")

func (b *Book) processSimpleLine(line string) {
	line = strings.TrimSpace(line)
	matches := regexSimpleUciMove.FindAllString(line, -1)
	if len(matches) == 0 {
		return
	}

	pos := position.NewPosition()

	bookLock.Lock()
	e, found := b.bookMap[b.rootEntry]
	if found {
		e.Counter++
		b.bookMap[b.rootEntry] = e
	} else {
		panic("root entry of book map not found")
	}
	bookLock.Unlock()

	mg := movegen.NewMoveGen()

	for _, moveString := range matches {
		if err := b.processSingleMove(moveString, mg, pos); err != nil {
			break
		}
	}
}

func (b *Book) processSan(lines *[]string) {
	if parallel {
		var wg sync.WaitGroup
		wg.Add(len(*lines))
		for _, line := range *lines {
			go func(line string) {
				defer wg.Done()
				b.processSanLine(line)
			}(line)
		}
		wg.Wait()
	} else {
		for _, line := range *lines {
			b.processSanLine(line)
		}
	}
}

var regexResult = regexp.MustCompile(`((1-0)|(0-1)|(1/2-1/2)|(\*))$`)

func (b *Book) processPgn(lines *[]string) {
	var gamesSlices [][]string

	startSlicing := time.Now()
	start := 0
	for i, l := range *lines {
		l = strings.TrimSpace(l)
		if regexResult.MatchString(l) {
			end := i + 1
			gamesSlices = append(gamesSlices, (*lines)[start:end])
			start = end
		}
	}
	getLog().Infof("Finished finding %d games from file in: %d ms\n", len(gamesSlices), time.Since(startSlicing).Milliseconds())

	startProcessing := time.Now()
	if parallel {
		var wg sync.WaitGroup
		wg.Add(len(gamesSlices))
		for _, gs := range gamesSlices {
			go func(gs []string) {
				defer wg.Done()
				b.processPgnGame(gs)
			}(gs)
		}
		wg.Wait()
	} else {
		for _, gs := range gamesSlices {
			b.processPgnGame(gs)
		}
	}
	getLog().Infof("Finished processing %d games from file in: %d ms\n", len(gamesSlices), time.Since(startProcessing).Milliseconds())
}

var regexTrailingComments = regexp.MustCompile(`;.*$`)
var regexTagPairs = regexp.MustCompile(`\[\w+ +".*?"\]`)
var regexNagAnnotation = regexp.MustCompile(`(\$\d{1,3})`)
var regexBracketComments = regexp.MustCompile(`{[^{}]*}`)
var regexReservedSymbols = regexp.MustCompile(`<[^<>]*>`)
var regexRavVariants = regexp.MustCompile(`\([^()]*\)`)

func (b *Book) processPgnGame(gameSlice []string) {
	var moveLine strings.Builder

	for _, l := range gameSlice {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "%") {
			continue
		}
		l = regexTagPairs.ReplaceAllString(l, "")
		l = regexResult.ReplaceAllString(l, "")
		l = regexTrailingComments.ReplaceAllString(l, "")
		l = strings.TrimSpace(l)
		if len(l) == 0 {
			continue
		}
		moveLine.WriteString(" ")
		moveLine.WriteString(l)
	}
	line := moveLine.String()

	line = regexNagAnnotation.ReplaceAllString(line, " ")
	line = regexBracketComments.ReplaceAllString(line, " ")
	line = regexReservedSymbols.ReplaceAllString(line, " ")
	for regexRavVariants.MatchString(line) {
		line = regexRavVariants.ReplaceAllString(line, " ")
	}

	b.processSanLine(line)
}

var regexSanLineStart = regexp.MustCompile(`^\d+\. ?`)
var regexSanLineCleanUpNumbers = regexp.MustCompile(`(\d+\.{1,3} ?)`)
var regexSanLineCleanUpResults = regexp.MustCompile(`(1/2|1|0)-(1/2|1|0)`)
var regexWhiteSpace = regexp.MustCompile(`\s+`)

func (b *Book) processSanLine(line string) {
	line = strings.TrimSpace(line)

	if !regexSanLineStart.MatchString(line) {
		return
	}

	line = regexSanLineCleanUpNumbers.ReplaceAllString(line, "")
	line = regexSanLineCleanUpResults.ReplaceAllString(line, "")
	line = strings.TrimSpace(line)

	moveStrings := regexWhiteSpace.Split(line, -1)
	if len(moveStrings) == 0 {
		return
	}

	pos := position.NewPosition()

	bookLock.Lock()
	e, found := b.bookMap[b.rootEntry]
	if found {
		e.Counter++
		b.bookMap[b.rootEntry] = e
	} else {
		panic("root entry of book map not found")
	}
	bookLock.Unlock()

	mg := movegen.NewMoveGen()

	for _, moveString := range moveStrings {
		if err := b.processSingleMove(moveString, mg, pos); err != nil {
			getLog().Warningf("Move not valid %s on %s", moveString, pos.StringFen())
			break
		}
	}
}

var regexUciMove = regexp.MustCompile("([a-h][1-8][a-h][1-8])([NBRQnbrq])?")
var regexSanMove = regexp.MustCompile(`([NBRQK])?([a-h])?([1-8])?x?([a-h][1-8]|O-O-O|O-O)(=?([NBRQ]))?([!?+#]*)?`)

// processSingleMove applies a single UCI- or SAN-formatted move token to
// pos, recording it in the book as a transition from the current to the
// resulting Zobrist key.
func (b *Book) processSingleMove(s string, mg *movegen.Movegen, pos *position.Position) error {
	move := MoveNone
	switch {
	case regexUciMove.MatchString(s):
		move = mg.GetMoveFromUci(pos, s)
	case regexSanMove.MatchString(s):
		move = mg.GetMoveFromSan(pos, s)
	}
	if !move.IsValid() {
		return errors.New("invalid move " + s)
	}
	curPosKey := uint64(pos.ZobristKey())
	pos.DoMove(move)
	nextPosKey := uint64(pos.ZobristKey())
	b.addToBook(curPosKey, nextPosKey, uint32(move))
	return nil
}

func (b *Book) addToBook(curPosKey uint64, nextPosKey uint64, move uint32) {
	bookLock.Lock()
	defer bookLock.Unlock()

	currentPosEntry, found := b.bookMap[curPosKey]
	if !found {
		getLog().Error("Could not find current position in book.")
		return
	}

	if nextPosEntry, found := b.bookMap[nextPosKey]; found {
		nextPosEntry.Counter++
		b.bookMap[nextPosKey] = nextPosEntry
		return
	}
	b.bookMap[nextPosKey] = BookEntry{ZobristKey: nextPosKey, Counter: 1, Moves: nil}
	currentPosEntry.Moves = append(currentPosEntry.Moves, Successor{Move: move, NextEntry: nextPosKey})
	b.bookMap[curPosKey] = currentPosEntry
}

func (b *Book) loadFromCache(bookPath string) (bool, error) {
	cachePath := bookPath + ".cache"

	decodeFile, err := os.Open(cachePath)
	if err != nil {
		return false, err
	}
	defer decodeFile.Close()

	decoder := gob.NewDecoder(decodeFile)

	bookLock.Lock()
	err = decoder.Decode(&b.bookMap)
	bookLock.Unlock()
	if err != nil {
		return false, err
	}

	p := position.NewPosition()
	b.rootEntry = uint64(p.ZobristKey())

	return true, nil
}

func (b *Book) saveToCache(bookPath string) (string, int64, error) {
	cachePath := bookPath + ".cache"

	encodeFile, err := os.Create(cachePath)
	if err != nil {
		return cachePath, 0, err
	}

	enc := gob.NewEncoder(encodeFile)

	bookLock.Lock()
	encErr := enc.Encode(b.bookMap)
	bookLock.Unlock()
	if encErr != nil {
		encodeFile.Close()
		return cachePath, 0, encErr
	}

	if err := encodeFile.Close(); err != nil {
		return cachePath, 0, err
	}

	fileInfo, _ := os.Stat(cachePath)
	return cachePath, fileInfo.Size(), nil
}
