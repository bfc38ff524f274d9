//
// Talon - UCI compatible chess engine
//

package config

// searchConfiguration is the frozen parameter record consumed by a
// search: every margin, reduction and feature toggle used by the PVS
// search and its pruning/extension/ordering heuristics lives here so it
// can be loaded once from the TOML config file and never mutated while
// a search is in flight.
type searchConfiguration struct {
	// Opening book (external collaborator - consulted before falling
	// back to tree search)
	UseBook    bool
	BookPath   string
	BookFile   string
	BookFormat string

	// Threading
	NumberOfThreads int

	// Hash - TTSize is the transposition table size in MB (64 when 0).
	// TransTableShare is range-checked by setupSearch; nothing else
	// reads it.
	TTSize          int
	TransTableShare int

	// Ponder
	UsePonder bool

	// Quiescence search
	UseQuiescence      bool
	UseQSStandpat      bool
	UseSEE             bool
	DeltaPruningMargin int

	// Move ordering
	UsePVS            bool
	UseKiller         bool
	UseHistoryCounter bool
	UseCounterMoves   bool
	UseIID            bool
	IIDDepth          int
	IIDReduction      int

	// root search strategy - mutually exclusive, first match wins in
	// the iterative deepening loop (plain alpha-beta/PVS when both false)
	UseAspiration    bool
	AspirationMargin int
	UseMTDf          bool

	// Transposition Table
	UseTT      bool
	UseTTMove  bool
	UseTTValue bool
	UseQSTT    bool
	UseEvalTT  bool

	// node ownership - loaded from the config file; the search does not
	// read it and sets no TT busy bit
	NodeBusinessCheckMinDepthLeft int

	// Prunings pre move gen
	UseMDP       bool
	UseRFP       bool
	UseRazoring  bool
	RazorMargin  int
	UseNullMove  bool
	NmpDepth     int
	NmpReduction int

	// extensions of search depth - the search extends by one whole ply
	// for a checking move (UseCheckExt) and for a null-move mate threat
	// (UseThreatExt); FullPly, the extension amounts and the pawn-push,
	// recapture and single-reply switches are not read by the search
	FullPly             int
	UseExt              bool
	UseExtAddDepth      bool
	UseCheckExt         bool
	CheckExtension      int
	UsePawnPushExt      bool
	PawnPushExtension   int
	UseRecaptureExt     bool
	RecaptureExtension  int
	UseSingleReplyExt   bool
	SingleReplyExtension int
	UseThreatExt        bool

	// prunings after move generation but before making move
	UseFP                          bool
	UseLmp                         bool
	UseLmr                         bool
	LmrDepth                       int
	LmrMovesSearched               int
	MinMovesSearchedForLmr         int
	ExtraLateMoveReduction         int
	ExtraLateMoveReductionDepthLimit int

	// time management
	TimeFraction  float64
	MinMovesToGo  int
	MaxMovesToGo  int

	// UCI session state - set via setoption, not persisted across restarts
	UseAnalyseMode bool
	Opponent       string
}

// sets defaults which might be overwritten by config file
func init() {
	Settings.Search.UseBook = true
	Settings.Search.BookPath = "./assets/books"
	Settings.Search.BookFile = "book.txt"
	Settings.Search.BookFormat = "Simple"

	Settings.Search.NumberOfThreads = 1

	Settings.Search.TTSize = 128
	Settings.Search.TransTableShare = 15 // valid range 1..15, see setupSearch

	Settings.Search.UsePonder = true

	Settings.Search.UseQuiescence = true
	Settings.Search.UseQSStandpat = true
	Settings.Search.UseSEE = true
	Settings.Search.DeltaPruningMargin = 100

	Settings.Search.UsePVS = true
	Settings.Search.UseKiller = true
	Settings.Search.UseHistoryCounter = true
	Settings.Search.UseCounterMoves = true
	Settings.Search.UseIID = true
	Settings.Search.IIDDepth = 6
	Settings.Search.IIDReduction = 2

	Settings.Search.UseAspiration = true
	Settings.Search.AspirationMargin = 50
	Settings.Search.UseMTDf = false

	Settings.Search.UseTT = true
	Settings.Search.UseTTMove = true
	Settings.Search.UseTTValue = true
	Settings.Search.UseQSTT = true
	Settings.Search.UseEvalTT = false

	Settings.Search.NodeBusinessCheckMinDepthLeft = 4 * 8 // 4 plies, FullPly units

	Settings.Search.UseMDP = true
	Settings.Search.UseRFP = false
	Settings.Search.UseRazoring = true
	Settings.Search.RazorMargin = 600
	Settings.Search.UseNullMove = true
	Settings.Search.NmpDepth = 3
	Settings.Search.NmpReduction = 2

	Settings.Search.FullPly = 8
	Settings.Search.UseExt = true
	Settings.Search.UseExtAddDepth = true
	Settings.Search.UseCheckExt = true
	Settings.Search.CheckExtension = 1
	Settings.Search.UsePawnPushExt = true
	Settings.Search.PawnPushExtension = 1
	Settings.Search.UseRecaptureExt = true
	Settings.Search.RecaptureExtension = 1
	Settings.Search.UseSingleReplyExt = true
	Settings.Search.SingleReplyExtension = 1
	Settings.Search.UseThreatExt = false

	Settings.Search.UseFP = false
	Settings.Search.UseLmp = true
	Settings.Search.UseLmr = true
	Settings.Search.LmrDepth = 3
	Settings.Search.LmrMovesSearched = 3
	Settings.Search.MinMovesSearchedForLmr = 3
	Settings.Search.ExtraLateMoveReduction = 1
	Settings.Search.ExtraLateMoveReductionDepthLimit = 20

	Settings.Search.TimeFraction = 0.95
	Settings.Search.MinMovesToGo = 25
	Settings.Search.MaxMovesToGo = 45

	Settings.Search.UseAnalyseMode = false
	Settings.Search.Opponent = "?"
}

// set defaults for configurations here in case a configuration
// is not available from the config file
func setupSearch() {
	if Settings.Search.NumberOfThreads < 1 {
		Settings.Search.NumberOfThreads = 1
	}
	if Settings.Search.TransTableShare < 1 || Settings.Search.TransTableShare > 15 {
		Settings.Search.TransTableShare = 15
	}
}
