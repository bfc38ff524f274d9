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

package uci

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	. "github.com/talonchess/talon/internal/config"
)

// boolOption builds a Check-type uciOption whose handler toggles flag and
// logs label under its new value. The vast majority of engine options are
// exactly this shape, so every "Use_X" switch is declared via one call to
// this factory instead of its own named handler function.
func boolOption(name string, flag *bool, label string) *uciOption {
	return &uciOption{
		NameID:       name,
		OptionType:   Check,
		DefaultValue: strconv.FormatBool(*flag),
		CurrentValue: strconv.FormatBool(*flag),
		HandlerFunc: func(_ *UciHandler, o *uciOption) {
			v, _ := strconv.ParseBool(o.CurrentValue)
			*flag = v
			log.Debugf("set %s to %v", label, v)
		},
	}
}

// init populates uciOptions with every option the engine exposes over
// UCI, plus sortOrderUciOptions controlling the order "uci" reports them in.
func init() {
	uciOptions = map[string]*uciOption{
		"Print Config": {NameID: "Print Config", HandlerFunc: printConfig, OptionType: Button},
		"Clear Hash":   {NameID: "Clear Hash", HandlerFunc: clearCache, OptionType: Button},
		"ClearHash":    {NameID: "ClearHash", HandlerFunc: clearCache, OptionType: Button},
		"Use_Hash":     {NameID: "Use_Hash", HandlerFunc: useCache, OptionType: Check, DefaultValue: strconv.FormatBool(Settings.Search.UseTT), CurrentValue: strconv.FormatBool(Settings.Search.UseTT)},
		"Hash":         {NameID: "Hash", HandlerFunc: cacheSize, OptionType: Spin, DefaultValue: strconv.Itoa(Settings.Search.TTSize), CurrentValue: strconv.Itoa(Settings.Search.TTSize), MinValue: "0", MaxValue: "65000"},
		"Threads":      {NameID: "Threads", HandlerFunc: numberOfThreads, OptionType: Spin, DefaultValue: strconv.Itoa(Settings.Search.NumberOfThreads), CurrentValue: strconv.Itoa(Settings.Search.NumberOfThreads), MinValue: "1", MaxValue: "128"},

		"Use_Book": boolOption("Use_Book", &Settings.Search.UseBook, "Use Book"),
		"OwnBook":  boolOption("OwnBook", &Settings.Search.UseBook, "Use Book"),

		"Ponder": boolOption("Ponder", &Settings.Search.UsePonder, "Use Ponder"),

		"UCI_AnalyseMode": boolOption("UCI_AnalyseMode", &Settings.Search.UseAnalyseMode, "UCI_AnalyseMode"),
		"UCI_Opponent":    {NameID: "UCI_Opponent", HandlerFunc: setOpponent, OptionType: String, DefaultValue: Settings.Search.Opponent, CurrentValue: Settings.Search.Opponent},

		"Quiescence": boolOption("Quiescence", &Settings.Search.UseQuiescence, "Use Quiescence"),
		"Use_QHash":  boolOption("Use_QHash", &Settings.Search.UseQSTT, "Use Hash in Quiescence"),
		"Use_SEE":    boolOption("Use_SEE", &Settings.Search.UseSEE, "use SEE"),

		"Use_PVS":         boolOption("Use_PVS", &Settings.Search.UsePVS, "Use PVS"),
		"Use_IID":         boolOption("Use_IID", &Settings.Search.UseIID, "Use IID"),
		"Use_Killer":      boolOption("Use_Killer", &Settings.Search.UseKiller, "Use Killer Moves"),
		"Use_HistCount":   boolOption("Use_HistCount", &Settings.Search.UseHistoryCounter, "Use History Counter"),
		"Use_CounterMove": boolOption("Use_CounterMove", &Settings.Search.UseCounterMoves, "Use Counter Moves"),

		"Use_Rfp":      boolOption("Use_Rfp", &Settings.Search.UseRFP, "use Reverse Futility Pruning (RFP)"),
		"Use_NullMove": boolOption("Use_NullMove", &Settings.Search.UseNullMove, "Use Null Move Pruning"),
		"Use_Mdp":      boolOption("Use_Mdp", &Settings.Search.UseMDP, "Use MDP"),
		"Use_Fp":       boolOption("Use_Fp", &Settings.Search.UseFP, "use Futility Pruning (FP)"),
		"Use_Lmr":      boolOption("Use_Lmr", &Settings.Search.UseLmr, "use Late Move Reduction"),
		"Use_Lmp":      boolOption("Use_Lmp", &Settings.Search.UseLmp, "use Late Move Pruning"),

		"Use_Ext":         boolOption("Use_Ext", &Settings.Search.UseExt, "use Extensions"),
		"Use_ExtAddDepth": boolOption("Use_ExtAddDepth", &Settings.Search.UseExtAddDepth, "use Extensions Add to Depth"),
		"Use_CheckExt":    boolOption("Use_CheckExt", &Settings.Search.UseCheckExt, "use Check Extension"),
		"Use_ThreatExt":   boolOption("Use_ThreatExt", &Settings.Search.UseThreatExt, "use Threat Extension"),

		"Eval_Lazy":     boolOption("Eval_Lazy", &Settings.Eval.UseLazyEval, "use Lazy Eval"),
		"Eval_Mobility": boolOption("Eval_Mobility", &Settings.Eval.UseMobility, "use Eval Mobility"),
		"Eval_AdvPiece": boolOption("Eval_AdvPiece", &Settings.Eval.UseAdvancedPieceEval, "use Adv Piece Eval"),
	}
	sortOrderUciOptions = []string{
		"Print Config",
		"Clear Hash",
		"ClearHash",
		"Use_Hash",
		"Hash",
		"Threads",
		"Use_Book",
		"OwnBook",
		"Ponder",
		"UCI_AnalyseMode",
		"UCI_Opponent",

		"Quiescence",
		"Use_QHash",
		"Use_SEE",

		"Use_IID",
		"Use_PVS",
		"Use_Killer",
		"Use_HistCount",
		"Use_CounterMove",

		"Use_Mdp",
		"Use_Rfp",
		"Use_NullMove",
		"Use_Fp",
		"Use_Lmr",
		"Use_Lmp",

		"Use_Ext",
		"Use_ExtAddDepth",
		"Use_CheckExt",
		"Use_ThreatExt",

		"Eval_Mobility",
		"Eval_AdvPiece",
	}
}

// GetOptions renders every option in sortOrderUciOptions order, ready to
// be sent as "option ..." lines during the "uci" handshake.
func (o *optionMap) GetOptions() *[]string {
	var options []string
	for _, name := range sortOrderUciOptions {
		options = append(options, uciOptions[name].String())
	}
	return &options
}

// String renders o as a UCI "option name ... type ..." line.
func (o *uciOption) String() string {
	var b strings.Builder
	b.WriteString("option name ")
	b.WriteString(o.NameID)
	b.WriteString(" type ")
	switch o.OptionType {
	case Check:
		b.WriteString("check default ")
		b.WriteString(o.DefaultValue)
	case Spin:
		b.WriteString("spin default ")
		b.WriteString(o.DefaultValue)
		b.WriteString(" min ")
		b.WriteString(o.MinValue)
		b.WriteString(" max ")
		b.WriteString(o.MaxValue)
	case Combo:
		b.WriteString("combo default ")
		b.WriteString(o.DefaultValue)
		b.WriteString(" var ")
		b.WriteString(o.VarValue)
	case Button:
		b.WriteString("button")
	case String:
		b.WriteString("string default ")
		b.WriteString(o.DefaultValue)
	}
	return b.String()
}

// uciOptionType distinguishes the five option kinds the UCI protocol defines.
type uciOptionType int

const (
	Check uciOptionType = iota
	Spin
	Combo
	Button
	String
)

// optionHandler runs when "setoption" changes an option's CurrentValue.
type optionHandler func(*UciHandler, *uciOption)

// uciOption is one engine-tunable setting exposed over UCI, together with
// the handler that applies a new CurrentValue.
type uciOption struct {
	NameID       string
	HandlerFunc  optionHandler
	OptionType   uciOptionType
	DefaultValue string
	MinValue     string
	MaxValue     string
	VarValue     string
	CurrentValue string
}

// optionMap is a name-indexed set of options.
type optionMap map[string]*uciOption

// uciOptions holds every option the engine exposes over UCI.
var uciOptions optionMap

// sortOrderUciOptions controls the order "uci" reports options in.
var sortOrderUciOptions []string

// ////////////////////////////////////////////////////////////////
// HandlerFunc for uci options changes
// ////////////////////////////////////////////////////////////////

func printConfig(handler *UciHandler, option *uciOption) {
	s := reflect.ValueOf(&Settings.Eval).Elem()
	typeOfT := s.Type()
	for i := s.NumField() - 1; i >= 0; i-- {
		f := s.Field(i)
		handler.SendInfoString(fmt.Sprintf("%-2d: %-22s %-6s = %v\n", i, typeOfT.Field(i).Name, f.Type(), f.Interface()))
	}
	handler.SendInfoString("Evaluation Config:\n")
	s = reflect.ValueOf(&Settings.Search).Elem()
	typeOfT = s.Type()
	for i := s.NumField() - 1; i >= 0; i-- {
		f := s.Field(i)
		handler.SendInfoString(fmt.Sprintf("%-2d: %-22s %-6s = %v\n", i, typeOfT.Field(i).Name, f.Type(), f.Interface()))
	}
	handler.SendInfoString("Search Config:\n")
	log.Debug(Settings.String())

}

func clearCache(u *UciHandler, o *uciOption) {
	u.mySearch.ClearHash()
	log.Debug("Cleared Cache")
}

func useCache(u *UciHandler, o *uciOption) {
	v, _ := strconv.ParseBool(o.CurrentValue)
	Settings.Search.UseTT = v
	log.Debugf("Set Use Hash to %v", Settings.Search.UseTT)
}

func cacheSize(u *UciHandler, o *uciOption) {
	v, _ := strconv.Atoi(o.CurrentValue)
	Settings.Search.TTSize = v
	u.mySearch.ResizeCache()
}

func numberOfThreads(u *UciHandler, o *uciOption) {
	v, err := strconv.Atoi(o.CurrentValue)
	if err != nil || v < 1 {
		log.Warningf("Invalid value for Threads: %s", o.CurrentValue)
		return
	}
	Settings.Search.NumberOfThreads = v
	u.mySearch.ResizeThreadPool()
	log.Debugf("Set Threads to %d", Settings.Search.NumberOfThreads)
}

func setOpponent(u *UciHandler, o *uciOption) {
	Settings.Search.Opponent = o.CurrentValue
	log.Debugf("set UCI_Opponent to %s", Settings.Search.Opponent)
}
