// Package logging wraps "github.com/op/go-logging" so the rest of the
// engine can obtain preconfigured loggers with a single call instead of
// repeating backend/formatter boilerplate in every package.
package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/op/go-logging"

	"github.com/talonchess/talon/internal/config"
)

var (
	standardLog *logging.Logger
	searchLog   *logging.Logger
	testLog     *logging.Logger
	uciLog      *logging.Logger
	uciLogFile  *os.File

	standardFormat = logging.MustStringFormatter(`%{time:15:04:05.000} %{shortpkg:-8.8s}:%{shortfile:-14.14s} %{level:-7.7s}:  %{message}`)

	uciLogFilePath string
)

func init() {
	programName, _ := os.Executable()
	exePath := filepath.Dir(programName)
	exeName := strings.TrimSuffix(filepath.Base(programName), ".exe")
	uciLogFilePath = exePath + "/../logs/" + exeName + "_ucilog.log"

	standardLog = logging.MustGetLogger("standard")
	searchLog = logging.MustGetLogger("search")
	testLog = logging.MustGetLogger("test")
	uciLog = logging.MustGetLogger("uci")
}

// GetLog returns the standard logger, configured for stdout at the
// currently configured log level.
func GetLog() *logging.Logger {
	backend := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	formatted := logging.NewBackendFormatter(backend, standardFormat)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.Level(config.LogLevel), "")
	standardLog.SetBackend(leveled)
	return standardLog
}

// GetSearchLog returns the logger used by the search package, kept
// separate from the standard logger so search tracing can be dialed up
// independently without flooding the rest of the engine's log output.
func GetSearchLog() *logging.Logger {
	backend := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	formatted := logging.NewBackendFormatter(backend, standardFormat)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.Level(config.SearchLogLevel), "")
	searchLog.SetBackend(leveled)
	return searchLog
}

// GetTestLog returns a logger for use in _test.go files.
func GetTestLog() *logging.Logger {
	backend := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	formatted := logging.NewBackendFormatter(backend, standardFormat)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.Level(config.TestLogLevel), "")
	testLog.SetBackend(leveled)
	return testLog
}

// GetUciLog returns the logger used to record every line of the UCI
// protocol exchange, mirrored to stdout and appended to a log file in the
// logs folder beside the executable's folder (../logs).
func GetUciLog() *logging.Logger {
	uciFormat := logging.MustStringFormatter(`%{time:15:04:05.000} UCI %{message}`)

	backend1 := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	formatted1 := logging.NewBackendFormatter(backend1, uciFormat)
	leveled1 := logging.AddModuleLevel(formatted1)
	leveled1.SetLevel(logging.DEBUG, "")

	var err error
	uciLogFile, err = os.OpenFile(uciLogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Println("uci log file could not be opened:", err)
		uciLog.SetBackend(leveled1)
		return uciLog
	}

	backend2 := logging.NewLogBackend(uciLogFile, "", log.Lmsgprefix)
	formatted2 := logging.NewBackendFormatter(backend2, uciFormat)
	leveled2 := logging.AddModuleLevel(formatted2)
	leveled2.SetLevel(logging.DEBUG, "")

	uciLog.SetBackend(logging.SetBackend(leveled1, leveled2))
	return uciLog
}
