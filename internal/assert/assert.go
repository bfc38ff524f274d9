// Package assert provides lightweight runtime invariant checks that are
// compiled out of release builds. Call sites guard every call with
// "if assert.DEBUG { ... }" so the Go compiler can eliminate the whole
// statement, including argument evaluation, when DEBUG is false.
package assert

import "fmt"

// DEBUG gates whether the guarded Assert calls are compiled in. Change
// the constant to true to enable invariant checking during development
// and perft runs.
const DEBUG = false

// Assert panics with the formatted message if test is false. Only ever
// called from behind "if assert.DEBUG", so with DEBUG false the calls are
// eliminated and debug-only checks carry no runtime cost.
func Assert(test bool, msg string, a ...interface{}) {
	if !test {
		panic(fmt.Sprintf(msg, a...))
	}
}
