package assert

import "github.com/oomph-ac/pmove/oerror"

// IsTrue panics when a programmer invariant does not hold. It is never used for outcomes
// of the simulation itself.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
