package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// ErrWitnessFailed appears when the method must be called
// using certain account but was not.
const ErrWitnessFailed = "witness check failed"

// CheckWitness checks witness of the passed caller.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(caller []byte) {
	if !runtime.CheckWitness(caller) {
		panic(ErrWitnessFailed)
	}
}

// CheckAdmin resolves current Tax-Admin from the Registry contract and checks
// its witness. It panics with ErrOnlyAdmin message on fail.
func CheckAdmin(registry interop.Hash160) {
	admin := contract.Call(registry, "admin", contract.ReadOnly).(interop.Hash160)
	if !runtime.CheckWitness(admin) {
		panic(ErrOnlyAdmin)
	}
}
