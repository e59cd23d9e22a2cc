package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/neo"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// HasUpdateAccess returns true if contract can be updated.
func HasUpdateAccess() bool {
	return runtime.CheckWitness(CommitteeAddress())
}

// CommitteeAddress returns multi address of committee.
func CommitteeAddress() []byte {
	committee := neo.GetCommittee()
	return contract.CreateMultisigAccount(len(committee)/2+1, committee)
}

// CheckHash160 panics with ErrInvalidAddress if h is not a valid script hash.
func CheckHash160(h interop.Hash160) {
	if len(h) != interop.Hash160Len {
		panic(ErrInvalidAddress)
	}
}

// CheckHash256 panics with ErrInvalidHash if h is not a valid 32-byte hash.
func CheckHash256(h interop.Hash256) {
	if len(h) != interop.Hash256Len {
		panic(ErrInvalidHash)
	}
}
