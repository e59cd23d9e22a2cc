// Package items contains stack item conversion helpers shared by Tunichain
// RPC bindings.
package items

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Struct returns elements of the structure item checking their number.
func Struct(item stackitem.Item, fields int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != fields {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

// Uint160 converts big-endian byte string item to util.Uint160.
func Uint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

// OptionalUint160 is the same as Uint160, but it returns zero hash for Null
// item.
func OptionalUint160(item stackitem.Item) (util.Uint160, error) {
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, nil
	}
	return Uint160(item)
}

// Uint256 converts big-endian byte string item to util.Uint256.
func Uint256(item stackitem.Item) (util.Uint256, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint256{}, err
	}
	return util.Uint256DecodeBytesBE(b)
}

// String converts byte string item to UTF-8 string.
func String(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}

// Event is a notification which can be decoded from stack item.
type Event[T any] interface {
	*T
	FromStackItem(*stackitem.Array) error
}

// EventsFromApplicationLog retrieves all events with the given name emitted
// by the contract from the provided application log. Zero contract hash
// matches events of any contract.
func EventsFromApplicationLog[T any, E Event[T]](log *result.ApplicationLog, contract util.Uint160, name string) ([]*T, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*T
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != name || (!contract.Equals(util.Uint160{}) && !e.ScriptHash.Equals(contract)) {
				continue
			}
			event := E(new(T))
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize %s event from stackitem (execution #%d, event #%d): %w", name, i, j, err)
			}
			res = append(res, (*T)(event))
		}
	}

	return res, nil
}
