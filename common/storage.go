package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// GetHash160 returns script hash stored by key or nil if it is missing.
func GetHash160(ctx storage.Context, key any) interop.Hash160 {
	data := storage.Get(ctx, key)
	if data == nil {
		return nil
	}
	return data.(interop.Hash160)
}

// NextID increments the counter stored by key and returns the new value.
// The first returned value is 1.
func NextID(ctx storage.Context, key any) int {
	var id int
	data := storage.Get(ctx, key)
	if data != nil {
		id = data.(int)
	}
	id++
	storage.Put(ctx, key, id)
	return id
}

// GetInt returns integer stored by key or 0 if it is missing.
func GetInt(ctx storage.Context, key any) int {
	data := storage.Get(ctx, key)
	if data == nil {
		return 0
	}
	return data.(int)
}
