package value

import (
	"math"
	"reflect"
)

func float64Bits(f float64) uint64 {
	return math.Float64bits(f)
}

// identityHash derives a stable hash from an object's pointer identity, used
// for map keys (classes, instances, ...) that don't carry a cached content
// hash the way strings and ranges do.
func identityHash(o Object) uint32 {
	p := reflect.ValueOf(o).Pointer()
	return uint32(p) ^ uint32(p>>32)
}
