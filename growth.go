// Growth path: acquires backing memory from outside the Go heap,
// standing in for sbrk(). Go has no "extend the data segment" call, so
// a growth request is serviced by C.malloc, mirroring how
// malloc/pool_flist.go and malloc/pool_fbit.go in the wider storage
// package already reach for cgo whenever they need raw, GC-invisible
// memory. Failure (C.malloc returning NULL) is sbrk's sentinel return,
// translated here into ErrOutOfMemory.

package malloc

//#include <stdlib.h>
import "C"

import (
	"math"
	"sync"
	"sync/atomic"
	"unsafe"
)

// minAlloc is the minimum-growth knob: growth requests below this many
// units are scaled up to amortize the cost of the underlying OS call.
// A page-friendly default, overridable via Configure.
var minAlloc = int64(1024)

// sbrkMu is the single dedicated mutex serializing every growth call
// across every arena and every variant. It is never held at the same
// time as an arena's own mutex.
var sbrkMu sync.Mutex

var totalGrownUnits int64 // atomic: cumulative units ever granted by the OS
var totalGrowthCalls int64

// scaledUnits applies the minimum-growth policy: requests under
// minAlloc are scaled to the largest multiple of the request that
// does not exceed minAlloc.
func scaledUnits(units int64) int64 {
	if units >= minAlloc || units <= 0 {
		return units
	}
	n := minAlloc / units
	return units * n
}

// growArena asks the OS-growth primitive for `units` header-sized
// units (after the minimum-growth scaling), wraps the result as a
// single free block, and returns it unlinked from any arena — the
// caller decides when to insert it, so that callers holding a list
// mutex can release it around this call first.
func growArena(units int64) (*header, error) {
	if units <= 0 {
		return nil, ErrSizeOverflow
	}
	grown := scaledUnits(units)
	if grown > math.MaxInt64/unit {
		return nil, ErrSizeOverflow
	}

	nbytes := C.size_t(grown * unit)

	sbrkMu.Lock()
	defer sbrkMu.Unlock()

	if ceiling := maxCapacityUnits; ceiling > 0 && totalGrownUnits+grown > ceiling {
		return nil, ErrOutOfMemory
	}

	ptr := C.malloc(nbytes)
	if ptr == nil {
		return nil, ErrOutOfMemory
	}

	atomic.AddInt64(&totalGrownUnits, grown)
	atomic.AddInt64(&totalGrowthCalls, 1)

	node := (*header)(unsafe.Pointer(ptr))
	node.size = grown
	node.next = nil
	node.tid = 0
	return node, nil
}

// GrowthStats reports how much memory the growth path has handed out
// across every arena and variant, and how many OS-growth calls that
// took. Observation-only.
func GrowthStats() (units int64, calls int64) {
	return atomic.LoadInt64(&totalGrownUnits), atomic.LoadInt64(&totalGrowthCalls)
}
