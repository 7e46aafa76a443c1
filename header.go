package malloc

import (
	"math"
	"unsafe"
)

// header is the in-band metadata prepended to every block, free or
// live. Its own size is the allocator's unit: all size and address
// arithmetic is expressed as a count of headers, not bytes.
//
// While a block is free, next links it to the following block in its
// arena's address-ordered cyclic free list. While a block is live,
// next is unused. tid is only meaningful under the per-goroutine
// variant, where it names the arena that owns the block so a stray
// free from another goroutine can be detected and dropped.
type header struct {
	next *header
	size int64
	tid  uint64
}

// unit is the allocator's atom: the size, in bytes, of a header. Every
// block's size field counts units, and the unit includes the header
// itself.
const unit = int64(unsafe.Sizeof(header{}))

// UnitSize reports the allocator's unit size in bytes, for callers
// (the stats surface, the cmd/flmbench harness) that need to convert
// a unit count reported by GrowthStats into bytes themselves.
func UnitSize() int64 {
	return unit
}

// headerOf recovers the header owning a payload pointer previously
// returned by an Alloc* call. p - 1 in header units.
func headerOf(p unsafe.Pointer) *header {
	return (*header)(unsafe.Pointer(uintptr(p) - uintptr(unit)))
}

// payload returns the memory handed to the caller: one unit past h.
func (h *header) payload() unsafe.Pointer {
	return unsafe.Pointer(uintptr(unsafe.Pointer(h)) + uintptr(unit))
}

// addr is h's raw address, used for the ordering and adjacency tests
// that drive best-fit search and coalescing.
func (h *header) addr() uintptr {
	return uintptr(unsafe.Pointer(h))
}

// upper is the address immediately past h's span: h.addr() + h.size
// units. Two blocks are contiguous when one's upper equals the
// other's addr.
func (h *header) upper() uintptr {
	return h.addr() + uintptr(h.size)*uintptr(unit)
}

// fromAddr views a raw address as a header. Used only by the engine
// when walking block spans, never exposed to callers.
func fromAddr(addr uintptr) *header {
	return (*header)(unsafe.Pointer(addr))
}

// unitsFor converts a byte request into a unit count: ceil(n/unit)+1,
// the "+1" reserving room for the header. A zero-byte request yields
// a single-unit block (header only, no payload room) — this mirrors
// the original allocator's integer arithmetic exactly rather than
// special-casing zero.
func unitsFor(n int64) (int64, bool) {
	if n < 0 {
		return 0, false
	}
	if n > math.MaxInt64-unit+1 {
		return 0, false // would overflow the rounding below
	}
	units := (n+unit-1)/unit + 1
	return units, true
}
