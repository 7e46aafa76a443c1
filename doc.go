// Package malloc implements a custom, best-fit, address-ordered
// free-list allocator for application goroutines that want memory
// outside the Go heap/GC's reach.
//
// The allocator manages one or more arenas, each an address-sorted
// cyclic singly-linked list of free blocks anchored by a permanent
// zero-sized sentinel. Allocation walks the list for the smallest
// block that satisfies a request (best-fit), carving the tail of the
// chosen block when it is larger than required. Freeing walks the
// list for the block's address-ordered neighbors and coalesces with
// whichever of them is contiguous.
//
// Two variants are exported:
//
//   - AllocLocked / FreeLocked manage one arena shared by every
//     caller, serialized by a package mutex.
//   - AllocNolock / FreeNolock manage one arena per goroutine; the
//     shared fast path is avoided entirely, at the cost of a free
//     being a silent no-op when issued from a goroutine other than
//     the one that performed the matching allocation.
//
// Backing memory for both variants is acquired from outside the Go
// heap via cgo, standing in for the sbrk() primitive of the original
// C allocator this package's design is drawn from: Go has no stable
// equivalent of "extend the data segment by N bytes", so each growth
// call allocates a fresh region with C.malloc and wraps it as a single
// free block fed into the arena's free list.
package malloc
