package malloc

import (
	"sync"
	"unsafe"
)

// listMu guards the shared arena used by AllocLocked/FreeLocked. It is
// never held while an OS growth call is in flight.
var listMu sync.Mutex

var globalArena *arena
var globalOnce sync.Once

func sharedArena() *arena {
	globalOnce.Do(func() { globalArena = newArena(0) })
	return globalArena
}

// AllocLocked allocates n bytes from the process-wide shared arena.
// Thread-safe via listMu; the returned payload is valid until passed
// to FreeLocked. Returns ErrOutOfMemory if the OS growth primitive
// refuses to extend the arena, ErrSizeOverflow if n's unit conversion
// would overflow.
func AllocLocked(n int64) (unsafe.Pointer, error) {
	units, ok := unitsFor(n)
	if !ok {
		return nil, ErrSizeOverflow
	}

	a := sharedArena()

	listMu.Lock()
	for {
		if ptr, ok := a.search(units); ok {
			a.allocated += units
			listMu.Unlock()
			return ptr, nil
		}

		// Growth must never run with listMu held: the OS primitive can
		// block, and holding listMu across it would serialize every
		// other allocator call behind a single sbrk-equivalent.
		listMu.Unlock()
		node, err := growArena(units)
		if err != nil {
			errorf("malloc: growth failed for %v units: %v", units, err)
			return nil, err
		}
		debugf("malloc: grew shared arena by %v units", node.size)

		listMu.Lock()
		node.tid = 0
		a.insertFree(node)
		a.growths++
		a.capacity += node.size
		// loop continues holding listMu: insertion and the retry
		// search that depends on it run atomically with respect to
		// other mutators.
	}
}

// FreeLocked releases a payload previously returned by AllocLocked. p
// must not have been freed already; freeing a pointer AllocLocked
// never returned is undefined behavior.
func FreeLocked(p unsafe.Pointer) {
	if p == nil {
		return
	}
	h := headerOf(p)
	poisonBlock(p, (h.size-1)*unit)

	a := sharedArena()
	listMu.Lock()
	a.allocated -= h.size
	a.insertFree(h)
	listMu.Unlock()
}

// LockedInfo reports the shared arena's current accounting. Observation
// only — acquires and releases listMu but performs no mutation.
func LockedInfo() Info {
	a := sharedArena()
	listMu.Lock()
	defer listMu.Unlock()
	return infoOf(a)
}
