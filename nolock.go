package malloc

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"unsafe"
)

// arenas maps a goroutine's identifier to its private arena — the
// nolock variant's analogue of per-thread static storage. Go has no
// goroutine-local storage, so this sync.Map plus a parsed goroutine id
// is the concrete stand-in.
var arenas sync.Map // uint64 -> *arena

var droppedFrees int64 // atomic: cross-thread frees silently discarded

// localArena returns the calling goroutine's private arena, creating
// it on first use. Every block this arena ever grows is tagged with
// this same goroutine id.
func localArena() *arena {
	gid := goroutineID()
	if v, ok := arenas.Load(gid); ok {
		return v.(*arena)
	}
	a := newArena(gid)
	actual, _ := arenas.LoadOrStore(gid, a)
	return actual.(*arena)
}

// goroutineID parses the numeric goroutine id out of the calling
// goroutine's own stack trace header ("goroutine 123 [running]:"),
// the same trick malloc-adjacent code in the wider ecosystem uses to
// get a stable per-goroutine identifier when Go offers no public API
// for one (compare xDarkicex's getCurrentCPUID, which hashes the same
// trace instead of parsing it — here we need the id itself, not a
// shard index, so we parse).
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(b, []byte(prefix)) {
		panicerr("malloc: unexpected stack trace header: %q", b)
	}
	b = b[len(prefix):]

	i := bytes.IndexByte(b, ' ')
	if i < 0 {
		panicerr("malloc: unexpected stack trace header: %q", buf[:n])
	}

	id, err := strconv.ParseUint(string(b[:i]), 10, 64)
	if err != nil {
		panicerr("malloc: could not parse goroutine id: %v", err)
	}
	return id
}

// AllocNolock allocates n bytes from the calling goroutine's private
// arena. Must be called from the goroutine that will free what it
// allocates — freed payloads return to that same goroutine's arena,
// never to any shared structure.
func AllocNolock(n int64) (unsafe.Pointer, error) {
	units, ok := unitsFor(n)
	if !ok {
		return nil, ErrSizeOverflow
	}

	a := localArena()
	for {
		if ptr, ok := a.search(units); ok {
			a.allocated += units
			return ptr, nil
		}

		// Only the OS-growth primitive is shared contention here; the
		// arena itself is touched by no other goroutine.
		node, err := growArena(units)
		if err != nil {
			errorf("malloc: growth failed for tid %v, %v units: %v", a.tid, units, err)
			return nil, err
		}
		debugf("malloc: grew arena for tid %v by %v units", a.tid, node.size)

		node.tid = a.tid
		a.insertFree(node)
		a.growths++
		a.capacity += node.size
	}
}

// FreeNolock releases a payload previously returned by AllocNolock.
// Must be called on the same goroutine that allocated p. A free
// issued from a different goroutine is detected via the block's tid
// tag and deliberately dropped rather than treated as undefined
// behavior: the block stays checked out of its owning goroutine's
// arena, which is never released, until that goroutine frees it.
func FreeNolock(p unsafe.Pointer) {
	if p == nil {
		return
	}
	h := headerOf(p)
	a := localArena()

	if h.tid != a.tid {
		atomic.AddInt64(&droppedFrees, 1)
		warnf("malloc: dropped cross-thread free, block tid %v, caller tid %v", h.tid, a.tid)
		return
	}

	poisonBlock(p, (h.size-1)*unit)
	a.allocated -= h.size
	a.insertFree(h)
}

// DroppedFrees counts cross-thread frees FreeNolock has silently
// discarded since process start. Observation only.
func DroppedFrees() int64 {
	return atomic.LoadInt64(&droppedFrees)
}

// NolockInfo reports the calling goroutine's own private arena's
// accounting. There is no cross-goroutine variant: an arena belonging
// to another goroutine is not safe to inspect without that goroutine's
// cooperation, by the same rule that makes it unsafe to free into.
func NolockInfo() Info {
	return infoOf(localArena())
}
