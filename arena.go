package malloc

import "unsafe"

// arena is a circular, address-ordered singly-linked free list plus
// its permanent zero-sized sentinel. It is the unit of synchronization:
// the locked variant has exactly one arena guarded by a package mutex,
// the nolock variant has one arena per goroutine and never shares it.
//
// head names some node currently in the list; it is repositioned after
// every mutation to the neighborhood of that mutation so the next
// search enjoys locality, per the original allocator's discipline.
// head must never be nil and must never point outside the arena's own
// list.
type arena struct {
	sentinel header
	head     *header
	tid      uint64 // owning goroutine id; zero under the locked variant

	growths   int64 // number of OS growth calls this arena has consumed
	capacity  int64 // units ever granted to this arena by the growth path
	allocated int64 // units presently checked out to callers
}

// newArena creates an empty arena: just its sentinel, self-linked.
func newArena(tid uint64) *arena {
	a := &arena{tid: tid}
	a.sentinel.size = 0
	a.sentinel.next = &a.sentinel
	a.head = &a.sentinel
	return a
}

// search performs one best-fit lap over the cyclic free list looking
// for a block of at least `units`. An exact match is unlinked and
// returned immediately; otherwise the smallest block seen that still
// fits is carved from its tail once the lap completes. ok is false
// only when no block in the arena, exact or otherwise, is large enough
// — the caller must grow the arena and search again.
func (a *arena) search(units int64) (unsafe.Pointer, bool) {
	prev := a.head
	curr := prev.next

	var best, bestPrev *header
	bestDiff := int64(-1)

	for {
		if curr.size >= units {
			if curr.size == units {
				prev.next = curr.next
				a.head = prev
				return curr.payload(), true
			}
			if diff := curr.size - units; best == nil || diff < bestDiff {
				best, bestPrev, bestDiff = curr, prev, diff
			}
		}
		if curr == a.head {
			break
		}
		prev = curr
		curr = curr.next
	}

	if best != nil {
		return a.carve(best, bestPrev, units), true
	}
	return nil, false
}

// carve splits `best` by detaching its high-address portion as the
// outgoing allocation. best's own list linkage is untouched — only
// its size shrinks — so the common path never patches a next pointer.
func (a *arena) carve(best, bestPrev *header, units int64) unsafe.Pointer {
	best.size -= units
	out := fromAddr(best.addr() + uintptr(best.size)*uintptr(unit))
	out.size = units
	out.tid = best.tid
	a.head = bestPrev
	return out.payload()
}

// insertFree links a freshly-freed or freshly-grown block into the
// arena's address-ordered cyclic list, coalescing with whichever of
// its two neighbors (upper, then lower) turns out to be contiguous.
// Upper must be resolved before lower: if both trigger, the lower
// merge folds node into t using node's size/next as updated by the
// upper merge a moment earlier.
func (a *arena) insertFree(node *header) {
	t := a.head
	for {
		inSegment := t.addr() < node.addr() && node.addr() < t.next.addr()
		atWrap := t.addr() >= t.next.addr()
		outsideWrap := atWrap && (node.addr() > t.addr() || node.addr() < t.next.addr())
		if inSegment || outsideWrap {
			break
		}
		t = t.next
	}

	if node.upper() == t.next.addr() {
		node.size += t.next.size
		node.next = t.next.next
	} else {
		node.next = t.next
	}

	if t.upper() == node.addr() {
		t.size += node.size
		t.next = node.next
	} else {
		t.next = node
	}

	a.head = t
}

// freeBlocks counts the arena's free blocks, sentinel excluded. Used
// only by Info()/tests — an O(n) walk, never on the hot path.
func (a *arena) freeBlocks() int64 {
	n := int64(0)
	for curr := a.sentinel.next; curr != &a.sentinel; curr = curr.next {
		n++
	}
	return n
}

// freeUnits sums the size, in units, of every free block including
// the sentinel. Used only by Info()/tests.
func (a *arena) freeUnits() int64 {
	n := a.sentinel.size
	for curr := a.sentinel.next; curr != &a.sentinel; curr = curr.next {
		n += curr.size
	}
	return n
}
