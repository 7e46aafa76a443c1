package malloc

import (
	"fmt"

	humanize "github.com/dustin/go-humanize"
)

// Info is a read-only snapshot of an arena's bookkeeping. Mirrors the
// shape of malloc/arena.go's Memory/Allocated/Available/Utilization
// accessors, collapsed into a single value type since this allocator
// has no slab pools to break capacity down by.
type Info struct {
	Capacity  int64 // bytes ever granted to this arena by the growth path
	Allocated int64 // bytes presently checked out to callers
	Free      int64 // bytes currently sitting in the free list
	Blocks    int64 // free blocks in the list, sentinel excluded
	Growths   int64 // OS growth calls this arena has consumed
}

func infoOf(a *arena) Info {
	return Info{
		Capacity:  a.capacity * unit,
		Allocated: a.allocated * unit,
		Free:      a.freeUnits() * unit,
		Blocks:    a.freeBlocks(),
		Growths:   a.growths,
	}
}

// String renders Info with human-readable byte counts, the way
// llrb_stats.go formats allocator accounting with go-humanize.
func (i Info) String() string {
	return fmt.Sprintf(
		"capacity=%s allocated=%s free=%s blocks=%d growths=%d",
		humanize.Bytes(uint64(i.Capacity)), humanize.Bytes(uint64(i.Allocated)),
		humanize.Bytes(uint64(i.Free)), i.Blocks, i.Growths,
	)
}
