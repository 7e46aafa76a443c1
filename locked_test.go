package malloc

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestAllocFreeLockedRoundtrip(t *testing.T) {
	ptr, err := AllocLocked(32)
	require.NoError(t, err)
	require.NotNil(t, ptr)

	b := unsafe.Slice((*byte)(ptr), 32)
	for i := range b {
		b[i] = byte(i)
	}

	FreeLocked(ptr)
}

func TestAllocLockedIncreasesAllocated(t *testing.T) {
	before := LockedInfo()

	ptr, err := AllocLocked(16)
	require.NoError(t, err)
	defer FreeLocked(ptr)

	after := LockedInfo()
	if after.Allocated <= before.Allocated {
		t.Errorf("Allocated did not increase: before=%v after=%v", before.Allocated, after.Allocated)
	}
}

func TestFreeLockedReturnsBlockToFreeList(t *testing.T) {
	before := LockedInfo()

	ptr, err := AllocLocked(8)
	require.NoError(t, err)
	FreeLocked(ptr)

	after := LockedInfo()
	if after.Allocated != before.Allocated {
		t.Errorf("Allocated after a matching free = %v, want %v", after.Allocated, before.Allocated)
	}
}

func TestAllocLockedConcurrentNeverPanics(t *testing.T) {
	const goroutines = 32
	const rounds = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(n int) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				size := int64((n+r)%64 + 1)
				ptr, err := AllocLocked(size)
				if err != nil {
					t.Errorf("AllocLocked: %v", err)
					return
				}
				FreeLocked(ptr)
			}
		}(i)
	}
	wg.Wait()
}

func TestAllocLockedRejectsOverflow(t *testing.T) {
	if _, err := AllocLocked(1 << 62); err != ErrSizeOverflow {
		t.Errorf("AllocLocked(huge) = %v, want ErrSizeOverflow", err)
	}
}

func TestFreeLockedNilIsNoop(t *testing.T) {
	FreeLocked(nil)
}
