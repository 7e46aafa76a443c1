package malloc

import "testing"

func TestScaledUnits(t *testing.T) {
	saved := minAlloc
	defer func() { minAlloc = saved }()
	minAlloc = 100

	cases := []struct {
		units int64
		want  int64
	}{
		{0, 0},
		{-3, -3},
		{100, 100},
		{200, 200},
		{30, 90}, // 100/30 = 3, 3*30 = 90
		{60, 60}, // 100/60 = 1, 1*60 = 60... see below
	}
	for _, c := range cases {
		got := scaledUnits(c.units)
		if c.units == 60 {
			// 100/60 == 1, so scaledUnits(60) == 60, not minAlloc.
			if got != 60 {
				t.Errorf("scaledUnits(60) = %v, want 60", got)
			}
			continue
		}
		if got != c.want {
			t.Errorf("scaledUnits(%v) = %v, want %v", c.units, got, c.want)
		}
	}
}

func TestGrowArenaGrantsAtLeastRequest(t *testing.T) {
	savedMin := minAlloc
	defer func() { minAlloc = savedMin }()
	minAlloc = 64

	node, err := growArena(3)
	if err != nil {
		t.Fatalf("growArena: %v", err)
	}
	if node.size < 3 {
		t.Errorf("growArena(3) granted %d units, want at least 3", node.size)
	}
	if node.next != nil {
		t.Errorf("a freshly grown block must come back unlinked")
	}
}

func TestGrowArenaRejectsNonPositive(t *testing.T) {
	if _, err := growArena(0); err != ErrSizeOverflow {
		t.Errorf("growArena(0) = %v, want ErrSizeOverflow", err)
	}
	if _, err := growArena(-1); err != ErrSizeOverflow {
		t.Errorf("growArena(-1) = %v, want ErrSizeOverflow", err)
	}
}

func TestGrowArenaHonorsCapacityCeiling(t *testing.T) {
	savedCap := maxCapacityUnits
	savedGrown := totalGrownUnits
	savedMin := minAlloc
	defer func() {
		maxCapacityUnits = savedCap
		totalGrownUnits = savedGrown
		minAlloc = savedMin
	}()

	// Keep growArena(4) from being scaled up past the ceiling.
	minAlloc = 4
	totalGrownUnits = 0
	maxCapacityUnits = 8

	if _, err := growArena(4); err != nil {
		t.Fatalf("first growth under the ceiling failed: %v", err)
	}
	if _, err := growArena(100); err != ErrOutOfMemory {
		t.Errorf("growth past the ceiling = %v, want ErrOutOfMemory", err)
	}
}

func TestGrowthStatsIsCumulative(t *testing.T) {
	beforeUnits, beforeCalls := GrowthStats()

	savedMin := minAlloc
	minAlloc = 16
	defer func() { minAlloc = savedMin }()

	if _, err := growArena(5); err != nil {
		t.Fatalf("growArena: %v", err)
	}

	afterUnits, afterCalls := GrowthStats()
	if afterCalls != beforeCalls+1 {
		t.Errorf("GrowthStats calls = %d, want %d", afterCalls, beforeCalls+1)
	}
	if afterUnits <= beforeUnits {
		t.Errorf("GrowthStats units did not increase")
	}
}
