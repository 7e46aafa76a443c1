package malloc

import (
	s "github.com/bnclabs/gosettings"
	"github.com/cloudfoundry/gosigar"
)

// maxCapacityUnits bounds the total units the growth path will ever
// grant across every arena and variant combined. Zero means
// unbounded, the default — this knob exists mainly so tests can pin a
// small ceiling and exercise ErrOutOfMemory deterministically.
var maxCapacityUnits = int64(0)

// DefaultSettings follows the rest of the storage package's
// convention (llrb.Defaultsettings, bogn.Defaultsettings) of sizing a
// default from live system memory.
//
// "minalloc" (int64, default: a small fraction of free system RAM,
//		floored at 1024 units)
//		The minimum-growth knob: growth requests below this are scaled
//		up to amortize the cost of the underlying OS call.
//
// "variant" (string, default: "locked")
//		Informational only — which entry points the caller intends to
//		use. Both variants are always available regardless of this
//		setting.
//
// "capacity.max" (int64, default: 0)
//		Optional ceiling, in units, on total memory ever granted by
//		the growth path. Zero means unbounded.
func DefaultSettings() s.Settings {
	_, _, free := getsysmem()

	minalloc := int64(free/unitsToMemFraction) / unit
	if minalloc < 1024 {
		minalloc = 1024
	}

	return s.Settings{
		"minalloc":     minalloc,
		"variant":      "locked",
		"capacity.max": int64(0),
	}
}

// unitsToMemFraction: DefaultSettings aims minalloc at roughly
// 1/unitsToMemFraction of free system RAM, expressed in units.
const unitsToMemFraction = 1024 * 1024

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	if err := mem.Get(); err != nil {
		return 0, 0, uint64(minAlloc*unit) * unitsToMemFraction
	}
	return mem.Total, mem.Used, mem.Free
}

// Configure applies settings produced by DefaultSettings (or a
// caller-built subset of it) to the package-level allocator knobs.
// Safe to call before the first allocation; behavior of changing
// "minalloc" after arenas are already growing is unspecified, since
// it is a process-wide policy knob rather than a per-call parameter.
func Configure(setts s.Settings) {
	if v, ok := setts["minalloc"]; ok {
		if n, ok := v.(int64); ok && n > 0 {
			minAlloc = n
		}
	}
	if v, ok := setts["capacity.max"]; ok {
		if n, ok := v.(int64); ok && n >= 0 {
			maxCapacityUnits = n
		}
	}
}
