// flmbench drives the allocator the way tools/pools and tools/llrb
// drive the rest of the storage package: a small flag-parsed harness,
// not a test, reporting throughput and utilization for humans reading
// a terminal.
package main

import "flag"
import "fmt"
import "math/rand"
import "sync"
import "sync/atomic"
import "time"

import humanize "github.com/dustin/go-humanize"

import malloc "github.com/Zifeng-ZZF/ts-malloc"

var options struct {
	variant    string
	goroutines int
	rounds     int
	minsize    int
	maxsize    int
	verbose    bool
}

func argParse() {
	flag.StringVar(&options.variant, "variant", "locked",
		"allocator variant to drive: locked or nolock")
	flag.IntVar(&options.goroutines, "goroutines", 8,
		"number of concurrent goroutines issuing alloc/free pairs")
	flag.IntVar(&options.rounds, "rounds", 100000,
		"alloc/free pairs per goroutine")
	flag.IntVar(&options.minsize, "minsize", 8,
		"minimum allocation size in bytes")
	flag.IntVar(&options.maxsize, "maxsize", 4096,
		"maximum allocation size in bytes")
	flag.BoolVar(&options.verbose, "verbose", false,
		"enable debug/warn logging from the allocator package")
	flag.Parse()
}

func main() {
	argParse()

	if options.verbose {
		malloc.LogComponents("malloc")
	}

	settings := malloc.DefaultSettings()
	malloc.Configure(settings)
	fmt.Printf("settings: %v\n", settings)

	start := time.Now()
	var ops int64

	var wg sync.WaitGroup
	wg.Add(options.goroutines)
	for g := 0; g < options.goroutines; g++ {
		go func() {
			defer wg.Done()
			driveVariant(options.variant, options.rounds, options.minsize, options.maxsize, &ops)
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	throughput := float64(ops) / elapsed.Seconds()

	fmt.Printf("variant=%s goroutines=%d rounds=%d elapsed=%v ops=%d throughput=%.0f ops/sec\n",
		options.variant, options.goroutines, options.rounds, elapsed, ops, throughput)

	if options.variant == "nolock" {
		// NolockInfo() reports the calling goroutine's own arena; main
		// never allocates, so there is nothing meaningful to print per
		// worker here. GrowthStats below still covers every arena.
		fmt.Printf("cross-goroutine frees dropped: %d\n", malloc.DroppedFrees())
	} else {
		fmt.Printf("%s\n", malloc.LockedInfo())
	}

	units, calls := malloc.GrowthStats()
	fmt.Printf("growth: %s granted across %d calls\n", humanize.Bytes(uint64(units*malloc.UnitSize())), calls)
}

func driveVariant(variant string, rounds, minsize, maxsize int, ops *int64) {
	span := maxsize - minsize + 1
	if span <= 0 {
		span = 1
	}
	for i := 0; i < rounds; i++ {
		size := int64(minsize + rand.Intn(span))
		switch variant {
		case "nolock":
			ptr, err := malloc.AllocNolock(size)
			if err != nil {
				continue
			}
			malloc.FreeNolock(ptr)
		default:
			ptr, err := malloc.AllocLocked(size)
			if err != nil {
				continue
			}
			malloc.FreeLocked(ptr)
		}
		atomic.AddInt64(ops, 1)
	}
}

