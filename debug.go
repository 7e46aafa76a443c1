//go:build debug

package malloc

import "unsafe"

// poisonFill is the byte written across a freed payload in debug
// builds, so a use-after-free shows up as a visibly wrong value in
// tests without the allocator maintaining a live-set to detect it.
const poisonFill = 0xfe

func poisonBlock(payload unsafe.Pointer, nbytes int64) {
	if nbytes <= 0 {
		return
	}
	dst := unsafe.Slice((*byte)(payload), int(nbytes))
	for i := range dst {
		dst[i] = poisonFill
	}
}
