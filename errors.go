package malloc

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is returned when the OS growth primitive refuses to
// extend an arena. No allocator state changes when this is returned;
// the caller may retry later.
var ErrOutOfMemory = errors.New("malloc.outofmemory")

// ErrSizeOverflow is returned when converting a byte request to a
// unit count would overflow.
var ErrSizeOverflow = errors.New("malloc.sizeoverflow")

// panicerr is reserved for conditions the allocator has no business
// trying to recover from. Its only caller is goroutineID, when the
// runtime's stack-trace header cannot be parsed; negative sizes are
// rejected with ErrSizeOverflow instead.
func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
