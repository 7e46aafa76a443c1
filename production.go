//go:build !debug

package malloc

import "unsafe"

// poisonBlock is a no-op in production builds — mirrors
// malloc/production.go's split from malloc/debug.go for the same
// concern (this package just poisons on free rather than initializing
// on alloc).
func poisonBlock(payload unsafe.Pointer, nbytes int64) {}
