package pkg

import (
	"strings"
	"unsafe"
)

// BytesToString converts a byte slice to a string without copying. The
// caller must not mutate the slice afterwards.
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// TrimmedOutput turns command output into a single trimmed line.
func TrimmedOutput(buf []byte) string {
	return strings.TrimSpace(BytesToString(buf))
}
