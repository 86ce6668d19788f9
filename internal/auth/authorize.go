// ABOUTME: Authorization gate applied before every task tool runs
// ABOUTME: A shape check on the caller handle, not credential verification
package auth

import (
	"strconv"
	"strings"
)

// IsGuestHandle reports whether handle carries the "guest" label (any case)
func IsGuestHandle(handle string) bool {
	return strings.Contains(strings.ToLower(handle), "guest")
}

// Authorize reports whether a caller handle may invoke tools. Guest handles are
// always trusted; anything else must be a strictly positive integer.
func Authorize(handle string) bool {
	if IsGuestHandle(handle) {
		return true
	}
	id, err := strconv.ParseInt(strings.TrimSpace(handle), 10, 64)
	return err == nil && id > 0
}
