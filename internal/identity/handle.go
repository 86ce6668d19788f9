// ABOUTME: Canonical derivation from a caller handle to a user id or guest key
// ABOUTME: One derivation serves both lookup and creating paths so they always agree
package identity

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/harper/todo-agent/internal/auth"
	"github.com/harper/todo-agent/internal/models"
)

// GuestKeySpace bounds the guest namespace; keys fall in [0, GuestKeySpace)
const GuestKeySpace = 1_000_000

// Handle is a parsed caller handle. Exactly one of UserID or GuestKey is meaningful.
type Handle struct {
	Raw      string
	UserID   int64
	GuestKey int64
	Guest    bool
	// Implicit marks a non-numeric handle without the guest label, treated as a guest
	Implicit bool
}

// ParseHandle classifies a handle:
//   - contains "guest": key from the first digit run, ErrInvalidFormat without digits
//   - integer: a registered user id, returned as-is
//   - anything else: an implicit guest keyed by its first digit run, or by an
//     FNV-1a hash of the normalized handle when it has no digits
func ParseHandle(handle string) (Handle, error) {
	raw := strings.TrimSpace(handle)
	if raw == "" {
		return Handle{}, fmt.Errorf("%w: empty user handle", models.ErrInvalidFormat)
	}

	if auth.IsGuestHandle(raw) {
		key, ok := digitKey(raw)
		if !ok {
			return Handle{}, fmt.Errorf("%w: guest handle %q has no digits", models.ErrInvalidFormat, handle)
		}
		return Handle{Raw: raw, GuestKey: key, Guest: true}, nil
	}

	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Handle{Raw: raw, UserID: id}, nil
	}

	key, ok := digitKey(raw)
	if !ok {
		key = hashKey(raw)
	}
	return Handle{Raw: raw, GuestKey: key, Guest: true, Implicit: true}, nil
}

// Email returns the synthesized email for a guest handle
func (h Handle) Email() string {
	return GuestEmail(h.GuestKey)
}

// Username returns the synthesized username for a guest handle
func (h Handle) Username() string {
	if h.Implicit {
		return fmt.Sprintf("user_%d", h.GuestKey)
	}
	return fmt.Sprintf("guest_%d", h.GuestKey)
}

// GuestEmail formats the email that identifies the guest with key
func GuestEmail(key int64) string {
	return fmt.Sprintf("guest_%d@example.com", key)
}

// digitKey reduces the first run of ASCII digits modulo GuestKeySpace while
// scanning, so arbitrarily long runs never overflow
func digitKey(s string) (int64, bool) {
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return 0, false
	}

	var key int64
	for i := start; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		key = (key*10 + int64(s[i]-'0')) % GuestKeySpace
	}
	return key, true
}

func hashKey(s string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(s)))
	return int64(h.Sum32() % GuestKeySpace)
}
