// ABOUTME: Tests for the Identity Resolver against in-memory SQLite
// ABOUTME: Verifies idempotent provisioning, lookup-only misses, and path agreement
package identity

import (
	"errors"
	"sync"
	"testing"

	"github.com/harper/todo-agent/internal/auth"
	"github.com/harper/todo-agent/internal/models"
	"github.com/harper/todo-agent/internal/storage/sqlite"
)

func fastHasher(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func newTestResolver(t *testing.T, cache bool) (*Resolver, *sqlite.Storage) {
	t.Helper()
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewResolver(store.Users(), Config{Hasher: fastHasher, Cache: cache}), store
}

func TestResolver_EnsureIsIdempotent(t *testing.T) {
	for _, cache := range []bool{false, true} {
		r, store := newTestResolver(t, cache)

		first, err := r.Ensure("guest_1770449315065")
		if err != nil {
			t.Fatalf("Ensure() error = %v", err)
		}
		second, err := r.Ensure("guest_1770449315065")
		if err != nil {
			t.Fatalf("Ensure() error = %v", err)
		}
		if first != second {
			t.Errorf("cache=%v: Ensure() ids differ: %d vs %d", cache, first, second)
		}

		n, _ := store.Users().Count()
		if n != 1 {
			t.Errorf("cache=%v: users = %d, want 1", cache, n)
		}
	}
}

func TestResolver_EnsureCreatesGuestRow(t *testing.T) {
	r, store := newTestResolver(t, false)

	id, err := r.Ensure("guest_42")
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	user, err := store.Users().GetByEmail("guest_42@example.com")
	if err != nil || user == nil {
		t.Fatalf("GetByEmail() = %v, %v", user, err)
	}
	if user.ID != id {
		t.Errorf("user.ID = %d, want %d", user.ID, id)
	}
	if user.Username != "guest_42" || !user.IsActive {
		t.Errorf("user = %+v, want active guest_42", user)
	}
	if user.PasswordHash != "hashed:"+auth.GuestPlaceholderPassword {
		t.Errorf("PasswordHash = %q", user.PasswordHash)
	}
}

func TestResolver_LookupMissingGuest(t *testing.T) {
	r, _ := newTestResolver(t, false)

	if _, err := r.Lookup("guest_99"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Lookup() error = %v, want ErrNotFound", err)
	}
}

func TestResolver_PathsAgree(t *testing.T) {
	r, _ := newTestResolver(t, false)

	handles := []string{"guest_42", "guest_1770449315065", "alice", "kiosk-7"}
	for _, handle := range handles {
		created, err := r.Ensure(handle)
		if err != nil {
			t.Fatalf("Ensure(%q) error = %v", handle, err)
		}
		found, err := r.Lookup(handle)
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", handle, err)
		}
		if created != found {
			t.Errorf("handle %q: Ensure=%d Lookup=%d", handle, created, found)
		}
	}
}

func TestResolver_NumericHandlesPassThrough(t *testing.T) {
	r, store := newTestResolver(t, false)

	for _, resolve := range []func(string) (int64, error){r.Lookup, r.Ensure} {
		id, err := resolve("7")
		if err != nil {
			t.Fatalf("resolve(7) error = %v", err)
		}
		if id != 7 {
			t.Errorf("resolve(7) = %d, want 7", id)
		}
	}

	if n, _ := store.Users().Count(); n != 0 {
		t.Errorf("numeric handles must not create users, got %d", n)
	}
}

func TestResolver_InvalidGuestHandle(t *testing.T) {
	r, _ := newTestResolver(t, false)

	if _, err := r.Ensure("guest_without_digits"); !errors.Is(err, models.ErrInvalidFormat) {
		t.Errorf("Ensure() error = %v, want ErrInvalidFormat", err)
	}
}

func TestResolver_ConcurrentEnsure(t *testing.T) {
	r, store := newTestResolver(t, false)

	var wg sync.WaitGroup
	ids := make(chan int64, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := r.Ensure("guest_5")
			if err != nil {
				t.Errorf("Ensure() error = %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	var first int64
	for id := range ids {
		if first == 0 {
			first = id
		}
		if id != first {
			t.Fatalf("concurrent Ensure() produced %d and %d", first, id)
		}
	}
	if n, _ := store.Users().Count(); n != 1 {
		t.Errorf("users = %d, want 1", n)
	}
}

func TestResolver_HasherFailure(t *testing.T) {
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	boom := errors.New("boom")
	r := NewResolver(store.Users(), Config{Hasher: func(string) (string, error) { return "", boom }})

	if _, err := r.Ensure("guest_1"); !errors.Is(err, boom) {
		t.Errorf("Ensure() error = %v, want hasher error", err)
	}
}
