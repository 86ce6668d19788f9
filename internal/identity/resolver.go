// ABOUTME: Identity Resolver mapping caller handles to persisted user ids
// ABOUTME: Lookup fails with ErrNotFound; Ensure provisions guest users on demand
package identity

import (
	"fmt"
	"log"
	"sync"

	"github.com/harper/todo-agent/internal/auth"
	"github.com/harper/todo-agent/internal/models"
)

// UserStore is the slice of user persistence the resolver needs
type UserStore interface {
	GetByEmail(email string) (*models.User, error)
	InsertOrGet(user *models.User) (*models.User, error)
}

// Config controls resolver behavior
type Config struct {
	// Hasher produces the placeholder password hash for new guests. Defaults to bcrypt.
	Hasher auth.Hasher
	// Cache remembers guest email to id mappings once a row exists
	Cache bool
}

// Resolver maps handles to user ids
type Resolver struct {
	users UserStore
	hash  auth.Hasher
	cache *sync.Map
	mu    sync.Mutex // Serializes guest creation in this process
}

// NewResolver creates a Resolver over users
func NewResolver(users UserStore, cfg Config) *Resolver {
	r := &Resolver{users: users, hash: cfg.Hasher}
	if r.hash == nil {
		r.hash = auth.HashPassword
	}
	if cfg.Cache {
		r.cache = &sync.Map{}
	}
	return r
}

// Lookup resolves handle without creating anything. Numeric handles are returned
// directly; guest handles must already have a user row or ErrNotFound is returned.
func (r *Resolver) Lookup(handle string) (int64, error) {
	h, err := ParseHandle(handle)
	if err != nil {
		return 0, err
	}
	if !h.Guest {
		return h.UserID, nil
	}

	id, ok, err := r.find(h.Email())
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: guest user for handle %q", models.ErrNotFound, handle)
	}
	return id, nil
}

// Ensure resolves handle, creating the guest user when it does not exist yet.
// It never fails with ErrNotFound.
func (r *Resolver) Ensure(handle string) (int64, error) {
	h, err := ParseHandle(handle)
	if err != nil {
		return 0, err
	}
	if !h.Guest {
		return h.UserID, nil
	}

	email := h.Email()
	if id, ok, err := r.find(email); err != nil || ok {
		return id, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have created it while we waited
	if id, ok, err := r.find(email); err != nil || ok {
		return id, err
	}

	passwordHash, err := r.hash(auth.GuestPlaceholderPassword)
	if err != nil {
		return 0, err
	}

	user, err := r.users.InsertOrGet(&models.User{
		Email:        email,
		Username:     h.Username(),
		PasswordHash: passwordHash,
		IsActive:     true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create guest user: %w", err)
	}

	r.remember(email, user.ID)
	log.Printf("Resolved guest handle %q to user %d (%s)", handle, user.ID, email)
	return user.ID, nil
}

func (r *Resolver) find(email string) (int64, bool, error) {
	if r.cache != nil {
		if id, ok := r.cache.Load(email); ok {
			return id.(int64), true, nil
		}
	}

	user, err := r.users.GetByEmail(email)
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up guest user: %w", err)
	}
	if user == nil {
		return 0, false, nil
	}

	r.remember(email, user.ID)
	return user.ID, true, nil
}

func (r *Resolver) remember(email string, id int64) {
	if r.cache != nil {
		r.cache.Store(email, id)
	}
}
