// ABOUTME: User storage operations for SQLite
// ABOUTME: Lookup by email or id and insert-or-fetch keyed on the unique email
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harper/todo-agent/internal/models"
)

// UserStore handles user persistence
type UserStore struct {
	db *DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, username, password_hash, is_active, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail retrieves a user by email, returning nil if not found
func (s *UserStore) GetByEmail(email string) (*models.User, error) {
	return scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// GetByID retrieves a user by id, returning nil if not found
func (s *UserStore) GetByID(id int64) (*models.User, error) {
	return scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// Create inserts a new user and sets its ID. Fails if the email is taken.
func (s *UserStore) Create(user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.Exec(`
		INSERT INTO users (email, username, password_hash, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, user.Email, user.Username, user.PasswordHash, user.IsActive, user.CreatedAt)
	if err != nil {
		return err
	}

	user.ID, err = res.LastInsertId()
	return err
}

// InsertOrGet inserts the user unless a row with the same email exists, then
// returns whichever row owns the email. Concurrent callers converge on one row.
func (s *UserStore) InsertOrGet(user *models.User) (*models.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO users (email, username, password_hash, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(email) DO NOTHING
	`, user.Email, user.Username, user.PasswordHash, user.IsActive, user.CreatedAt)
	if err != nil {
		return nil, err
	}

	existing, err := s.GetByEmail(user.Email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("user %s vanished after insert", user.Email)
	}
	return existing, nil
}

// Count returns the number of users
func (s *UserStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
