package sqlstore

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"

	"chatwire/internal/chaterr"
	"chatwire/internal/models"
)

func (s *SQLStore) CreateUser(user *models.User) error {
	var taken bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)")
	if err := s.db.QueryRow(query, user.Email).Scan(&taken); err != nil {
		return err
	}
	if taken {
		return chaterr.ErrEmailTaken
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	// The exists check above can lose a race with a concurrent
	// registration; the UNIQUE constraint on email is the backstop.
	query = s.rebind("INSERT INTO users (name, email, password, created_at) VALUES (?, ?, ?, ?) RETURNING id")
	if err := s.db.QueryRow(query, user.Name, user.Email, user.Password, user.CreatedAt).Scan(&user.ID); err != nil {
		if uniqueViolation(err) {
			return chaterr.ErrEmailTaken
		}
		return err
	}
	return nil
}

// uniqueViolation reports whether err is a unique-constraint error from
// either supported driver.
func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func (s *SQLStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	query := s.rebind("SELECT id, name, email, password, created_at FROM users WHERE email = ?")
	err := s.db.QueryRow(query, email).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, chaterr.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SQLStore) GetUserByID(id int) (*models.User, error) {
	var user models.User
	query := s.rebind("SELECT id, name, email, password, created_at FROM users WHERE id = ?")
	err := s.db.QueryRow(query, id).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, chaterr.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
