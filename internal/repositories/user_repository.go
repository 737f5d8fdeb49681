package repositories

import (
	"errors"

	"taskman/internal/models"
)

// Store-level sentinel errors shared by all repository implementations.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUsername = errors.New("username already taken")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create inserts a new user. The uniqueness check on username is
	// atomic with the insert; a clash returns ErrDuplicateUsername.
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	UpdateToken(id, token string) error
}
