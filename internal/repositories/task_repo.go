package repositories

import (
	"taskman/internal/models"
)

// TaskRepository defines the interface for task data access. Every lookup
// and mutation is scoped by the owning user: a task belonging to someone
// else is indistinguishable from one that does not exist.
type TaskRepository interface {
	Create(task *models.Task) error
	// GetAllByOwner returns the owner's tasks ordered by creation time
	// descending, ties broken by insertion order.
	GetAllByOwner(ownerID string) ([]models.Task, error)
	GetByIDAndOwner(id, ownerID string) (*models.Task, error)
	Update(task *models.Task) error
	Delete(id, ownerID string) error
}
