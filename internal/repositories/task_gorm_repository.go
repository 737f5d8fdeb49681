package repositories

import (
	"errors"
	"fmt"

	"taskman/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMTaskRepository is a GORM implementation of TaskRepository.
type GORMTaskRepository struct {
	db *gorm.DB
}

// NewGORMTaskRepository creates a new instance of GORMTaskRepository.
func NewGORMTaskRepository(db *gorm.DB) *GORMTaskRepository {
	return &GORMTaskRepository{
		db: db,
	}
}

// Create inserts a new task into the database.
func (r *GORMTaskRepository) Create(task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetAllByOwner retrieves all tasks of one owner, most recent first.
// The autoincrement seq column breaks created_at ties in insertion order.
func (r *GORMTaskRepository) GetAllByOwner(ownerID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC, seq ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to get tasks for owner %s: %w", ownerID, err)
	}
	return tasks, nil
}

// GetByIDAndOwner retrieves a single task by its ID, scoped to the owner.
func (r *GORMTaskRepository) GetByIDAndOwner(id, ownerID string) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task %s: %w", id, err)
	}
	return &task, nil
}

// Update persists a modified task.
func (r *GORMTaskRepository) Update(task *models.Task) error {
	res := r.db.Save(task)
	if res.Error != nil {
		return fmt.Errorf("failed to update task %s: %w", task.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task if it exists and belongs to the owner.
func (r *GORMTaskRepository) Delete(id, ownerID string) error {
	res := r.db.Delete(&models.Task{}, "id = ? AND owner_id = ?", id, ownerID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
