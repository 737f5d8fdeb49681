package repositories

import (
	"sort"
	"sync"

	"taskman/internal/models"

	"github.com/google/uuid"
)

// MockTaskRepository is an in-memory implementation of TaskRepository.
type MockTaskRepository struct {
	tasks   map[string]models.Task
	nextSeq uint
	mu      sync.RWMutex
}

// NewMockTaskRepository creates a new instance of MockTaskRepository.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		tasks: make(map[string]models.Task),
	}
}

// Create adds a new task and assigns it the next insertion-order seq.
func (r *MockTaskRepository) Create(task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	r.nextSeq++
	task.Seq = r.nextSeq
	r.tasks[task.ID] = *task
	return nil
}

// GetAllByOwner returns the owner's tasks, newest first, created_at ties
// broken by seq ascending.
func (r *MockTaskRepository) GetAllByOwner(ownerID string) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	taskList := make([]models.Task, 0)
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			taskList = append(taskList, t)
		}
	}
	sort.Slice(taskList, func(i, j int) bool {
		if !taskList[i].CreatedAt.Equal(taskList[j].CreatedAt) {
			return taskList[i].CreatedAt.After(taskList[j].CreatedAt)
		}
		return taskList[i].Seq < taskList[j].Seq
	})
	return taskList, nil
}

// GetByIDAndOwner returns a task by ID, scoped to the owner.
func (r *MockTaskRepository) GetByIDAndOwner(id, ownerID string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return &task, nil
}

// Update modifies an existing task.
func (r *MockTaskRepository) Update(task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[task.ID]
	if !ok {
		return ErrNotFound
	}
	task.Seq = existing.Seq
	r.tasks[task.ID] = *task
	return nil
}

// Delete removes a task if it exists and belongs to the owner.
func (r *MockTaskRepository) Delete(id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}
