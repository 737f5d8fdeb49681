package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"taskman/internal/models"
	"taskman/internal/repositories"
)

// EventPublisher publishes task lifecycle events to a message broker.
// A nil publisher disables event publishing.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// TaskService handles business logic for ownership-scoped task CRUD.
type TaskService struct {
	taskRepo  repositories.TaskRepository
	publisher EventPublisher
}

// NewTaskService creates a new TaskService. publisher may be nil.
func NewTaskService(taskRepo repositories.TaskRepository, publisher EventPublisher) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		publisher: publisher,
	}
}

// Create persists a new task for the owner. Category defaults to Personal,
// completed to false.
func (s *TaskService) Create(ownerID, title, description string, category models.Category) (*models.Task, error) {
	if category == "" {
		category = models.CategoryPersonal
	}

	now := time.Now()
	task := &models.Task{
		Title:       title,
		Description: description,
		Category:    category,
		Completed:   false,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.publishEvent("task.created", task)
	return task, nil
}

// List returns all of the owner's tasks, most recently created first.
func (s *TaskService) List(ownerID string) ([]models.Task, error) {
	tasks, err := s.taskRepo.GetAllByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetByID returns a single task. A task owned by another user yields
// ErrTaskNotFound, same as a nonexistent one.
func (s *TaskService) GetByID(ownerID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.GetByIDAndOwner(taskID, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task %s: %w", taskID, err)
	}
	return task, nil
}

// Update applies a partial update: only non-nil fields of upd overwrite
// the stored values. updatedAt is refreshed on every successful update.
func (s *TaskService) Update(ownerID, taskID string, upd models.TaskUpdate) (*models.Task, error) {
	task, err := s.GetByID(ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		task.Title = *upd.Title
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.Category != nil {
		task.Category = *upd.Category
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(task); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task %s: %w", taskID, err)
	}
	return task, nil
}

// SetCompleted sets the completion flag. Repeating the same call is a
// no-op beyond refreshing updatedAt.
func (s *TaskService) SetCompleted(ownerID, taskID string, completed bool) (*models.Task, error) {
	task, err := s.GetByID(ownerID, taskID)
	if err != nil {
		return nil, err
	}

	task.Completed = completed
	task.UpdatedAt = time.Now()
	if err := s.taskRepo.Update(task); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task %s: %w", taskID, err)
	}

	s.publishEvent("task.completed", task)
	return task, nil
}

// Delete removes the task if it exists and belongs to the owner.
func (s *TaskService) Delete(ownerID, taskID string) error {
	if err := s.taskRepo.Delete(taskID, ownerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}

	s.publishEvent("task.deleted", &models.Task{ID: taskID, OwnerID: ownerID})
	return nil
}

// publishEvent emits a task lifecycle event. Publishing is best-effort:
// a broker failure is logged and never surfaced to the client.
func (s *TaskService) publishEvent(routingKey string, task *models.Task) {
	if s.publisher == nil {
		return
	}

	event := map[string]interface{}{
		"taskID":    task.ID,
		"ownerID":   task.OwnerID,
		"title":     task.Title,
		"completed": task.Completed,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event for task %s: %v", routingKey, task.ID, err)
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for task %s: %v", routingKey, task.ID, err)
		return
	}
	log.Printf("Published %s event for task %s", routingKey, task.ID)
}
