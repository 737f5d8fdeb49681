package services_test

import (
	"testing"
	"time"

	"taskman/internal/models"
	"taskman/internal/repositories"
	"taskman/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

func TestTaskService_CreateDefaults(t *testing.T) {
	repo := repositories.NewMockTaskRepository()
	publisher := new(MockEventPublisher)
	publisher.On("Publish", "task.created", mock.Anything).Return(nil).Once()
	service := services.NewTaskService(repo, publisher)

	task, err := service.Create("owner-1", "Buy groceries", "", "")
	assert.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Buy groceries", task.Title)
	assert.Equal(t, models.CategoryPersonal, task.Category)
	assert.False(t, task.Completed)
	assert.Equal(t, "owner-1", task.OwnerID)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	publisher.AssertExpectations(t)
}

func TestTaskService_CreateKeepsExplicitCategory(t *testing.T) {
	repo := repositories.NewMockTaskRepository()
	service := services.NewTaskService(repo, nil)

	task, err := service.Create("owner-1", "Quarterly report", "Numbers for Q3", models.CategoryWork)
	assert.NoError(t, err)
	assert.Equal(t, models.CategoryWork, task.Category)
	assert.Equal(t, "Numbers for Q3", task.Description)
}

func TestTaskService_ListOrdering(t *testing.T) {
	repo := repositories.NewMockTaskRepository()
	service := services.NewTaskService(repo, nil)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	older := &models.Task{Title: "older", OwnerID: "owner-1", CreatedAt: base.Add(-time.Hour)}
	tiedFirst := &models.Task{Title: "tied-first", OwnerID: "owner-1", CreatedAt: base}
	tiedSecond := &models.Task{Title: "tied-second", OwnerID: "owner-1", CreatedAt: base}
	assert.NoError(t, repo.Create(older))
	assert.NoError(t, repo.Create(tiedFirst))
	assert.NoError(t, repo.Create(tiedSecond))

	tasks, err := service.List("owner-1")
	assert.NoError(t, err)
	assert.Len(t, tasks, 3)
	// Newest first; identical timestamps fall back to insertion order.
	assert.Equal(t, "tied-first", tasks[0].Title)
	assert.Equal(t, "tied-second", tasks[1].Title)
	assert.Equal(t, "older", tasks[2].Title)
}

func TestTaskService_OwnershipScoping(t *testing.T) {
	repo := repositories.NewMockTaskRepository()
	service := services.NewTaskService(repo, nil)

	task, err := service.Create("owner-a", "Private task", "", "")
	assert.NoError(t, err)

	// Another user's view: the task might as well not exist.
	tasks, err := service.List("owner-b")
	assert.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = service.GetByID("owner-b", task.ID)
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	title := "hijacked"
	_, err = service.Update("owner-b", task.ID, models.TaskUpdate{Title: &title})
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	err = service.Delete("owner-b", task.ID)
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	// The owner still sees it, unchanged.
	got, err := service.GetByID("owner-a", task.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Private task", got.Title)
}

func TestTaskService_PartialUpdate(t *testing.T) {
	repo := repositories.NewMockTaskRepository()
	service := services.NewTaskService(repo, nil)

	task, err := service.Create("owner-1", "Buy groceries", "Milk and eggs", "")
	assert.NoError(t, err)

	category := models.CategoryShopping
	updated, err := service.Update("owner-1", task.ID, models.TaskUpdate{Category: &category})
	assert.NoError(t, err)

	// Only the category changed; everything else is preserved.
	assert.Equal(t, models.CategoryShopping, updated.Category)
	assert.Equal(t, "Buy groceries", updated.Title)
	assert.Equal(t, "Milk and eggs", updated.Description)
	assert.False(t, updated.Completed)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestTaskService_UpdateCompletedFlag(t *testing.T) {
	repo := repositories.NewMockTaskRepository()
	service := services.NewTaskService(repo, nil)

	task, err := service.Create("owner-1", "Buy groceries", "", "")
	assert.NoError(t, err)

	completed := true
	updated, err := service.Update("owner-1", task.ID, models.TaskUpdate{Completed: &completed})
	assert.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Buy groceries", updated.Title)
}

func TestTaskService_SetCompletedIdempotent(t *testing.T) {
	repo := repositories.NewMockTaskRepository()
	publisher := new(MockEventPublisher)
	publisher.On("Publish", "task.created", mock.Anything).Return(nil).Once()
	publisher.On("Publish", "task.completed", mock.Anything).Return(nil).Twice()
	service := services.NewTaskService(repo, publisher)

	task, err := service.Create("owner-1", "Buy groceries", "", "")
	assert.NoError(t, err)

	first, err := service.SetCompleted("owner-1", task.ID, true)
	assert.NoError(t, err)
	assert.True(t, first.Completed)

	// Repeating the identical call succeeds and leaves the same state.
	second, err := service.SetCompleted("owner-1", task.ID, true)
	assert.NoError(t, err)
	assert.True(t, second.Completed)
	assert.Equal(t, first.ID, second.ID)
	publisher.AssertExpectations(t)
}

func TestTaskService_Delete(t *testing.T) {
	repo := repositories.NewMockTaskRepository()
	publisher := new(MockEventPublisher)
	publisher.On("Publish", "task.created", mock.Anything).Return(nil).Once()
	publisher.On("Publish", "task.deleted", mock.Anything).Return(nil).Once()
	service := services.NewTaskService(repo, publisher)

	task, err := service.Create("owner-1", "Buy groceries", "", "")
	assert.NoError(t, err)

	assert.NoError(t, service.Delete("owner-1", task.ID))

	_, err = service.GetByID("owner-1", task.ID)
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	// Deleting again reports not found.
	assert.ErrorIs(t, service.Delete("owner-1", task.ID), services.ErrTaskNotFound)
	publisher.AssertExpectations(t)
}

func TestTaskService_PublishFailureDoesNotFailOperation(t *testing.T) {
	repo := repositories.NewMockTaskRepository()
	publisher := new(MockEventPublisher)
	publisher.On("Publish", "task.created", mock.Anything).Return(assert.AnError).Once()
	service := services.NewTaskService(repo, publisher)

	// Event publishing is best-effort: a broker failure never surfaces.
	task, err := service.Create("owner-1", "Buy groceries", "", "")
	assert.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	publisher.AssertExpectations(t)
}

func TestTaskService_RoundTrip(t *testing.T) {
	repo := repositories.NewMockTaskRepository()
	service := services.NewTaskService(repo, nil)

	created, err := service.Create("owner-1", "Buy groceries", "Milk and eggs", models.CategoryShopping)
	assert.NoError(t, err)

	got, err := service.GetByID("owner-1", created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Buy groceries", got.Title)
	assert.Equal(t, models.CategoryShopping, got.Category)
	assert.False(t, got.Completed)
}
