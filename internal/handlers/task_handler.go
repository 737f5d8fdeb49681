package handlers

import (
	"errors"
	"log"

	"taskman/internal/models"
	"taskman/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// TaskHandler handles HTTP requests for tasks. All routes assume the auth
// middleware has already attached the authenticated user's ID.
type TaskHandler struct {
	taskService *services.TaskService
	validate    *validator.Validate
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the task routes with the Fiber app.
func (h *TaskHandler) RegisterRoutes(router fiber.Router) {
	taskRoutes := router.Group("/tasks")
	taskRoutes.Post("/", h.HandleCreateTask)
	taskRoutes.Get("/", h.HandleListTasks)
	taskRoutes.Get("/:id", h.HandleGetTaskByID)
	taskRoutes.Put("/:id/complete", h.HandleCompleteTask)
	taskRoutes.Put("/:id", h.HandleUpdateTask)
	taskRoutes.Delete("/:id", h.HandleDeleteTask)
}

// ownerID returns the authenticated user's ID set by the auth middleware.
func ownerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// taskID validates the :id path parameter. A malformed identifier is a
// 400, not a 404; only a well-formed ID reaches the store.
func taskID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func respondInvalidTaskID(c *fiber.Ctx) error {
	return respondValidationErrors(c, []FieldError{{Msg: "Invalid task ID", Path: "id"}})
}

func respondTaskNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Task not found",
	})
}

// CreateTaskRequest represents the request body for task creation.
type CreateTaskRequest struct {
	Title       string          `json:"title" validate:"required,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Category    models.Category `json:"category" validate:"omitempty,oneof=Personal Work Shopping Other"`
}

// HandleCreateTask creates a new task owned by the authenticated user.
func (h *TaskHandler) HandleCreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create task request body: %v", err)
		return respondBodyParseError(c, err)
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, fieldErrors(err))
	}

	task, err := h.taskService.Create(ownerID(c), req.Title, req.Description, req.Category)
	if err != nil {
		log.Printf("Error creating task: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

// HandleListTasks returns all tasks of the authenticated user, most
// recently created first.
func (h *TaskHandler) HandleListTasks(c *fiber.Ctx) error {
	tasks, err := h.taskService.List(ownerID(c))
	if err != nil {
		log.Printf("Error listing tasks: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
	return c.JSON(tasks)
}

// HandleGetTaskByID returns a single task by its ID.
func (h *TaskHandler) HandleGetTaskByID(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return respondInvalidTaskID(c)
	}

	task, err := h.taskService.GetByID(ownerID(c), id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return respondTaskNotFound(c)
		}
		log.Printf("Error getting task %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
	return c.JSON(task)
}

// HandleUpdateTask applies a partial update; omitted fields keep their
// stored values.
func (h *TaskHandler) HandleUpdateTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return respondInvalidTaskID(c)
	}

	var upd models.TaskUpdate
	if err := c.BodyParser(&upd); err != nil {
		log.Printf("Error parsing update task request body: %v", err)
		return respondBodyParseError(c, err)
	}

	if err := h.validate.Struct(upd); err != nil {
		return respondValidationErrors(c, fieldErrors(err))
	}

	task, err := h.taskService.Update(ownerID(c), id, upd)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return respondTaskNotFound(c)
		}
		log.Printf("Error updating task %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
	return c.JSON(task)
}

// CompleteTaskRequest represents the request body for the completion toggle.
type CompleteTaskRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// HandleCompleteTask sets the completion flag of a task.
func (h *TaskHandler) HandleCompleteTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return respondInvalidTaskID(c)
	}

	var req CompleteTaskRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing complete task request body: %v", err)
		return respondBodyParseError(c, err)
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, fieldErrors(err))
	}

	task, err := h.taskService.SetCompleted(ownerID(c), id, *req.Completed)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return respondTaskNotFound(c)
		}
		log.Printf("Error completing task %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
	return c.JSON(task)
}

// HandleDeleteTask removes a task and confirms the removal.
func (h *TaskHandler) HandleDeleteTask(c *fiber.Ctx) error {
	id, ok := taskID(c)
	if !ok {
		return respondInvalidTaskID(c)
	}

	if err := h.taskService.Delete(ownerID(c), id); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return respondTaskNotFound(c)
		}
		log.Printf("Error deleting task %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Task removed",
	})
}
