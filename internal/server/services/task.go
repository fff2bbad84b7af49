package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mlegrand/gotasks/internal/common"
	"github.com/mlegrand/gotasks/internal/dbx"
	"github.com/mlegrand/gotasks/internal/server/models"
	"github.com/mlegrand/gotasks/internal/server/repositories/repomanager"
)

// CreateTaskInput carries the fields a client may set when creating a task.
// Zero values for Priority and Status mean "use the default".
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.Priority
	Status      models.Status
}

// UpdateTaskInput is a partial patch: nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *models.Priority
	Status      *models.Status
}

// TaskService implements task CRUD scoped to the owning user.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTaskService constructs a TaskService.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// canAccess is the single ownership predicate guarding every read or mutation
// of an individual task. A missing task and a foreign owner are both denied,
// and both must surface to clients as "not found".
func canAccess(task *models.Task, userID int64) bool {
	return task != nil && task.UserID == userID
}

// List returns the user's tasks, newest first.
func (s *TaskService) List(ctx context.Context, userID int64) ([]*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	result, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return result, nil
}

// Create stores a new task owned by userID. Title is required; priority and
// status default to MEDIUM and TODO.
func (s *TaskService) Create(ctx context.Context, userID int64, in CreateTaskInput) (*models.Task, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	status := in.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", common.ErrorValidation, priority)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, status)
	}

	task := &models.Task{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		Status:      status,
	}

	repo := s.repomanager.Tasks(s.db)
	task, err := repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	return task, nil
}

// Update applies a partial patch to the user's task. The ownership check and
// the write run in one transaction; a missing or foreign task yields
// common.ErrorNotFound.
func (s *TaskService) Update(ctx context.Context, userID, taskID int64, in UpdateTaskInput) (*models.Task, error) {
	var updated *models.Task

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		task, err := repo.GetByID(ctx, taskID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error fetching task: %w", err)
		}
		if !canAccess(task, userID) {
			return common.ErrorNotFound
		}

		if err := applyPatch(task, in); err != nil {
			return err
		}

		if err := repo.Update(ctx, task); err != nil {
			return fmt.Errorf("error updating task: %w", err)
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the user's task. Deleting a missing or foreign task yields
// common.ErrorNotFound, so a second delete of the same id fails that way.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		task, err := repo.GetByID(ctx, taskID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error fetching task: %w", err)
		}
		if !canAccess(task, userID) {
			return common.ErrorNotFound
		}

		if err := repo.Delete(ctx, task.ID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error deleting task: %w", err)
		}
		return nil
	})
}

// applyPatch merges the provided fields into task. Unset fields keep their
// stored values. A provided-but-empty title is rejected; empty priority or
// status strings are treated as "keep current".
func applyPatch(task *models.Task, in UpdateTaskInput) error {
	if in.Title != nil {
		if *in.Title == "" {
			return fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
		}
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Priority != nil && *in.Priority != "" {
		if !in.Priority.Valid() {
			return fmt.Errorf("%w: unknown priority %q", common.ErrorValidation, *in.Priority)
		}
		task.Priority = *in.Priority
	}
	if in.Status != nil && *in.Status != "" {
		if !in.Status.Valid() {
			return fmt.Errorf("%w: unknown status %q", common.ErrorValidation, *in.Status)
		}
		task.Status = *in.Status
	}
	return nil
}
