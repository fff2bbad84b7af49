package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mlegrand/gotasks/internal/common"
	"github.com/mlegrand/gotasks/internal/server/models"
)

type fakeTasksRepo struct {
	byID map[int64]*models.Task

	listOut []*models.Task
	listErr error

	createErr error
	updateErr error
	deleteErr error

	updated []*models.Task
	deleted []int64
}

func newFakeTasksRepo(seed ...*models.Task) *fakeTasksRepo {
	f := &fakeTasksRepo{byID: map[int64]*models.Task{}}
	for _, task := range seed {
		f.byID[task.ID] = task
	}
	return f
}

func (f *fakeTasksRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	task.ID = int64(len(f.byID) + 1)
	task.CreatedAt = time.Now()
	f.byID[task.ID] = task
	return task, nil
}

func (f *fakeTasksRepo) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	task, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *task
	return &clone, nil
}

func (f *fakeTasksRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeTasksRepo) Update(ctx context.Context, task *models.Task) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[task.ID]; !ok {
		return common.ErrorNotFound
	}
	clone := *task
	f.byID[task.ID] = &clone
	f.updated = append(f.updated, &clone)
	return nil
}

func (f *fakeTasksRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func strPtr(s string) *string { return &s }
func prioPtr(p models.Priority) *models.Priority { return &p }
func statusPtr(s models.Status) *models.Status { return &s }

func newTaskService(t *testing.T, repo *fakeTasksRepo) *TaskService {
	t.Helper()
	db, mock := newSQLMockDB(t)
	// Update and Delete run inside a transaction; the fakes do the real work,
	// so the mock only has to tolerate begin/commit/rollback in any order.
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 4; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	return NewTaskService(db, &fakeRepoManager{tasks: repo})
}

func TestCreateTask_Defaults(t *testing.T) {
	repo := newFakeTasksRepo()
	svc := newTaskService(t, repo)

	task, err := svc.Create(context.Background(), 1, CreateTaskInput{Title: "X"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if task.Priority != models.PriorityMedium {
		t.Fatalf("default priority: got %q want MEDIUM", task.Priority)
	}
	if task.Status != models.StatusTodo {
		t.Fatalf("default status: got %q want TODO", task.Status)
	}
	if task.Description != "" {
		t.Fatalf("description should be empty, got %q", task.Description)
	}
	if task.UserID != 1 {
		t.Fatalf("owner must be the creator, got %d", task.UserID)
	}
}

func TestCreateTask_MissingTitle(t *testing.T) {
	svc := newTaskService(t, newFakeTasksRepo())

	_, err := svc.Create(context.Background(), 1, CreateTaskInput{})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected common.ErrorValidation, got %v", err)
	}
}

func TestCreateTask_UnknownEnumValues(t *testing.T) {
	svc := newTaskService(t, newFakeTasksRepo())

	_, err := svc.Create(context.Background(), 1, CreateTaskInput{Title: "X", Priority: "URGENT"})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("priority: expected common.ErrorValidation, got %v", err)
	}

	_, err = svc.Create(context.Background(), 1, CreateTaskInput{Title: "X", Status: "CANCELLED"})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("status: expected common.ErrorValidation, got %v", err)
	}
}

func TestUpdateTask_PartialPatchPreservesOtherFields(t *testing.T) {
	repo := newFakeTasksRepo(&models.Task{
		ID: 10, UserID: 1, Title: "Buy milk", Description: "2 liters",
		Priority: models.PriorityHigh, Status: models.StatusTodo,
	})
	svc := newTaskService(t, repo)

	updated, err := svc.Update(context.Background(), 1, 10, UpdateTaskInput{
		Status: statusPtr(models.StatusDone),
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Status != models.StatusDone {
		t.Fatalf("status not applied: %+v", updated)
	}
	if updated.Title != "Buy milk" || updated.Description != "2 liters" || updated.Priority != models.PriorityHigh {
		t.Fatalf("unpatched fields must be preserved: %+v", updated)
	}
}

func TestUpdateTask_EmptyTitleRejected(t *testing.T) {
	repo := newFakeTasksRepo(&models.Task{ID: 10, UserID: 1, Title: "Buy milk", Priority: models.PriorityMedium, Status: models.StatusTodo})
	svc := newTaskService(t, repo)

	_, err := svc.Update(context.Background(), 1, 10, UpdateTaskInput{Title: strPtr("")})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected common.ErrorValidation, got %v", err)
	}
}

func TestUpdateTask_ForeignOwnerLooksMissing(t *testing.T) {
	repo := newFakeTasksRepo(&models.Task{ID: 10, UserID: 2, Title: "Theirs", Priority: models.PriorityMedium, Status: models.StatusTodo})
	svc := newTaskService(t, repo)

	_, err := svc.Update(context.Background(), 1, 10, UpdateTaskInput{Title: strPtr("Mine now")})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound for foreign task, got %v", err)
	}
	if len(repo.updated) != 0 {
		t.Fatalf("foreign task must not be written")
	}
}

func TestUpdateTask_Missing(t *testing.T) {
	svc := newTaskService(t, newFakeTasksRepo())

	_, err := svc.Update(context.Background(), 1, 99, UpdateTaskInput{Priority: prioPtr(models.PriorityLow)})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestDeleteTask_OwnerOnly(t *testing.T) {
	repo := newFakeTasksRepo(&models.Task{ID: 10, UserID: 2, Title: "Theirs", Priority: models.PriorityMedium, Status: models.StatusTodo})
	svc := newTaskService(t, repo)

	err := svc.Delete(context.Background(), 1, 10)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound for foreign task, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("foreign task must not be deleted")
	}
}

func TestDeleteTask_TwiceSecondIsNotFound(t *testing.T) {
	repo := newFakeTasksRepo(&models.Task{ID: 10, UserID: 1, Title: "Mine", Priority: models.PriorityMedium, Status: models.StatusTodo})
	svc := newTaskService(t, repo)

	if err := svc.Delete(context.Background(), 1, 10); err != nil {
		t.Fatalf("first Delete error: %v", err)
	}
	if err := svc.Delete(context.Background(), 1, 10); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("second Delete: expected common.ErrorNotFound, got %v", err)
	}
}

func TestListTasks(t *testing.T) {
	repo := newFakeTasksRepo()
	repo.listOut = []*models.Task{
		{ID: 2, UserID: 1, Title: "Newer"},
		{ID: 1, UserID: 1, Title: "Older"},
	}
	svc := newTaskService(t, repo)

	got, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Newer" {
		t.Fatalf("unexpected list: %+v", got)
	}
}
