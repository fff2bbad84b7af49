package httpapi

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mlegrand/gotasks/internal/logging"
	"github.com/mlegrand/gotasks/internal/server/config"
	"github.com/mlegrand/gotasks/internal/server/models"
	"github.com/mlegrand/gotasks/internal/server/services"
)

const testSecret = "test-secret"

// --- fakes ---

type fakeUserService struct {
	registerOut *models.User
	registerErr error

	loginUser  *models.User
	loginToken string
	loginErr   error
}

func (f *fakeUserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registerOut, nil
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	return f.loginUser, f.loginToken, nil
}

type fakeTaskService struct {
	listOut []*models.Task
	listErr error

	createOut *models.Task
	createErr error

	updateOut *models.Task
	updateErr error

	deleteErr error

	lastUserID int64
	lastTaskID int64
	lastCreate services.CreateTaskInput
	lastUpdate services.UpdateTaskInput
}

func (f *fakeTaskService) List(ctx context.Context, userID int64) ([]*models.Task, error) {
	f.lastUserID = userID
	return f.listOut, f.listErr
}

func (f *fakeTaskService) Create(ctx context.Context, userID int64, in services.CreateTaskInput) (*models.Task, error) {
	f.lastUserID = userID
	f.lastCreate = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeTaskService) Update(ctx context.Context, userID, taskID int64, in services.UpdateTaskInput) (*models.Task, error) {
	f.lastUserID = userID
	f.lastTaskID = taskID
	f.lastUpdate = in
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func (f *fakeTaskService) Delete(ctx context.Context, userID, taskID int64) error {
	f.lastUserID = userID
	f.lastTaskID = taskID
	return f.deleteErr
}

// --- helpers ---

func newTestServer(t *testing.T, us UserService, ts TaskService) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Addr:                  ":0",
		SecretKey:             testSecret,
		TokenValidityDuration: time.Hour,
		CORSAllowedOrigins:    []string{"*"},
	}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv, err := NewServer(cfg, logger, us, ts)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	return srv
}
