package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mlegrand/gotasks/internal/common"
	"github.com/mlegrand/gotasks/internal/server/models"
	"github.com/mlegrand/gotasks/internal/server/services"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority"`
	Status      models.Status   `json:"status"`
}

type updateTaskRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Priority    *models.Priority `json:"priority"`
	Status      *models.Status   `json:"status"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	s.logger.Info(ctx, "register attempt",
		"email", req.Email, "ip", c.ClientIP(), "user_agent", c.Request.UserAgent())

	_, err := s.users.Register(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		case errors.Is(err, common.ErrorAlreadyExists):
			s.logger.Warn(ctx, "register failed",
				"email", req.Email, "reason", "email already in use",
				"ip", c.ClientIP(), "user_agent", c.Request.UserAgent())
			c.JSON(http.StatusBadRequest, gin.H{"message": "email already in use"})
		default:
			s.serverError(c, "register error", err)
		}
		return
	}

	s.logger.Info(ctx, "register success",
		"email", req.Email, "ip", c.ClientIP(), "user_agent", c.Request.UserAgent())
	c.JSON(http.StatusCreated, gin.H{"message": "user created"})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	s.logger.Info(ctx, "login attempt",
		"email", req.Email, "ip", c.ClientIP(), "user_agent", c.Request.UserAgent())

	user, token, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			// Same body for an unknown email and a wrong password.
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid credentials"})
			return
		}
		s.serverError(c, "login error", err)
		return
	}

	s.logger.Info(ctx, "login success", "email", user.Email, "ip", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse{ID: user.ID, Email: user.Email},
	})
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.tasks.List(c.Request.Context(), userIDFromContext(c))
	if err != nil {
		s.serverError(c, "task list error", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	task, err := s.tasks.Create(ctx, userIDFromContext(c), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": validationMessage(err)})
			return
		}
		s.serverError(c, "task create error", err)
		return
	}

	s.logger.Info(ctx, "task created",
		"task_id", task.ID, "ip", c.ClientIP(), "user_agent", c.Request.UserAgent())
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	task, err := s.tasks.Update(ctx, userIDFromContext(c), taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "task not found"})
		case errors.Is(err, common.ErrorValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": validationMessage(err)})
		default:
			s.serverError(c, "task update error", err)
		}
		return
	}

	s.logger.Info(ctx, "task updated",
		"task_id", task.ID, "ip", c.ClientIP(), "user_agent", c.Request.UserAgent())
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := s.tasks.Delete(ctx, userIDFromContext(c), taskID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "task not found"})
			return
		}
		s.serverError(c, "task delete error", err)
		return
	}

	s.logger.Warn(ctx, "task deleted",
		"task_id", taskID, "ip", c.ClientIP(), "user_agent", c.Request.UserAgent())
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// parseTaskID reads the :id route parameter. A non-numeric id cannot name an
// existing task, so it answers the same 404 as a missing one.
func parseTaskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "task not found"})
		return 0, false
	}
	return id, true
}

// validationMessage strips the sentinel prefix so clients get the human
// half of "validation error: title is required".
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
	if msg == "" {
		return common.ErrorValidation.Error()
	}
	return msg
}

// serverError answers a generic 500 and logs the failure with request
// metadata. No internal detail leaves the process.
func (s *Server) serverError(c *gin.Context, msg string, err error) {
	s.logger.Error(c.Request.Context(), msg,
		"error", err.Error(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"ip", c.ClientIP(),
		"user_agent", c.Request.UserAgent(),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
}
