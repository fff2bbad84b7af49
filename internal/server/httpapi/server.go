// Package httpapi exposes the REST surface of the task service: the auth
// endpoints, the task CRUD endpoints, and the embedded browser client.
package httpapi

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mlegrand/gotasks/internal/logging"
	"github.com/mlegrand/gotasks/internal/server/config"
	"github.com/mlegrand/gotasks/internal/server/models"
	"github.com/mlegrand/gotasks/internal/server/services"
	"github.com/mlegrand/gotasks/web"
)

// UserService is the slice of the user service the HTTP layer needs.
type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

// TaskService is the slice of the task service the HTTP layer needs.
type TaskService interface {
	List(ctx context.Context, userID int64) ([]*models.Task, error)
	Create(ctx context.Context, userID int64, in services.CreateTaskInput) (*models.Task, error)
	Update(ctx context.Context, userID, taskID int64, in services.UpdateTaskInput) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID int64) error
}

type Server struct {
	addr      string
	engine    *gin.Engine
	logger    logging.Logger
	users     UserService
	tasks     TaskService
	jwtSecret []byte
}

// NewServer builds the gin engine, middleware chain, and routes.
func NewServer(cfg *config.Config, l logging.Logger, us UserService, ts TaskService) (*Server, error) {
	s := &Server{
		addr:      cfg.Addr,
		logger:    l.With("module", "httpapi"),
		users:     us,
		tasks:     ts,
		jwtSecret: []byte(cfg.SecretKey),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())
	engine.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	if err := s.setupRoutes(engine); err != nil {
		return nil, err
	}

	s.engine = engine
	return s, nil
}

// Handler exposes the configured engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 1 && origins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	return c
}

func (s *Server) setupRoutes(engine *gin.Engine) error {
	engine.GET("/health", s.handleHealth)

	// Embedded single-page client.
	index, err := web.Assets.ReadFile("static/index.html")
	if err != nil {
		return err
	}
	static, err := fs.Sub(web.Assets, "static")
	if err != nil {
		return err
	}
	engine.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
	engine.StaticFS("/static", http.FS(static))

	api := engine.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", s.handleRegister)
			authRoutes.POST("/login", s.handleLogin)
		}

		taskRoutes := api.Group("/tasks")
		taskRoutes.Use(s.requireAuth())
		{
			taskRoutes.GET("", s.handleListTasks)
			taskRoutes.POST("", s.handleCreateTask)
			taskRoutes.PUT("/:id", s.handleUpdateTask)
			taskRoutes.DELETE("/:id", s.handleDeleteTask)
		}
	}

	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
