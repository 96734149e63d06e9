package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/logger"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Config *config.Config
	Log    *logger.Logger
}

func Init(cfg *config.Config, log *logger.Logger) (*Server, error) {
	db, err := repository.Open(cfg, log)
	if err != nil {
		return nil, err
	}

	redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient != nil {
		log.Infow("board_cache_enabled", "addr", cfg.RedisAddr, "ttl", cfg.BoardCacheTTL)
	}

	s := &Server{
		Engine: NewEngine(cfg, db, redisClient, log),
		DB:     db,
		Redis:  redisClient,
		Config: cfg,
		Log:    log,
	}
	return s, nil
}

// NewEngine wires repositories, handlers and routes onto a gin engine.
func NewEngine(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log.Named("http")))

	// Initialize repositories
	taskRepo := repository.NewTaskRepository(db, log.Named("tasks"))
	labelRepo := repository.NewLabelRepository(db)
	assigneeRepo := repository.NewAssigneeRepository(db)
	boardCache := cache.NewBoardCache(redisClient, cfg.BoardCacheTTL, log.Named("cache"))

	// Initialize handlers
	taskHandler := handler.NewTaskHandler(taskRepo, labelRepo, assigneeRepo, boardCache, log)
	labelHandler := handler.NewLabelHandler(labelRepo, boardCache, log)
	assigneeHandler := handler.NewAssigneeHandler(assigneeRepo, boardCache, log)

	// Public routes
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/")
	if cfg.AuthEnabled() {
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	} else {
		log.Warnw("auth_disabled", "reason", "JWT_SECRET is empty")
	}
	{
		// Task routes
		api.GET("/tasks", taskHandler.Board)
		api.POST("/tasks", taskHandler.Create)
		api.GET("/tasks/:id", taskHandler.GetByID)
		api.PATCH("/tasks/:id", taskHandler.Update)
		api.DELETE("/tasks/:id", taskHandler.Delete)
		api.POST("/tasks/:id/move", taskHandler.Move)
		api.GET("/tasks/:id/history", taskHandler.History)

		// Label routes
		api.GET("/labels", labelHandler.GetAll)
		api.POST("/labels", labelHandler.Create)

		// Assignee routes
		api.GET("/assignees", assigneeHandler.GetAll)
		api.POST("/assignees", assigneeHandler.Create)
	}
	return r
}

// Run serves until SIGINT or SIGTERM, then drains and closes the store.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log.Infow("server_listening", "port", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		s.close()
		return err
	case <-quit:
	}
	s.Log.Infow("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(ctx)
	s.close()
	if err != nil {
		return err
	}
	s.Log.Infow("server_stopped")
	return nil
}

func (s *Server) close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Log.Warnw("redis_close_failed", "error", err)
		}
	}
	if err := repository.Close(s.DB); err != nil {
		s.Log.Warnw("database_close_failed", "error", err)
	}
}
