// Package api exposes the file-management service over HTTP.
package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PaulBabatuyi/FileVault-API/internal/observability"
	"github.com/PaulBabatuyi/FileVault-API/internal/service"
)

// StatusDB is the health/stats surface of the metadata store.
type StatusDB interface {
	IsAlive(ctx context.Context) bool
	CountUsers(ctx context.Context) (int64, error)
	CountFiles(ctx context.Context) (int64, error)
}

// Pinger is anything that can report liveness.
type Pinger interface {
	IsAlive(ctx context.Context) bool
}

type Server struct {
	auth    *service.AuthService
	users   *service.UserService
	files   *service.FileService
	db      StatusDB
	cache   Pinger
	metrics *observability.Metrics
	logger  *zap.Logger
	router  *gin.Engine
}

func NewServer(
	auth *service.AuthService,
	users *service.UserService,
	files *service.FileService,
	db StatusDB,
	cache Pinger,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Server {
	s := &Server{
		auth:    auth,
		users:   users,
		files:   files,
		db:      db,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	if metrics != nil {
		router.Use(RequestMetrics(metrics))
	}
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/status", s.getStatus)
	router.GET("/stats", s.getStats)

	router.POST("/users", s.postUsers)
	router.GET("/connect", s.getConnect)
	router.GET("/disconnect", s.getDisconnect)
	router.GET("/users/me", s.getMe)

	router.POST("/files", s.postFiles)
	router.GET("/files", s.getFiles)
	router.GET("/files/:id", s.getFile)
	router.PUT("/files/:id/publish", s.putPublish)
	router.PUT("/files/:id/unpublish", s.putUnpublish)
	router.GET("/files/:id/data", s.getFileData)

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	s.router = router
	return s
}

// Router exposes the handler tree to the http.Server in main and to
// tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
