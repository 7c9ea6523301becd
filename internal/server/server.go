package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/foodies-app/backend/config"
	"github.com/foodies-app/backend/internal/api"
	"github.com/foodies-app/backend/internal/database"
	"github.com/foodies-app/backend/internal/middleware"
	"github.com/foodies-app/backend/internal/repository"
	"github.com/foodies-app/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New assembles the repository, services and routes into a server. The
// repository and services are constructed once here and passed by reference;
// redisClient and s3Config may be nil, which disables rate limiting and
// image upload respectively.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, s3Config *config.S3Config) *Server {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:          12 * time.Hour,
	}))
	router.Use(middleware.ErrorHandler())

	recipeRepo := repository.NewRecipeRepository(db)

	var images service.ImageStorage
	if s3Config != nil {
		images = service.NewImageService(s3Config)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db, recipeRepo)
	followService := service.NewFollowService(db, recipeRepo)
	userService := service.NewUserService(db, images)
	referenceService := service.NewReferenceService(db)

	var limiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewRecipeCreationRateLimiter(redisClient)
	}

	root := router.Group("/api")
	root.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.NewAuthHandler(authService).RegisterRoutes(root)
	api.NewRecipeHandler(recipeService, authService, images, limiter).RegisterRoutes(root)
	api.NewUserHandler(userService, authService, recipeService).RegisterRoutes(root)
	api.NewSocialHandler(followService, authService).RegisterRoutes(root)
	api.NewReferenceHandler(referenceService).RegisterRoutes(root)

	return &Server{
		router: router,
		db:     db,
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start(host, port string) error {
	s.http = &http.Server{
		Addr:    host + ":" + port,
		Handler: s.router,
	}
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes the connection pool.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			return err
		}
	}
	return database.Close(s.db)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
