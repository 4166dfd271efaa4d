package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"timeline/internal/images"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(s.logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", s.rootHandler)

	api := r.Group(s.cfg.APIPrefix)
	{
		api.GET("/health", s.healthHandler)
		api.GET("/hello", s.helloHandler)
	}
	images.RegisterRoutes(api, s.images)

	return r
}

func (s *Server) rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to " + s.cfg.AppName,
		"version": s.cfg.AppVersion,
	})
}

// HelloResponse is the body of GET /hello. Name is null when no name was given.
type HelloResponse struct {
	Message string  `json:"message"`
	Name    *string `json:"name"`
}

func (s *Server) helloHandler(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusOK, HelloResponse{Message: "Hello! Welcome to " + s.cfg.AppName + "."})
		return
	}

	c.JSON(http.StatusOK, HelloResponse{
		Message: "Hello, " + name + "! Welcome to " + s.cfg.AppName + ".",
		Name:    &name,
	})
}

func (s *Server) healthHandler(c *gin.Context) {
	status := http.StatusOK
	response := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"version":   s.cfg.AppVersion,
	}

	dbHealth := s.db.Health()
	response["database"] = dbHealth
	if dbHealth["status"] != "up" {
		status = http.StatusServiceUnavailable
	}

	storageHealth := map[string]string{"status": "up"}
	if err := s.storage.Health(c.Request.Context()); err != nil {
		storageHealth["status"] = "down"
		storageHealth["error"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	response["storage"] = storageHealth

	if status != http.StatusOK {
		response["status"] = "unhealthy"
	}

	c.JSON(status, response)
}
