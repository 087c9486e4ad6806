package server

import (
	"modelcatalog/internal/metrics"

	"github.com/gin-gonic/gin"
)

func (s *Server) setupRoutes() {
	gin.SetMode(s.ginMode)
	s.router = gin.New()

	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(s.corsMiddleware())
	s.router.Use(s.maxBodySizeMiddleware())
	s.router.Use(s.rateLimitMiddleware())
	s.router.Use(s.requestIDMiddleware())

	// Public routes (no auth)
	s.router.GET("/", metrics.ShowStatsPage)
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/api/stats", s.getStatsData)

	// API routes (auth required)
	v1 := s.router.Group("/v1")
	v1.Use(s.authenticateClient)
	{
		v1.GET("/models", s.listModels)
	}

	api := s.router.Group("/api")
	api.Use(s.authenticateClient)
	{
		api.GET("/models", s.getModelsConfig)
		api.GET("/models/detailed", s.getDetailedModelsConfig)
	}
}
