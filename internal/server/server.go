package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Angelo10101/newhouseit/config"
	"github.com/Angelo10101/newhouseit/internal/api"
	"github.com/Angelo10101/newhouseit/internal/router"
	"github.com/Angelo10101/newhouseit/internal/service"
)

// Server represents the HTTP server
type Server struct {
	cfg  *config.Config
	http *http.Server
}

// New wires the services and handlers and creates a server instance
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	authService := service.NewAuthService(db, cfg.JWTSecret)
	storeService := service.NewStoreService(db)
	llmService := service.NewGeminiService(cfg)
	paymentService := service.NewPaystackService(cfg)
	locationService := service.NewLocationService(cfg, redisClient)

	engine := router.SetupRouter(
		api.NewRecommendHandler(llmService),
		api.NewAuthHandler(authService),
		api.NewCartHandler(storeService),
		api.NewAddressHandler(storeService),
		api.NewProfileHandler(storeService),
		api.NewOrderHandler(storeService, paymentService, authService),
		api.NewLocationHandler(locationService),
		authService,
	)

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			Handler: engine,
		},
	}
}

// Start starts the server
func (s *Server) Start() error {
	log.Printf("Backend server running on http://%s", s.http.Addr)
	log.Printf("API Key configured: %v", s.cfg.GeminiAPIKey != "")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
