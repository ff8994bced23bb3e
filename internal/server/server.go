package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/omriShneor/calendrix/internal/assistant"
	"github.com/omriShneor/calendrix/internal/database"
)

type Server struct {
	db         *database.DB
	assistant  *assistant.Service
	calendarID string
	httpSrv    *http.Server
	port       int
	logger     *zap.Logger
}

// Config holds what the HTTP surface needs
type Config struct {
	DB         *database.DB
	Assistant  *assistant.Service
	CalendarID string
	Port       int
	Logger     *zap.Logger
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		db:         cfg.DB,
		assistant:  cfg.Assistant,
		calendarID: cfg.CalendarID,
		port:       cfg.Port,
		logger:     logger.Named("http"),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.corsMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", s.handleHealthCheck)
	mux.HandleFunc("GET /api/status", s.handleStatus)

	// Dialogue
	mux.HandleFunc("POST /api/start", s.handleStart)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/confirm", s.handleConfirm)

	// Bookings
	mux.HandleFunc("GET /api/bookings", s.handleListBookings)
	mux.HandleFunc("GET /api/bookings/{id}", s.handleGetBooking)
	mux.HandleFunc("GET /api/bookings/{id}/qr", s.handleBookingQR)
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", fmt.Sprintf("http://localhost:%d", s.port)))
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// corsMiddleware adds CORS headers so the web client can call the API from another origin
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
