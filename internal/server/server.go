package server

import (
	"context"
	"net/http"

	"mindbloom/internal/analytics"
	"mindbloom/internal/logger"
	"mindbloom/internal/training"
	"mindbloom/internal/wshub"
)

type Server struct {
	Engine   *analytics.Engine
	Training *training.Service
	Hub      *wshub.Hub
	Ping     func(ctx context.Context) error // nil when there is nothing to check
	Metrics  http.Handler                    // nil disables /metrics
	Log      *logger.Logger
}

// Handler returns the HTTP routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/progress/{userID}", s.handleProgress)
	mux.HandleFunc("GET /api/progress/{userID}/cached", s.handleCachedProgress)
	mux.HandleFunc("POST /api/progress/{userID}/recalculate", s.handleRecalculate)
	mux.HandleFunc("GET /api/progress/{userID}/today", s.handleToday)
	mux.HandleFunc("GET /api/progress/{userID}/ws", s.handleProgressSocket)
	mux.HandleFunc("POST /api/sessions/{sessionID}/results", s.handleRecordExercise)
	mux.HandleFunc("POST /api/sessions/{sessionID}/complete", s.handleCompleteSession)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics)
	}
	return s.withRequestID(mux)
}

func (s *Server) logger() *logger.Logger {
	if s.Log == nil {
		return logger.NewNop()
	}
	return s.Log
}
