package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"mindbloom/internal/analytics"
	"mindbloom/internal/training"
	"mindbloom/internal/wshub"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// userHeader carries the caller's user id on the training routes.
const userHeader = "X-User-ID"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	writeJSON(w, http.StatusOK, s.Engine.GetProgressAnalytics(r.Context(), userID))
}

func (s *Server) handleCachedProgress(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	writeJSON(w, http.StatusOK, s.Engine.GetCachedOrCalculate(r.Context(), userID))
}

func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	writeJSON(w, http.StatusOK, s.Engine.RecalculateAndCache(r.Context(), userID))
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	writeJSON(w, http.StatusOK, s.Engine.TodayPerformance(r.Context(), userID))
}

type completeRequest struct {
	ExerciseResults []analytics.ExerciseResult `json:"exerciseResults"`
}

func (s *Server) handleRecordExercise(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get(userHeader))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing "+userHeader+" header")
		return
	}

	var result analytics.ExerciseResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		writeError(w, http.StatusBadRequest, "invalid exercise result")
		return
	}
	if result.ExerciseID == "" {
		writeError(w, http.StatusBadRequest, "exerciseId is required")
		return
	}

	resp, err := s.Training.RecordExercise(r.Context(), userID, r.PathValue("sessionID"), result)
	if err != nil {
		s.writeTrainingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get(userHeader))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing "+userHeader+" header")
		return
	}

	var req completeRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid completion request")
			return
		}
	}

	resp, err := s.Training.CompleteSession(r.Context(), userID, r.PathValue("sessionID"), req.ExerciseResults)
	if err != nil {
		s.writeTrainingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeTrainingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analytics.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Training session not found")
	case errors.Is(err, analytics.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, training.ErrSessionComplete):
		writeError(w, http.StatusConflict, "Training session already completed")
	default:
		s.logger().Error("training request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// handleProgressSocket streams the user's progress projection: the current
// one on connect, then every recalculation.
func (s *Server) handleProgressSocket(w http.ResponseWriter, r *http.Request) {
	if s.Hub == nil {
		writeError(w, http.StatusServiceUnavailable, "live updates disabled")
		return
	}
	userID := r.PathValue("userID")

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger().Warn("websocket accept", "user_id", userID, "error", err)
		return
	}
	defer conn.CloseNow()

	client := &wshub.Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 16),
	}
	s.Hub.Register(client)
	defer s.Hub.Unregister(client)

	// Nothing is read from clients; CloseRead cancels ctx when they leave.
	ctx := conn.CloseRead(r.Context())

	current := s.Engine.GetCachedOrCalculate(ctx, userID)
	if data, err := json.Marshal(wshub.ServerMessage{Type: "progress", UserID: userID, Progress: &current}); err == nil {
		client.Send <- data
	}

	client.WritePump(ctx)
	conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "db_error",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
