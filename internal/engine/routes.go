package engine

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the query endpoints on the given router.
func RegisterRoutes(r chi.Router, e *Engine) {
	r.Post("/api/query", handleQuery(e))
	r.Delete("/api/conversation/{sessionID}", handleClearConversation(e))
	r.Get("/api/news/{topic}", handleTopicNews(e))
	r.Get("/api/query/ws", handleChatSocket(e))
}

type queryRequest struct {
	Query     string `json:"query"`
	Mode      Mode   `json:"mode"`
	SessionID string `json:"session_id"`
}

type queryResponse struct {
	Query       string   `json:"query"`
	Mode        Mode     `json:"mode"`
	SessionID   string   `json:"session_id"`
	Response    string   `json:"response"`
	Citations   []string `json:"citations,omitempty"`
	Suggestions []string `json:"follow_up_suggestions"`
}

func handleQuery(e *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Query == "" {
			writeError(w, http.StatusBadRequest, "query is required")
			return
		}
		if req.Mode == "" {
			req.Mode = ModeQuick
		}
		if req.Mode != ModeQuick && req.Mode != ModeDeep {
			writeError(w, http.StatusBadRequest, "mode must be \"quick\" or \"deep\"")
			return
		}

		answer, err := e.HandleQuery(r.Context(), req.Query, req.Mode, req.SessionID)
		if err != nil {
			log.Printf("engine: handle query: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to process query")
			return
		}

		writeJSON(w, http.StatusOK, queryResponse{
			Query:       req.Query,
			Mode:        req.Mode,
			SessionID:   answer.SessionID,
			Response:    answer.Answer,
			Citations:   answer.Citations,
			Suggestions: answer.Suggestions,
		})
	}
}

func handleClearConversation(e *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		if err := e.ClearSession(sessionID); err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{
					"error":      "conversation not found",
					"session_id": sessionID,
				})
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to clear conversation")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message":    "conversation cleared successfully",
			"session_id": sessionID,
		})
	}
}

func handleTopicNews(e *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topic := chi.URLParam(r, "topic")
		sessionID := r.URL.Query().Get("session_id")

		result, err := e.TopicNews(r.Context(), topic, sessionID)
		if err != nil {
			log.Printf("engine: topic news: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to fetch topic news")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"topic":                 result.Topic,
			"session_id":            result.SessionID,
			"response":              result.Answer,
			"citations":             result.Citations,
			"sentiment":             result.Sentiment,
			"follow_up_suggestions": result.Suggestions,
			"timestamp":             result.Timestamp,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
