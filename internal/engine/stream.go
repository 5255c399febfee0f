package engine

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type      string `json:"type"`       // "query"
	SessionID string `json:"session_id"` // empty for new sessions
	Content   string `json:"content"`
	Mode      Mode   `json:"mode"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type        string   `json:"type"` // "response" or "error"
	SessionID   string   `json:"session_id"`
	Content     string   `json:"content"`
	Citations   []string `json:"citations,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// handleChatSocket serves a long-lived conversational connection. One
// query is handled at a time; closing the connection cancels the in-flight
// fan-out through the request context.
func handleChatSocket(e *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("engine: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("engine: websocket read: %v", err)
				}
				return
			}

			var req chatRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				sendError(conn, "", "invalid message format")
				continue
			}

			if req.Content == "" {
				sendError(conn, req.SessionID, "content is required")
				continue
			}

			switch req.Type {
			case "query":
				answer, err := e.HandleQuery(r.Context(), req.Content, req.Mode, req.SessionID)
				if err != nil {
					sendError(conn, req.SessionID, "failed to process query")
					continue
				}
				sendResponse(conn, chatResponse{
					Type:        "response",
					SessionID:   answer.SessionID,
					Content:     answer.Answer,
					Citations:   answer.Citations,
					Suggestions: answer.Suggestions,
				})
			default:
				sendError(conn, req.SessionID, "unknown message type: "+req.Type)
			}
		}
	}
}

func sendResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("engine: websocket write: %v", err)
	}
}

func sendError(conn *websocket.Conn, sessionID, message string) {
	resp := chatResponse{
		Type:      "error",
		SessionID: sessionID,
		Content:   message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("engine: websocket write error: %v", err)
	}
}
