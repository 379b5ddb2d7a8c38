package conversation

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bookwise-ai/bookwise/pkg/logging"
)

// Handler exposes the conversation over HTTP. Session state lives in the
// store; the client only carries the session id between requests.
type Handler struct {
	orchestrator *Orchestrator
	sessions     *SessionStore
	logger       *logging.Logger
}

// NewHandler builds the chat handler.
func NewHandler(orchestrator *Orchestrator, sessions *SessionStore, logger *logging.Logger) *Handler {
	if orchestrator == nil {
		panic("conversation: orchestrator required")
	}
	if sessions == nil {
		panic("conversation: session store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{orchestrator: orchestrator, sessions: sessions, logger: logger}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Chat handles POST /chat: one user message in, one assistant reply out. A
// request without a session id starts a new session.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	ctx := r.Context()
	state, err := h.sessions.Load(ctx, req.SessionID)
	if err != nil {
		h.logger.Error("session load failed", "session_id", req.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	reply, state := h.orchestrator.HandleTurn(ctx, req.Message, state)

	if err := h.sessions.Save(ctx, req.SessionID, state); err != nil {
		// The reply is still useful; the session just loses this turn.
		h.logger.Error("session save failed", "session_id", req.SessionID, "error", err)
	}

	writeJSON(w, http.StatusOK, chatResponse{SessionID: req.SessionID, Reply: reply})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
