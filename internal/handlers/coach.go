package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/lifeosapp/lifeos-api/internal/agent"
	"github.com/lifeosapp/lifeos-api/internal/services/ai"
	"github.com/lifeosapp/lifeos-api/internal/validation"
)

// CoachHandler is the gateway between clients and the coach model. It
// forwards the flattened context or chat history, decodes the model output
// and returns the contractual response shapes.
type CoachHandler struct {
	provider ai.CoachProvider
	logger   *zap.Logger
}

// NewCoachHandler creates a new coach handler
func NewCoachHandler(provider ai.CoachProvider, logger *zap.Logger) *CoachHandler {
	return &CoachHandler{provider: provider, logger: logger}
}

// RegisterRoutes registers coach routes
func (h *CoachHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/coach", h.Coach).Methods("POST")
}

// Coach handles POST /coach. Chat mode forwards the history and returns
// {"reply": ...}; every other mode runs the structured agent and returns the
// decoded response as-is. The gateway never trims or reorders what the model
// produced, even when it exceeds the instructed caps.
func (h *CoachHandler) Coach(w http.ResponseWriter, r *http.Request) {
	var req agent.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid or missing mode")
		return
	}

	ctx := r.Context()

	if req.Mode == agent.ModeChat {
		reply, err := h.provider.Chat(ctx, req.ChatHistory)
		if err != nil {
			h.logger.Error("coach_chat_failed", zap.Error(err))
			respondJSONError(w, http.StatusInternalServerError, "coach request failed")
			return
		}
		respondJSON(w, http.StatusOK, agent.ChatResponse{Reply: reply})
		return
	}

	resp, err := h.provider.RunAgent(ctx, &req)
	if err != nil {
		h.logger.Error("coach_agent_failed",
			zap.String("mode", string(req.Mode)),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "coach request failed")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
