package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lifeosapp/lifeos-api/internal/database"
	"github.com/lifeosapp/lifeos-api/internal/models"
)

// DigestHandler serves stored retro digests produced by the worker
type DigestHandler struct {
	digestRepo *database.DigestRepository
}

// NewDigestHandler creates a new digest handler
func NewDigestHandler(digestRepo *database.DigestRepository) *DigestHandler {
	return &DigestHandler{digestRepo: digestRepo}
}

// RegisterRoutes registers digest routes on the given router.
// The router should already have the /digests prefix.
func (h *DigestHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListDigests).Methods("GET")
	r.HandleFunc("/latest", h.LatestDigest).Methods("GET")
}

// ListDigests lists stored digests, newest first
func (h *DigestHandler) ListDigests(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	digests, err := h.digestRepo.List(r.Context(), limit)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to retrieve digests")
		return
	}
	if digests == nil {
		digests = []*models.Digest{}
	}

	respondJSON(w, http.StatusOK, digests)
}

// LatestDigest returns the most recent digest
func (h *DigestHandler) LatestDigest(w http.ResponseWriter, r *http.Request) {
	digest, err := h.digestRepo.GetLatest(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "no digest available")
		return
	}

	respondJSON(w, http.StatusOK, digest)
}
