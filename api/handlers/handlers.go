// Package handlers provides HTTP handlers for the sequencing import API.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robertftenbosch/tenbio/internal/construct"
	"github.com/robertftenbosch/tenbio/internal/reads"
	"github.com/robertftenbosch/tenbio/internal/verify"
)

// Handler serves the API routes backed by one Importer.
type Handler struct {
	Importer *verify.Importer
}

// New creates a Handler.
func New(im *verify.Importer) *Handler {
	return &Handler{Importer: im}
}

// Routes mounts the API under r, e.g. at /api/v1.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/import", func(r chi.Router) {
		r.Post("/sequencing", h.ImportSequencingHandler)
		r.Post("/inspect", h.InspectHandler)
	})

	r.Route("/alignment", func(r chi.Router) {
		r.Post("/construct", h.ConstructAlignHandler)
	})

	r.Route("/quality", func(r chi.Router) {
		r.Post("/parse", ParseQualityHandler)
		r.Post("/stats", QualityStatsHandler)
	})

	r.Post("/sequence/stats", SequenceStatsHandler)
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// writeError maps the import error taxonomy to 400 and anything else to 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reads.ErrUnsupportedFormat),
		errors.Is(err, reads.ErrMalformedRead),
		errors.Is(err, reads.ErrTooLarge),
		errors.Is(err, construct.ErrMalformedRequest):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("request failed: %v", err)
		writeDetail(w, http.StatusInternalServerError, "internal error")
	}
}
