package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/robertftenbosch/tenbio/internal/sequence"
	"github.com/robertftenbosch/tenbio/internal/stats"
)

// SequenceRequest represents a request with a sequence.
type SequenceRequest struct {
	Sequence string `json:"sequence"`
}

// SequenceStatsHandler reports base composition for a sequence.
func SequenceStatsHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seq, err := sequence.New(req.Sequence)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats.FromSequence(seq))
}
