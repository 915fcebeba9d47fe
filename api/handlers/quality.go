package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/robertftenbosch/tenbio/internal/quality"
)

// QualityRequest represents a quality parsing request.
type QualityRequest struct {
	Encoded string `json:"encoded"`
}

// QualityResponse represents the response for quality parsing.
type QualityResponse struct {
	Scores         []int          `json:"scores"`
	Length         int            `json:"length"`
	Stats          *quality.Stats `json:"stats"`
	LowQualityRuns []quality.Run  `json:"low_quality_runs"`
}

// ParseQualityHandler decodes a Phred+33 quality string.
func ParseQualityHandler(w http.ResponseWriter, r *http.Request) {
	var req QualityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	scores, err := quality.FromPhred33(req.Encoded)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, QualityResponse{
		Scores:         scores.Values,
		Length:         scores.Len(),
		Stats:          scores.Statistics(),
		LowQualityRuns: scores.LowQualityRuns(quality.QMedium, 5),
	})
}

// QualityStatsRequest represents a quality stats request.
type QualityStatsRequest struct {
	Scores []int `json:"scores"`
}

// QualityStatsHandler summarises raw scores.
func QualityStatsHandler(w http.ResponseWriter, r *http.Request) {
	var req QualityStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Scores) == 0 {
		writeDetail(w, http.StatusBadRequest, "scores array is required")
		return
	}

	scores, err := quality.New(req.Scores)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, scores.Statistics())
}
