package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/robertftenbosch/tenbio/internal/construct"
	"github.com/robertftenbosch/tenbio/internal/sequence"
	"github.com/robertftenbosch/tenbio/internal/verify"
)

// ConstructAlignRequest represents a request to align a sequence against
// a construct.
type ConstructAlignRequest struct {
	Sequence string           `json:"sequence"`
	Parts    []construct.Part `json:"parts"`
}

// ConstructAlignResponse is the alignment result with the edit script and
// the aligned rows.
type ConstructAlignResponse struct {
	*verify.AlignmentResult
	Score        int    `json:"score"`
	CIGAR        string `json:"cigar"`
	AlignedQuery string `json:"aligned_query"`
	AlignedRef   string `json:"aligned_reference"`
}

// ConstructAlignHandler aligns a bare sequence against a list of parts.
func (h *Handler) ConstructAlignHandler(w http.ResponseWriter, r *http.Request) {
	var req ConstructAlignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	query, bad := sequence.Calls(req.Sequence)
	if bad >= 0 {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("sequence: invalid base '%c' at position %d", req.Sequence[bad], bad))
		return
	}

	if req.Parts == nil {
		req.Parts = []construct.Part{}
	}

	v, err := h.Importer.Verify(r.Context(), query, req.Parts)
	if err != nil {
		writeError(w, err)
		return
	}

	alignedQuery, alignedRef := v.Alignment.AlignedStrings()
	writeJSON(w, http.StatusOK, ConstructAlignResponse{
		AlignmentResult: v.Result,
		Score:           v.Alignment.Score,
		CIGAR:           v.Alignment.CIGAR(),
		AlignedQuery:    alignedQuery,
		AlignedRef:      alignedRef,
	})
}
