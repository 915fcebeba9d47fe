package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/robertftenbosch/tenbio/internal/construct"
	"github.com/robertftenbosch/tenbio/internal/stats"
	"github.com/robertftenbosch/tenbio/internal/verify"
)

// Multipart field names.
const (
	FileField  = "file"
	PartsField = "pathway_parts_json"
)

// headroom for multipart boundaries and the parts field
const formOverhead = 1 << 20

// upload is a file read from a multipart request.
type upload struct {
	filename string
	content  []byte
}

// readUpload parses the multipart form and returns the file part. On
// failure it has already written the response.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (*upload, bool) {
	limit := h.Importer.Limits.MaxUploadBytes
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusBadRequest, tooLargeDetail(limit))
			return nil, false
		}
		writeDetail(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return nil, false
	}

	f, header, err := r.FormFile(FileField)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "field required: "+FileField)
		return nil, false
	}
	defer f.Close()

	if limit > 0 && header.Size > limit {
		writeDetail(w, http.StatusBadRequest, tooLargeDetail(limit))
		return nil, false
	}
	if header.Filename == "" {
		writeDetail(w, http.StatusBadRequest, "Filename is required")
		return nil, false
	}

	content, err := io.ReadAll(f)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return nil, false
	}

	return &upload{filename: header.Filename, content: content}, true
}

func tooLargeDetail(limit int64) string {
	return fmt.Sprintf("File too large. Maximum size is %dMB", limit>>20)
}

// ImportSequencingHandler decodes an uploaded FASTQ or AB1 file and, when
// pathway_parts_json is present, aligns the read against those parts.
func (h *Handler) ImportSequencingHandler(w http.ResponseWriter, r *http.Request) {
	up, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	req := verify.Request{Filename: up.filename, Content: up.content}

	if raw := r.FormValue(PartsField); strings.TrimSpace(raw) != "" {
		parts, err := construct.ParseJSON(strings.NewReader(raw))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid JSON in pathway_parts_json")
			return
		}
		if parts == nil {
			// a literal null still asks for alignment
			parts = []construct.Part{}
		}
		req.Parts = parts
	}

	resp, err := h.Importer.Import(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// InspectHandler decodes an uploaded file and reports read statistics.
func (h *Handler) InspectHandler(w http.ResponseWriter, r *http.Request) {
	up, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	decoded, err := h.Importer.Decode(up.filename, up.content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats.FromRead(decoded, stats.ReportOptions{}))
}
