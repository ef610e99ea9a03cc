package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/leapstack-labs/pbiassist/internal/dag"
	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
	"github.com/leapstack-labs/pbiassist/pkg/vpax"
)

// defaultUploadName is used for raw uploads without a file name.
const defaultUploadName = "upload.vpax"

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Error   string   `json:"error"`
	Hints   []string `json:"hints,omitempty"`
	Entries []string `json:"entries,omitempty"`
}

// UploadResponse describes a stored snapshot.
type UploadResponse struct {
	*Snapshot
	Summary []core.SummaryPair `json:"summary"`
	Score   int                `json:"score"`
	Totals  lint.Totals        `json:"totals"`
}

// AnalysisResponse is the body of GET /api/analysis.
type AnalysisResponse struct {
	SnapshotID string `json:"snapshotId"`
	Score      int    `json:"score"`
	*lint.AnalysisResult
	Failures []lint.Failure `json:"failures"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// current returns the snapshot or answers 404.
func (s *Server) current(w http.ResponseWriter) (*Snapshot, bool) {
	snap := s.session.Current()
	if snap == nil {
		writeError(w, http.StatusNotFound, "no model loaded; POST an export to /api/upload first")
		return nil, false
	}
	return snap, true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{"status": "ok"}
	if snap := s.session.Current(); snap != nil {
		resp["snapshotId"] = snap.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUpload accepts a multipart form with a "file" field or the raw export as body.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	name, raw, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds the limit of %d bytes", s.cfg.MaxUploadBytes))
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(raw) == 0 {
		writeError(w, http.StatusBadRequest, "empty upload")
		return
	}

	snap, err := s.Ingest(name, "upload", raw)
	if err != nil {
		var fe *vpax.FormatError
		if errors.As(err, &fe) {
			s.logger.Warn("rejected upload", "file", name, "reason", fe.Reason)
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:   err.Error(),
				Hints:   errors.GetAllHints(err),
				Entries: fe.Entries,
			})
			return
		}
		s.logger.Error("upload failed", "file", name, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{
		Snapshot: snap,
		Summary:  snap.Data.Summary.Pairs(),
		Score:    snap.Analysis.Score(),
		Totals:   snap.Analysis.Overall,
	})
}

func readUpload(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, fmt.Errorf("missing multipart field \"file\": %w", err)
		}
		defer func() { _ = file.Close() }()
		raw, err := io.ReadAll(file)
		if err != nil {
			return "", nil, err
		}
		return uploadName(header.Filename), raw, nil
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, err
	}
	name := r.Header.Get("X-File-Name")
	if name == "" {
		name = r.URL.Query().Get("name")
	}
	return uploadName(name), raw, nil
}

func uploadName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == "/" {
		return defaultUploadName
	}
	return name
}

func (s *Server) handleModel(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Data)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot": snap,
		"summary":  snap.Data.Summary.Pairs(),
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	failures := snap.Analysis.Failures()
	if failures == nil {
		failures = []lint.Failure{}
	}
	writeJSON(w, http.StatusOK, AnalysisResponse{
		SnapshotID:     snap.ID,
		Score:          snap.Analysis.Score(),
		AnalysisResult: snap.Analysis,
		Failures:       failures,
	})
}

// handleGraph serves the dependency graph. Query: format (json|dot|mermaid),
// object, depth, upstream, downstream.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	q := r.URL.Query()

	format := dag.FormatJSON
	if f := q.Get("format"); f != "" {
		var err error
		if format, err = dag.ParseFormat(f); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	graph := dag.BuildModelGraph(snap.Data)
	if object := q.Get("object"); object != "" {
		if _, found := graph.GetNode(object); !found {
			writeError(w, http.StatusNotFound, "object not found: "+object)
			return
		}
		depth, _ := strconv.Atoi(q.Get("depth"))
		graph = graph.Neighborhood(object, depth, queryBool(q.Get("upstream"), true), queryBool(q.Get("downstream"), true))
	}

	switch format {
	case dag.FormatJSON:
		writeJSON(w, http.StatusOK, graph.ToJSON())
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_ = graph.Write(w, format)
	}
}

func queryBool(v string, def bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, lint.AllRules())
}

// handleEvents streams snapshot ids as Server-Sent Events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "SSE not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(ch)

	current := ""
	if snap := s.session.Current(); snap != nil {
		current = snap.ID
	}
	_, _ = fmt.Fprintf(w, "event: connected\ndata: %s\n\n", current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case id := <-ch:
			_, _ = fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", id)
			flusher.Flush()
		}
	}
}
