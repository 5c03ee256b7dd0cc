package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gambitproject/draw-tree/pkg/errors"
	"github.com/gambitproject/draw-tree/pkg/layout"
	"github.com/gambitproject/draw-tree/pkg/pipeline"
)

// renderRequest is the body of POST /render. Params fields left at
// zero fall back to the server defaults.
type renderRequest struct {
	Source  string         `json:"source"`
	Params  *layout.Params `json:"params,omitempty"`
	Formats []string       `json:"formats,omitempty"`
	DPI     int            `json:"dpi,omitempty"`
	Grid    bool           `json:"grid,omitempty"`
	Refresh bool           `json:"refresh,omitempty"`
}

// renderResponse carries the artifacts base64-encoded (encoding/json
// does that for []byte values) plus run metadata.
type renderResponse struct {
	TreeHash  string            `json:"tree_hash"`
	Artifacts map[string][]byte `json:"artifacts"`
	Stats     renderStats       `json:"stats"`
	Cache     cacheInfo         `json:"cache"`
}

type renderStats struct {
	NodeCount    int    `json:"node_count"`
	InfoSetCount int    `json:"info_set_count"`
	Widened      int    `json:"widened"`
	TotalTime    string `json:"total_time"`
}

type cacheInfo struct {
	LayoutHit   bool `json:"layout_hit"`
	ArtifactHit bool `json:"artifact_hit"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSourceBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to read request body"))
		return
	}

	var req renderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON request"))
		return
	}
	if req.Source == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "source is required"))
		return
	}

	opts := pipeline.Options{
		Source:  []byte(req.Source),
		Formats: req.Formats,
		DPI:     req.DPI,
		Grid:    req.Grid,
		Refresh: req.Refresh,
	}
	if req.Params != nil {
		opts.Params = *req.Params
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	total := result.Stats.ParseTime + result.Stats.LayoutTime +
		result.Stats.EmitTime + result.Stats.ArtifactTime
	s.writeJSON(w, http.StatusOK, renderResponse{
		TreeHash:  result.TreeHash,
		Artifacts: result.Artifacts,
		Stats: renderStats{
			NodeCount:    result.Stats.NodeCount,
			InfoSetCount: result.Stats.InfoSetCount,
			Widened:      result.Stats.Widened,
			TotalTime:    total.Round(time.Microsecond).String(),
		},
		Cache: cacheInfo{
			LayoutHit:   result.CacheInfo.LayoutHit,
			ArtifactHit: result.CacheInfo.ArtifactHit,
		},
	})
}
