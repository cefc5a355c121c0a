package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teatak/tagseg/normalize"
	"github.com/teatak/tagseg/segmenter"
	"github.com/teatak/tagseg/session"
)

// CutRequest is the body of POST /api/cut. Input is a string or an array of
// strings.
type CutRequest struct {
	Input       any    `json:"input"`
	Granularity string `json:"granularity,omitempty"`
	Jobs        int    `json:"jobs,omitempty"`
}

type WordsRequest struct {
	Words []string `json:"words"`
}

type InterferenceRequest struct {
	Factor *float32 `json:"factor"`
}

type GranularityStatus struct {
	Name   session.Granularity `json:"name"`
	Loaded bool                `json:"loaded"`
}

type HealthResponse struct {
	Status        string              `json:"status"`
	Granularities []GranularityStatus `json:"granularities"`
}

// CutHandler answers {"words": [...]} for a string input and
// {"results": [[...], ...]} for an array, in input order.
func (s *Server) CutHandler(c *gin.Context) {
	var req CutRequest
	if !bindJSON(c, &req) {
		return
	}

	seg, ok := s.segmenter(c, req.Granularity)
	if !ok {
		return
	}

	in, err := segmenter.ParseInput(req.Input)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobs := req.Jobs
	if jobs == 0 {
		jobs = 1
	}

	res, err := seg.CutInput(in, jobs)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("cut failed", "id", c.GetString("request_id"), "granularity", seg.Granularity(), "error", err)
		}
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	if !in.IsBatch() {
		c.JSON(http.StatusOK, gin.H{"granularity": seg.Granularity(), "words": res.Words})
		return
	}
	if res.Batch == nil {
		res.Batch = [][]string{}
	}
	c.JSON(http.StatusOK, gin.H{"granularity": seg.Granularity(), "results": res.Batch})
}

// WordsHandler adds user words to every segmenter's lexicon.
func (s *Server) WordsHandler(c *gin.Context) {
	var req WordsRequest
	if !bindJSON(c, &req) {
		return
	}
	if len(req.Words) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "words are required"})
		return
	}

	for _, seg := range s.segmenters {
		seg.AddWords(req.Words...)
	}
	slog.Info("user words added", "count", len(req.Words))
	c.JSON(http.StatusOK, gin.H{"lexicon_size": s.segmenters[s.defaultMode].Lexicon().Len()})
}

func (s *Server) SetInterferenceHandler(c *gin.Context) {
	var req InterferenceRequest
	if !bindJSON(c, &req) {
		return
	}
	switch {
	case req.Factor == nil:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "factor is required"})
		return
	case *req.Factor < 0:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "factor must not be negative"})
		return
	}

	for _, seg := range s.segmenters {
		seg.SetInterferenceFactor(*req.Factor)
	}
	c.JSON(http.StatusOK, gin.H{"factor": *req.Factor})
}

func (s *Server) ResetInterferenceHandler(c *gin.Context) {
	for _, seg := range s.segmenters {
		seg.ResetInterferenceFactor()
	}
	c.JSON(http.StatusOK, gin.H{"factor": s.segmenters[s.defaultMode].Lexicon().InterferenceFactor()})
}

func (s *Server) HealthHandler(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}
	for _, g := range s.granularities() {
		resp.Granularities = append(resp.Granularities, GranularityStatus{Name: g, Loaded: s.sessions.Loaded(g)})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) segmenter(c *gin.Context, name string) (*segmenter.Segmenter, bool) {
	if name == "" {
		return s.segmenters[s.defaultMode], true
	}
	g, err := session.ParseGranularity(name)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	seg, ok := s.segmenters[g]
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "granularity not served: " + string(g)})
		return nil, false
	}
	return seg, true
}

func bindJSON(c *gin.Context, v any) bool {
	err := c.ShouldBindJSON(v)
	switch {
	case errors.Is(err, io.EOF):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing request body"})
		return false
	case err != nil:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// errorStatus maps caller mistakes to 400 and everything else to 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, segmenter.ErrUnsupportedInput),
		errors.Is(err, segmenter.ErrJobs),
		errors.Is(err, normalize.ErrZeroLength),
		errors.Is(err, normalize.ErrMaxLength),
		errors.Is(err, session.ErrGranularity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
