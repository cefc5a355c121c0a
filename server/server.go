// Package server exposes segmentation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/teatak/tagseg/config"
	"github.com/teatak/tagseg/segmenter"
	"github.com/teatak/tagseg/session"
	"github.com/teatak/tagseg/vocab"
)

var mode string = gin.DebugMode

func init() {
	switch mode {
	case gin.DebugMode:
	case gin.ReleaseMode:
	case gin.TestMode:
	default:
		mode = gin.DebugMode
	}

	gin.SetMode(mode)
}

// Server routes requests to one segmenter per granularity. All segmenters
// share a session registry.
type Server struct {
	segmenters  map[session.Granularity]*segmenter.Segmenter
	defaultMode session.Granularity
	sessions    *session.Registry
}

// New creates a server over segs. The first segmenter's granularity answers
// requests that name none.
func New(sessions *session.Registry, segs ...*segmenter.Segmenter) (*Server, error) {
	if sessions == nil {
		return nil, errors.New("server: session registry is required")
	}
	if len(segs) == 0 {
		return nil, errors.New("server: at least one segmenter is required")
	}
	s := &Server{
		segmenters:  make(map[session.Granularity]*segmenter.Segmenter, len(segs)),
		defaultMode: segs[0].Granularity(),
		sessions:    sessions,
	}
	for _, seg := range segs {
		if _, ok := s.segmenters[seg.Granularity()]; ok {
			return nil, fmt.Errorf("server: duplicate segmenter for %s", seg.Granularity())
		}
		s.segmenters[seg.Granularity()] = seg
	}
	return s, nil
}

// FromConfig builds a server with a segmenter for every model in cfg. The
// vocabulary and lexicon are loaded once and shared, so user words reach
// every granularity.
func FromConfig(cfg *config.Config, userDicts []string) (*Server, error) {
	v, err := vocab.Load(cfg.Vocab)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	lex, err := segmenter.LoadLexicon(cfg, userDicts, nil)
	if err != nil {
		return nil, err
	}
	sessions := session.NewRegistry(session.FileLoader(cfg.Models, v, cfg.ONNXOptions()))

	// fine first so it becomes the default
	var segs []*segmenter.Segmenter
	for _, g := range session.Granularities() {
		if _, ok := cfg.Models[g]; !ok {
			continue
		}
		seg, err := segmenter.New(segmenter.Config{
			Granularity:     g,
			Sessions:        sessions,
			Vocab:           v,
			Lexicon:         lex,
			MaxBatchSize:    cfg.Limits.MaxBatchSize,
			MaxStringLength: cfg.Limits.MaxStringLength,
		})
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return New(sessions, segs...)
}

// GenerateRoutes builds the HTTP router.
func (s *Server) GenerateRoutes() http.Handler {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), requestID())

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "tagseg is running") })
	r.GET("/api/health", s.HealthHandler)

	r.POST("/api/cut", s.CutHandler)
	r.POST("/api/words", s.WordsHandler)
	r.PUT("/api/interference", s.SetInterferenceHandler)
	r.DELETE("/api/interference", s.ResetInterferenceHandler)

	return r
}

// Serve answers requests on ln until SIGINT or SIGTERM, then closes the
// loaded sessions.
func (s *Server) Serve(ln net.Listener) error {
	srvr := &http.Server{Handler: s.GenerateRoutes()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		srvr.Close()
	}()

	slog.Info("listening", "addr", ln.Addr().String(), "granularities", s.granularities())
	err := srvr.Serve(ln)
	if cerr := s.sessions.Close(); cerr != nil {
		slog.Warn("closing sessions", "error", cerr)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) granularities() []session.Granularity {
	var gs []session.Granularity
	for _, g := range session.Granularities() {
		if _, ok := s.segmenters[g]; ok {
			gs = append(gs, g)
		}
	}
	return gs
}
