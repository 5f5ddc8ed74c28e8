// Package web serves the one-page soundboard front end. The server only
// hands out data: the configuration document and the referenced audio files.
// Playback (play/stop per button, stop-all) happens in the browser.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/L3GJ0N/audio-snippet-automation/domain/soundboard"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/logging"
)

//go:embed assets/index.html
var indexHTML []byte

// Server exposes a loaded soundboard configuration over HTTP.
type Server struct {
	cfg soundboard.Config
	log *logging.Logger
}

// NewServer wraps a validated configuration.
func NewServer(cfg soundboard.Config, log *logging.Logger) *Server {
	return &Server{cfg: cfg, log: log}
}

// Handler returns the route mux: the player page, the configuration
// document, and one audio endpoint per button index.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/audio/", s.handleAudio)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.cfg)
}

// handleAudio serves the file behind button n for /audio/{n}. Serving by
// index instead of path keeps the filesystem unexposed.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/audio/"))
	if err != nil || idx < 0 || idx >= len(s.cfg.Buttons) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, s.cfg.Buttons[idx].File)
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("soundboard available at http://%s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
