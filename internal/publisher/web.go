package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ryosukesatoh/narrative-radar/internal/radar"
)

// ReportPath is where WebPublisher serves the latest report.
const ReportPath = "/data/latest.json"

// WebPublisher serves the latest report as JSON over HTTP.
type WebPublisher struct {
	addr   string
	server *http.Server
	log    arbor.ILogger
	mu     sync.RWMutex
	latest []byte
}

func NewWebPublisher(addr string, log arbor.ILogger) *WebPublisher {
	wp := &WebPublisher{addr: addr, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+ReportPath, wp.handleReport)
	mux.HandleFunc("GET /healthz", wp.handleHealth)
	wp.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return wp
}

// Handler exposes the routes without starting a listener.
func (wp *WebPublisher) Handler() http.Handler {
	return wp.server.Handler
}

// Start begins serving HTTP in the background. Call Shutdown to stop.
func (wp *WebPublisher) Start() error {
	ln, err := net.Listen("tcp", wp.addr)
	if err != nil {
		return fmt.Errorf("web: failed to listen on %s: %w", wp.addr, err)
	}
	go func() {
		wp.log.Info().Str("addr", ln.Addr().String()).Msg("Web publisher listening")
		if err := wp.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			wp.log.Error().Err(err).Msg("Web publisher stopped")
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (wp *WebPublisher) Shutdown(ctx context.Context) error {
	return wp.server.Shutdown(ctx)
}

func (wp *WebPublisher) Publish(_ context.Context, report *radar.Report) error {
	data, err := json.MarshalIndent(report, "", encodeIndent)
	if err != nil {
		return fmt.Errorf("web: marshal report: %w", err)
	}
	wp.mu.Lock()
	wp.latest = data
	wp.mu.Unlock()
	wp.log.Debug().Str("generated_at", report.GeneratedAt).Msg("Web publisher updated")
	return nil
}

func (wp *WebPublisher) handleReport(w http.ResponseWriter, r *http.Request) {
	wp.mu.RLock()
	data := wp.latest
	wp.mu.RUnlock()

	w.Header().Set("Access-Control-Allow-Origin", "*")
	if data == nil {
		http.Error(w, "no report available yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}

func (wp *WebPublisher) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "ok")
}
