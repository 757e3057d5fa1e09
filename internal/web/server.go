// Package web serves the fan controller's status over HTTP.
package web

import (
	"context"
	"log"
	"net"
	"net/http"

	"github.com/sweeney/fan-controller/internal/status"
)

// Server serves the status page, the full status JSON and the queue
// occupancy. It only reads from the tracker.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
}

// New creates a Server that reads state from the given tracker.
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}

	mux := http.NewServeMux()
	mux.HandleFunc("/", getOnly(s.handlePage))
	mux.HandleFunc("/index.html", getOnly(s.handlePage))
	mux.HandleFunc("/index.json", getOnly(s.jsonHandler(status.FormatJSON)))
	mux.HandleFunc("/queue.json", getOnly(s.jsonHandler(status.FormatQueueJSON)))

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// getOnly rejects anything but GET and HEAD; the server has no writes.
func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		h(w, r)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	// "/" is a catch-all pattern.
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderHTML(w, s.tracker.Snapshot()); err != nil {
		log.Printf("web: render status page: %v", err)
	}
}

func (s *Server) jsonHandler(format func(status.Snapshot) []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(format(s.tracker.Snapshot())); err != nil {
			log.Printf("web: write %s: %v", r.URL.Path, err)
		}
	}
}
