// Package server is the transport adapter in front of the hub: it owns the
// WebSocket endpoint that translates wire frames to and from hub events,
// the small REST surface for introspection, and the embedded browser
// client. Hub correctness never depends on anything in this package.
package server

import (
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/corvino/roomcast/internal/hub"
	"github.com/corvino/roomcast/internal/web"
)

// Config holds the transport settings.
type Config struct {
	Addr string
	// AllowedOrigins restricts WebSocket handshakes to the listed Origin
	// header values. Empty allows any origin.
	AllowedOrigins []string
}

// New creates a configured HTTP server with all routes registered.
func New(h *hub.Hub, cfg Config) *http.Server {
	mux := http.NewServeMux()
	handlers := &Handlers{
		Hub:       h,
		StartTime: time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
	}

	// REST API routes.
	mux.HandleFunc("GET /api/health", handlers.Health)
	mux.HandleFunc("GET /api/rooms", handlers.ListRooms)
	mux.HandleFunc("GET /api/rooms/{room}/members", handlers.ListMembers)

	// WebSocket route.
	mux.HandleFunc("GET /ws/{room}", handlers.HandleWS)

	// Serve the embedded browser client (must be after API routes).
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		log.Fatalf("embedded static fs: %v", err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", noCacheHandler(http.FileServer(http.FS(staticFS)))))
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		data, err := web.StaticFS.ReadFile("static/index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	})

	handler := loggingMiddleware(corsMiddleware(mux))

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// originChecker builds the upgrader's CheckOrigin from the allowlist.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Non-browser clients send no Origin header.
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func noCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
