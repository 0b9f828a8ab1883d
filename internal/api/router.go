package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/habla-dev/habla/internal/websocket"
	"github.com/habla-dev/habla/pkg/logger"
)

// Router wires the API handlers, WebSocket server and static files together
type Router struct {
	handler       *Handler
	staticHandler *StaticFileHandler
	wsServer      *websocket.Server
	logger        *logger.Logger
}

// NewRouter creates a new router
func NewRouter(handler *Handler, staticDir string, wsServer *websocket.Server, log *logger.Logger) *Router {
	return &Router{
		handler:       handler,
		staticHandler: NewStaticFileHandler(staticDir, log),
		wsServer:      wsServer,
		logger:        log.Named("router"),
	}
}

// Routes returns the HTTP handler for the server
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/stats", rt.handler.GetStats)
	r.Post("/reset-stats", rt.handler.ResetStats)
	r.Post("/translate", rt.handler.Translate)
	r.Get("/api/history", rt.handler.GetHistory)

	if rt.wsServer != nil {
		r.Get("/ws", rt.wsServer.HandleConnection)
	}

	// Everything else is served from the static directory
	r.NotFound(rt.staticHandler.ServeHTTP)

	return r
}

// corsMiddleware allows cross-origin requests from local tooling
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
