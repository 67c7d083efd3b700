package rest

import (
	"classpulse/internal/qrcode"
	"classpulse/internal/service"
	"classpulse/internal/transport/rest/handler"
	"classpulse/internal/transport/rest/middleware"
	"classpulse/internal/transport/ws"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Container holds all dependencies for the router
type Container struct {
	FlowService     *service.FlowService
	AuthService     *service.AuthService
	WSHub           *ws.Hub
	MetricsGatherer prometheus.Gatherer
	JoinLimiter     *middleware.RateLimiter
	AllowedOrigins  []string
	QRSize          int
	Logger          *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	qrSize := c.QRSize
	if qrSize <= 0 {
		qrSize = qrcode.DefaultSize
	}

	// Initialize handlers
	stateHandler := handler.NewStateHandler(c.FlowService)
	actionHandler := handler.NewActionHandler(c.FlowService, c.JoinLimiter)
	authHandler := handler.NewAuthHandler(c.AuthService, c.FlowService)
	sessionHandler := handler.NewSessionHandler(c.FlowService, qrSize)
	joinHandler := handler.NewJoinHandler(c.FlowService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware(c.AllowedOrigins))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	if c.MetricsGatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(c.MetricsGatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	// QR join links land here
	join := r.PathPrefix("/join").Subrouter()
	if c.JoinLimiter != nil {
		join.Use(c.JoinLimiter.Middleware)
	}
	join.HandleFunc("/{pin}", joinHandler.Join).Methods("GET", "OPTIONS")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/state", stateHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/history", stateHandler.History).Methods("GET", "OPTIONS")
	v1.HandleFunc("/auth/signin", authHandler.SignIn).Methods("POST", "OPTIONS")
	v1.Handle("/actions", authMW.Identify(http.HandlerFunc(actionHandler.Dispatch))).Methods("POST", "OPTIONS")

	if c.WSHub != nil {
		wsHandler := ws.NewHandler(c.WSHub, c.FlowService, c.AuthService, c.Logger)
		v1.HandleFunc("/ws", wsHandler.Serve).Methods("GET")
	}

	// Lecturer routes
	lecturerRoutes := v1.PathPrefix("/sessions").Subrouter()
	lecturerRoutes.Use(authMW.RequireLecturer)

	lecturerRoutes.HandleFunc("/{id}/insights", sessionHandler.Insights).Methods("GET", "OPTIONS")
	lecturerRoutes.HandleFunc("/{id}/share", sessionHandler.Share).Methods("GET", "OPTIONS")
	lecturerRoutes.HandleFunc("/{id}/qr.png", sessionHandler.QR).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(allowed []string) mux.MiddlewareFunc {
	origins := make(map[string]bool, len(allowed))
	wildcard := len(allowed) == 0
	for _, o := range allowed {
		if o == "*" {
			wildcard = true
		}
		origins[strings.TrimRight(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && origins[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
