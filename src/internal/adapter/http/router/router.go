package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type TellerRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler, loginThrottle func(http.Handler) http.Handler)
}

func New(
	tellerController TellerRouteRegistrar,
	authMiddleware func(http.Handler) http.Handler,
	loginThrottle func(http.Handler) http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()
	registerOpsRoutes(mux)

	if tellerController != nil {
		tellerController.RegisterRoutes(mux, authMiddleware, loginThrottle)
	}

	return mux
}

// registerOpsRoutes exposes the unauthenticated operational endpoints.
func registerOpsRoutes(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}
