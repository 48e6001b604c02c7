// Package metrics exposes the service's Prometheus metrics on a dedicated
// listener. Counters themselves are registered where the work happens, via
// the VictoriaMetrics metrics package's default set.
package metrics

import (
	"context"
	"net/http"

	vmetrics "github.com/VictoriaMetrics/metrics"
)

// MetricsServer serves the Prometheus text exposition endpoint.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server listening on addr. An empty addr yields a
// server that is never started; callers guard ListenAndServe themselves.
func New(addr string) (*MetricsServer, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		vmetrics.WritePrometheus(w, true)
	})

	return &MetricsServer{
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}, nil
}

func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
