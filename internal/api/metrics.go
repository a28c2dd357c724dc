package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meur/wishlist/internal/catalog"
)

type metrics struct {
	derivations *prometheus.CounterVec
	requests    *prometheus.HistogramVec
}

func newMetrics(reg *prometheus.Registry, store *catalog.Store) *metrics {
	m := &metrics{
		derivations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wishlist_derivations_total",
			Help: "Derived item lists served, by filter and sort.",
		}, []string{"filter", "sort"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wishlist_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
	reg.MustRegister(m.derivations, m.requests)

	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "wishlist_catalog_items",
		Help: "Items held by the catalog store.",
	}, func() float64 {
		return float64(len(store.Items()))
	}))
	for _, status := range []catalog.Status{catalog.StatusLoading, catalog.StatusReady, catalog.StatusFailed} {
		status := status
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "wishlist_catalog_status",
			Help:        "1 for the current catalog load state.",
			ConstLabels: prometheus.Labels{"status": string(status)},
		}, func() float64 {
			if store.Snapshot().Status == status {
				return 1
			}
			return 0
		}))
	}
	return m
}

func (m *metrics) handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
