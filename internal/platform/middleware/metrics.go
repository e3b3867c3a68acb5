// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// # Prometheus Collectors

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lppm",
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lppm",
		Name:      "auth_attempts_total",
		Help:      "Authentication outcomes by kind (login, token).",
	}, []string{"kind", "outcome"})
)

// Metrics records request latency labelled by the matched chi route pattern,
// so ids in the path do not explode label cardinality.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()
			wrappedWriter := chimw.NewWrapResponseWriter(writer, request.ProtoMajor)

			next.ServeHTTP(wrappedWriter, request)

			route := "unmatched"
			if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
				if pattern := routeContext.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			status := wrappedWriter.Status()
			if status == 0 {
				status = http.StatusOK
			}

			httpRequestDuration.
				WithLabelValues(request.Method, route, strconv.Itoa(status)).
				Observe(time.Since(startTime).Seconds())
		})
	}
}

// RecordAuthAttempt counts one authentication outcome.
func RecordAuthAttempt(kind, outcome string) {
	authAttempts.WithLabelValues(kind, outcome).Inc()
}
