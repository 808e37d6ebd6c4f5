package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name. The cache layer
// increments it from its client hook so every Redis error path is covered.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cheapbite_redis_errors_total",
	Help: "Total number of Redis command errors by command",
}, []string{"command"})

// InitMetrics creates the Prometheus middleware for the given service name.
// The returned middleware exposes /metrics and records per-route latency and
// status counters.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware adapts the Prometheus middleware for app.Use.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
