package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coachhub_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ReportsSubmitted counts feedback report submissions by type.
	ReportsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coachhub_reports_submitted_total",
		Help: "Total number of feedback reports submitted by type",
	}, []string{"type"})

	// NotificationFailures counts webhook notification delivery failures.
	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coachhub_notification_failures_total",
		Help: "Total number of failed webhook notification deliveries",
	})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
