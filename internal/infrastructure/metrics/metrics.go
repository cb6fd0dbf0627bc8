// Package metrics expone métricas Prometheus del servicio: peticiones HTTP y operaciones
// del backend de almacenamiento.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config etiquetas constantes de todas las series.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics registro propio y los instrumentos del servicio. Un *Metrics nil no registra nada.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge

	storageOps      *prometheus.CounterVec
	storageDuration *prometheus.HistogramVec
}

// New crea un registro independiente (no el global) con los colectores de proceso y de Go.
func New(cfg Config) *Metrics {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "estomatologia-api"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "estomatologia_http_requests_total",
				Help:        "Peticiones HTTP atendidas por ruta, método y código.",
				ConstLabels: constLabels,
			},
			[]string{"route", "method", "status_code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "estomatologia_http_request_duration_seconds",
				Help:        "Duración de las peticiones HTTP.",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"route", "method"},
		),
		httpInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "estomatologia_http_in_flight",
				Help:        "Peticiones HTTP en curso.",
				ConstLabels: constLabels,
			},
		),
		storageOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "estomatologia_storage_operations_total",
				Help:        "Operaciones del backend de almacenamiento por resultado.",
				ConstLabels: constLabels,
			},
			[]string{"driver", "op", "result"}, // ok | not_found | invalid | error
		),
		storageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "estomatologia_storage_operation_duration_seconds",
				Help:        "Duración de las operaciones del backend de almacenamiento.",
				Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
				ConstLabels: constLabels,
			},
			[]string{"driver", "op"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.httpInFlight,
		m.storageOps,
		m.storageDuration,
	)
	return m
}

// Registry registro con todas las series, para tests o para exponerlo en otro handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Middleware registra duración, código y peticiones en curso. La ruta es el patrón
// registrado (/submissions/:id), no la URL, para mantener baja la cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		m.httpInFlight.Inc()
		start := time.Now()
		err := c.Next()
		m.httpInFlight.Dec()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := normalizeRoute(c.Route().Path)
		method := c.Method()
		m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone el registro en formato de exposición Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry: m.registry,
	}))
}

// ObserveStorage registra una operación del backend.
func (m *Metrics) ObserveStorage(driver, op, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.storageOps.WithLabelValues(driver, op, result).Inc()
	m.storageDuration.WithLabelValues(driver, op).Observe(d.Seconds())
}

func normalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return "unknown"
	}
	return route
}
