// Package telemetry sets up OpenTelemetry tracing for the HTTP server and the outbound
// catalog client.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Provider owns the tracer provider. A disabled Provider is valid and all its methods are no-ops.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// Init installs a global tracer provider exporting spans to stdout when telemetry is enabled.
func Init(cfg *config.TelemetryConfig) (*Provider, error) {
	return InitWithWriter(cfg, os.Stdout)
}

func InitWithWriter(cfg *config.TelemetryConfig, w io.Writer) (*Provider, error) {
	if !cfg.Enabled {
		logger.Info("Tracing disabled")
		return &Provider{}, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing enabled", map[string]interface{}{
		"service": cfg.ServiceName,
	})
	return &Provider{tp: tp}, nil
}

func (p *Provider) Enabled() bool {
	return p != nil && p.tp != nil
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	if err := p.tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	return nil
}

// WrapHandler traces every request except health and metrics scrapes.
func (p *Provider) WrapHandler(next http.Handler, serviceName string) http.Handler {
	if !p.Enabled() {
		return next
	}
	return otelhttp.NewHandler(next, serviceName,
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health" && r.URL.Path != "/metrics"
		}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method + " " + r.URL.Path
		}),
	)
}

// NewHTTPClient returns a client whose requests carry trace context when tracing is enabled.
func (p *Provider) NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport
	if p.Enabled() {
		transport = otelhttp.NewTransport(transport)
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}
