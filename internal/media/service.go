// Package media implements the capability adapters: each one resolves a
// provider, shapes the vendor request and normalizes the vendor response.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
	"github.com/tjfontaine/polyglot-media-gateway/internal/pkg/config"
	"github.com/tjfontaine/polyglot-media-gateway/internal/provider/registry"
	"github.com/tjfontaine/polyglot-media-gateway/internal/storage"
	"github.com/tjfontaine/polyglot-media-gateway/internal/storage/filesystem"
)

const tracerName = "github.com/tjfontaine/polyglot-media-gateway/internal/media"

// Service dispatches capability requests to configured providers.
type Service struct {
	defaults   config.DefaultsConfig
	providers  *registry.Registry
	store      storage.MediaStore
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option configures the service.
type Option func(*Service)

// WithHTTPClient sets the client used for every upstream call.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		s.httpClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithStore sets the media store.
func WithStore(st storage.MediaStore) Option {
	return func(s *Service) {
		s.store = st
	}
}

// NewService creates a service over the given defaults and providers.
func NewService(defaults config.DefaultsConfig, providers *registry.Registry, opts ...Option) *Service {
	s := &Service{
		defaults:  defaults,
		providers: providers,
		store:     filesystem.New(),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "media."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// openaiClient builds a go-openai client for an OpenAI-compatible provider.
func (s *Service) openaiClient(p *domain.Provider) *openai.Client {
	cfg := openai.DefaultConfig(p.APIKey)
	if p.BaseURL != "" {
		cfg.BaseURL = p.BaseURL
	}
	cfg.HTTPClient = s.httpClient
	return openai.NewClientWithConfig(cfg)
}

// upstreamError converts go-openai failures into canonical upstream errors.
func upstreamError(provider string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return domain.ErrUpstream(apiErr.Message).
			WithStatusCode(apiErr.HTTPStatusCode).
			WithProvider(provider)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := string(reqErr.Body)
		if msg == "" && reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return domain.ErrUpstream(msg).
			WithStatusCode(reqErr.HTTPStatusCode).
			WithProvider(provider)
	}
	var canonical *domain.APIError
	if errors.As(err, &canonical) {
		if canonical.Provider == "" {
			canonical.Provider = provider
		}
		return err
	}
	return domain.ErrUpstream(err.Error()).WithProvider(provider)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func requireField(value, name string) error {
	if value == "" {
		return domain.ErrInvalidRequest(fmt.Sprintf("%s is required", name))
	}
	return nil
}
