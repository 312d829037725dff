package media

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FallbackImageModel is retried once when image generation on any other
// model fails.
const FallbackImageModel = "doubao-seedream-4-5-251128"

// withFallback runs attempt on primary and, if that fails and primary is not
// the fallback model, exactly once more on FallbackImageModel. The fallback
// error is returned as is.
func withFallback[T any](ctx context.Context, logger *slog.Logger, primary string, attempt func(context.Context, string) (T, error)) (T, error) {
	res, err := attempt(ctx, primary)
	if err == nil || primary == FallbackImageModel {
		return res, err
	}

	logger.Warn("image generation failed, retrying with fallback model",
		slog.String("model", primary),
		slog.String("fallback_model", FallbackImageModel),
		slog.String("error", err.Error()),
	)
	trace.SpanFromContext(ctx).AddEvent("fallback", trace.WithAttributes(
		attribute.String("model", primary),
		attribute.String("fallback_model", FallbackImageModel),
		attribute.String("error", err.Error()),
	))

	return attempt(ctx, FallbackImageModel)
}
