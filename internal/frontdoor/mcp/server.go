// Package mcp exposes the media service as a Model Context Protocol tool
// server. Each tool decodes its arguments into the matching domain request,
// dispatches to the service and renders the result as indented JSON text.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
	"github.com/tjfontaine/polyglot-media-gateway/internal/media"
)

// MediaService is the capability surface the tools dispatch to.
type MediaService interface {
	Speak(ctx context.Context, req domain.SpeechRequest) (*domain.SpeechResult, error)
	Transcribe(ctx context.Context, req domain.TranscriptionRequest) (*domain.TranscriptionResult, error)
	GenerateImage(ctx context.Context, req domain.ImageGenerateRequest) ([]domain.ImageResult, error)
	EditImage(ctx context.Context, req domain.ImageEditRequest) ([]domain.ImageResult, error)
	CreateImageVariation(ctx context.Context, req domain.ImageVariationRequest) ([]domain.ImageResult, error)
	GenerateVideo(ctx context.Context, req domain.VideoGenerateRequest) domain.VideoResult
	VideoStatus(ctx context.Context, req domain.VideoStatusRequest) domain.VideoStatusResult
	ConfigSummary() media.ConfigSummary
}

// Options configures the tool server.
type Options struct {
	Name    string
	Version string
	Logger  *slog.Logger
}

// imagesResult wraps image lists so every tool returns a JSON object.
type imagesResult struct {
	Images []domain.ImageResult `json:"images"`
}

// NewServer builds an MCP server with the full tool catalog bound to svc.
func NewServer(svc MediaService, opts Options) *mcpsdk.Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Name == "" {
		opts.Name = "polyglot-media-gateway"
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: opts.Name, Version: opts.Version},
		&mcpsdk.ServerOptions{Logger: opts.Logger})

	handlers := map[string]func(context.Context, json.RawMessage) (any, error){
		ToolTTSGenerate: bind(func(ctx context.Context, req domain.SpeechRequest) (any, error) {
			return svc.Speak(ctx, req)
		}),
		ToolWhisperTranscribe: bind(func(ctx context.Context, req domain.TranscriptionRequest) (any, error) {
			return svc.Transcribe(ctx, req)
		}),
		ToolImageGenerate: bind(func(ctx context.Context, req domain.ImageGenerateRequest) (any, error) {
			images, err := svc.GenerateImage(ctx, req)
			if err != nil {
				return nil, err
			}
			return imagesResult{Images: images}, nil
		}),
		ToolImageEdit: bind(func(ctx context.Context, req domain.ImageEditRequest) (any, error) {
			images, err := svc.EditImage(ctx, req)
			if err != nil {
				return nil, err
			}
			return imagesResult{Images: images}, nil
		}),
		ToolImageVariation: bind(func(ctx context.Context, req domain.ImageVariationRequest) (any, error) {
			images, err := svc.CreateImageVariation(ctx, req)
			if err != nil {
				return nil, err
			}
			return imagesResult{Images: images}, nil
		}),
		ToolVideoGenerate: bind(func(ctx context.Context, req domain.VideoGenerateRequest) (any, error) {
			return svc.GenerateVideo(ctx, req), nil
		}),
		ToolVideoStatus: bind(func(ctx context.Context, req domain.VideoStatusRequest) (any, error) {
			return svc.VideoStatus(ctx, req), nil
		}),
		ToolAIConfigQuery: func(context.Context, json.RawMessage) (any, error) {
			return svc.ConfigSummary(), nil
		},
	}

	for _, tool := range catalog {
		fn, ok := handlers[tool.Name]
		if !ok {
			panic(fmt.Sprintf("mcp: no handler for tool %q", tool.Name))
		}
		server.AddTool(tool, toolHandler(tool, fn, opts.Logger))
	}
	return server
}

// bind adapts a typed handler to raw JSON arguments.
func bind[T any](fn func(context.Context, T) (any, error)) func(context.Context, json.RawMessage) (any, error) {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var req T
		if len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, &req); err != nil {
				return nil, domain.ErrInvalidRequest(fmt.Sprintf("invalid arguments: %v", err))
			}
		}
		return fn(ctx, req)
	}
}

// toolHandler wraps fn with required-field checks, logging and panic
// recovery. Failures are reported as error results, never as protocol errors.
func toolHandler(tool *mcpsdk.Tool, fn func(context.Context, json.RawMessage) (any, error), logger *slog.Logger) mcpsdk.ToolHandler {
	required := requiredFields(tool)

	return func(ctx context.Context, req *mcpsdk.CallToolRequest) (result *mcpsdk.CallToolResult, _ error) {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("tool panicked",
					slog.String("tool", tool.Name),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
				result = errorResult(fmt.Errorf("internal error: %v", rec))
			}
		}()

		var raw json.RawMessage
		if req != nil && req.Params != nil {
			raw = req.Params.Arguments
		}

		if err := checkRequired(raw, required); err != nil {
			logger.Warn("tool rejected", slog.String("tool", tool.Name), slog.String("error", err.Error()))
			return errorResult(err), nil
		}

		out, err := fn(ctx, raw)
		if err != nil {
			logger.Warn("tool failed",
				slog.String("tool", tool.Name),
				slog.String("error", err.Error()),
				slog.Duration("duration", time.Since(start)),
			)
			return errorResult(err), nil
		}

		text, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return errorResult(fmt.Errorf("encode result: %w", err)), nil
		}

		logger.Info("tool completed",
			slog.String("tool", tool.Name),
			slog.Duration("duration", time.Since(start)),
		)
		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(text)}},
		}, nil
	}
}

// checkRequired reports the first required argument that is absent, null or
// an empty string.
func checkRequired(raw json.RawMessage, required []string) error {
	if len(required) == 0 {
		return nil
	}

	args := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return domain.ErrInvalidRequest(fmt.Sprintf("arguments must be an object: %v", err))
		}
	}

	for _, name := range required {
		v, ok := args[name]
		value := strings.TrimSpace(string(v))
		if !ok || value == "null" || value == `""` {
			return domain.ErrInvalidRequest(fmt.Sprintf("missing required argument %q", name))
		}
	}
	return nil
}

func errorResult(err error) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "Error: " + err.Error()}},
		IsError: true,
	}
}
