package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
	"github.com/tjfontaine/polyglot-media-gateway/internal/imaging"
	"github.com/tjfontaine/polyglot-media-gateway/internal/router"
	"github.com/tjfontaine/polyglot-media-gateway/internal/storage"
)

const transparentPromptSuffix = ". Pure solid green background (#00FF00), subject centered and fully visible against the green background."

var (
	dataURIPattern     = regexp.MustCompile(`data:image/[^;]+;base64,([A-Za-z0-9+/=]+)`)
	leadingTextPattern = regexp.MustCompile(`^([^!\[]*)`)
)

// imagePayload is one image as returned by any upstream shape.
type imagePayload struct {
	url           string
	b64           string
	revisedPrompt string
}

// GenerateImage creates images from a prompt. A failed primary model is
// retried once on FallbackImageModel.
func (s *Service) GenerateImage(ctx context.Context, req domain.ImageGenerateRequest) (res []domain.ImageResult, err error) {
	d := s.defaults.Image
	primary := firstNonEmpty(req.Model, d.Model, FallbackImageModel)
	ctx, span := s.startSpan(ctx, "image.generate",
		attribute.String("model", primary),
		attribute.Bool("transparent_background", req.TransparentBackground),
	)
	defer func() { endSpan(span, err) }()

	if err := requireField(req.Prompt, "prompt"); err != nil {
		return nil, err
	}

	p, err := s.providers.Resolve(domain.CapabilityImage, req.Provider)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("provider", p.Name))

	results, err := withFallback(ctx, s.logger, primary, func(ctx context.Context, model string) ([]domain.ImageResult, error) {
		return s.generateWithModel(ctx, p, req, model)
	})
	if err != nil {
		return nil, err
	}

	if req.TransparentBackground {
		if err := s.applyChromaKey(ctx, results); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (s *Service) generateWithModel(ctx context.Context, p *domain.Provider, req domain.ImageGenerateRequest, model string) ([]domain.ImageResult, error) {
	prompt := req.Prompt
	if req.TransparentBackground {
		prompt += transparentPromptSuffix
	}

	family := router.ClassifyImageModel(model)
	s.logger.Debug("generating image",
		slog.String("provider", p.Name),
		slog.String("model", model),
		slog.String("family", family.String()),
	)

	var (
		payloads []imagePayload
		err      error
	)
	switch family {
	case router.ImageFamilyChat:
		payloads, err = s.generateViaChat(ctx, p, model, prompt, req.Prompt)
	default:
		payloads, err = s.generateViaImages(ctx, p, req, model, prompt)
	}
	if err != nil {
		return nil, err
	}

	return s.saveImages(ctx, payloads)
}

func (s *Service) generateViaChat(ctx context.Context, p *domain.Provider, model, prompt, originalPrompt string) ([]imagePayload, error) {
	resp, err := s.openaiClient(p).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "Generate an image: " + prompt},
		},
	})
	if err != nil {
		return nil, upstreamError(p.Name, err)
	}

	var content string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	match := dataURIPattern.FindStringSubmatch(content)
	if match == nil {
		return nil, domain.ErrEmptyResponse(fmt.Sprintf("model %s returned no inline image", model)).WithProvider(p.Name)
	}

	revised := originalPrompt
	if m := leadingTextPattern.FindStringSubmatch(content); m != nil {
		if text := strings.TrimSpace(m[1]); text != "" {
			revised = text
		}
	}

	return []imagePayload{{b64: match[1], revisedPrompt: revised}}, nil
}

func (s *Service) generateViaImages(ctx context.Context, p *domain.Provider, req domain.ImageGenerateRequest, model, prompt string) ([]imagePayload, error) {
	d := s.defaults.Image
	resp, err := s.openaiClient(p).CreateImage(ctx, openai.ImageRequest{
		Prompt:  prompt,
		Model:   model,
		N:       firstPositive(req.N, 1),
		Size:    firstNonEmpty(req.Size, d.Size),
		Quality: firstNonEmpty(req.Quality, d.Quality),
		Style:   firstNonEmpty(req.Style, d.Style),
	})
	if err != nil {
		return nil, upstreamError(p.Name, err)
	}
	if len(resp.Data) == 0 {
		return nil, domain.ErrEmptyResponse(fmt.Sprintf("model %s returned no images", model)).WithProvider(p.Name)
	}

	payloads := make([]imagePayload, 0, len(resp.Data))
	for _, img := range resp.Data {
		payloads = append(payloads, imagePayload{url: img.URL, b64: img.B64JSON, revisedPrompt: img.RevisedPrompt})
	}
	return payloads, nil
}

// saveImages decodes inline payloads to files and keeps hosted URLs as is.
func (s *Service) saveImages(ctx context.Context, payloads []imagePayload) ([]domain.ImageResult, error) {
	results := make([]domain.ImageResult, 0, len(payloads))
	for _, pl := range payloads {
		res := domain.ImageResult{URL: pl.url, RevisedPrompt: pl.revisedPrompt}
		if pl.b64 != "" {
			data, err := base64.StdEncoding.DecodeString(pl.b64)
			if err != nil {
				return nil, domain.ErrUpstream(fmt.Sprintf("invalid base64 image payload: %v", err))
			}
			path, err := s.store.Save(ctx, s.defaults.Image.OutputDir, storage.KindImage, "png", data)
			if err != nil {
				return nil, fmt.Errorf("save image: %w", err)
			}
			res.FilePath = path
		}
		results = append(results, res)
	}
	return results, nil
}

// applyChromaKey replaces every saved file with its keyed sibling.
func (s *Service) applyChromaKey(ctx context.Context, results []domain.ImageResult) error {
	var (
		paths   []string
		indexes []int
	)
	for i, r := range results {
		if r.FilePath != "" {
			paths = append(paths, r.FilePath)
			indexes = append(indexes, i)
		}
	}
	if len(paths) == 0 {
		return nil
	}

	keyed, err := imaging.ChromaKeyFiles(ctx, s.store, paths)
	if err != nil {
		return fmt.Errorf("chroma key: %w", err)
	}
	for j, i := range indexes {
		results[i].FilePath = keyed[j]
	}
	return nil
}
