package media

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"

	openaiapi "github.com/tjfontaine/polyglot-media-gateway/internal/api/openai"
	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
)

const (
	DefaultEditModel = "dall-e-2"
	DefaultEditSize  = "1024x1024"
)

// EditImage edits a source image guided by a prompt and optional mask.
func (s *Service) EditImage(ctx context.Context, req domain.ImageEditRequest) (res []domain.ImageResult, err error) {
	model := firstNonEmpty(req.Model, DefaultEditModel)
	ctx, span := s.startSpan(ctx, "image.edit", attribute.String("model", model))
	defer func() { endSpan(span, err) }()

	if err := requireField(req.Image, "image"); err != nil {
		return nil, err
	}
	if err := requireField(req.Prompt, "prompt"); err != nil {
		return nil, err
	}

	p, err := s.providers.Resolve(domain.CapabilityImage, req.Provider)
	if err != nil {
		return nil, err
	}

	image, err := s.openInput(ctx, req.Image)
	if err != nil {
		return nil, err
	}
	defer image.Close()

	var mask io.Reader
	if req.Mask != "" {
		m, err := s.openInput(ctx, req.Mask)
		if err != nil {
			return nil, err
		}
		defer m.Close()
		mask = m
	}

	resp, err := s.imagesClient(p).CreateImageEdit(ctx, &openaiapi.ImageEditRequest{
		Image:  image,
		Mask:   mask,
		Prompt: req.Prompt,
		Model:  model,
		N:      firstPositive(req.N, 1),
		Size:   firstNonEmpty(req.Size, DefaultEditSize),
	})
	if err != nil {
		return nil, fmt.Errorf("edit image: %w", upstreamError(p.Name, err))
	}

	return s.saveImages(ctx, editPayloads(resp))
}

// CreateImageVariation produces variations of a source image.
func (s *Service) CreateImageVariation(ctx context.Context, req domain.ImageVariationRequest) (res []domain.ImageResult, err error) {
	model := firstNonEmpty(req.Model, DefaultEditModel)
	ctx, span := s.startSpan(ctx, "image.variation", attribute.String("model", model))
	defer func() { endSpan(span, err) }()

	if err := requireField(req.Image, "image"); err != nil {
		return nil, err
	}

	p, err := s.providers.Resolve(domain.CapabilityImage, req.Provider)
	if err != nil {
		return nil, err
	}

	image, err := s.openInput(ctx, req.Image)
	if err != nil {
		return nil, err
	}
	defer image.Close()

	resp, err := s.imagesClient(p).CreateImageVariation(ctx, &openaiapi.ImageVariationRequest{
		Image: image,
		Model: model,
		N:     firstPositive(req.N, 1),
		Size:  firstNonEmpty(req.Size, DefaultEditSize),
	})
	if err != nil {
		return nil, fmt.Errorf("create image variation: %w", upstreamError(p.Name, err))
	}

	return s.saveImages(ctx, editPayloads(resp))
}

func (s *Service) imagesClient(p *domain.Provider) *openaiapi.Client {
	return openaiapi.NewClient(p.APIKey,
		openaiapi.WithBaseURL(p.BaseURL),
		openaiapi.WithHTTPClient(s.httpClient),
	)
}

func (s *Service) openInput(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := s.store.Open(ctx, path)
	if err != nil {
		return nil, domain.ErrInvalidRequest(fmt.Sprintf("read %s: %v", path, err))
	}
	return rc, nil
}

// editPayloads drops revised prompts, which edit and variation do not report.
func editPayloads(resp *openaiapi.ImageResponse) []imagePayload {
	payloads := make([]imagePayload, 0, len(resp.Data))
	for _, img := range resp.Data {
		payloads = append(payloads, imagePayload{url: img.URL, b64: img.B64JSON})
	}
	return payloads
}
