package media

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tjfontaine/polyglot-media-gateway/internal/api/videos"
	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
	"github.com/tjfontaine/polyglot-media-gateway/internal/router"
)

const (
	defaultVideoSeconds = 8
	defaultVideoSize    = "16x9"
)

// GenerateVideo submits a video task. It never fails: errors are reported
// through the failed status of the result.
func (s *Service) GenerateVideo(ctx context.Context, req domain.VideoGenerateRequest) domain.VideoResult {
	ctx, span := s.startSpan(ctx, "video.generate")
	res, err := s.generateVideo(ctx, req)
	endSpan(span, err)

	if err != nil {
		s.logger.Warn("video generation failed",
			slog.String("provider", req.Provider),
			slog.String("model", req.Model),
			slog.String("error", err.Error()),
		)
		return domain.FailedVideo(err)
	}
	return res
}

func (s *Service) generateVideo(ctx context.Context, req domain.VideoGenerateRequest) (domain.VideoResult, error) {
	if err := requireField(req.Prompt, "prompt"); err != nil {
		return domain.VideoResult{}, err
	}

	p, err := s.providers.Resolve(domain.CapabilityVideo, req.Provider)
	if err != nil {
		return domain.VideoResult{}, err
	}

	d := s.defaults.Video
	model := firstNonEmpty(req.Model, d.Model, p.Models.Video[0])
	vendor := router.ClassifyVideoModel(model)

	var reference io.Reader
	if req.ReferenceImage != "" {
		rc, err := s.openInput(ctx, req.ReferenceImage)
		if err != nil {
			return domain.VideoResult{}, err
		}
		defer rc.Close()
		reference = rc
	}

	video, err := s.videosClient(p).Create(ctx, &videos.CreateRequest{
		Model:     model,
		Prompt:    req.Prompt,
		Seconds:   firstPositive(req.Duration, d.Duration, defaultVideoSeconds),
		Size:      firstNonEmpty(req.Size, defaultVideoSize),
		Reference: reference,
	})
	if err != nil {
		return domain.VideoResult{}, err
	}

	res := domain.VideoResult{
		URL:    video.Field(vendor.URLField()),
		TaskID: video.ID,
		Status: domain.VideoStatusProcessing,
	}
	if res.URL != "" {
		res.Status = domain.VideoStatusCompleted
	}

	s.logger.Info("video task submitted",
		slog.String("provider", p.Name),
		slog.String("model", model),
		slog.String("vendor", vendor.String()),
		slog.String("task_id", res.TaskID),
		slog.String("status", string(res.Status)),
	)
	return res, nil
}

// VideoStatus reports the state of a video task. Like GenerateVideo it
// never fails.
func (s *Service) VideoStatus(ctx context.Context, req domain.VideoStatusRequest) domain.VideoStatusResult {
	ctx, span := s.startSpan(ctx, "video.status", attribute.String("task_id", req.TaskID))
	res, err := s.videoStatus(ctx, req)
	endSpan(span, err)

	if err != nil {
		s.logger.Warn("video status query failed",
			slog.String("task_id", req.TaskID),
			slog.String("error", err.Error()),
		)
		return domain.FailedVideoStatus(req.TaskID, err)
	}
	return res
}

func (s *Service) videoStatus(ctx context.Context, req domain.VideoStatusRequest) (domain.VideoStatusResult, error) {
	if err := requireField(req.TaskID, "taskId"); err != nil {
		return domain.VideoStatusResult{}, err
	}

	p, err := s.providers.Resolve(domain.CapabilityVideo, req.Provider)
	if err != nil {
		return domain.VideoStatusResult{}, err
	}

	video, err := s.videosClient(p).Get(ctx, req.TaskID)
	if err != nil {
		return domain.VideoStatusResult{}, err
	}

	res := domain.VideoStatusResult{
		ID:             firstNonEmpty(video.ID, req.TaskID),
		Status:         domain.NormalizeVideoStatus(video.Status),
		URL:            video.VideoURL,
		EnhancedPrompt: video.EnhancedPrompt,
	}
	if video.Error != nil {
		res.Error = video.Error.Message
	}
	if res.Status == domain.VideoStatusFailed && res.Error == "" {
		res.Error = "video task failed"
	}
	return res, nil
}

func (s *Service) videosClient(p *domain.Provider) *videos.Client {
	return videos.NewClient(p.BaseURL, p.APIKey, videos.WithHTTPClient(s.httpClient))
}
