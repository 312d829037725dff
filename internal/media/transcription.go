package media

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
)

const (
	defaultTranscriptionModel = openai.Whisper1
	autoLanguage              = "auto"
)

// Transcribe converts the audio file at req.AudioFile to text.
func (s *Service) Transcribe(ctx context.Context, req domain.TranscriptionRequest) (res *domain.TranscriptionResult, err error) {
	d := s.defaults.Transcription
	model := firstNonEmpty(req.Model, d.Model, defaultTranscriptionModel)
	ctx, span := s.startSpan(ctx, "transcription", attribute.String("model", model))
	defer func() { endSpan(span, err) }()

	if err := requireField(req.AudioFile, "audioFile"); err != nil {
		return nil, err
	}

	p, err := s.providers.Resolve(domain.CapabilityTranscription, req.Provider)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("provider", p.Name))

	granularities := req.TimestampGranularities
	if len(granularities) == 0 {
		granularities = d.TimestampGranularities
	}
	format, timestamps := transcriptionFormat(firstNonEmpty(req.ResponseFormat, d.ResponseFormat), granularities)

	language := firstNonEmpty(req.Language, d.Language)
	if strings.EqualFold(language, autoLanguage) {
		language = ""
	}

	audio, err := s.store.Open(ctx, req.AudioFile)
	if err != nil {
		return nil, domain.ErrInvalidRequest(fmt.Sprintf("read audio file: %v", err))
	}
	defer audio.Close()

	resp, err := s.openaiClient(p).CreateTranscription(ctx, openai.AudioRequest{
		Model:                  model,
		FilePath:               req.AudioFile,
		Reader:                 audio,
		Prompt:                 req.Prompt,
		Language:               language,
		Format:                 format,
		TimestampGranularities: timestamps,
	})
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", upstreamError(p.Name, err))
	}

	s.logger.Info("audio transcribed",
		slog.String("provider", p.Name),
		slog.String("model", model),
		slog.String("format", string(format)),
	)

	return normalizeTranscription(format, resp), nil
}

// transcriptionFormat picks the response format. Word and segment timestamps
// are only returned in verbose_json, so requesting either forces it.
func transcriptionFormat(requested string, granularities []string) (openai.AudioResponseFormat, []openai.TranscriptionTimestampGranularity) {
	var timestamps []openai.TranscriptionTimestampGranularity
	for _, g := range granularities {
		tg := openai.TranscriptionTimestampGranularity(strings.ToLower(g))
		switch tg {
		case openai.TranscriptionTimestampGranularityWord, openai.TranscriptionTimestampGranularitySegment:
			if !slices.Contains(timestamps, tg) {
				timestamps = append(timestamps, tg)
			}
		}
	}
	if len(timestamps) > 0 {
		return openai.AudioResponseFormatVerboseJSON, timestamps
	}
	if requested == "" {
		return openai.AudioResponseFormatJSON, nil
	}
	return openai.AudioResponseFormat(requested), nil
}

func isTextFormat(f openai.AudioResponseFormat) bool {
	switch f {
	case openai.AudioResponseFormatText, openai.AudioResponseFormatSRT, openai.AudioResponseFormatVTT:
		return true
	default:
		return false
	}
}

// normalizeTranscription copies optional fields only when the vendor sent them.
func normalizeTranscription(format openai.AudioResponseFormat, resp openai.AudioResponse) *domain.TranscriptionResult {
	res := &domain.TranscriptionResult{Text: resp.Text}
	if isTextFormat(format) {
		return res
	}

	res.Language = resp.Language
	res.Duration = resp.Duration
	for _, w := range resp.Words {
		res.Words = append(res.Words, domain.TranscriptionWord{Word: w.Word, Start: w.Start, End: w.End})
	}
	for _, seg := range resp.Segments {
		res.Segments = append(res.Segments, domain.TranscriptionSegment{
			ID:    seg.ID,
			Text:  seg.Text,
			Start: seg.Start,
			End:   seg.End,
		})
	}
	return res
}
