package media

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tjfontaine/polyglot-media-gateway/internal/api/minimax"
	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
	"github.com/tjfontaine/polyglot-media-gateway/internal/storage"
)

// Accepted ranges for voice settings.
var (
	speedRange = [2]float64{0.5, 2.0}
	volRange   = [2]float64{0.1, 10.0}
	pitchRange = [2]float64{-12, 12}
)

// Speak synthesizes text and writes the audio to the output directory.
func (s *Service) Speak(ctx context.Context, req domain.SpeechRequest) (res *domain.SpeechResult, err error) {
	d := s.defaults.Speech
	ctx, span := s.startSpan(ctx, "speech", attribute.String("model", d.Model))
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(req.Text) == "" {
		return nil, domain.ErrInvalidRequest("text is required")
	}

	speed, err := settingInRange("speed", req.Speed, d.Speed, speedRange)
	if err != nil {
		return nil, err
	}
	vol, err := settingInRange("vol", req.Vol, d.Vol, volRange)
	if err != nil {
		return nil, err
	}
	pitch, err := settingInRange("pitch", req.Pitch, d.Pitch, pitchRange)
	if err != nil {
		return nil, err
	}

	voiceID := firstNonEmpty(req.VoiceID, d.VoiceID)
	if id, ok := d.Voices[voiceID]; ok {
		voiceID = id
	}

	client := minimax.NewClient(d.APIKey, minimax.WithBaseURL(d.BaseURL), minimax.WithHTTPClient(s.httpClient))
	speech, err := client.Synthesize(ctx, &minimax.T2ARequest{
		Model: d.Model,
		Text:  req.Text,
		VoiceSetting: minimax.VoiceSetting{
			VoiceID: voiceID,
			Speed:   speed,
			Vol:     vol,
			Pitch:   pitch,
		},
		AudioSetting: minimax.AudioSetting{
			SampleRate: d.SampleRate,
			Bitrate:    d.Bitrate,
			Format:     d.Format,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}

	path, err := s.store.Save(ctx, firstNonEmpty(req.OutputDir, d.OutputDir), storage.KindSpeech, d.Format, speech.Audio)
	if err != nil {
		return nil, fmt.Errorf("save audio: %w", err)
	}

	s.logger.Info("speech generated",
		slog.String("voice_id", voiceID),
		slog.String("file", path),
		slog.Int64("duration_ms", speech.DurationMillis),
	)

	return &domain.SpeechResult{
		AudioFile: path,
		Duration:  float64(speech.DurationMillis) / 1000,
		VoiceID:   voiceID,
	}, nil
}

func settingInRange(name string, requested *float64, fallback float64, bounds [2]float64) (float64, error) {
	if requested == nil {
		return fallback, nil
	}
	v := *requested
	if v < bounds[0] || v > bounds[1] {
		return 0, domain.ErrInvalidRequest(fmt.Sprintf("%s must be between %g and %g, got %g", name, bounds[0], bounds[1], v))
	}
	return v, nil
}
