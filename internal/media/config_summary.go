package media

import (
	"sort"

	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
)

// ConfigSummary is the credential-free view of the active configuration.
type ConfigSummary struct {
	Providers       []ProviderSummary `json:"providers"`
	DefaultProvider string            `json:"defaultProvider"`
	Defaults        DefaultsSummary   `json:"defaults"`
}

type ProviderSummary struct {
	Name      string                `json:"name"`
	BaseURL   string                `json:"baseUrl"`
	HasAPIKey bool                  `json:"hasApiKey"`
	Models    domain.ProviderModels `json:"models"`
}

type DefaultsSummary struct {
	Text    TextDefaultsSummary    `json:"text"`
	Whisper WhisperDefaultsSummary `json:"whisper"`
	Image   ImageDefaultsSummary   `json:"image"`
	Video   VideoDefaultsSummary   `json:"video"`
	Speech  SpeechDefaultsSummary  `json:"speech"`
}

type TextDefaultsSummary struct {
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens,omitempty"`
}

type WhisperDefaultsSummary struct {
	Model                  string   `json:"model,omitempty"`
	Language               string   `json:"language,omitempty"`
	ResponseFormat         string   `json:"responseFormat,omitempty"`
	TimestampGranularities []string `json:"timestampGranularities,omitempty"`
}

type ImageDefaultsSummary struct {
	Model   string `json:"model,omitempty"`
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
	Style   string `json:"style,omitempty"`
}

type VideoDefaultsSummary struct {
	Model    string `json:"model,omitempty"`
	Duration int    `json:"duration,omitempty"`
	FPS      int    `json:"fps,omitempty"`
}

type SpeechDefaultsSummary struct {
	Model     string   `json:"model,omitempty"`
	VoiceID   string   `json:"voiceId,omitempty"`
	Format    string   `json:"format,omitempty"`
	HasAPIKey bool     `json:"hasApiKey"`
	Voices    []string `json:"voices,omitempty"`
}

// ConfigSummary reports providers, model lists and defaults. Credentials
// are reduced to presence flags.
func (s *Service) ConfigSummary() ConfigSummary {
	summary := ConfigSummary{
		Providers:       []ProviderSummary{},
		DefaultProvider: s.providers.Default(),
	}
	for _, name := range s.providers.Names() {
		p, _ := s.providers.Get(name)
		summary.Providers = append(summary.Providers, ProviderSummary{
			Name:      p.Name,
			BaseURL:   p.BaseURL,
			HasAPIKey: p.APIKey != "",
			Models:    p.Models,
		})
	}

	d := s.defaults
	summary.Defaults = DefaultsSummary{
		Text: TextDefaultsSummary{
			Model:       d.Text.Model,
			Temperature: d.Text.Temperature,
			MaxTokens:   d.Text.MaxTokens,
		},
		Whisper: WhisperDefaultsSummary{
			Model:                  d.Transcription.Model,
			Language:               d.Transcription.Language,
			ResponseFormat:         d.Transcription.ResponseFormat,
			TimestampGranularities: d.Transcription.TimestampGranularities,
		},
		Image: ImageDefaultsSummary{
			Model:   d.Image.Model,
			Size:    d.Image.Size,
			Quality: d.Image.Quality,
			Style:   d.Image.Style,
		},
		Video: VideoDefaultsSummary{
			Model:    d.Video.Model,
			Duration: d.Video.Duration,
			FPS:      d.Video.FPS,
		},
		Speech: SpeechDefaultsSummary{
			Model:     d.Speech.Model,
			VoiceID:   d.Speech.VoiceID,
			Format:    d.Speech.Format,
			HasAPIKey: d.Speech.APIKey != "",
			Voices:    voiceNames(d.Speech.Voices),
		},
	}
	return summary
}

func voiceNames(voices map[string]string) []string {
	names := make([]string, 0, len(voices))
	for name := range voices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
