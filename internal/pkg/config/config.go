package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides. Nesting uses "__",
// so MEDIA_SERVER__PORT sets server.port.
const EnvPrefix = "MEDIA_"

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Config struct {
	Server          ServerConfig              `koanf:"server"`
	Telemetry       TelemetryConfig           `koanf:"telemetry"`
	DefaultProvider string                    `koanf:"default_provider"`
	Providers       map[string]ProviderConfig `koanf:"providers"`
	Defaults        DefaultsConfig            `koanf:"defaults"`
}

type ServerConfig struct {
	Transport string `koanf:"transport"` // stdio, http
	Port      int    `koanf:"port"`
	Path      string `koanf:"path"`
}

type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
}

type ProviderConfig struct {
	Name    string       `koanf:"name"`
	BaseURL string       `koanf:"base_url"`
	APIKey  string       `koanf:"api_key"`
	Models  ModelsConfig `koanf:"models"`
}

// ModelsConfig lists the model ids a provider serves per capability.
type ModelsConfig struct {
	Text          []string `koanf:"text"`
	Transcription []string `koanf:"transcription"`
	Image         []string `koanf:"image"`
	Video         []string `koanf:"video"`
}

type DefaultsConfig struct {
	Text          TextDefaults          `koanf:"text"`
	Transcription TranscriptionDefaults `koanf:"transcription"`
	Image         ImageDefaults         `koanf:"image"`
	Video         VideoDefaults         `koanf:"video"`
	Speech        SpeechDefaults        `koanf:"speech"`
}

// TextDefaults are not used by any capability; they are reported by the
// config query tool so callers can discover them.
type TextDefaults struct {
	Model            string  `koanf:"model"`
	Temperature      float64 `koanf:"temperature"`
	MaxTokens        int     `koanf:"max_tokens"`
	TopP             float64 `koanf:"top_p"`
	FrequencyPenalty float64 `koanf:"frequency_penalty"`
	PresencePenalty  float64 `koanf:"presence_penalty"`
}

type TranscriptionDefaults struct {
	Model                  string   `koanf:"model"`
	Language               string   `koanf:"language"`
	ResponseFormat         string   `koanf:"response_format"`
	TimestampGranularities []string `koanf:"timestamp_granularities"`
}

type ImageDefaults struct {
	Model     string `koanf:"model"`
	Size      string `koanf:"size"`
	Quality   string `koanf:"quality"`
	Style     string `koanf:"style"`
	OutputDir string `koanf:"output_dir"`
}

type VideoDefaults struct {
	Model    string `koanf:"model"`
	Duration int    `koanf:"duration"`
	FPS      int    `koanf:"fps"`
}

type SpeechDefaults struct {
	APIKey     string            `koanf:"api_key"`
	BaseURL    string            `koanf:"base_url"`
	Model      string            `koanf:"model"`
	VoiceID    string            `koanf:"voice_id"`
	Speed      float64           `koanf:"speed"`
	Vol        float64           `koanf:"vol"`
	Pitch      float64           `koanf:"pitch"`
	SampleRate int               `koanf:"sample_rate"`
	Bitrate    int               `koanf:"bitrate"`
	Format     string            `koanf:"format"`
	OutputDir  string            `koanf:"output_dir"`
	Voices     map[string]string `koanf:"voices"`
}

var defaults = map[string]any{
	"server.transport":            TransportStdio,
	"server.port":                 8080,
	"server.path":                 "/mcp",
	"telemetry.service_name":      "polyglot-media-gateway",
	"defaults.image.output_dir":   "/tmp",
	"defaults.video.duration":     8,
	"defaults.speech.base_url":    "https://api.minimax.chat/v1",
	"defaults.speech.model":       "speech-02-hd",
	"defaults.speech.voice_id":    "male-qn-qingse",
	"defaults.speech.speed":       1.0,
	"defaults.speech.vol":         1.0,
	"defaults.speech.sample_rate": 32000,
	"defaults.speech.bitrate":     128000,
	"defaults.speech.format":      "mp3",
	"defaults.speech.output_dir":  "/tmp",
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads the configuration document at path and overlays MEDIA_*
// environment variables. The file is required: it carries the provider
// registry.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s not found", path)
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	for name, p := range cfg.Providers {
		if p.Name == "" {
			p.Name = name
		}
		p.APIKey = substituteEnvVars(p.APIKey)
		p.BaseURL = strings.TrimRight(substituteEnvVars(p.BaseURL), "/")
		cfg.Providers[name] = p
	}
	cfg.Defaults.Speech.APIKey = substituteEnvVars(cfg.Defaults.Speech.APIKey)
	cfg.Defaults.Speech.BaseURL = strings.TrimRight(substituteEnvVars(cfg.Defaults.Speech.BaseURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cross-field constraints koanf cannot express.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("server.transport: unknown transport %q", c.Server.Transport)
	}
	if c.DefaultProvider != "" {
		if _, ok := c.Providers[c.DefaultProvider]; !ok {
			return fmt.Errorf("default_provider %q is not a configured provider", c.DefaultProvider)
		}
	}
	return nil
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
