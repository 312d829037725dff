package media

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tjfontaine/polyglot-media-gateway/internal/pkg/config"
	"github.com/tjfontaine/polyglot-media-gateway/internal/provider/registry"
	"github.com/tjfontaine/polyglot-media-gateway/internal/storage/memory"
)

func testDefaults(speechURL string) config.DefaultsConfig {
	return config.DefaultsConfig{
		Text: config.TextDefaults{Model: "gpt-4o-mini", Temperature: 0.7, MaxTokens: 4096},
		Transcription: config.TranscriptionDefaults{
			Model:          "whisper-1",
			ResponseFormat: "json",
		},
		Image: config.ImageDefaults{
			Model:     "gpt-image-1",
			Size:      "1024x1024",
			Quality:   "standard",
			OutputDir: "/out",
		},
		Video: config.VideoDefaults{Duration: 8},
		Speech: config.SpeechDefaults{
			APIKey:     "speech-secret",
			BaseURL:    speechURL,
			Model:      "speech-02-hd",
			VoiceID:    "male-qn-qingse",
			Speed:      1,
			Vol:        1,
			SampleRate: 32000,
			Bitrate:    128000,
			Format:     "mp3",
			OutputDir:  "/out",
			Voices:     map[string]string{"narrator": "male-qn-jingying"},
		},
	}
}

func testProviders(baseURL string) *registry.Registry {
	return registry.New(map[string]config.ProviderConfig{
		"hub": {
			Name:    "hub",
			BaseURL: baseURL,
			APIKey:  "sk-hub-secret",
			Models: config.ModelsConfig{
				Image: []string{"gpt-image-1"},
				Video: []string{"veo_3_1", "sora-2"},
			},
		},
		"bare": {
			Name:    "bare",
			BaseURL: baseURL,
		},
	}, "hub")
}

// newTestService wires a service to an httptest upstream and an in-memory store.
func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *memory.Store) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	store := memory.New()
	svc := NewService(testDefaults(ts.URL), testProviders(ts.URL),
		WithStore(store),
		WithHTTPClient(ts.Client()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return svc, store
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func openaiError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"message": msg, "type": "server_error"},
	})
}

// greenPNG is a 2x1 image: a keyed backdrop pixel and an opaque subject pixel.
func greenPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 0, color.RGBA{R: 200, G: 40, B: 40, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func greenPNGBase64(t *testing.T) string {
	return base64.StdEncoding.EncodeToString(greenPNG(t))
}

func TestConfigSummary(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected upstream call %s", r.URL.Path)
	})

	summary := svc.ConfigSummary()

	if summary.DefaultProvider != "hub" {
		t.Errorf("DefaultProvider = %q", summary.DefaultProvider)
	}
	if len(summary.Providers) != 2 || summary.Providers[0].Name != "bare" || summary.Providers[1].Name != "hub" {
		t.Fatalf("Providers = %+v", summary.Providers)
	}
	if summary.Providers[0].HasAPIKey || !summary.Providers[1].HasAPIKey {
		t.Errorf("HasAPIKey flags wrong: %+v", summary.Providers)
	}
	if !summary.Defaults.Speech.HasAPIKey {
		t.Error("speech HasAPIKey = false")
	}
	if got := summary.Defaults.Speech.Voices; len(got) != 1 || got[0] != "narrator" {
		t.Errorf("voices = %v", got)
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, secret := range []string{"sk-hub-secret", "speech-secret"} {
		if strings.Contains(string(raw), secret) {
			t.Errorf("summary leaks credential %q: %s", secret, raw)
		}
	}
	for _, key := range []string{`"hasApiKey":true`, `"baseUrl"`, `"whisper"`, `"maxTokens":4096`} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("summary missing %s: %s", key, raw)
		}
	}
}
