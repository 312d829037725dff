package videos

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
	"github.com/tjfontaine/polyglot-media-gateway/internal/testutil"
)

func TestClient_Lifecycle(t *testing.T) {
	if os.Getenv("AIHUBMIX_API_KEY") == "" && os.Getenv("VCR_MODE") == "record" {
		t.Skip("Skipping test: AIHUBMIX_API_KEY not set")
	}

	recorder, cleanup := testutil.NewVCRRecorder(t, "videos_lifecycle")
	defer cleanup()

	apiKey := testutil.APIKey("AIHUBMIX_API_KEY")

	c := NewClient("https://aihubmix.com/v1", apiKey, WithHTTPClient(testutil.VCRHTTPClient(recorder)))

	created, err := c.Create(context.Background(), &CreateRequest{
		Model:   "sora-2",
		Prompt:  "a dog running",
		Seconds: 8,
		Size:    "16x9",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID != "video_68f2a1c9e4b08190" {
		t.Errorf("ID = %q", created.ID)
	}
	if created.Field("video_url") != "" {
		t.Errorf("queued task should not carry a url")
	}

	got, err := c.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != "succeeded" {
		t.Errorf("Status = %q, want succeeded", got.Status)
	}
	if !strings.HasSuffix(got.Field("video_url"), ".mp4") {
		t.Errorf("video_url = %q", got.VideoURL)
	}
	if got.EnhancedPrompt == "" {
		t.Error("EnhancedPrompt is empty")
	}
}

func TestClient_CreateForm(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/videos" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		want := map[string]string{
			"model":     "veo_3_1",
			"prompt":    "a dog running",
			"seconds":   "6",
			"size":      "9x16",
			"watermark": "false",
		}
		for k, v := range want {
			if got := r.FormValue(k); got != v {
				t.Errorf("field %s = %q, want %q", k, got, v)
			}
		}
		file, header, err := r.FormFile("input_reference")
		if err != nil {
			t.Errorf("input_reference: %v", err)
			return
		}
		defer file.Close()
		if header.Filename != "reference.png" || header.Header.Get("Content-Type") != "image/png" {
			t.Errorf("reference header = %v", header.Header)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "png-bytes" {
			t.Errorf("reference body = %q", data)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"task-1","status":"processing","url":"https://cdn.example/v.mp4"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL+"/v1/", "k")
	v, err := c.Create(context.Background(), &CreateRequest{
		Model:     "veo_3_1",
		Prompt:    "a dog running",
		Seconds:   6,
		Size:      "9x16",
		Reference: strings.NewReader("png-bytes"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if v.Field("url") != "https://cdn.example/v.mp4" {
		t.Errorf("url = %q", v.URL)
	}
}

func TestClient_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`task not found`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, "k").Get(context.Background(), "missing")
	if !domain.IsErrorType(err, domain.ErrorTypeUpstream) {
		t.Fatalf("Get() error = %v, want upstream", err)
	}
	if !strings.Contains(err.Error(), "API error: 404 - task not found") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestVideoError_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string", body: `{"id":"a","status":"failed","error":"content rejected"}`, want: "content rejected"},
		{name: "object", body: `{"id":"a","status":"failed","error":{"code":"moderation","message":"blocked"}}`, want: "blocked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			v, err := NewClient(ts.URL, "k").Get(context.Background(), "a")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if v.Error == nil || v.Error.Message != tt.want {
				t.Errorf("Error = %+v, want %q", v.Error, tt.want)
			}
		})
	}
}
