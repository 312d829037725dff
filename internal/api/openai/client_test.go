package openai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
)

func TestClient_CreateImageEdit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/edits" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		for k, v := range map[string]string{"prompt": "add a hat", "model": "gpt-image-1", "n": "2", "size": "512x512"} {
			if got := r.FormValue(k); got != v {
				t.Errorf("field %s = %q, want %q", k, got, v)
			}
		}
		if _, ok := r.MultipartForm.Value["response_format"]; ok {
			t.Error("empty response_format should be omitted")
		}
		for name, want := range map[string]string{"image": "img", "mask": "msk"} {
			f, h, err := r.FormFile(name)
			if err != nil {
				t.Errorf("FormFile(%s): %v", name, err)
				continue
			}
			data, _ := io.ReadAll(f)
			f.Close()
			if string(data) != want || h.Header.Get("Content-Type") != "image/png" {
				t.Errorf("%s = %q (%s)", name, data, h.Header.Get("Content-Type"))
			}
		}
		w.Write([]byte(`{"created":1,"data":[{"b64_json":"aGk="},{"url":"https://img.example/2.png"}]}`))
	}))
	defer ts.Close()

	c := NewClient("sk-test", WithBaseURL(ts.URL+"/v1"))
	resp, err := c.CreateImageEdit(context.Background(), &ImageEditRequest{
		Image:  strings.NewReader("img"),
		Mask:   strings.NewReader("msk"),
		Prompt: "add a hat",
		Model:  "gpt-image-1",
		N:      2,
		Size:   "512x512",
	})
	if err != nil {
		t.Fatalf("CreateImageEdit() error = %v", err)
	}
	if len(resp.Data) != 2 || resp.Data[0].B64JSON != "aGk=" || resp.Data[1].URL == "" {
		t.Errorf("Data = %+v", resp.Data)
	}
}

func TestClient_CreateImageVariation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/variations" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		if r.FormValue("model") != "dall-e-2" {
			t.Errorf("model = %q", r.FormValue("model"))
		}
		if _, ok := r.MultipartForm.File["mask"]; ok {
			t.Error("variation must not send a mask")
		}
		w.Write([]byte(`{"data":[{"url":"https://img.example/v.png"}]}`))
	}))
	defer ts.Close()

	c := NewClient("k", WithBaseURL(ts.URL))
	resp, err := c.CreateImageVariation(context.Background(), &ImageVariationRequest{
		Image: strings.NewReader("img"),
		Model: "dall-e-2",
		N:     1,
		Size:  "1024x1024",
	})
	if err != nil {
		t.Fatalf("CreateImageVariation() error = %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("Data = %+v", resp.Data)
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{name: "openai error", body: `{"error":{"message":"Invalid image","type":"invalid_request_error","code":"invalid_image"}}`, wantMessage: "Invalid image (invalid_image)"},
		{name: "plain body", body: `upstream exploded`, wantMessage: "upstream exploded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := NewClient("k", WithBaseURL(ts.URL)).CreateImageVariation(context.Background(), &ImageVariationRequest{
				Image: strings.NewReader("img"),
			})
			if !domain.IsErrorType(err, domain.ErrorTypeUpstream) {
				t.Fatalf("error = %v, want upstream", err)
			}
			if !strings.Contains(err.Error(), tt.wantMessage) {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantMessage)
			}
		})
	}
}
