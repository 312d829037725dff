package media

import (
	"context"
	"io"
	"net/http"
	"slices"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
)

type transcriptionCall struct {
	model         string
	format        string
	language      string
	granularities []string
	filename      string
	audio         string
}

func transcriptionUpstream(t *testing.T, calls *[]transcriptionCall, respond func(w http.ResponseWriter, format string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		call := transcriptionCall{
			model:         r.FormValue("model"),
			format:        r.FormValue("response_format"),
			language:      r.FormValue("language"),
			granularities: r.MultipartForm.Value["timestamp_granularities[]"],
		}
		if _, has := r.MultipartForm.Value["language"]; has && call.language == "" {
			t.Error("empty language field sent")
		}
		if f, hdr, err := r.FormFile("file"); err == nil {
			data, _ := io.ReadAll(f)
			call.filename = hdr.Filename
			call.audio = string(data)
		}
		*calls = append(*calls, call)
		respond(w, call.format)
	}
}

func TestTranscribeVerbose(t *testing.T) {
	var calls []transcriptionCall
	svc, store := newTestService(t, transcriptionUpstream(t, &calls, func(w http.ResponseWriter, format string) {
		writeJSON(w, http.StatusOK, map[string]any{
			"task":     "transcribe",
			"language": "english",
			"duration": 1.5,
			"text":     "hi there",
			"words":    []map[string]any{{"word": "hi", "start": 0, "end": 0.4}},
			"segments": []map[string]any{{"id": 0, "text": "hi there", "start": 0, "end": 1.5}},
		})
	}))
	ctx := context.Background()
	if err := store.Write(ctx, "/in/clip.mp3", []byte("RIFF")); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Transcribe(ctx, domain.TranscriptionRequest{
		AudioFile:              "/in/clip.mp3",
		Language:               "AUTO",
		ResponseFormat:         "json",
		TimestampGranularities: []string{"word", "segment", "word"},
	})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	call := calls[0]
	if call.format != "verbose_json" {
		t.Errorf("response_format = %q, want verbose_json", call.format)
	}
	if !slices.Equal(call.granularities, []string{"word", "segment"}) {
		t.Errorf("granularities = %v", call.granularities)
	}
	if call.language != "" {
		t.Errorf("language = %q, want omitted", call.language)
	}
	if call.model != "whisper-1" || call.filename != "clip.mp3" || call.audio != "RIFF" {
		t.Errorf("call = %+v", call)
	}

	if res.Text != "hi there" || res.Language != "english" || res.Duration != 1.5 {
		t.Errorf("result = %+v", res)
	}
	if len(res.Words) != 1 || res.Words[0].Word != "hi" || res.Words[0].End != 0.4 {
		t.Errorf("words = %+v", res.Words)
	}
	if len(res.Segments) != 1 || res.Segments[0].Text != "hi there" {
		t.Errorf("segments = %+v", res.Segments)
	}
}

func TestTranscribeTextFormat(t *testing.T) {
	var calls []transcriptionCall
	svc, store := newTestService(t, transcriptionUpstream(t, &calls, func(w http.ResponseWriter, format string) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "plain words")
	}))
	ctx := context.Background()
	store.Write(ctx, "/in/clip.wav", []byte("wav"))

	res, err := svc.Transcribe(ctx, domain.TranscriptionRequest{
		AudioFile:      "/in/clip.wav",
		Language:       "fr",
		ResponseFormat: "text",
	})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if res.Text != "plain words" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Language != "" || res.Duration != 0 || res.Words != nil || res.Segments != nil {
		t.Errorf("text format carried extra fields: %+v", res)
	}
	if calls[0].format != "text" || calls[0].language != "fr" {
		t.Errorf("call = %+v", calls[0])
	}
}

func TestTranscriptionFormat(t *testing.T) {
	tests := []struct {
		name          string
		requested     string
		granularities []string
		wantFormat    openai.AudioResponseFormat
		wantCount     int
	}{
		{name: "default", wantFormat: openai.AudioResponseFormatJSON},
		{name: "requested", requested: "srt", wantFormat: openai.AudioResponseFormatSRT},
		{name: "word forces verbose", requested: "text", granularities: []string{"word"}, wantFormat: openai.AudioResponseFormatVerboseJSON, wantCount: 1},
		{name: "case folded", granularities: []string{"Segment"}, wantFormat: openai.AudioResponseFormatVerboseJSON, wantCount: 1},
		{name: "unknown ignored", requested: "vtt", granularities: []string{"sentence"}, wantFormat: openai.AudioResponseFormatVTT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, timestamps := transcriptionFormat(tt.requested, tt.granularities)
			if format != tt.wantFormat {
				t.Errorf("format = %q, want %q", format, tt.wantFormat)
			}
			if len(timestamps) != tt.wantCount {
				t.Errorf("timestamps = %v, want %d", timestamps, tt.wantCount)
			}
		})
	}
}

func TestTranscribeErrors(t *testing.T) {
	var calls []transcriptionCall
	svc, store := newTestService(t, transcriptionUpstream(t, &calls, func(w http.ResponseWriter, format string) {
		openaiError(w, http.StatusBadRequest, "unsupported audio")
	}))
	ctx := context.Background()
	store.Write(ctx, "/in/clip.mp3", []byte("x"))

	tests := []struct {
		name    string
		req     domain.TranscriptionRequest
		wantErr domain.ErrorType
	}{
		{name: "missing file", req: domain.TranscriptionRequest{}, wantErr: domain.ErrorTypeInvalidRequest},
		{name: "unreadable file", req: domain.TranscriptionRequest{AudioFile: "/in/none.mp3"}, wantErr: domain.ErrorTypeInvalidRequest},
		{name: "unknown provider", req: domain.TranscriptionRequest{AudioFile: "/in/clip.mp3", Provider: "nope"}, wantErr: domain.ErrorTypeProviderNotFound},
		{name: "upstream rejects", req: domain.TranscriptionRequest{AudioFile: "/in/clip.mp3"}, wantErr: domain.ErrorTypeUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Transcribe(ctx, tt.req)
			if !domain.IsErrorType(err, tt.wantErr) {
				t.Fatalf("Transcribe() error = %v, want %s", err, tt.wantErr)
			}
		})
	}
	if len(calls) != 1 {
		t.Errorf("upstream calls = %d, want 1", len(calls))
	}
}
