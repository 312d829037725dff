package router

import "testing"

func TestClassifyImageModel(t *testing.T) {
	tests := []struct {
		model string
		want  ImageFamily
	}{
		{"gemini-2.5-flash-image", ImageFamilyChat},
		{"Gemini-3-Pro-Image-Preview", ImageFamilyChat},
		{"google/gemini-image", ImageFamilyChat},
		{"gpt-image-1", ImageFamilyImages},
		{"dall-e-3", ImageFamilyImages},
		{"doubao-seedream-4-5-251128", ImageFamilyImages},
		{"", ImageFamilyImages},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := ClassifyImageModel(tt.model); got != tt.want {
				t.Errorf("ClassifyImageModel(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestClassifyVideoModel(t *testing.T) {
	tests := []struct {
		model     string
		want      VideoVendor
		wantField string
	}{
		{"sora-2", VideoVendorSora, "video_url"},
		{"SORA-2-PRO", VideoVendorSora, "video_url"},
		{"veo_3_1", VideoVendorVeo, "url"},
		{"Veo-3-fast", VideoVendorVeo, "url"},
		{"kling-v2", VideoVendorVeo, "url"},
		{"", VideoVendorVeo, "url"},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got := ClassifyVideoModel(tt.model)
			if got != tt.want {
				t.Errorf("ClassifyVideoModel(%q) = %v, want %v", tt.model, got, tt.want)
			}
			if got.URLField() != tt.wantField {
				t.Errorf("URLField() = %q, want %q", got.URLField(), tt.wantField)
			}
		})
	}
}
