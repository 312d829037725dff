// Package router classifies model identifiers into the request shapes the
// media adapters dispatch on.
package router

import "strings"

// ImageFamily selects the upstream API used for image generation.
type ImageFamily int

const (
	// ImageFamilyImages uses the images generation endpoint.
	ImageFamilyImages ImageFamily = iota
	// ImageFamilyChat uses chat completions and extracts an inline data URI.
	ImageFamilyChat
)

func (f ImageFamily) String() string {
	switch f {
	case ImageFamilyChat:
		return "chat"
	default:
		return "images"
	}
}

// VideoVendor selects the request and response shape for video generation.
type VideoVendor int

const (
	// VideoVendorVeo reads the result from "url". It is the default.
	VideoVendorVeo VideoVendor = iota
	// VideoVendorSora reads the result from "video_url".
	VideoVendorSora
)

func (v VideoVendor) String() string {
	switch v {
	case VideoVendorSora:
		return "sora"
	default:
		return "veo"
	}
}

// URLField is the response field carrying the generated video URL.
func (v VideoVendor) URLField() string {
	if v == VideoVendorSora {
		return "video_url"
	}
	return "url"
}

// rule maps a case-insensitive model substring to a value.
type rule[T any] struct {
	contains string
	value    T
}

var imageRules = []rule[ImageFamily]{
	{contains: "gemini", value: ImageFamilyChat},
}

var videoRules = []rule[VideoVendor]{
	{contains: "sora", value: VideoVendorSora},
	{contains: "veo", value: VideoVendorVeo},
}

// ClassifyImageModel returns the image family for model.
func ClassifyImageModel(model string) ImageFamily {
	return classify(model, imageRules, ImageFamilyImages)
}

// ClassifyVideoModel returns the video vendor for model. Unmatched models
// are routed to Veo.
func ClassifyVideoModel(model string) VideoVendor {
	return classify(model, videoRules, VideoVendorVeo)
}

func classify[T any](model string, rules []rule[T], fallback T) T {
	m := strings.ToLower(model)
	for _, r := range rules {
		if strings.Contains(m, r.contains) {
			return r.value
		}
	}
	return fallback
}
