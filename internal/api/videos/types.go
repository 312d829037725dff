// Package videos provides the HTTP client for OpenAI-compatible asynchronous
// video endpoints (/videos).
package videos

import (
	"encoding/json"
	"io"
)

// CreateRequest is sent as multipart form data.
type CreateRequest struct {
	Model     string
	Prompt    string
	Seconds   int
	Size      string
	Watermark bool
	// Reference is an optional image attached as input_reference.
	Reference io.Reader
}

// Video is a video task as reported by the vendor. Vendors differ in which
// field carries the result URL.
type Video struct {
	ID             string      `json:"id"`
	Object         string      `json:"object,omitempty"`
	Model          string      `json:"model,omitempty"`
	Status         string      `json:"status"`
	Progress       float64     `json:"progress,omitempty"`
	URL            string      `json:"url,omitempty"`
	VideoURL       string      `json:"video_url,omitempty"`
	EnhancedPrompt string      `json:"enhanced_prompt,omitempty"`
	Error          *VideoError `json:"error,omitempty"`
}

// Field returns the value of the named URL field.
func (v *Video) Field(name string) string {
	switch name {
	case "video_url":
		return v.VideoURL
	case "url":
		return v.URL
	default:
		return ""
	}
}

// VideoError accepts either a bare string or an {code, message} object.
type VideoError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *VideoError) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Message = s
		return nil
	}
	type plain VideoError
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = VideoError(p)
	return nil
}
