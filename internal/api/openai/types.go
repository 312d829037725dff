// Package openai provides the multipart image edit and variation client for
// OpenAI-compatible providers.
package openai

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
)

// ImageEditRequest represents an image edit request. Image and Mask are
// uploaded as PNG files.
type ImageEditRequest struct {
	Image          io.Reader
	Mask           io.Reader
	Prompt         string
	Model          string
	N              int
	Size           string
	ResponseFormat string
}

// ImageVariationRequest represents an image variation request.
type ImageVariationRequest struct {
	Image          io.Reader
	Model          string
	N              int
	Size           string
	ResponseFormat string
}

// ImageResponse is returned by the edit and variation endpoints.
type ImageResponse struct {
	Created int64       `json:"created"`
	Data    []ImageData `json:"data"`
}

// ImageData is one returned image, either hosted or inline.
type ImageData struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// ErrorResponse represents an OpenAI error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// APIError contains error details.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
	Code    string `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// ToCanonical converts the OpenAI API error to a canonical domain error.
func (e *APIError) ToCanonical(statusCode int) *domain.APIError {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return domain.ErrUpstream(msg).WithStatusCode(statusCode)
}

// ParseErrorResponse attempts to parse an error response from JSON.
func ParseErrorResponse(data []byte) (*APIError, error) {
	var errResp ErrorResponse
	if err := json.Unmarshal(data, &errResp); err != nil {
		return nil, err
	}
	if errResp.Error == nil {
		return nil, nil
	}
	return errResp.Error, nil
}
