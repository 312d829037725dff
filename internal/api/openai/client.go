package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	userAgent      = "polyglot-media-gateway/1.0"
)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client is a custom HTTP client for the OpenAI image edit endpoints.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new OpenAI API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// formField is a text or file part of a multipart request.
type formField struct {
	name     string
	value    string
	file     io.Reader
	filename string
}

// CreateImageEdit sends an image edit request.
func (c *Client) CreateImageEdit(ctx context.Context, req *ImageEditRequest) (*ImageResponse, error) {
	fields := []formField{
		{name: "image", file: req.Image, filename: "image.png"},
	}
	if req.Mask != nil {
		fields = append(fields, formField{name: "mask", file: req.Mask, filename: "mask.png"})
	}
	fields = append(fields,
		formField{name: "prompt", value: req.Prompt},
		formField{name: "model", value: req.Model},
		formField{name: "n", value: strconv.Itoa(req.N)},
		formField{name: "size", value: req.Size},
		formField{name: "response_format", value: req.ResponseFormat},
	)
	return c.postForm(ctx, "/images/edits", fields)
}

// CreateImageVariation sends an image variation request.
func (c *Client) CreateImageVariation(ctx context.Context, req *ImageVariationRequest) (*ImageResponse, error) {
	fields := []formField{
		{name: "image", file: req.Image, filename: "image.png"},
		{name: "model", value: req.Model},
		{name: "n", value: strconv.Itoa(req.N)},
		{name: "size", value: req.Size},
		{name: "response_format", value: req.ResponseFormat},
	}
	return c.postForm(ctx, "/images/variations", fields)
}

func (c *Client) postForm(ctx context.Context, path string, fields []formField) (*ImageResponse, error) {
	body, contentType, err := encodeForm(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if apiErr, err := ParseErrorResponse(respBody); err == nil && apiErr != nil {
			return nil, apiErr.ToCanonical(resp.StatusCode)
		}
		return nil, domain.ErrUpstream(fmt.Sprintf("API error (status %d): %s", resp.StatusCode, string(respBody))).
			WithStatusCode(resp.StatusCode)
	}

	var result ImageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &result, nil
}

func encodeForm(fields []formField) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if f.file == nil {
			// Empty optional fields are omitted.
			if f.value == "" {
				continue
			}
			if err := w.WriteField(f.name, f.value); err != nil {
				return nil, "", err
			}
			continue
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.name, f.filename))
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.file); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", userAgent)
}
