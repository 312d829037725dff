package minimax

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tjfontaine/polyglot-media-gateway/internal/domain"
)

const (
	DefaultBaseURL = "https://api.minimax.chat/v1"
	providerName   = "minimax"
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

// Client is an HTTP client for the MiniMax speech API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new MiniMax API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Speech is a decoded synthesis result.
type Speech struct {
	Audio []byte
	// DurationMillis is the reported audio length.
	DurationMillis int64
}

// Synthesize sends a t2a_v2 request and decodes the returned audio.
func (c *Client) Synthesize(ctx context.Context, req *T2ARequest) (*Speech, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/t2a_v2", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.ErrUpstream(fmt.Sprintf("MiniMax TTS API error: %d - %s", resp.StatusCode, string(respBody))).
			WithStatusCode(resp.StatusCode).
			WithProvider(providerName)
	}

	var result T2AResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if result.BaseResp == nil {
		return nil, domain.ErrUpstream("MiniMax TTS error: missing base_resp").WithProvider(providerName)
	}
	if result.BaseResp.StatusCode != 0 {
		return nil, domain.ErrUpstream(fmt.Sprintf("MiniMax TTS error: %s", result.BaseResp.StatusMsg)).
			WithProvider(providerName)
	}

	if result.Data == nil || result.Data.Audio == "" {
		return nil, domain.ErrEmptyResponse("no audio data in response").WithProvider(providerName)
	}

	audio, err := hex.DecodeString(result.Data.Audio)
	if err != nil {
		return nil, domain.ErrUpstream(fmt.Sprintf("MiniMax TTS error: invalid audio encoding: %v", err)).
			WithProvider(providerName)
	}

	speech := &Speech{Audio: audio}
	if result.ExtraInfo != nil {
		speech.DurationMillis = result.ExtraInfo.AudioLength
	}
	return speech, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", userAgent)
}
