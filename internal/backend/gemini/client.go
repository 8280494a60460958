// Package gemini implements the service.Suggester interface using the
// Gemini generative language API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"

	"subtasker/internal/config"
	"subtasker/internal/logging"
	"subtasker/internal/prompt"
	"subtasker/internal/relayerr"
	"subtasker/internal/service"
)

const (
	// ResponseMIMEType asks the model for raw JSON output.
	ResponseMIMEType = "application/json"

	// APIVersion is the path prefix of the generative language API.
	APIVersion = "v1beta"

	// Schema type names understood by the API.
	schemaObject = "OBJECT"
	schemaArray  = "ARRAY"
	schemaString = "STRING"

	subtasksField = "subtasks"
)

// Client implements service.Suggester using the Gemini API.
type Client struct {
	httpClient *http.Client
	url        string
	hasKey     bool
	timeout    time.Duration
}

// New creates a Gemini client from cfg.
// An empty API key is accepted; Suggest then fails without calling out.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	return NewWithHTTPClient(ctx, cfg, &http.Client{})
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// The API key from cfg is attached to every request as the key query parameter.
func NewWithHTTPClient(ctx context.Context, cfg *config.Config, httpClient *http.Client) (*Client, error) {
	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q", cfg.Endpoint)
	}
	if cfg.Model == "" {
		return nil, errors.New("model is required")
	}

	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	keyed := *httpClient
	keyed.Transport = &transport.APIKey{Key: cfg.APIKey, Transport: base}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	return &Client{
		httpClient: &keyed,
		url:        GenerateContentURL(cfg.Endpoint, cfg.Model),
		hasKey:     cfg.HasAPIKey(),
		timeout:    timeout,
	}, nil
}

// GenerateContentURL returns <endpoint>/v1beta/models/<model>:generateContent.
func GenerateContentURL(endpoint, model string) string {
	return strings.TrimSuffix(endpoint, "/") + "/" + APIVersion + "/models/" + url.PathEscape(model) + ":generateContent"
}

// Suggest implements service.Suggester.
func (c *Client) Suggest(ctx context.Context, taskText string) (service.SuggestionResponse, error) {
	if !c.hasKey {
		return service.SuggestionResponse{}, &relayerr.ConfigurationError{Key: config.KeyAPIKey}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.generateContent(ctx, NewRequest(prompt.Build(taskText)))
	if err != nil {
		return service.SuggestionResponse{}, err
	}

	text, err := firstText(resp)
	if err != nil {
		return service.SuggestionResponse{}, err
	}

	return ParseSuggestions(text)
}

// generateContent performs exactly one POST. It never retries.
func (c *Client) generateContent(ctx context.Context, body *GenerateContentRequest) (*GenerateContentResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logging.Debug("calling generative API", "url", c.url)
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapError(err)
	}
	defer res.Body.Close()

	if err := googleapi.CheckResponse(res); err != nil {
		return nil, wrapError(err)
	}

	var out GenerateContentResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, wrapError(err)
	}
	return &out, nil
}

// NewRequest builds a generation request constrained to {subtasks: [string]}.
func NewRequest(promptText string) *GenerateContentRequest {
	return &GenerateContentRequest{
		Contents: []Content{
			{Parts: []Part{{Text: promptText}}},
		},
		GenerationConfig: &GenerationConfig{
			ResponseMimeType: ResponseMIMEType,
			ResponseSchema: &Schema{
				Type: schemaObject,
				Properties: map[string]*Schema{
					subtasksField: {
						Type:  schemaArray,
						Items: &Schema{Type: schemaString},
					},
				},
			},
		},
	}
}

// ParseSuggestions decodes the model's JSON text into a response.
// The text must be an object whose subtasks field is an array of strings.
func ParseSuggestions(text string) (service.SuggestionResponse, error) {
	var payload struct {
		Subtasks *[]string `json:"subtasks"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return service.SuggestionResponse{}, &relayerr.ParseError{Text: text, Err: err}
	}
	if payload.Subtasks == nil {
		return service.SuggestionResponse{}, &relayerr.ParseError{
			Text: text,
			Err:  errors.New("missing subtasks field"),
		}
	}
	return service.SuggestionResponse{Subtasks: *payload.Subtasks}, nil
}

// firstText returns the text of the first part of the first candidate.
func firstText(resp *GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		msg := "response has no candidates"
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			msg += " (prompt blocked: " + resp.PromptFeedback.BlockReason + ")"
		}
		return "", &relayerr.UpstreamError{Err: errors.New(msg)}
	}

	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", &relayerr.UpstreamError{Err: errors.New("first candidate has no content parts")}
	}

	return cand.Content.Parts[0].Text, nil
}

// wrapError converts transport, status and decode errors into relay errors.
func wrapError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &relayerr.UpstreamError{Status: apiErr.Code, Body: apiErr.Body, Err: err}
	}

	// The envelope itself was not valid JSON.
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &relayerr.ParseError{Err: err}
	}

	return &relayerr.UpstreamError{Err: err}
}
