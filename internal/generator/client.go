// Package generator asks a hosted chat-completion model to define a concept.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/suykerbuyk/mlsummary/internal/config"
)

// DefaultModel is the model every concept is generated with unless the
// app config names another.
const DefaultModel = "gpt-4o-mini"

// Client calls an OpenAI-compatible /chat/completions endpoint. One
// request per Generate call; no retries.
type Client struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// New builds a client from the [llm] config section.
func New(cfg config.LLMConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		BaseURL:    cfg.BaseURL,
		Model:      model,
		HTTPClient: http.DefaultClient,
	}
}

// Generate sends one user message built from promptLabel and sourceText and
// returns the first choice's trimmed content. A reply with no choices or no
// content yields an empty Text, not an error. Every failure is a
// *GenerationError.
func (c *Client) Generate(ctx context.Context, sourceText, promptLabel, apiKey string) (*Result, error) {
	reqBody := chatRequest{
		Model:    c.Model,
		Messages: buildMessages(promptLabel, sourceText),
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &GenerationError{Message: fmt.Sprintf("marshal request: %v", err), Err: err}
	}

	endpoint := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &GenerationError{Message: fmt.Sprintf("create request: %v", err), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, apiErrorMessage(respBody))
	}

	result, err := parseResponse(respBody)
	if err != nil {
		return nil, err
	}
	if result.Model == "" {
		result.Model = c.Model
	}
	return result, nil
}

func parseResponse(body []byte) (*Result, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &GenerationError{Message: fmt.Sprintf("unmarshal response: %v", err), Err: err}
	}

	if resp.Error != nil {
		return nil, &GenerationError{Message: resp.Error.Message}
	}

	result := &Result{Model: resp.Model, Raw: body}
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != nil {
		result.Text = strings.TrimSpace(*resp.Choices[0].Message.Content)
	}
	return result, nil
}

func apiErrorMessage(body []byte) string {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error == nil {
		return strings.TrimSpace(string(body))
	}
	return resp.Error.Message
}

// transportError keeps the innermost message: "context deadline exceeded"
// rather than the full `Post "<url>": ...` chain.
func transportError(err error) *GenerationError {
	msg := err.Error()
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		msg = uerr.Err.Error()
	}
	return &GenerationError{Message: msg, Err: err}
}
