// Package llm is a thin client for an OpenAI-compatible chat endpoint that
// turns a computed verdict into reader-friendly prose. It implements
// compliance.Explainer and can only ever produce text; the verdict it
// describes is already final.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"safeplate/internal/compliance"
	"safeplate/internal/restriction"
)

const defaultModel = "gpt-4o-mini"

// Client calls a chat-completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithModel overrides the model name.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// New creates a client against api.openai.com unless overridden.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    "https://api.openai.com/v1",
		apiKey:     apiKey,
		model:      defaultModel,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Explain renders the verdict as a short explanation for the end user. The
// verdict arrives by value and only its prose summary leaves this function.
func (c *Client) Explain(ctx context.Context, verdict compliance.Verdict) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role: "system",
				Content: "You explain food compliance results. Describe the findings below " +
					"in two or three plain sentences. Do not change, soften, or second-guess " +
					"the verdict; it is final.",
			},
			{Role: "user", Content: summarize(verdict)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal explanation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build explanation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("explanation request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("explanation request: status %d", resp.StatusCode)
	}

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode explanation response: %w", err)
	}
	if len(body.Choices) == 0 {
		return "", fmt.Errorf("explanation response: no choices")
	}
	return strings.TrimSpace(body.Choices[0].Message.Content), nil
}

// summarize flattens the verdict into the prompt. Only findings travel to
// the model; allowed ingredients are counted, not listed.
func summarize(v compliance.Verdict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overall verdict: %s (confidence %.2f).\n", v.Overall, v.Confidence)
	fmt.Fprintf(&b, "Ingredients evaluated: %d.\n", len(v.Ingredients))
	for _, ing := range v.Ingredients {
		if ing.Verdict == restriction.VerdictAllowed {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s", ing.Name, ing.Verdict)
		for _, f := range ing.Findings {
			fmt.Fprintf(&b, "; %s under %s", f.Reason, f.RestrictionID)
		}
		b.WriteString("\n")
	}
	return b.String()
}
