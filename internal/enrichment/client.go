package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"burnish/internal/catalog"
	"burnish/internal/config"
	"burnish/internal/services"
)

const (
	jsonResponseType   = "json_object"
	defaultHTTPTimeout = 60 * time.Second
)

// Client wraps the OpenAI-compatible chat completion endpoint of the
// enrichment service. It performs exactly one attempt per submission: retry
// policy belongs to the operator re-running failed items, not to this layer.
type Client struct {
	cfg        config.Enrichment
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (used in tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs an enrichment client from configuration.
func NewClient(cfg config.Enrichment, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: config.Enrichment{
			APIKey:               strings.TrimSpace(cfg.APIKey),
			BaseURL:              strings.TrimSpace(cfg.BaseURL),
			Model:                strings.TrimSpace(cfg.Model),
			Referer:              strings.TrimSpace(cfg.Referer),
			Title:                strings.TrimSpace(cfg.Title),
			TimeoutSeconds:       cfg.TimeoutSeconds,
			MinRequestIntervalMS: cfg.MinRequestIntervalMS,
		},
		httpClient: &http.Client{Timeout: timeout},
		limiter:    newLimiter(cfg.MinRequestIntervalMS),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// newLimiter paces outbound calls to at most one per interval. A nil limiter
// means pacing is disabled.
func newLimiter(intervalMS int) *rate.Limiter {
	if intervalMS <= 0 {
		return nil
	}
	interval := time.Duration(intervalMS) * time.Millisecond
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Submit sends one item for rewriting and returns the proposed snapshot. The
// returned error carries one of the taxonomy markers; callers classify it via
// services.KindOf without inspecting transport details.
func (c *Client) Submit(ctx context.Context, item catalog.Item, brief EnhancementContext) (catalog.Snapshot, error) {
	var empty catalog.Snapshot
	if strings.TrimSpace(item.ID) == "" {
		return empty, services.Wrap(services.ErrValidation, "enrichment", "submit", "item id required", nil)
	}
	if c.cfg.APIKey == "" {
		return empty, services.Wrap(services.ErrConfiguration, "enrichment", "submit", "api key required", nil)
	}

	userPrompt, err := buildRewriteRequest(item, brief)
	if err != nil {
		return empty, services.Wrap(services.ErrValidation, "enrichment", "submit", "build prompt", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return empty, classifyTransport("submit", err)
		}
	}

	content, err := c.completionContent(ctx, chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: RewritePrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    0.4,
		ResponseFormat: map[string]string{"type": jsonResponseType},
	}, "submit")
	if err != nil {
		return empty, err
	}

	proposed, err := decodeProposal(content)
	if err != nil {
		return empty, services.Wrap(services.ErrValidation, "enrichment", "submit", "parse proposal", err)
	}
	return fillFromOriginal(proposed, item.Snapshot), nil
}

// HealthCheck issues a fast ping to verify the API key and model are usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.cfg.APIKey == "" {
		return services.Wrap(services.ErrConfiguration, "enrichment", "health", "api key required", nil)
	}
	content, err := c.completionContent(ctx, chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You must respond with JSON only."},
			{Role: "user", Content: `Respond with {"ok":true}`},
		},
		Temperature:    0,
		ResponseFormat: map[string]string{"type": jsonResponseType},
	}, "health")
	if err != nil {
		return err
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := decodeServiceJSON(content, &parsed); err != nil {
		return services.Wrap(services.ErrUnavailable, "enrichment", "health", "parse payload", err)
	}
	if !parsed.OK {
		return services.Wrap(services.ErrUnavailable, "enrichment", "health", "unexpected response", nil)
	}
	return nil
}

type chatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		// Some providers return the streaming schema even when stream=false.
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		Text         string `json:"text"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) completionContent(ctx context.Context, payload chatCompletionRequest, op string) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "enrichment", op, "encode body", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "enrichment", op, "new request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
		req.Header.Set("Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		req.Header.Set("X-Title", c.cfg.Title)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransport(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", classifyTransport(op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", classifyStatus(op, resp.StatusCode, body)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", services.Wrap(services.ErrUnavailable, "enrichment", op, "decode response", err)
	}
	if completion.Error != nil {
		return "", services.Wrap(services.ErrUnavailable, "enrichment", op,
			"api error: "+strings.TrimSpace(completion.Error.Message), nil)
	}

	content, refusal := extractContent(completion)
	if content == "" {
		if refusal != "" {
			return "", services.Wrap(services.ErrValidation, "enrichment", op, "model refused: "+refusal, nil)
		}
		return "", services.Wrap(services.ErrUnavailable, "enrichment", op, "empty completion", nil)
	}
	return content, nil
}

func extractContent(completion chatCompletionResponse) (content, refusal string) {
	for _, choice := range completion.Choices {
		if refusal == "" {
			refusal = strings.TrimSpace(choice.Message.Refusal)
		}
		for _, candidate := range []string{choice.Message.Content, choice.Delta.Content, choice.Text} {
			if trimmed := strings.TrimSpace(candidate); trimmed != "" {
				return trimmed, refusal
			}
		}
	}
	return "", refusal
}

func classifyTransport(op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return services.Wrap(services.ErrTimeout, "enrichment", op, "request deadline exceeded", err)
	case errors.Is(err, context.Canceled):
		return services.Wrap(services.ErrTimeout, "enrichment", op, "request cancelled", err)
	default:
		return services.Wrap(services.ErrUnavailable, "enrichment", op, "http error", err)
	}
}

func classifyStatus(op string, status int, body []byte) error {
	detail := fmt.Sprintf("http %d: %s", status, summarizeSnippet(string(body)))
	switch {
	case status == http.StatusPaymentRequired, status == http.StatusTooManyRequests:
		return services.Wrap(services.ErrQuota, "enrichment", op, detail, nil)
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return services.Wrap(services.ErrConfiguration, "enrichment", op, detail, nil)
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return services.Wrap(services.ErrValidation, "enrichment", op, detail, nil)
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return services.Wrap(services.ErrTimeout, "enrichment", op, detail, nil)
	case status >= http.StatusInternalServerError:
		return services.Wrap(services.ErrUnavailable, "enrichment", op, detail, nil)
	default:
		return services.Wrap(services.ErrTransient, "enrichment", op, detail, nil)
	}
}

// decodeProposal parses the model output into a snapshot and enforces the
// response contract: title and description are required.
func decodeProposal(content string) (catalog.Snapshot, error) {
	var proposed catalog.Snapshot
	if err := decodeServiceJSON(content, &proposed); err != nil {
		return proposed, err
	}
	proposed = proposed.Normalize()
	if proposed.Title == "" {
		return proposed, errors.New("proposal missing title")
	}
	if proposed.Description == "" {
		return proposed, errors.New("proposal missing description")
	}
	return proposed, nil
}

// fillFromOriginal backfills optional fields the model left empty so a staged
// proposal is always a complete snapshot.
func fillFromOriginal(proposed, original catalog.Snapshot) catalog.Snapshot {
	if proposed.Handle == "" {
		proposed.Handle = original.Handle
	}
	if proposed.ProductType == "" {
		proposed.ProductType = original.ProductType
	}
	if proposed.Vendor == "" {
		proposed.Vendor = original.Vendor
	}
	if len(proposed.Tags) == 0 {
		proposed.Tags = original.Clone().Tags
	}
	if proposed.SEOTitle == "" {
		proposed.SEOTitle = original.SEOTitle
	}
	if proposed.SEODescription == "" {
		proposed.SEODescription = original.SEODescription
	}
	return proposed
}

// decodeServiceJSON decodes JSON from a model response, tolerating common
// formatting quirks such as code fences and leading prose.
func decodeServiceJSON(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.New("empty payload")
	}
	directErr := json.Unmarshal([]byte(trimmed), target)
	if directErr == nil {
		return nil
	}
	sanitized := sanitizeJSONPayload(trimmed)
	if sanitized == "" || sanitized == trimmed {
		return fmt.Errorf("%w (payload snippet: %s)", directErr, summarizeSnippet(trimmed))
	}
	if err := json.Unmarshal([]byte(sanitized), target); err != nil {
		return fmt.Errorf("%w (sanitized payload snippet: %s)", err, summarizeSnippet(sanitized))
	}
	return nil
}

func sanitizeJSONPayload(content string) string {
	trimmed := strings.TrimSpace(stripCodeFence(content))
	if trimmed == "" {
		return ""
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return trimmed
	}
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
	}
	return trimmed
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = strings.TrimLeft(body[4:], " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func summarizeSnippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return "<empty>"
	}
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
