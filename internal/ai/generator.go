// ABOUTME: Client for a generateContent style text generation API.
// ABOUTME: Retries transient failures with 1s/2s backoff and extracts grounding sources.

package ai

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

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/harper/journal/internal/retry"
)

const (
	DefaultBaseURL         = "https://generativelanguage.googleapis.com"
	DefaultModel           = "gemini-2.0-flash"
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 1024
	DefaultMaxAttempts     = 3

	DefaultPersona = "You are a warm, concise journaling assistant. Help the user reflect, " +
		"organize ideas and write short notes in plain language."

	maxResponseBytes = 4 << 20
)

type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	Temperature       float64
	MaxOutputTokens   int
	SystemInstruction string
	MaxAttempts       int
	RatePerMinute     int
}

type Request struct {
	Prompt            string
	SystemInstruction string
	Grounding         bool
}

type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type Result struct {
	Text     string   `json:"text"`
	Sources  []Source `json:"sources,omitempty"`
	Attempts int      `json:"attempts"`
}

type Generator struct {
	cfg     Config
	client  *http.Client
	log     *zap.Logger
	timer   backoff.Timer
	limiter *rate.Limiter
}

type Option func(*Generator)

func WithHTTPClient(c *http.Client) Option {
	return func(g *Generator) { g.client = c }
}

func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// WithTimer replaces the backoff timer so tests never sleep.
func WithTimer(t backoff.Timer) Option {
	return func(g *Generator) { g.timer = t }
}

func New(cfg Config, opts ...Option) *Generator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.SystemInstruction == "" {
		cfg.SystemInstruction = DefaultPersona
	}

	g := &Generator{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.Named("ai")

	limit := rate.Inf
	if cfg.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RatePerMinute))
	}
	g.limiter = rate.NewLimiter(limit, 1)
	return g
}

// Configured reports whether a credential is present.
func (g *Generator) Configured() bool {
	return strings.TrimSpace(g.cfg.APIKey) != ""
}

// Generate sends the prompt and returns the first candidate's text. Credential
// failures return immediately; other failures are retried until the attempt
// budget runs out.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if !g.Configured() {
		return nil, &Error{Kind: KindAuth, Message: "API key is not configured"}
	}
	body, err := json.Marshal(g.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var result *Result
	policy := retry.DefaultPolicy()
	policy.MaxAttempts = g.cfg.MaxAttempts
	policy.Timer = g.timer
	policy.Retryable = func(err error) bool {
		var e *Error
		if errors.As(err, &e) {
			return e.Retryable()
		}
		return true
	}
	policy.Notify = func(attempt int, err error, wait time.Duration) {
		g.log.Warn("generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	err = retry.Do(ctx, policy, func(ctx context.Context, attempt int) error {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
		res, err := g.attempt(ctx, body)
		if err != nil {
			return err
		}
		res.Attempts = attempt
		result = res
		return nil
	})

	var ex *retry.ExhaustedError
	if errors.As(err, &ex) {
		return nil, fmt.Errorf("generation failed after %d attempts: %w", ex.Attempts, ex.Err)
	}
	if err != nil {
		return nil, err
	}
	g.log.Debug("generation succeeded", zap.Int("attempts", result.Attempts), zap.Int("sources", len(result.Sources)))
	return result, nil
}

func (g *Generator) buildRequest(req Request) generateRequest {
	system := strings.TrimSpace(req.SystemInstruction)
	if system == "" {
		system = g.cfg.SystemInstruction
	}
	out := generateRequest{
		Contents:          []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
		SystemInstruction: &content{Parts: []part{{Text: system}}},
		GenerationConfig: generationConfig{
			Temperature:     g.cfg.Temperature,
			MaxOutputTokens: g.cfg.MaxOutputTokens,
		},
	}
	if req.Grounding {
		out.Tools = []tool{{GoogleSearch: &struct{}{}}}
	}
	return out
}

func (g *Generator) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.cfg.BaseURL, g.cfg.Model)
}

func (g *Generator) attempt(ctx context.Context, body []byte) (*Result, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: err.Error(), Err: err}
	}
	httpReq.Header.Set("x-goog-api-key", g.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: err.Error(), Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	resBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: err.Error(), Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, classifyStatus(res.StatusCode, resBody)
	}
	return parseResponse(resBody)
}

func parseResponse(body []byte) (*Result, error) {
	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Message: "decode response: " + err.Error(), Err: err}
	}
	if len(gr.Candidates) == 0 {
		return nil, &Error{Kind: KindMalformedResponse, Message: "response has no candidates"}
	}
	first := gr.Candidates[0]
	if first.Content == nil {
		return nil, &Error{Kind: KindMalformedResponse, Message: "candidate has no content"}
	}
	var sb strings.Builder
	for _, p := range first.Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return nil, &Error{Kind: KindMalformedResponse, Message: "candidate has no text"}
	}
	return &Result{Text: sb.String(), Sources: extractSources(first.GroundingMetadata)}, nil
}

// extractSources keeps only references with both a URI and a title.
// Attributions win; chunks are read only when no attributions are present.
func extractSources(md *groundingMetadata) []Source {
	if md == nil {
		return nil
	}
	refs := md.GroundingAttributions
	if len(refs) == 0 {
		refs = md.GroundingChunks
	}
	var out []Source
	for _, r := range refs {
		if r.Web == nil || r.Web.URI == "" || r.Web.Title == "" {
			continue
		}
		out = append(out, Source{URI: r.Web.URI, Title: r.Web.Title})
	}
	return out
}
