package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"

	"docfusion/internal/common"
)

// StopReason is the terminal condition the model reported for one
// generation.
type StopReason int

const (
	StopNormal StopReason = iota // normal end of generation
	StopMaxTokens                // output-size ceiling hit, text is partial
	StopBlocked                  // safety/policy/other non-normal stop
)

func (r StopReason) String() string {
	switch r {
	case StopNormal:
		return "normal"
	case StopMaxTokens:
		return "max_tokens"
	default:
		return "blocked"
	}
}

// Completion is one generation outcome.
type Completion struct {
	Text   string
	Reason StopReason
}

// ImageData is an inline image handed to the model.
type ImageData struct {
	Format string // "png" | "jpeg"
	Data   []byte
}

// Generator abstracts the vision/text-generation backend so adapters
// can be tested without network access.
type Generator interface {
	Generate(ctx context.Context, prompt string, img *ImageData) (Completion, error)
}

// Client wraps a Vertex AI generative model.
type Client struct {
	base    *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
	logger  *slog.Logger
}

func NewClient(ctx context.Context, cfg common.VisionConfig, logger *slog.Logger) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("gemini: project id and region are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	base, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := base.GenerativeModel(cfg.Model)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr(cfg.Temperature),
		MaxOutputTokens: genai.Ptr(cfg.MaxOutputTokens),
	}

	return &Client{base: base, model: model, timeout: cfg.Timeout, logger: logger}, nil
}

// Generate runs one generation and maps the model's finish reason onto
// the StopReason taxonomy. A transport failure is returned as an error;
// a policy stop is not.
func (c *Client) Generate(ctx context.Context, prompt string, img *ImageData) (Completion, error) {
	ctx, cancel := withRequestTimeout(ctx, c.timeout)
	defer cancel()

	parts := []genai.Part{genai.Text(prompt)}
	if img != nil {
		parts = append(parts, genai.ImageData(img.Format, img.Data))
	}

	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		c.logger.Error("gemini.generate.failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return Completion{}, err
	}
	if len(resp.Candidates) == 0 {
		return Completion{Reason: StopBlocked}, nil
	}

	cand := resp.Candidates[0]
	completion := Completion{
		Text:   candidateText(cand),
		Reason: mapFinishReason(cand.FinishReason),
	}
	c.logger.Debug("gemini.generate.ok",
		"finish_reason", cand.FinishReason.String(),
		"chars", len(completion.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return completion, nil
}

func (c *Client) Close() error {
	if c.base != nil {
		return c.base.Close()
	}
	return nil
}

// withRequestTimeout caps one generation at the configured deadline; a
// zero timeout leaves the caller's context alone.
func withRequestTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

func mapFinishReason(fr genai.FinishReason) StopReason {
	switch fr {
	case genai.FinishReasonStop:
		return StopNormal
	case genai.FinishReasonMaxTokens:
		return StopMaxTokens
	default:
		// safety, recitation, unspecified, other
		return StopBlocked
	}
}

func candidateText(cand *genai.Candidate) string {
	if cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
