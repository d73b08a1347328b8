// Package narrative writes the prose sections of a grading report, either
// with an LLM or from fixed rules over the summary statistics.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/gradelens/internal/analytics"
	"github.com/abhisek/gradelens/internal/llm"
)

// Source says who wrote a Narrative.
type Source string

const (
	SourceRules Source = "rules"
	SourceLLM   Source = "llm"
)

// Narrative is the headline, findings and recommendations of a report.
type Narrative struct {
	Headline        string   `json:"headline"`
	Findings        []string `json:"findings"`
	Recommendations []string `json:"recommendations"`
	Source          Source   `json:"-"`
}

// Input is the material a narrative is written from.
type Input struct {
	Title       string
	Filter      string
	Summary     analytics.Summary
	Students    []analytics.StudentStats
	BlandAltman analytics.BlandAltmanResult
}

// Config controls LLM narrative generation.
type Config struct {
	MaxTokens   int
	Temperature float64
	// Timeout bounds one Generate call. Zero means no bound.
	Timeout time.Duration
}

// DefaultConfig returns the default generation settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.2,
		Timeout:     60 * time.Second,
	}
}

// Generator writes narratives with an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// New creates a Generator. A nil provider makes Write use the rules only.
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{provider: provider, config: cfg, logger: logger}
}

// Generate asks the provider for a narrative.
func (g *Generator) Generate(ctx context.Context, in Input) (*Narrative, error) {
	if g.provider == nil {
		return nil, llm.ErrNoProvider
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeNarrative)
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(buildUserMessage(in)),
		Schema:      Schema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM narrative generation failed: %w", err)
	}

	var n Narrative
	if err := json.Unmarshal(resp.Content, &n); err != nil {
		return nil, fmt.Errorf("failed to parse LLM narrative: %w", err)
	}
	n.Source = SourceLLM
	return &n, nil
}

// Write returns an LLM narrative when possible and the rule-based one
// otherwise. It never fails.
func (g *Generator) Write(ctx context.Context, in Input) *Narrative {
	if g == nil || g.provider == nil {
		return Rules(in.Summary)
	}

	n, err := g.Generate(ctx, in)
	if err != nil {
		g.logger.Warn("falling back to rule-based narrative",
			"provider", g.provider.Name(), "model", g.provider.ModelID(), "error", err)
		return Rules(in.Summary)
	}
	return n
}
