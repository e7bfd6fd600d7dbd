// Package llm generates an optional natural-language summary of a
// mining run. The summary is advisory output written to its own file;
// it never feeds back into mining, grouping or the JSON artifacts.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/courtfirst/breachminer/internal/model"
)

// Summarizer wraps an OpenAI-compatible chat endpoint.
type Summarizer struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewSummarizer builds a summarizer, or returns (nil, nil) when no
// provider is configured.
func NewSummarizer(cfg model.LLMConfig) (*Summarizer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "":
		return nil, nil
	case "openai":
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", cfg.Provider)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM provider %q requires an API key", cfg.Provider)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	llmModel := cfg.Model
	if llmModel == "" {
		llmModel = openai.GPT4oMini
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Summarizer{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     llmModel,
		maxTokens: cfg.MaxTokens,
		timeout:   timeout,
	}, nil
}

// Summarize produces a short markdown summary of the grouped findings.
func (s *Summarizer) Summarize(ctx context.Context, groups []model.BreachGroup, failed int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You summarize keyword-mined breach findings from court judgments. " +
					"These are heuristic text matches, not verified legal conclusions. " +
					"Only restate what the data shows; never assert that a breach actually occurred.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(groups, failed),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// buildPrompt lays out the grouped findings as compact input data.
func buildPrompt(groups []model.BreachGroup, failed int) string {
	var b strings.Builder
	b.WriteString("Summarize these mined breach findings in short markdown (a paragraph plus a bullet per tag):\n\n")

	for _, g := range groups {
		fmt.Fprintf(&b, "- %s: %d occurrence(s) across cases:", g.Tag, len(g.Items))
		seen := make(map[string]bool)
		for _, item := range g.Items {
			if !seen[item.CaseID] {
				seen[item.CaseID] = true
				fmt.Fprintf(&b, " %s", item.CaseID)
			}
		}
		b.WriteString("\n")
	}

	if failed > 0 {
		fmt.Fprintf(&b, "\n%d case(s) failed to fetch or parse and are excluded.\n", failed)
	}

	return b.String()
}
