// Package llm implements the language-model gateway with a
// primary/secondary provider policy: Claude first, one failover to
// Gemini, no retries beyond that.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/forexai/internal/common"
	"github.com/ternarybob/forexai/internal/interfaces"
)

const (
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude = "claude"
	// ProviderGemini uses Google Gemini API
	ProviderGemini = "gemini"
)

// SystemInstruction fixes output language, tone, and the labeled
// sections the extractor relies on.
const SystemInstruction = "You are a professional forex analyst with expertise in fundamental analysis. " +
	"Provide accurate, actionable insights in English. " +
	"Structure your answer using the exact section labels requested in the prompt, one label per line."

// DefaultRequestTimeout bounds a single generation call so a hung
// transport cannot suspend the caller indefinitely.
const DefaultRequestTimeout = 45 * time.Second

// ProviderFactory creates and manages AI providers and implements
// interfaces.TextGenerator.
type ProviderFactory struct {
	claudeConfig *common.ClaudeConfig
	geminiConfig *common.GeminiConfig
	timeout      time.Duration
	logger       arbor.ILogger
	claudeClient anthropic.Client
	claudeReady  bool
	geminiClient *genai.Client
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(
	claudeConfig *common.ClaudeConfig,
	geminiConfig *common.GeminiConfig,
	llmConfig *common.LLMConfig,
	logger arbor.ILogger,
) *ProviderFactory {
	timeout := DefaultRequestTimeout
	if llmConfig != nil && llmConfig.RequestTimeout != "" {
		if d, err := time.ParseDuration(llmConfig.RequestTimeout); err == nil && d > 0 {
			timeout = d
		}
	}

	return &ProviderFactory{
		claudeConfig: claudeConfig,
		geminiConfig: geminiConfig,
		timeout:      timeout,
		logger:       logger,
	}
}

// Configured reports whether at least one provider has credentials.
func (f *ProviderFactory) Configured() bool {
	return f.claudeConfig.APIKey != "" || f.geminiConfig.APIKey != ""
}

// GenerateText sends the prompt to Claude and falls back once to
// Gemini on any failure. Returns interfaces.ErrGatewayUnavailable when
// no provider is configured or every configured provider failed.
func (f *ProviderFactory) GenerateText(ctx context.Context, prompt string) (*interfaces.GenerateResult, error) {
	if !f.Configured() {
		return nil, interfaces.ErrGatewayUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var primaryErr error
	if f.claudeConfig.APIKey != "" {
		result, err := f.generateWithClaude(ctx, prompt)
		if err == nil {
			return result, nil
		}
		primaryErr = err
		f.logger.Warn().
			Err(err).
			Msg("Primary provider failed, trying fallback")
	}

	if f.geminiConfig.APIKey != "" {
		result, err := f.generateWithGemini(ctx, prompt)
		if err == nil {
			return result, nil
		}
		f.logger.Warn().
			Err(err).
			Msg("Fallback provider failed")
		return nil, fmt.Errorf("%w: gemini: %s", interfaces.ErrGatewayUnavailable, err)
	}

	return nil, fmt.Errorf("%w: claude: %s", interfaces.ErrGatewayUnavailable, primaryErr)
}

// getClaudeClient returns a Claude client, creating one if necessary
func (f *ProviderFactory) getClaudeClient() anthropic.Client {
	if !f.claudeReady {
		f.claudeClient = anthropic.NewClient(
			option.WithAPIKey(f.claudeConfig.APIKey),
		)
		f.claudeReady = true
	}
	return f.claudeClient
}

// getGeminiClient returns a Gemini client, creating one if necessary
func (f *ProviderFactory) getGeminiClient(ctx context.Context) (*genai.Client, error) {
	if f.geminiClient != nil {
		return f.geminiClient, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  f.geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	f.geminiClient = client
	return client, nil
}

// generateWithClaude generates content using Claude API
func (f *ProviderFactory) generateWithClaude(ctx context.Context, prompt string) (*interfaces.GenerateResult, error) {
	client := f.getClaudeClient()

	maxTokens := f.claudeConfig.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4000
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(f.claudeConfig.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		System: []anthropic.TextBlockParam{
			{Text: SystemInstruction},
		},
	}

	if f.claudeConfig.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(f.claudeConfig.Temperature))
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Claude API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return nil, fmt.Errorf("empty response from Claude API")
	}

	return &interfaces.GenerateResult{
		Text:     text.String(),
		Provider: ProviderClaude,
		Model:    f.claudeConfig.Model,
	}, nil
}

// generateWithGemini generates content using Gemini API
func (f *ProviderFactory) generateWithGemini(ctx context.Context, prompt string) (*interfaces.GenerateResult, error) {
	client, err := f.getGeminiClient(ctx)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	}
	if f.geminiConfig.Temperature > 0 {
		config.Temperature = genai.Ptr(f.geminiConfig.Temperature)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, f.geminiConfig.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini API")
	}

	responseText := resp.Text()
	if responseText == "" {
		return nil, fmt.Errorf("empty text in Gemini response")
	}

	return &interfaces.GenerateResult{
		Text:     responseText,
		Provider: ProviderGemini,
		Model:    f.geminiConfig.Model,
	}, nil
}

// Close releases provider clients.
func (f *ProviderFactory) Close() error {
	f.geminiClient = nil
	f.claudeClient = anthropic.Client{}
	f.claudeReady = false
	return nil
}
