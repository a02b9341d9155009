package classify

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/qi-principal/Package-machine/internal/common"
	"github.com/qi-principal/Package-machine/internal/model"
)

// systemPrompt constrains the service to strict JSON keyed by file name.
const systemPrompt = `You are a professional file classification assistant. Return the classification result in exactly this format:
{
    "filename.ext": {
        "target_folder": "folder name",
        "reason": "classification reason"
    }
}
Rules:
1. The response must be valid JSON
2. All text must use double quotes
3. Prefer the existing categories
4. Give a well-founded reason for each classification
5. Use the file name (not the full path) as the key`

// Config holds the settings for the remote classifier client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
}

// chatCompleter is the slice of the OpenAI client the classifier uses.
// Tests substitute a deterministic implementation.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client talks to an OpenAI-compatible chat completion service and
// turns its responses into per-path classification results. It never
// retries; callers that want retry wrap it with WithRetry.
type Client struct {
	api         chatCompleter
	model       string
	temperature float32
}

// NewClient builds a classifier client. The API key is required and
// checked here, before any network call can happen.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: classifier API key", common.ErrMissingConfig)
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "deepseek-chat"
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       model,
		temperature: float32(temperature),
	}, nil
}

// Classify sends one batch to the remote service and returns exactly
// one result per input file path. Files the service does not cover
// receive the synthesized fallback result.
func (c *Client) Classify(ctx context.Context, batch []model.FileRecord, categories []string) (map[string]model.ClassificationResult, error) {
	if len(batch) == 0 {
		return nil, common.ErrNoFiles
	}

	nameToPath := make(map[string]string, len(batch))
	for _, record := range batch {
		nameToPath[record.Name] = record.Path
	}

	prompt := BuildPrompt(batch, categories)
	slog.Debug("sending classification request",
		"files", len(batch),
		"categories", len(categories),
		"model", c.model)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrServiceFailure, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no completion choices returned", common.ErrServiceFailure)
	}

	entries, err := parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	results := make(map[string]model.ClassificationResult, len(batch))
	for _, record := range batch {
		entry, ok := entries[record.Name]
		if !ok || entry.TargetFolder == "" {
			slog.Debug("file omitted from classifier response", "name", record.Name)
			results[record.Path] = model.Unclassified()
			continue
		}
		results[record.Path] = model.ClassificationResult{
			Folder:     entry.TargetFolder,
			Reason:     entry.Reason,
			Confidence: ScoreReason(entry.Reason),
		}
	}

	return results, nil
}
