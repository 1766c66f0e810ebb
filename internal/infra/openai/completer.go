package openai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"voice-chat/config"
	"voice-chat/internal/domain"
)

// Completer sends single-message chat completions to an Azure OpenAI
// deployment. The underlying client is safe for concurrent use.
type Completer struct {
	client     *openai.Client
	deployment string
}

func NewCompleter(cfg config.OpenAIConfig) *Completer {
	return NewCompleterWithHTTPClient(cfg, nil)
}

// NewCompleterWithHTTPClient is NewCompleter with a caller-supplied transport;
// nil keeps the library default.
func NewCompleterWithHTTPClient(cfg config.OpenAIConfig, httpClient *http.Client) *Completer {
	clientConfig := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	clientConfig.APIVersion = cfg.APIVersion
	deployment := cfg.Deployment
	clientConfig.AzureModelMapperFunc = func(string) string {
		return deployment
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}

	return &Completer{
		client:     openai.NewClientWithConfig(clientConfig),
		deployment: deployment,
	}
}

func (c *Completer) Complete(ctx context.Context, content string, maxTokens int) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.deployment,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion on deployment %q: %w", c.deployment, err)
	}

	if len(resp.Choices) == 0 {
		return "", domain.ErrEmptyReply
	}

	return resp.Choices[0].Message.Content, nil
}
