package ai

import (
	"context"
	stderrors "errors"
	"regexp"
	"strings"

	"github.com/reshetovitsme/contentguard/internal/shared/errors"
	"github.com/reshetovitsme/contentguard/internal/shared/media"
	"github.com/samber/oops"
	"github.com/sashabaranov/go-openai"
)

// CompletionRequest is a single-turn text completion
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// VisionRequest asks a vision model about one image
type VisionRequest struct {
	Model       string
	Instruction string
	Image       *media.Image
	MaxTokens   int
}

// Completer is the subset of the completion API the modules depend on
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Describe(ctx context.Context, req VisionRequest) (string, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint
type Client struct {
	client *openai.Client
}

// NewClient creates a client for baseURL authenticated with apiKey
func NewClient(baseURL, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.Configuration(errors.ErrMissingAPIKey)
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &Client{client: openai.NewClientWithConfig(clientConfig)}, nil
}

// Complete returns the raw content of the first choice
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	return c.create(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
}

// Describe sends the image as a data URL next to the instruction
func (c *Client) Describe(ctx context.Context, req VisionRequest) (string, error) {
	if req.Image == nil {
		return "", errors.Configuration(oops.Errorf("no image to describe"))
	}

	return c.create(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: req.Instruction,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: req.Image.DataURL(),
						},
					},
				},
			},
		},
		MaxTokens: req.MaxTokens,
	})
}

func (c *Client) create(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(req.Model, err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.API(oops.With("model", req.Model).Errorf("no content generated"))
	}

	return resp.Choices[0].Message.Content, nil
}

// classify sorts client errors into the API and transport buckets. The remote message is kept verbatim.
func classify(model string, err error) error {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return errors.API(oops.With("model", model, "status", apiErr.HTTPStatusCode).Wrap(err))
	}
	return errors.Transport(oops.With("model", model).Wrap(err))
}

var reasoningBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripReasoning removes <think>…</think> blocks some models emit ahead of the answer
func StripReasoning(content string) string {
	content = reasoningBlock.ReplaceAllString(content, "")
	// An unterminated block means the answer never started.
	if i := strings.Index(content, "<think>"); i >= 0 {
		content = content[:i]
	}
	return strings.TrimSpace(content)
}
