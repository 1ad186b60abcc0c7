package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reshetovitsme/contentguard/internal/shared/ai"
	"github.com/reshetovitsme/contentguard/internal/shared/errors"
	"github.com/samber/oops"
)

const systemInstruction = `You are a professional SMM manager for the Russian market.

Write engaging, interesting, and safe social media posts.

STRICT FORMATTING RULES:
1. Use clear paragraphs with double line breaks between them.
2. Use emojis SPARINGLY and ONLY at the beginning of paragraphs or list items. NEVER place emojis in the middle of sentences.
3. Structure: Title/Headline (optional, bold not needed if plain text), Body paragraphs, Call to Action.
4. Do NOT use markdown bold/italic (**text**) as this will be posted to plain text fields often.

COMPLIANCE RULES:
1. Do not mention 'Foreign Agents' without disclaimers.
2. Do not mention banned organizations (Meta, Facebook, Instagram) without disclaimers.
3. Avoid extremist content.

Write naturally and professionally in Russian. Do NOT use <think> tags or output internal reasoning.`

// Service drafts posts with the hosted text model
type Service struct {
	client ai.Completer
	model  string
}

// New creates a generation service
func New(client ai.Completer, model string) *Service {
	return &Service{client: client, model: model}
}

// Generate writes a post about topic. Errors are returned as they came from the API, without retry.
func (s *Service) Generate(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", errors.Generation(errors.Configuration(oops.Errorf("topic is empty")))
	}

	raw, err := s.client.Complete(ctx, ai.CompletionRequest{
		Model:       s.model,
		System:      systemInstruction,
		User:        fmt.Sprintf("Write a social media post about: %s. Return ONLY the post text, no extra conversational filler.", topic),
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		slog.Error("Post generation failed", "error", err)
		return "", errors.Generation(err)
	}

	text := ai.StripReasoning(raw)
	if text == "" {
		return "", errors.Generation(errors.API(oops.Errorf("no content generated")))
	}

	return text, nil
}
