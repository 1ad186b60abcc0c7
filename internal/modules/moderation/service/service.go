package service

import (
	"context"
	"log/slog"

	"github.com/reshetovitsme/contentguard/internal/modules/moderation/domain"
	"github.com/reshetovitsme/contentguard/internal/shared/ai"
	"github.com/reshetovitsme/contentguard/internal/shared/errors"
	"github.com/reshetovitsme/contentguard/internal/shared/media"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"
)

const (
	textTemperature = 0.1
	textMaxTokens   = 2000
	imageMaxTokens  = 300
)

// Service runs compliance analysis against the hosted models
type Service struct {
	client      ai.Completer
	textModel   string
	visionModel string
}

// New creates a moderation service
func New(client ai.Completer, textModel, visionModel string) *Service {
	return &Service{
		client:      client,
		textModel:   textModel,
		visionModel: visionModel,
	}
}

// Analyze checks text and, when present, image concurrently. Either call failing fails the whole
// analysis; there is no partial result. The image verdict is attached as advisory text and never
// changes IsSafe or OverallRisk.
func (s *Service) Analyze(ctx context.Context, text string, image *media.Image) (*domain.AnalysisResult, error) {
	g, gctx := errgroup.WithContext(ctx)

	var result *domain.AnalysisResult
	g.Go(func() error {
		raw, err := s.client.Complete(gctx, ai.CompletionRequest{
			Model:       s.textModel,
			User:        compliancePrompt(text),
			Temperature: textTemperature,
			MaxTokens:   textMaxTokens,
		})
		if err != nil {
			return oops.With("call", "text").Wrap(err)
		}
		result, err = ParseResult(raw)
		return err
	})

	var imageAnalysis string
	if image != nil {
		g.Go(func() error {
			out, err := s.client.Describe(gctx, ai.VisionRequest{
				Model:       s.visionModel,
				Instruction: imageInstruction,
				Image:       image,
				MaxTokens:   imageMaxTokens,
			})
			if err != nil {
				return oops.With("call", "vision").Wrap(err)
			}
			imageAnalysis = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Content analysis failed", "has_image", image != nil, "error", err)
		return nil, errors.Analysis(err)
	}

	result.ImageAnalysis = nil
	if image != nil {
		result.ImageAnalysis = &imageAnalysis
	}

	slog.Info("Content analyzed", "is_safe", result.IsSafe, "risk", result.OverallRisk, "issues", len(result.Issues))
	return result, nil
}
