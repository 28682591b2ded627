package provider

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"net/http"
	"tryon/shared/log"
)

// previewGenerator is the degraded tier: a plain text-to-image call that
// never sees the user's photo.
type previewGenerator struct {
	inference inferenceClient
	model     string
	logger    *zap.Logger
}

type previewPayload struct {
	Inputs string `json:"inputs"`
}

func newPreviewGenerator(token string, e Endpoints, hc *http.Client, logger *zap.Logger) *previewGenerator {
	return &previewGenerator{
		inference: inferenceClient{baseURL: e.InferenceBaseURL, token: token, client: hc},
		model:     e.TextToImageModel,
		logger:    logger,
	}
}

func (s *previewGenerator) Name() Name {
	return TextToImage
}

func (s *previewGenerator) Attempt(ctx context.Context, req Request) AttemptResult {
	prompt := previewPrompt(req)
	log.LoggerWithTrace(ctx, s.logger).Debug("Generating preview",
		zap.String("provider", TextToImage.String()),
		zap.String("model", s.model),
		zap.String("prompt", prompt),
	)

	res := s.inference.generate(ctx, TextToImage, s.model, previewPayload{Inputs: prompt})
	if res.Outcome == Success {
		res.Message = fmt.Sprintf(
			"Preview: generic image of %s. Your photo could not be edited, so this shows the item on a model instead.",
			req.ClothingDescription,
		)
	}
	return res
}
