package provider

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"net/http"
	"tryon/shared/log"
)

// instructEditor runs an instruction guided diffusion model on the photo.
type instructEditor struct {
	inference inferenceClient
	model     string
	logger    *zap.Logger
}

type instructPayload struct {
	Inputs     string             `json:"inputs"`
	Parameters instructParameters `json:"parameters"`
}

type instructParameters struct {
	Prompt string `json:"prompt"`
}

func newInstructEditor(token string, e Endpoints, hc *http.Client, logger *zap.Logger) *instructEditor {
	return &instructEditor{
		inference: inferenceClient{baseURL: e.InferenceBaseURL, token: token, client: hc},
		model:     e.InstructEditModel,
		logger:    logger,
	}
}

func (s *instructEditor) Name() Name {
	return InstructEdit
}

func (s *instructEditor) Attempt(ctx context.Context, req Request) AttemptResult {
	log.LoggerWithTrace(ctx, s.logger).Debug("Sending instruct edit",
		zap.String("provider", InstructEdit.String()),
		zap.String("model", s.model),
	)

	res := s.inference.generate(ctx, InstructEdit, s.model, instructPayload{
		Inputs:     req.UserImage.Base64(),
		Parameters: instructParameters{Prompt: instructPrompt(req)},
	})
	if res.Outcome == Success {
		res.Message = fmt.Sprintf("Virtual try-on of %s", req.ClothingDescription)
	}
	return res
}
