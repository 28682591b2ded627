package rest

import (
	"errors"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"tryon/api/model"
	"tryon/config"
	"tryon/service"
	"tryon/shared/log"
)

type TryOnController struct {
	cfg     *config.Config
	service *service.TryOnService
	logger  *zap.Logger
}

func NewTryOnController(app *fiber.App, cfg *config.Config, service *service.TryOnService, logger *zap.Logger) *TryOnController {
	t := &TryOnController{service: service, cfg: cfg, logger: logger}

	app.Post("/virtual-try-on", t.TryOn)

	return t
}

// TryOn dresses the person in the uploaded photo
//
//	@Summary		Virtual try-on
//	@Description	Edits the user's photo so the person wears the described clothing. Falls back to a generic preview when no editor is available.
//	@Tags			try-on
//	@Accept			json
//	@Produce		json
//	@Param			request	body		model.TryOnRequest	true	"Photo and clothing"
//	@Success		200		{object}	model.TryOnResponse
//	@Failure		402		{object}	model.ErrorResponse
//	@Failure		429		{object}	model.ErrorResponse
//	@Failure		500		{object}	model.ErrorResponse
//	@Router			/virtual-try-on [post]
func (t *TryOnController) TryOn(c *fiber.Ctx) error {
	ctx := c.UserContext()
	logger := log.LoggerWithTrace(ctx, t.logger)

	req := model.TryOnRequest{}
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		logger.Error("Error parsing try-on request", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Error: "Invalid request body"})
	}

	result := t.service.Process(ctx, req, t.cfg.Providers())
	if !result.Success {
		return c.Status(statusFor(result.Err)).JSON(model.ErrorResponse{Error: result.ErrorReason})
	}

	c.Set("X-Tryon-Provider", result.Provider)

	return c.JSON(result.Response())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, service.ErrQuotaExhausted):
		return fiber.StatusPaymentRequired
	}
	return fiber.StatusInternalServerError
}
