package service

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"strings"
	"time"
	"tryon/api/model"
	"tryon/config"
	"tryon/converter"
	"tryon/journal"
	"tryon/provider"
	"tryon/shared/log"
	"tryon/shared/metrics"
	"tryon/shared/trace"
)

const (
	minUserImageLength = 100
	defaultDescription = "the selected clothing item"
	journalTimeout     = 5 * time.Second
)

type ChainBuilder interface {
	Chain(cfg provider.Config) []provider.Strategy
}

type ReferenceResolver interface {
	Resolve(ctx context.Context, raw string) (string, error)
}

type TryOnService struct {
	chains     ChainBuilder
	resolver   ReferenceResolver
	downscaler *converter.Downscaler
	journal    journal.Recorder
	metrics    *metrics.Metrics

	attemptTimeout time.Duration

	logger *zap.Logger
}

func NewTryOnService(
	cfg *config.Config,
	chains ChainBuilder,
	resolver ReferenceResolver,
	recorder journal.Recorder,
	m *metrics.Metrics,
	logger *zap.Logger,
) *TryOnService {
	if recorder == nil {
		recorder = journal.Nop{}
	}

	return &TryOnService{
		chains:         chains,
		resolver:       resolver,
		downscaler:     converter.NewDownscaler(cfg.MaxImageWidth, logger),
		journal:        recorder,
		metrics:        m,
		attemptTimeout: cfg.AttemptTimeout(),
		logger:         logger,
	}
}

// Process runs the fallback chain for one request. Providers are tried one
// after another; the first usable image wins and recoverable failures only
// move on to the next provider.
func (s *TryOnService) Process(ctx context.Context, req model.TryOnRequest, providers provider.Config) model.TryOnResult {
	requestID := uuid.NewString()
	logger := log.LoggerWithTrace(ctx, s.logger).With(zap.String("request_id", requestID))

	chain := s.chains.Chain(providers)
	if len(chain) == 0 {
		logger.Error("No image provider configured")
		return s.fail(ErrNoProvider)
	}

	userImage, err := validateUserImage(req.UserImage)
	if err != nil {
		logger.Warn("Rejected user image", zap.Error(err), zap.Int("length", len(req.UserImage)))
		return s.fail(err)
	}

	description := strings.TrimSpace(req.ClothingDescription)
	if description == "" {
		description = defaultDescription
	}

	logger.Info("Processing virtual try-on",
		zap.String("clothing", description),
		zap.Int("providers", len(chain)),
		zap.Int("image_bytes", userImage.Len()),
	)

	preq := provider.Request{
		UserImage:           s.downscaler.Apply(ctx, userImage),
		ClothingDescription: description,
		ClothingImageURL:    s.resolveReference(ctx, logger, req.ClothingImageURL),
	}

	var primaryReason provider.Reason
	for _, strategy := range chain {
		if ctx.Err() != nil {
			return s.fail(fmt.Errorf("%w: %w", ErrCancelled, ctx.Err()))
		}

		res := s.attempt(ctx, logger, requestID, strategy, preq)

		switch res.Outcome {
		case provider.Success:
			s.metrics.ObserveResult("success", strategy.Name().String())
			logger.Info("Virtual try-on generated", zap.String("provider", strategy.Name().String()))

			return model.TryOnResult{
				Success:     true,
				ResultImage: res.Image,
				Message:     res.Message,
				Provider:    strategy.Name().String(),
			}
		case provider.Fatal:
			logger.Warn("Provider chain aborted", zap.String("provider", strategy.Name().String()), zap.Error(res.Err))
			return s.fail(fmt.Errorf("%w: %w", ErrCancelled, res.Err))
		}

		// only the chat editor's limits reach the caller
		if strategy.Name() == provider.ChatImageEdit {
			primaryReason = res.Reason
		}
	}

	logger.Error("All providers failed", zap.String("primary_failure", primaryReason.String()))

	switch primaryReason {
	case provider.RateLimited:
		return s.fail(ErrRateLimited)
	case provider.QuotaExhausted:
		return s.fail(ErrQuotaExhausted)
	}
	return s.fail(ErrGenerationFailed)
}

func (s *TryOnService) attempt(
	ctx context.Context,
	logger *zap.Logger,
	requestID string,
	strategy provider.Strategy,
	req provider.Request,
) provider.AttemptResult {
	name := strategy.Name().String()

	ctx, span := trace.Tracer().Start(ctx, "provider.attempt",
		oteltrace.WithAttributes(attribute.String("provider", name)))
	defer span.End()

	attemptCtx := ctx
	if s.attemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, s.attemptTimeout)
		defer cancel()
	}

	started := time.Now()
	res := strategy.Attempt(attemptCtx, req)
	elapsed := time.Since(started)

	span.SetAttributes(attribute.String("outcome", res.Outcome.String()))
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Reason.String())
		logger.Warn("Provider attempt failed",
			zap.String("provider", name),
			zap.String("reason", res.Reason.String()),
			zap.Duration("elapsed", elapsed),
			zap.Error(res.Err),
		)
	}

	s.metrics.ObserveAttempt(name, res.Outcome.String(), res.Reason.String(), elapsed)

	entry := journal.Entry{
		RequestID:  requestID,
		Provider:   name,
		Outcome:    res.Outcome.String(),
		Reason:     res.Reason.String(),
		Duration:   elapsed,
		OccurredAt: started,
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}

	journalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()
	if err := s.journal.Record(journalCtx, entry); err != nil {
		logger.Warn("Failed to journal provider attempt", zap.Error(err))
	}

	return res
}

func (s *TryOnService) resolveReference(ctx context.Context, logger *zap.Logger, raw string) string {
	if s.resolver == nil || strings.TrimSpace(raw) == "" {
		return ""
	}

	resolved, err := s.resolver.Resolve(ctx, raw)
	if err != nil {
		logger.Warn("Ignoring clothing reference image", zap.String("url", raw), zap.Error(err))
		return ""
	}
	return resolved
}

func (s *TryOnService) fail(err error) model.TryOnResult {
	s.metrics.ObserveResult("failure", "")

	return model.TryOnResult{
		Success:     false,
		ErrorReason: UserMessage(err),
		Err:         err,
	}
}

func validateUserImage(raw string) (converter.Payload, error) {
	if raw == "" || raw == converter.EmptyMarker || len(raw) < minUserImageLength {
		return converter.Payload{}, ErrInvalidImage
	}

	p, err := converter.DecodeDataURI(raw)
	if err != nil {
		return converter.Payload{}, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	return p, nil
}
