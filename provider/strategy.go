package provider

import (
	"context"
	"go.uber.org/zap"
	"net/http"
)

type Strategy interface {
	Name() Name
	Attempt(ctx context.Context, req Request) AttemptResult
}

// Config carries the provider credentials for one call. An empty key
// disables that tier.
type Config struct {
	PrimaryKey   string
	SecondaryKey string
	DegradedKey  string
}

func (c Config) Any() bool {
	return c.PrimaryKey != "" || c.SecondaryKey != "" || c.DegradedKey != ""
}

type Endpoints struct {
	ChatBaseURL string
	ChatModel   string

	InferenceBaseURL  string
	InstructEditModel string
	TextToImageModel  string
}

// Factory builds the ordered fallback chain for a given credential set.
type Factory struct {
	endpoints Endpoints
	client    *http.Client
	logger    *zap.Logger
}

func NewFactory(endpoints Endpoints, client *http.Client, logger *zap.Logger) *Factory {
	if client == nil {
		client = http.DefaultClient
	}
	return &Factory{endpoints: endpoints, client: client, logger: logger}
}

// Chain returns the strategies to try, in priority order: the chat editor
// is the only one able to edit the actual photo, the instruct editor is a
// weaker edit and text-to-image is the degraded preview.
func (f *Factory) Chain(cfg Config) []Strategy {
	var chain []Strategy

	if cfg.PrimaryKey != "" && f.endpoints.ChatModel != "" {
		chain = append(chain, newChatEditor(cfg.PrimaryKey, f.endpoints, f.client, f.logger))
	}
	if cfg.SecondaryKey != "" && f.endpoints.InstructEditModel != "" {
		chain = append(chain, newInstructEditor(cfg.SecondaryKey, f.endpoints, f.client, f.logger))
	}
	if cfg.DegradedKey != "" && f.endpoints.TextToImageModel != "" {
		chain = append(chain, newPreviewGenerator(cfg.DegradedKey, f.endpoints, f.client, f.logger))
	}

	return chain
}
