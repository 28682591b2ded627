package config

import (
	"github.com/caarlos0/env/v8"
	"log/slog"
	"time"
	"tryon/provider"
)

type Config struct {
	AppName  string `env:"APP_NAME" envDefault:"Virtual try-on proxy"`
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"debug"`

	TraceStdout bool `env:"TRACE_STDOUT" envDefault:"false"`

	RateLimitMaxRequests   int `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`
	RateLimitDurationInSec int `env:"RATE_LIMIT_DURATION_IN_SEC" envDefault:"5"`
	BodyLimitInMB          int `env:"BODY_LIMIT_IN_MB" envDefault:"10"`

	AttemptTimeoutInSec int `env:"ATTEMPT_TIMEOUT_IN_SEC" envDefault:"30"`
	MaxImageWidth       int `env:"MAX_IMAGE_WIDTH" envDefault:"1024"`

	ChatImageAPIKey  string `env:"CHAT_IMAGE_API_KEY"`
	LovableAPIKey    string `env:"LOVABLE_API_KEY"`
	ChatImageBaseURL string `env:"CHAT_IMAGE_BASE_URL" envDefault:"https://ai.gateway.lovable.dev/v1"`
	ChatImageModel   string `env:"CHAT_IMAGE_MODEL" envDefault:"google/gemini-2.5-flash-image-preview"`

	HuggingFaceToken  string `env:"HUGGING_FACE_ACCESS_TOKEN"`
	TextToImageToken  string `env:"TEXT_TO_IMAGE_TOKEN"`
	HuggingFaceURL    string `env:"HF_BASE_URL" envDefault:"https://router.huggingface.co"`
	InstructEditModel string `env:"INSTRUCT_EDIT_MODEL" envDefault:"timbrooks/instruct-pix2pix"`
	TextToImageModel  string `env:"TEXT_TO_IMAGE_MODEL" envDefault:"black-forest-labs/FLUX.1-schnell"`

	S3    S3
	Mongo Mongo
}

func New() *Config {
	conf := &Config{}

	if err := env.Parse(conf); err != nil {
		slog.Error(err.Error())

		panic("Failed to parse config")
	}

	if conf.ChatImageAPIKey == "" {
		conf.ChatImageAPIKey = conf.LovableAPIKey
	}

	return conf
}

func (c *Config) RateLimitDuration() time.Duration {
	return time.Duration(c.RateLimitDurationInSec) * time.Second
}

func (c *Config) AttemptTimeout() time.Duration {
	return time.Duration(c.AttemptTimeoutInSec) * time.Second
}

func (c *Config) BodyLimit() int {
	return c.BodyLimitInMB * 1024 * 1024
}

// Providers snapshots the credentials currently configured. An empty key
// disables the matching tier of the fallback chain.
func (c *Config) Providers() provider.Config {
	degraded := c.TextToImageToken
	if degraded == "" {
		degraded = c.HuggingFaceToken
	}

	return provider.Config{
		PrimaryKey:   c.ChatImageAPIKey,
		SecondaryKey: c.HuggingFaceToken,
		DegradedKey:  degraded,
	}
}

func (c *Config) Endpoints() provider.Endpoints {
	return provider.Endpoints{
		ChatBaseURL:       c.ChatImageBaseURL,
		ChatModel:         c.ChatImageModel,
		InferenceBaseURL:  c.HuggingFaceURL,
		InstructEditModel: c.InstructEditModel,
		TextToImageModel:  c.TextToImageModel,
	}
}
