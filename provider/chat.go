package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"net/http"
	"strings"
	"tryon/converter"
	"tryon/shared/log"
)

// chatEditor edits the user's photo through an OpenAI compatible chat
// completions gateway serving an image capable multimodal model.
type chatEditor struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

// chatImageMessage is the part of the assistant message the SDK does not
// model: generated images are returned next to the text content.
type chatImageMessage struct {
	Content string `json:"content"`
	Images  []struct {
		ImageURL struct {
			URL string `json:"url"`
		} `json:"image_url"`
	} `json:"images"`
}

func newChatEditor(key string, e Endpoints, hc *http.Client, logger *zap.Logger) *chatEditor {
	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithHTTPClient(hc),
		option.WithMaxRetries(0),
	}
	if e.ChatBaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(e.ChatBaseURL, "/")+"/"))
	}

	return &chatEditor{
		client: openai.NewClient(opts...),
		model:  e.ChatModel,
		logger: logger,
	}
}

func (c *chatEditor) Name() Name {
	return ChatImageEdit
}

func (c *chatEditor) Attempt(ctx context.Context, req Request) AttemptResult {
	logger := log.LoggerWithTrace(ctx, c.logger).With(zap.String("provider", ChatImageEdit.String()))

	parts := []openai.ChatCompletionContentPartUnionParam{
		{OfText: &openai.ChatCompletionContentPartTextParam{Text: editPrompt(req)}},
		imagePart(req.UserImage.DataURI()),
	}
	if req.ClothingImageURL != "" {
		parts = append(parts, imagePart(req.ClothingImageURL))
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: parts,
					},
				},
			},
		},
	}

	logger.Debug("Sending chat image edit", zap.String("model", c.model), zap.Int("parts", len(parts)))

	resp, err := c.client.Chat.Completions.New(ctx, params, option.WithJSONSet("modalities", []string{"image", "text"}))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return classifyStatus(ChatImageEdit, apiErr.StatusCode, apiErr.RawJSON())
		}
		return classifyError(ctx, ChatImageEdit, err)
	}

	if len(resp.Choices) == 0 {
		return Failed(MalformedResponse, fmt.Errorf("%s: no choices in response", ChatImageEdit))
	}

	var msg chatImageMessage
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.RawJSON()), &msg); err != nil {
		return Failed(MalformedResponse, fmt.Errorf("%s: decode message: %w", ChatImageEdit, err))
	}
	if len(msg.Images) == 0 || msg.Images[0].ImageURL.URL == "" {
		return Failed(MalformedResponse, fmt.Errorf("%s: no image in response: %s", ChatImageEdit, truncate(msg.Content, 256)))
	}

	image, err := converter.DecodeDataURI(msg.Images[0].ImageURL.URL)
	if err != nil {
		return Failed(MalformedResponse, fmt.Errorf("%s: decode image: %w", ChatImageEdit, err))
	}

	logger.Debug("Chat image edit succeeded", zap.Int("bytes", image.Len()))

	return Succeeded(image, fmt.Sprintf("Virtual try-on of %s", req.ClothingDescription))
}

func imagePart(url string) openai.ChatCompletionContentPartUnionParam {
	return openai.ChatCompletionContentPartUnionParam{
		OfImageURL: &openai.ChatCompletionContentPartImageParam{
			ImageURL: openai.ChatCompletionContentPartImageImageURLParam{URL: url},
		},
	}
}
