package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"tryon/converter"
)

const maxImageResponse = 32 << 20

// inferenceClient posts JSON to a hosted inference model that answers with
// raw image bytes.
type inferenceClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func (c inferenceClient) modelURL(model string) string {
	return strings.TrimRight(c.baseURL, "/") + "/hf-inference/models/" + model
}

func (c inferenceClient) generate(ctx context.Context, provider Name, model string, payload any) AttemptResult {
	body, err := json.Marshal(payload)
	if err != nil {
		return Failed(TransportError, fmt.Errorf("%s: encode payload: %w", provider, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL(model), bytes.NewReader(body))
	if err != nil {
		return Failed(TransportError, fmt.Errorf("%s: build request: %w", provider, err))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyError(ctx, provider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageResponse))
	if err != nil {
		return classifyError(ctx, provider, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(provider, resp.StatusCode, string(data))
	}

	if !converter.IsImage(data) {
		return Failed(MalformedResponse, fmt.Errorf("%s: response is not an image (%s): %s",
			provider, resp.Header.Get("Content-Type"), truncate(string(data), 256)))
	}

	return Succeeded(converter.Payload{Data: data, MimeType: converter.Sniff(data)}, "")
}
