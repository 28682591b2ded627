package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"tryon/api/model"
	"tryon/config"
	"tryon/converter"
	"tryon/journal"
	"tryon/provider"
	"tryon/shared/metrics"
)

type fakeStrategy struct {
	name   provider.Name
	result provider.AttemptResult
	block  bool

	calls int
	got   provider.Request
}

func (f *fakeStrategy) Name() provider.Name {
	return f.name
}

func (f *fakeStrategy) Attempt(ctx context.Context, req provider.Request) provider.AttemptResult {
	f.calls++
	f.got = req
	if f.block {
		<-ctx.Done()
		return provider.Failed(provider.TransportError, ctx.Err())
	}
	return f.result
}

type fakeChain []provider.Strategy

func (c fakeChain) Chain(provider.Config) []provider.Strategy {
	return c
}

type memoryJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
	err     error
}

func (m *memoryJournal) Record(_ context.Context, e journal.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return m.err
}

type fakeResolver struct {
	url string
	err error
}

func (f fakeResolver) Resolve(context.Context, string) (string, error) {
	return f.url, f.err
}

var allKeys = provider.Config{PrimaryKey: "k", SecondaryKey: "hf", DegradedKey: "hf"}

func pngPayload(t *testing.T) converter.Payload {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16))))
	return converter.Payload{Data: buf.Bytes(), MimeType: "image/png"}
}

func validRequest() model.TryOnRequest {
	return model.TryOnRequest{
		UserImage:           "data:image/png;base64," + strings.Repeat("AAAA", 50),
		ClothingDescription: "a red linen shirt",
	}
}

func newService(t *testing.T, chains ChainBuilder) (*TryOnService, *memoryJournal) {
	t.Helper()

	j := &memoryJournal{}
	cfg := &config.Config{AttemptTimeoutInSec: 30}
	return NewTryOnService(cfg, chains, nil, j, metrics.New(prometheus.NewRegistry()), zaptest.NewLogger(t)), j
}

func success(t *testing.T, msg string) provider.AttemptResult {
	return provider.Succeeded(pngPayload(t), msg)
}

func assertStructure(t *testing.T, r model.TryOnResult) {
	t.Helper()
	if r.Success {
		assert.NotZero(t, r.ResultImage.Len(), "successful result carries an image")
		assert.NoError(t, r.Err)
	} else {
		assert.Zero(t, r.ResultImage.Len(), "failed result carries no image")
		assert.Error(t, r.Err)
		assert.NotEmpty(t, r.ErrorReason)
	}
}

func TestProcess_RejectsInvalidImageWithoutCalls(t *testing.T) {
	inputs := []string{
		"",
		converter.EmptyMarker,
		"data:image/png;base64,AAAA",
		"data:image/png;base64," + strings.Repeat("!", 120),
		"data:image/png;base64," + strings.Repeat("=", 120),
	}

	for _, in := range inputs {
		primary := &fakeStrategy{name: provider.ChatImageEdit, result: success(t, "ok")}
		svc, j := newService(t, fakeChain{primary})

		req := validRequest()
		req.UserImage = in
		res := svc.Process(context.Background(), req, allKeys)

		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err, ErrInvalidImage)
		assert.Equal(t, "Invalid or empty user image. Please try capturing again.", res.ErrorReason)
		assert.Zero(t, primary.calls)
		assert.Empty(t, j.entries)
		assertStructure(t, res)
	}
}

func TestProcess_NoProviderConfigured(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	factory := provider.NewFactory(provider.Endpoints{
		ChatBaseURL:       srv.URL,
		ChatModel:         "m",
		InferenceBaseURL:  srv.URL,
		InstructEditModel: "edit",
		TextToImageModel:  "t2i",
	}, srv.Client(), zaptest.NewLogger(t))

	svc, _ := newService(t, factory)
	res := svc.Process(context.Background(), validRequest(), provider.Config{})

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrNoProvider)
	assert.Equal(t, "no provider configured", res.ErrorReason)
	assert.Zero(t, calls.Load())
	assertStructure(t, res)
}

func TestProcess_PrimarySuccessStopsChain(t *testing.T) {
	image := pngPayload(t)
	primary := &fakeStrategy{name: provider.ChatImageEdit, result: provider.Succeeded(image, "Virtual try-on of a red linen shirt")}
	secondary := &fakeStrategy{name: provider.InstructEdit, result: success(t, "secondary")}
	degraded := &fakeStrategy{name: provider.TextToImage, result: success(t, "Preview")}

	svc, j := newService(t, fakeChain{primary, secondary, degraded})
	res := svc.Process(context.Background(), validRequest(), allKeys)

	require.True(t, res.Success)
	assert.Equal(t, image, res.ResultImage)
	assert.Equal(t, provider.ChatImageEdit.String(), res.Provider)
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, secondary.calls)
	assert.Zero(t, degraded.calls)
	assert.Len(t, j.entries, 1)
	assertStructure(t, res)

	assert.Equal(t, "a red linen shirt", primary.got.ClothingDescription)
	assert.Equal(t, 150, primary.got.UserImage.Len())
}

func TestProcess_RateLimitedPrimaryFallsBack(t *testing.T) {
	image := pngPayload(t)
	primary := &fakeStrategy{name: provider.ChatImageEdit, result: provider.Failed(provider.RateLimited, errors.New("http 429"))}
	secondary := &fakeStrategy{name: provider.InstructEdit, result: provider.Succeeded(image, "Virtual try-on of a red linen shirt")}
	degraded := &fakeStrategy{name: provider.TextToImage, result: success(t, "Preview")}

	svc, j := newService(t, fakeChain{primary, secondary, degraded})
	res := svc.Process(context.Background(), validRequest(), allKeys)

	require.True(t, res.Success)
	assert.Equal(t, image, res.ResultImage)
	assert.Equal(t, provider.InstructEdit.String(), res.Provider)
	assert.NoError(t, res.Err)
	assert.Zero(t, degraded.calls)

	require.Len(t, j.entries, 2)
	assert.Equal(t, "recoverable", j.entries[0].Outcome)
	assert.Equal(t, "rate_limited", j.entries[0].Reason)
	assert.Equal(t, "http 429", j.entries[0].Error)
	assert.Equal(t, "success", j.entries[1].Outcome)
	assert.Equal(t, j.entries[0].RequestID, j.entries[1].RequestID)
}

func TestProcess_DegradedModeAfterTwoFailures(t *testing.T) {
	image := pngPayload(t)
	primary := &fakeStrategy{name: provider.ChatImageEdit, result: provider.Failed(provider.QuotaExhausted, errors.New("http 402"))}
	secondary := &fakeStrategy{name: provider.InstructEdit, result: provider.Failed(provider.MalformedResponse, errors.New("http 503"))}
	degraded := &fakeStrategy{name: provider.TextToImage, result: provider.Succeeded(image, "Preview: generic image of a red linen shirt.")}

	svc, _ := newService(t, fakeChain{primary, secondary, degraded})
	res := svc.Process(context.Background(), validRequest(), allKeys)

	require.True(t, res.Success)
	assert.Equal(t, image, res.ResultImage)
	assert.Contains(t, res.Message, "Preview")
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	assert.Equal(t, 1, degraded.calls)
	assertStructure(t, res)
}

func TestProcess_ExhaustionMapsPrimaryFailure(t *testing.T) {
	tests := []struct {
		name    string
		head    provider.Reason
		wantErr error
		wantMsg string
	}{
		{"rate limited", provider.RateLimited, ErrRateLimited, "Rate limit exceeded, please try again later."},
		{"quota", provider.QuotaExhausted, ErrQuotaExhausted, "Usage limit reached. Please add credits to continue."},
		{"malformed", provider.MalformedResponse, ErrGenerationFailed, "Image generation failed. Please try again."},
		{"transport", provider.TransportError, ErrGenerationFailed, "Image generation failed. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &fakeStrategy{name: provider.ChatImageEdit, result: provider.Failed(tt.head, errors.New("primary"))}
			degraded := &fakeStrategy{name: provider.TextToImage, result: provider.Failed(provider.MalformedResponse, errors.New("degraded"))}

			svc, _ := newService(t, fakeChain{primary, degraded})
			res := svc.Process(context.Background(), validRequest(), allKeys)

			assert.False(t, res.Success)
			assert.ErrorIs(t, res.Err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, res.ErrorReason)
			assert.NotContains(t, res.ErrorReason, "primary")
			assert.Equal(t, 1, degraded.calls)
			assertStructure(t, res)
		})
	}
}

func TestProcess_FallbackLimitsAreNotSurfaced(t *testing.T) {
	for _, reason := range []provider.Reason{provider.RateLimited, provider.QuotaExhausted} {
		t.Run(reason.String(), func(t *testing.T) {
			secondary := &fakeStrategy{name: provider.InstructEdit, result: provider.Failed(reason, errors.New("secondary"))}
			degraded := &fakeStrategy{name: provider.TextToImage, result: provider.Failed(provider.MalformedResponse, errors.New("http 503"))}

			svc, _ := newService(t, fakeChain{secondary, degraded})
			res := svc.Process(context.Background(), validRequest(), provider.Config{SecondaryKey: "hf", DegradedKey: "hf"})

			assert.False(t, res.Success)
			assert.ErrorIs(t, res.Err, ErrGenerationFailed)
			assert.Equal(t, "Image generation failed. Please try again.", res.ErrorReason)
			assert.Equal(t, 1, secondary.calls)
			assert.Equal(t, 1, degraded.calls)
			assertStructure(t, res)
		})
	}
}

func TestProcess_FatalStopsChain(t *testing.T) {
	primary := &fakeStrategy{name: provider.ChatImageEdit, result: provider.Aborted(context.Canceled)}
	degraded := &fakeStrategy{name: provider.TextToImage, result: success(t, "Preview")}

	svc, _ := newService(t, fakeChain{primary, degraded})
	res := svc.Process(context.Background(), validRequest(), allKeys)

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrCancelled)
	assert.Zero(t, degraded.calls)
}

func TestProcess_CancelledContext(t *testing.T) {
	primary := &fakeStrategy{name: provider.ChatImageEdit, result: success(t, "ok")}
	svc, _ := newService(t, fakeChain{primary})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := svc.Process(ctx, validRequest(), allKeys)

	assert.ErrorIs(t, res.Err, ErrCancelled)
	assert.Zero(t, primary.calls)
}

func TestProcess_AttemptTimeoutFallsBack(t *testing.T) {
	primary := &fakeStrategy{name: provider.ChatImageEdit, block: true}
	degraded := &fakeStrategy{name: provider.TextToImage, result: success(t, "Preview")}

	svc, j := newService(t, fakeChain{primary, degraded})
	svc.attemptTimeout = 20 * time.Millisecond

	res := svc.Process(context.Background(), validRequest(), allKeys)

	require.True(t, res.Success)
	assert.Equal(t, provider.TextToImage.String(), res.Provider)
	require.Len(t, j.entries, 2)
	assert.Equal(t, "transport_error", j.entries[0].Reason)
}

func TestProcess_DefaultsAndReferences(t *testing.T) {
	t.Run("empty description", func(t *testing.T) {
		primary := &fakeStrategy{name: provider.ChatImageEdit, result: success(t, "ok")}
		svc, _ := newService(t, fakeChain{primary})

		req := validRequest()
		req.ClothingDescription = "   "
		svc.Process(context.Background(), req, allKeys)

		assert.Equal(t, defaultDescription, primary.got.ClothingDescription)
	})

	t.Run("resolved reference", func(t *testing.T) {
		primary := &fakeStrategy{name: provider.ChatImageEdit, result: success(t, "ok")}
		svc, _ := newService(t, fakeChain{primary})
		svc.resolver = fakeResolver{url: "https://signed.example.com/shirt.jpg"}

		req := validRequest()
		req.ClothingImageURL = "s3://products/shirt.jpg"
		svc.Process(context.Background(), req, allKeys)

		assert.Equal(t, "https://signed.example.com/shirt.jpg", primary.got.ClothingImageURL)
	})

	t.Run("unresolvable reference is dropped", func(t *testing.T) {
		primary := &fakeStrategy{name: provider.ChatImageEdit, result: success(t, "ok")}
		svc, _ := newService(t, fakeChain{primary})
		svc.resolver = fakeResolver{err: errors.New("s3 disabled")}

		req := validRequest()
		req.ClothingImageURL = "s3://products/shirt.jpg"
		res := svc.Process(context.Background(), req, allKeys)

		assert.True(t, res.Success)
		assert.Empty(t, primary.got.ClothingImageURL)
	})
}

func TestProcess_JournalFailureIsIgnored(t *testing.T) {
	primary := &fakeStrategy{name: provider.ChatImageEdit, result: success(t, "ok")}
	svc, j := newService(t, fakeChain{primary})
	j.err = errors.New("mongo down")

	res := svc.Process(context.Background(), validRequest(), allKeys)

	assert.True(t, res.Success)
	assert.Len(t, j.entries, 1)
}

// Full chain against fake provider APIs: the chat gateway is out of credits
// and the instruct editor is down, so the text-to-image preview is returned.
func TestProcess_QuotaFallsThroughToPreview(t *testing.T) {
	preview := pngPayload(t)

	var chatCalls, instructCalls, previewCalls atomic.Int32
	prompts := make(chan string, 1)

	chat := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"Payment required"}}`))
	}))
	defer chat.Close()

	hf := http.NewServeMux()
	hf.HandleFunc("/hf-inference/models/timbrooks/instruct-pix2pix", func(w http.ResponseWriter, r *http.Request) {
		instructCalls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	hf.HandleFunc("/hf-inference/models/black-forest-labs/FLUX.1-schnell", func(w http.ResponseWriter, r *http.Request) {
		previewCalls.Add(1)
		var body struct {
			Inputs string `json:"inputs"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		prompts <- body.Inputs
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(preview.Data)
	})
	hfSrv := httptest.NewServer(hf)
	defer hfSrv.Close()

	factory := provider.NewFactory(provider.Endpoints{
		ChatBaseURL:       chat.URL + "/v1",
		ChatModel:         "google/gemini-2.5-flash-image-preview",
		InferenceBaseURL:  hfSrv.URL,
		InstructEditModel: "timbrooks/instruct-pix2pix",
		TextToImageModel:  "black-forest-labs/FLUX.1-schnell",
	}, http.DefaultClient, zaptest.NewLogger(t))

	svc, j := newService(t, factory)
	res := svc.Process(context.Background(), validRequest(), allKeys)

	require.True(t, res.Success, res.ErrorReason)
	assert.Equal(t, preview.Data, res.ResultImage.Data)
	assert.Contains(t, res.Message, "Preview")
	assert.Contains(t, <-prompts, "red linen shirt")
	assert.EqualValues(t, 1, chatCalls.Load())
	assert.EqualValues(t, 1, instructCalls.Load())
	assert.EqualValues(t, 1, previewCalls.Load())

	resp := res.Response()
	assert.True(t, resp.Success)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(preview.Data), resp.ResultImage)

	require.Len(t, j.entries, 3)
	assert.Equal(t, "quota_exhausted", j.entries[0].Reason)
	assert.Equal(t, "malformed_response", j.entries[1].Reason)
	assert.Equal(t, "success", j.entries[2].Outcome)
}

func TestProcess_BrokenTierFallsThrough(t *testing.T) {
	preview := pngPayload(t)

	hf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(preview.Data)
	}))
	defer hf.Close()

	factory := provider.NewFactory(provider.Endpoints{
		InferenceBaseURL:  hf.URL,
		InstructEditModel: "bad\x7fmodel",
		TextToImageModel:  "black-forest-labs/FLUX.1-schnell",
	}, http.DefaultClient, zaptest.NewLogger(t))

	svc, j := newService(t, factory)
	res := svc.Process(context.Background(), validRequest(), provider.Config{SecondaryKey: "hf", DegradedKey: "hf"})

	require.True(t, res.Success, res.ErrorReason)
	assert.Equal(t, provider.TextToImage.String(), res.Provider)
	assert.Contains(t, res.Message, "Preview")

	require.Len(t, j.entries, 2)
	assert.Equal(t, "transport_error", j.entries[0].Reason)
	assert.Equal(t, "success", j.entries[1].Outcome)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Rate limit exceeded, please try again later.", UserMessage(ErrRateLimited))
	assert.Equal(t, "Invalid or empty user image. Please try capturing again.",
		UserMessage(errors.Join(errors.New("wrapped"), ErrInvalidImage)))
	assert.Equal(t, "Something went wrong. Please try again.", UserMessage(errors.New("boom")))
}
