package converter

import (
	"bytes"
	"context"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"tryon/shared/log"
)

type Transform func(image.Image) image.Image

func WithWidth(width int) Transform {
	return func(img image.Image) image.Image {
		imgDx := img.Bounds().Dx()
		if width != 0 && imgDx > width {
			return imaging.Resize(img, width, 0, imaging.Lanczos)
		}
		return img
	}
}

// Downscaler shrinks oversized photos before they are uploaded to a provider.
// Payloads that do not decode as an image are returned untouched.
type Downscaler struct {
	width  int
	logger *zap.Logger
}

func NewDownscaler(width int, logger *zap.Logger) *Downscaler {
	return &Downscaler{width: width, logger: logger}
}

func (d *Downscaler) Apply(ctx context.Context, p Payload) Payload {
	if d.width <= 0 {
		return p
	}
	logger := log.LoggerWithTrace(ctx, d.logger)

	img, format, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		logger.Debug("Photo is not decodable, forwarding as is", zap.Error(err))
		return p
	}
	if img.Bounds().Dx() <= d.width {
		return p
	}

	img = WithWidth(d.width)(img)

	out := imaging.JPEG
	mimeType := "image/jpeg"
	if format == "png" {
		out = imaging.PNG
		mimeType = "image/png"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, out, imaging.JPEGQuality(90)); err != nil {
		logger.Warn("Failed to re-encode downscaled photo", zap.Error(err))
		return p
	}

	logger.Debug("Downscaled photo",
		zap.Int("width", d.width),
		zap.Int("bytes_before", p.Len()),
		zap.Int("bytes_after", buf.Len()),
	)

	return Payload{Data: buf.Bytes(), MimeType: mimeType}
}
