package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-gen/internal/models"
	"github.com/phambaophuc/image-gen/pkg/utils"
	"go.uber.org/zap"
)

const (
	DefaultQuality   = 85
	DefaultOpacity   = 0.6
	WatermarkPadding = 10
)

// ImageProcessor works on artifacts that are already on disk.
type ImageProcessor struct {
	logger *zap.Logger
}

func NewImageProcessor(logger *zap.Logger) *ImageProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageProcessor{logger: logger}
}

// Thumbnail writes a resized, optionally watermarked copy of the image at
// path next to it as <name>_thumb<ext> and returns the new path.
func (p *ImageProcessor) Thumbnail(path string, req *models.ThumbnailRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("invalid thumbnail request: %w", err)
	}

	info, err := p.Inspect(path)
	if err != nil {
		return "", err
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := p.resizeImage(img, req)
	if req.Watermark != nil {
		thumb = p.addWatermark(thumb, req.Watermark)
	}

	format := p.getOutputFormat(info.Format)
	out := utils.DerivedFilename(path, "thumb")
	if format != info.Format {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + "." + format
	}

	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("failed to create thumbnail: %w", err)
	}
	if err := p.encodeImage(f, thumb, format, p.getQuality(req)); err != nil {
		f.Close()
		os.Remove(out)
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}

	bounds := thumb.Bounds()
	p.logger.Info("Thumbnail written",
		zap.String("path", out),
		zap.String("format", format),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()),
	)

	return out, nil
}

// getOutputFormat keeps the source format when it can be encoded and falls
// back to PNG otherwise.
func (p *ImageProcessor) getOutputFormat(format string) string {
	switch format {
	case models.FormatJPEG, models.FormatPNG, models.FormatGIF:
		return format
	default:
		return models.FormatPNG
	}
}

func (p *ImageProcessor) getQuality(req *models.ThumbnailRequest) int {
	if req.Quality > 0 {
		return min(100, req.Quality)
	}
	return DefaultQuality
}
