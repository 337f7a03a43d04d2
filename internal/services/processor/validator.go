package processor

import (
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/phambaophuc/image-gen/internal/models"
	_ "golang.org/x/image/webp"
)

// Inspect decodes only the image header at path.
func (p *ImageProcessor) Inspect(path string) (*models.ImageInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("invalid image format: %w", err)
	}

	return &models.ImageInfo{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Bytes:  stat.Size(),
	}, nil
}
