package processor

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-gen/internal/models"
)

// resizeImage uses Lanczos resampling; a zero dimension keeps the aspect ratio.
func (p *ImageProcessor) resizeImage(img image.Image, req *models.ThumbnailRequest) image.Image {
	return imaging.Resize(img, max(0, req.Width), max(0, req.Height), imaging.Lanczos)
}
