package processor

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-gen/internal/models"
)

func (p *ImageProcessor) encodeImage(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case models.FormatJPEG, "jpg":
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case models.FormatGIF:
		return imaging.Encode(w, img, imaging.GIF)
	default:
		return imaging.Encode(w, img, imaging.PNG)
	}
}
