package models

import "errors"

var errThumbnailSize = errors.New("thumbnail needs a width or a height")

type ThumbnailRequest struct {
	Width     int               `json:"width" validate:"min=0"`
	Height    int               `json:"height" validate:"min=0"`
	Quality   int               `json:"quality" validate:"omitempty,min=1,max=100"`
	Watermark *WatermarkRequest `json:"watermark,omitempty"`
}

// Validate requires at least one non-zero dimension; the other is derived
// from the source aspect ratio.
func (r ThumbnailRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Width == 0 && r.Height == 0 {
		return errThumbnailSize
	}
	return nil
}

type ImageInfo struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int64  `json:"bytes"`
}

const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatWebP = "webp"
)
