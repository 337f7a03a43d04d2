package processor

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-gen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeTestImage(t *testing.T, name string, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	switch filepath.Ext(name) {
	case ".jpg", ".jpeg":
		require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 90}))
	default:
		require.NoError(t, png.Encode(f, img))
	}
	return path
}

func TestInspect(t *testing.T) {
	p := NewImageProcessor(zap.NewNop())
	path := writeTestImage(t, "robot.png", 64, 32)

	info, err := p.Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, models.FormatPNG, info.Format)
	assert.Equal(t, 64, info.Width)
	assert.Equal(t, 32, info.Height)
	assert.Positive(t, info.Bytes)
}

func TestInspect_NotAnImage(t *testing.T) {
	p := NewImageProcessor(nil)
	path := filepath.Join(t.TempDir(), "robot.png")
	require.NoError(t, os.WriteFile(path, []byte("PNGDATA"), 0o644))

	_, err := p.Inspect(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid image format")

	_, err = p.Inspect(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}

func TestThumbnail_KeepsAspectRatio(t *testing.T) {
	p := NewImageProcessor(zap.NewNop())
	path := writeTestImage(t, "robot.png", 64, 32)

	out, err := p.Thumbnail(path, &models.ThumbnailRequest{Width: 16})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "robot_thumb.png"), out)

	info, err := p.Inspect(out)
	require.NoError(t, err)
	assert.Equal(t, models.FormatPNG, info.Format)
	assert.Equal(t, 16, info.Width)
	assert.Equal(t, 8, info.Height)

	// source is untouched
	src, err := p.Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, 64, src.Width)
}

func TestThumbnail_JPEGWithWatermark(t *testing.T) {
	p := NewImageProcessor(zap.NewNop())
	path := writeTestImage(t, "robot.jpg", 200, 100)

	out, err := p.Thumbnail(path, &models.ThumbnailRequest{
		Width:   100,
		Height:  50,
		Quality: 70,
		Watermark: &models.WatermarkRequest{
			Text:     "generated",
			Position: "top-left",
			Opacity:  1,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "robot_thumb.jpg"), out)

	info, err := p.Inspect(out)
	require.NoError(t, err)
	assert.Equal(t, models.FormatJPEG, info.Format)
	assert.Equal(t, 100, info.Width)
	assert.Equal(t, 50, info.Height)
}

func TestAddWatermark_ChangesPixels(t *testing.T) {
	p := NewImageProcessor(zap.NewNop())
	src := imaging.New(120, 40, color.Black)

	for _, position := range []string{"top-left", "top-right", "bottom-left", "bottom-right", "center", ""} {
		t.Run(position, func(t *testing.T) {
			out := p.addWatermark(src, &models.WatermarkRequest{Text: "hi", Position: position})

			changed := false
			bounds := out.Bounds()
			for x := bounds.Min.X; x < bounds.Max.X && !changed; x++ {
				for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
					if r, _, _, _ := out.At(x, y).RGBA(); r != 0 {
						changed = true
						break
					}
				}
			}
			assert.True(t, changed)
		})
	}

	assert.Same(t, src, p.addWatermark(src, &models.WatermarkRequest{}))
}

func TestThumbnail_Invalid(t *testing.T) {
	p := NewImageProcessor(zap.NewNop())
	path := writeTestImage(t, "robot.png", 10, 10)

	_, err := p.Thumbnail(path, &models.ThumbnailRequest{})
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("PNGDATA"), 0o644))
	_, err = p.Thumbnail(bad, &models.ThumbnailRequest{Width: 4})
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(bad), "bad_thumb.png"))
}

func TestGetOutputFormat(t *testing.T) {
	p := NewImageProcessor(nil)
	assert.Equal(t, models.FormatJPEG, p.getOutputFormat(models.FormatJPEG))
	assert.Equal(t, models.FormatGIF, p.getOutputFormat(models.FormatGIF))
	assert.Equal(t, models.FormatPNG, p.getOutputFormat(models.FormatWebP))
}
