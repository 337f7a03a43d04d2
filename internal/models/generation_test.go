package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *GenerationOptions)
		wantErr bool
	}{
		{"defaults", func(o *GenerationOptions) {}, false},
		{"hd vivid wide", func(o *GenerationOptions) {
			o.Quality, o.Style, o.Size = QualityHD, StyleVivid, Size1792x1024
		}, false},
		{"dall-e-2 small", func(o *GenerationOptions) { o.Model, o.Size = ModelDallE2, Size256 }, false},
		{"unknown model", func(o *GenerationOptions) { o.Model = "dall-e-9" }, true},
		{"empty model", func(o *GenerationOptions) { o.Model = "" }, true},
		{"zero count", func(o *GenerationOptions) { o.N = 0 }, true},
		{"unknown size", func(o *GenerationOptions) { o.Size = "800x600" }, true},
		{"unknown quality", func(o *GenerationOptions) { o.Quality = "ultra" }, true},
		{"unknown style", func(o *GenerationOptions) { o.Style = "noir" }, true},
		{"size not supported by model", func(o *GenerationOptions) { o.Size = Size256 }, true},
		{"wide not supported by dall-e-2", func(o *GenerationOptions) {
			o.Model, o.Size = ModelDallE2, Size1792x1024
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultGenerationOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewGenerationRequest_WireFormat(t *testing.T) {
	req := NewGenerationRequest("a robot", DefaultGenerationOptions())

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, map[string]any{
		"model":   "dall-e-3",
		"prompt":  "a robot",
		"n":       float64(1),
		"size":    "1024x1024",
		"quality": "standard",
		"style":   "natural",
	}, body)
}

func TestThumbnailRequest_Validate(t *testing.T) {
	assert.NoError(t, ThumbnailRequest{Width: 128}.Validate())
	assert.NoError(t, ThumbnailRequest{Height: 128, Quality: 80}.Validate())
	assert.Error(t, ThumbnailRequest{}.Validate())
	assert.Error(t, ThumbnailRequest{Width: -1}.Validate())
	assert.Error(t, ThumbnailRequest{Width: 64, Quality: 101}.Validate())
	assert.Error(t, ThumbnailRequest{Width: 64, Watermark: &WatermarkRequest{Text: "x", Position: "middle"}}.Validate())
	assert.Error(t, ThumbnailRequest{Width: 64, Watermark: &WatermarkRequest{Text: "x", Opacity: 2}}.Validate())
	assert.NoError(t, ThumbnailRequest{Width: 64, Watermark: &WatermarkRequest{Text: "x", Position: "center", Opacity: 0.5}}.Validate())
}
