package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ModelDallE2 = "dall-e-2"
	ModelDallE3 = "dall-e-3"

	Size256       = "256x256"
	Size512       = "512x512"
	Size1024      = "1024x1024"
	Size1792x1024 = "1792x1024"
	Size1024x1792 = "1024x1792"

	QualityStandard = "standard"
	QualityHD       = "hd"

	StyleVivid   = "vivid"
	StyleNatural = "natural"
)

var supportedSizes = map[string][]string{
	ModelDallE2: {Size256, Size512, Size1024},
	ModelDallE3: {Size1024, Size1792x1024, Size1024x1792},
}

// SupportedSizes returns the sizes the provider accepts for model.
func SupportedSizes(model string) []string {
	return supportedSizes[model]
}

var validate = validator.New()

// GenerationOptions is everything about a generation except the prompt.
type GenerationOptions struct {
	Model   string `json:"model" yaml:"model" validate:"required,oneof=dall-e-2 dall-e-3"`
	N       int    `json:"n" yaml:"n" validate:"min=1,max=10"`
	Size    string `json:"size" yaml:"size" validate:"required,oneof=256x256 512x512 1024x1024 1792x1024 1024x1792"`
	Quality string `json:"quality" yaml:"quality" validate:"required,oneof=standard hd"`
	Style   string `json:"style" yaml:"style" validate:"required,oneof=vivid natural"`
}

func DefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		Model:   ModelDallE3,
		N:       1,
		Size:    Size1024,
		Quality: QualityStandard,
		Style:   StyleNatural,
	}
}

// Validate checks every option against its enumerated set and the sizes
// supported by the chosen model.
func (o GenerationOptions) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid generation options: %w", err)
	}
	if !slices.Contains(SupportedSizes(o.Model), o.Size) {
		return fmt.Errorf("size %s is not supported by %s (supported: %s)",
			o.Size, o.Model, strings.Join(SupportedSizes(o.Model), ", "))
	}
	return nil
}

// GenerationRequest is the JSON body sent to the generation endpoint.
type GenerationRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	Style   string `json:"style"`
}

func NewGenerationRequest(prompt string, opts GenerationOptions) GenerationRequest {
	return GenerationRequest{
		Model:   opts.Model,
		Prompt:  prompt,
		N:       opts.N,
		Size:    opts.Size,
		Quality: opts.Quality,
		Style:   opts.Style,
	}
}

type GenerationResponse struct {
	Created int64             `json:"created"`
	Data    []ImageDescriptor `json:"data"`
}

type ImageDescriptor struct {
	URL           string `json:"url"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// APIErrorResponse is the error envelope returned with non-2xx statuses.
type APIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// OutputArtifact describes the image file written by a successful run.
type OutputArtifact struct {
	Path          string    `json:"path"`
	Bytes         int64     `json:"bytes"`
	ContentType   string    `json:"content_type"`
	SourceURL     string    `json:"source_url"`
	RevisedPrompt string    `json:"revised_prompt,omitempty"`
	Model         string    `json:"model"`
	CreatedAt     time.Time `json:"created_at"`
}
