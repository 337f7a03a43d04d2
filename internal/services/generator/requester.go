package generator

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phambaophuc/image-gen/internal/config"
	"github.com/phambaophuc/image-gen/internal/models"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// ImageRequester turns a prompt into an image file: one POST to the
// generation endpoint, one GET for the returned URL, one file write.
type ImageRequester struct {
	client       *http.Client
	baseURL      string
	apiKey       string
	maxImageSize int64
	logger       *zap.Logger
}

type RequesterOptions struct {
	// HTTPClient overrides the client built from OpenAIConfig.Timeout.
	HTTPClient   *http.Client
	MaxImageSize int64
}

var DefaultOptions = RequesterOptions{
	MaxImageSize: 50 << 20, // 50MB
}

func NewImageRequester(cfg config.OpenAIConfig, logger *zap.Logger, opts ...RequesterOptions) (*ImageRequester, error) {
	options := DefaultOptions
	if len(opts) > 0 {
		options = opts[0]
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is not set")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := options.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	maxImageSize := options.MaxImageSize
	if maxImageSize <= 0 {
		maxImageSize = DefaultOptions.MaxImageSize
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &ImageRequester{
		client:       client,
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       cfg.APIKey,
		maxImageSize: maxImageSize,
		logger:       logger,
	}, nil
}

// Generate requests one image for prompt and stores it at dest.
// Failures are *GenerationError values of kind KindRequestFailed,
// KindMalformedResponse or KindDownloadFailed. dest is only ever replaced by a
// complete download.
func (r *ImageRequester) Generate(ctx context.Context, prompt string, opts models.GenerationOptions, dest string) (*models.OutputArtifact, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, requestFailed(0, "prompt is empty", nil)
	}
	if err := opts.Validate(); err != nil {
		return nil, requestFailed(0, "invalid request", err)
	}
	if err := checkDestination(dest); err != nil {
		return nil, downloadFailed(0, "invalid destination", err)
	}

	start := time.Now()
	r.logger.Info("Requesting image generation",
		zap.String("model", opts.Model),
		zap.String("size", opts.Size),
		zap.String("quality", opts.Quality),
		zap.String("style", opts.Style),
		zap.Int("n", opts.N),
	)

	resp, err := r.requestGeneration(ctx, models.NewGenerationRequest(prompt, opts))
	if err != nil {
		return nil, err
	}

	image, err := firstImage(resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) > 1 {
		r.logger.Warn("Only the first generated image is stored",
			zap.Int("images", len(resp.Data)))
	}

	r.logger.Debug("Image generated", zap.Duration("latency", time.Since(start)))

	written, contentType, err := r.download(ctx, image.URL, dest)
	if err != nil {
		return nil, err
	}

	createdAt := time.Now()
	if resp.Created > 0 {
		createdAt = time.Unix(resp.Created, 0)
	}

	artifact := &models.OutputArtifact{
		Path:          dest,
		Bytes:         written,
		ContentType:   contentType,
		SourceURL:     image.URL,
		RevisedPrompt: image.RevisedPrompt,
		Model:         opts.Model,
		CreatedAt:     createdAt,
	}

	r.logger.Info("Image saved",
		zap.String("path", dest),
		zap.Int64("bytes", written),
		zap.String("content_type", contentType),
		zap.Duration("elapsed", time.Since(start)),
	)

	return artifact, nil
}

func checkDestination(dest string) error {
	if dest == "" {
		return fmt.Errorf("destination path is empty")
	}
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		return fmt.Errorf("%s is a directory", dest)
	}

	dir := filepath.Dir(dest)
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("parent directory: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("parent %s is not a directory", dir)
	}
	return nil
}
