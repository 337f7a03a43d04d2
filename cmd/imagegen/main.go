package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/phambaophuc/image-gen/internal/config"
	"github.com/phambaophuc/image-gen/internal/logger"
	"github.com/phambaophuc/image-gen/internal/models"
	"github.com/phambaophuc/image-gen/internal/services/generator"
	"github.com/phambaophuc/image-gen/internal/services/processor"
	"go.uber.org/zap"
)

const (
	exitOK = iota
	exitError
	exitUsage
	exitRequestFailed
	exitMalformedResponse
	exitDownloadFailed
	exitPostProcess
)

type flags struct {
	configPath      string
	prompt          string
	output          string
	model           string
	size            string
	quality         string
	style           string
	count           int
	apiKey          string
	baseURL         string
	timeout         time.Duration
	maxImageSize    int64
	verify          bool
	thumbnailWidth  int
	thumbnailHeight int
	watermark       string
	logLevel        string
	logFormat       string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("imagegen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: imagegen [flags] <prompt>")
		fs.PrintDefaults()
	}

	var f flags
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&f.prompt, "prompt", "", "text prompt (or pass it as arguments)")
	fs.StringVar(&f.output, "o", "", "destination file (env OUTPUT_PATH)")
	fs.StringVar(&f.model, "model", "", "model: dall-e-2, dall-e-3 (env IMAGE_MODEL)")
	fs.StringVar(&f.size, "size", "", "size, e.g. 1024x1024 (env IMAGE_SIZE)")
	fs.StringVar(&f.quality, "quality", "", "quality: standard, hd (env IMAGE_QUALITY)")
	fs.StringVar(&f.style, "style", "", "style: vivid, natural (env IMAGE_STYLE)")
	fs.IntVar(&f.count, "n", 0, "images to request; only the first is saved (env IMAGE_COUNT)")
	fs.StringVar(&f.apiKey, "api-key", "", "API key (env OPENAI_API_KEY)")
	fs.StringVar(&f.baseURL, "base-url", "", "API base URL (env OPENAI_BASE_URL)")
	fs.DurationVar(&f.timeout, "timeout", 0, "overall HTTP timeout, 0 for none (env OPENAI_TIMEOUT)")
	fs.Int64Var(&f.maxImageSize, "max-image-size", 0, "maximum download size in bytes (env MAX_IMAGE_SIZE)")
	fs.BoolVar(&f.verify, "verify", false, "fail unless the downloaded file decodes as an image")
	fs.IntVar(&f.thumbnailWidth, "thumbnail-width", 0, "also write a thumbnail this wide")
	fs.IntVar(&f.thumbnailHeight, "thumbnail-height", 0, "also write a thumbnail this high")
	fs.StringVar(&f.watermark, "watermark", "", "text stamped on the thumbnail")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn, error (env LOG_LEVEL)")
	fs.StringVar(&f.logFormat, "log-format", "", "console or json (env LOG_FORMAT)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	prompt := f.prompt
	if prompt == "" {
		prompt = strings.Join(fs.Args(), " ")
	}
	if strings.TrimSpace(prompt) == "" {
		fmt.Fprintln(stderr, "a prompt is required")
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return exitUsage
	}
	applyFlags(fs, &f, cfg)

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return exitError
	}
	defer log.Sync()

	requester, err := generator.NewImageRequester(cfg.OpenAI, log, generator.RequesterOptions{
		MaxImageSize: cfg.Output.MaxImageSize,
	})
	if err != nil {
		fmt.Fprintf(stderr, "image generation failed: %v\n", err)
		return exitUsage
	}

	opts := models.GenerationOptions{
		Model:   cfg.Generation.Model,
		N:       cfg.Generation.Count,
		Size:    cfg.Generation.Size,
		Quality: cfg.Generation.Quality,
		Style:   cfg.Generation.Style,
	}

	artifact, err := requester.Generate(ctx, prompt, opts, cfg.Output.Path)
	if err != nil {
		log.Error("Image generation failed", zap.Error(err))
		fmt.Fprintf(stderr, "image generation failed: %v\n", err)
		return exitCode(err)
	}

	if err := postProcess(processor.NewImageProcessor(log), &f, artifact, stdout); err != nil {
		log.Error("Post-processing failed", zap.String("path", artifact.Path), zap.Error(err))
		fmt.Fprintf(stderr, "image saved to %s but post-processing failed: %v\n", artifact.Path, err)
		return exitPostProcess
	}

	fmt.Fprintf(stdout, "image saved: %s\n", artifact.Path)
	return exitOK
}

// applyFlags lets explicitly set flags win over file and environment values.
func applyFlags(fs *flag.FlagSet, f *flags, cfg *config.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "o":
			cfg.Output.Path = f.output
		case "model":
			cfg.Generation.Model = f.model
		case "size":
			cfg.Generation.Size = f.size
		case "quality":
			cfg.Generation.Quality = f.quality
		case "style":
			cfg.Generation.Style = f.style
		case "n":
			cfg.Generation.Count = f.count
		case "api-key":
			cfg.OpenAI.APIKey = f.apiKey
		case "base-url":
			cfg.OpenAI.BaseURL = f.baseURL
		case "timeout":
			cfg.OpenAI.Timeout = f.timeout
		case "max-image-size":
			cfg.Output.MaxImageSize = f.maxImageSize
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "log-format":
			cfg.Log.Format = f.logFormat
		}
	})
}

func postProcess(p *processor.ImageProcessor, f *flags, artifact *models.OutputArtifact, stdout io.Writer) error {
	if f.verify {
		info, err := p.Inspect(artifact.Path)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "verified %s image %dx%d\n", info.Format, info.Width, info.Height)
	}

	if f.thumbnailWidth == 0 && f.thumbnailHeight == 0 {
		return nil
	}

	req := &models.ThumbnailRequest{
		Width:  f.thumbnailWidth,
		Height: f.thumbnailHeight,
	}
	if f.watermark != "" {
		req.Watermark = &models.WatermarkRequest{
			Text:     f.watermark,
			Position: "bottom-right",
			Opacity:  processor.DefaultOpacity,
		}
	}

	out, err := p.Thumbnail(artifact.Path, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "thumbnail saved: %s\n", out)
	return nil
}

func exitCode(err error) int {
	switch generator.KindOf(err) {
	case generator.KindRequestFailed:
		return exitRequestFailed
	case generator.KindMalformedResponse:
		return exitMalformedResponse
	case generator.KindDownloadFailed:
		return exitDownloadFailed
	default:
		return exitError
	}
}
