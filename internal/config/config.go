package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Generation GenerationConfig `yaml:"generation"`
	Output     OutputConfig     `yaml:"output"`
	Log        LogConfig        `yaml:"log"`
}

type OpenAIConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type GenerationConfig struct {
	Model   string `yaml:"model"`
	Size    string `yaml:"size"`
	Quality string `yaml:"quality"`
	Style   string `yaml:"style"`
	Count   int    `yaml:"n"`
}

type OutputConfig struct {
	Path         string `yaml:"path"`
	MaxImageSize int64  `yaml:"max_image_size"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing else is set.
// A zero Timeout leaves the transport defaults in place.
func Default() *Config {
	return &Config{
		OpenAI: OpenAIConfig{
			BaseURL: "https://api.openai.com/v1",
		},
		Generation: GenerationConfig{
			Model:   "dall-e-3",
			Size:    "1024x1024",
			Quality: "standard",
			Style:   "natural",
			Count:   1,
		},
		Output: OutputConfig{
			Path:         "./generated/image.png",
			MaxImageSize: 50 << 20, // 50MB
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then a .env file, then the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Println("Failed to read .env file:", err)
	}

	cfg.OpenAI = OpenAIConfig{
		APIKey:  getEnv("OPENAI_API_KEY", cfg.OpenAI.APIKey),
		BaseURL: getEnv("OPENAI_BASE_URL", cfg.OpenAI.BaseURL),
		Timeout: getDuration("OPENAI_TIMEOUT", cfg.OpenAI.Timeout),
	}
	cfg.Generation = GenerationConfig{
		Model:   getEnv("IMAGE_MODEL", cfg.Generation.Model),
		Size:    getEnv("IMAGE_SIZE", cfg.Generation.Size),
		Quality: getEnv("IMAGE_QUALITY", cfg.Generation.Quality),
		Style:   getEnv("IMAGE_STYLE", cfg.Generation.Style),
		Count:   getEnvAsInt("IMAGE_COUNT", cfg.Generation.Count),
	}
	cfg.Output = OutputConfig{
		Path:         getEnv("OUTPUT_PATH", cfg.Output.Path),
		MaxImageSize: getEnvAsInt64("MAX_IMAGE_SIZE", cfg.Output.MaxImageSize),
	}
	cfg.Log = LogConfig{
		Level:  getEnv("LOG_LEVEL", cfg.Log.Level),
		Format: getEnv("LOG_FORMAT", cfg.Log.Format),
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
