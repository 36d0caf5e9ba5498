package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// DefaultMaxUploadSize matches the 16MB limit advertised in upload error messages.
const DefaultMaxUploadSize = 16 << 20

var validate = validator.New()

type Config struct {
	Host              string        `envconfig:"HOST" default:"0.0.0.0"`
	Port              string        `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	RequestTimeout    time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s" validate:"gt=0"`
	ImageFetchTimeout time.Duration `envconfig:"IMAGE_FETCH_TIMEOUT" default:"15s" validate:"gt=0"`
	AnalysisTimeout   time.Duration `envconfig:"ANALYSIS_TIMEOUT" default:"20s" validate:"gt=0"`
	MaxUploadSize     int64         `envconfig:"MAX_UPLOAD_SIZE" default:"16777216" validate:"gt=0"`

	// Images larger than this on either side are downscaled before analysis. 0 disables.
	MaxAnalysisDimension int `envconfig:"MAX_ANALYSIS_DIMENSION" default:"1024" validate:"gte=0"`
	// Images whose header declares more pixels than this are rejected before decoding. 0 disables.
	MaxImagePixels     int64 `envconfig:"MAX_IMAGE_PIXELS" default:"89478485" validate:"gte=0"`
	ParallelExtractors bool  `envconfig:"PARALLEL_EXTRACTORS" default:"true"`
	BatchWorkers       int   `envconfig:"BATCH_WORKERS" default:"0" validate:"gte=0"`

	AzureStorageAccount string `envconfig:"AZURE_STORAGE_ACCOUNT" validate:"required_with=AzureStorageKey"`
	AzureStorageKey     string `envconfig:"AZURE_STORAGE_KEY" validate:"required_with=AzureStorageAccount"`

	// DetectorConfigFile optionally points at a YAML file with weights, thresholds and tuning.
	DetectorConfigFile string `envconfig:"DETECTOR_CONFIG_FILE"`
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether blob URLs can be fetched with shared-key credentials.
func (c *Config) AzureEnabled() bool {
	return c.AzureStorageAccount != "" && c.AzureStorageKey != ""
}

func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	cfg.Port = strings.TrimSpace(cfg.Port)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the port range.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	var p int
	if _, err := fmt.Sscanf(c.Port, "%d", &p); err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	return nil
}
