package appconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the HTTP application.
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	RateLimit int // requests per second per API key

	// ExpansionBudget applies to path queries that do not set one. Zero
	// means unlimited.
	ExpansionBudget int
}

// FileConfig is the optional YAML configuration file. Every field is
// optional; zero values leave the command-line defaults in place.
type FileConfig struct {
	Server  ServerFileConfig  `yaml:"server"`
	Feed    FeedFileConfig    `yaml:"feed"`
	Routing RoutingFileConfig `yaml:"routing"`
	Logging LoggingFileConfig `yaml:"logging"`

	// Colors overrides line colors, keyed by line ID.
	Colors map[string]string `yaml:"colors" validate:"omitempty,dive,keys,required,endkeys,hexcolor"`
}

type ServerFileConfig struct {
	Port      int      `yaml:"port" validate:"omitempty,gt=0,lte=65535"`
	Env       string   `yaml:"env" validate:"omitempty,oneof=development test production"`
	ApiKeys   []string `yaml:"apiKeys" validate:"omitempty,dive,required"`
	RateLimit int      `yaml:"rateLimit" validate:"gte=0"`
}

type FeedFileConfig struct {
	URL                 string        `yaml:"url"`
	LinePattern         string        `yaml:"linePattern"`
	DefaultLine         string        `yaml:"defaultLine"`
	Projection          string        `yaml:"projection" validate:"omitempty,oneof=lambert93 equirectangular"`
	DefaultTransferTime *time.Duration `yaml:"defaultTransferTime" validate:"omitempty,gte=0"`
	SymmetricTransfers  bool          `yaml:"symmetricTransfers"`
	RefreshInterval     time.Duration `yaml:"refreshInterval" validate:"gte=0"`
	DataPath            string        `yaml:"dataPath"`
}

type RoutingFileConfig struct {
	MaxSpeed        float64       `yaml:"maxSpeed" validate:"gte=0"`
	TransferPenalty time.Duration `yaml:"transferPenalty" validate:"gte=0"`
	ExpansionBudget int           `yaml:"expansionBudget" validate:"gte=0"`
}

type LoggingFileConfig struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB" validate:"gte=0"`
	MaxBackups int    `yaml:"maxBackups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"maxAgeDays" validate:"gte=0"`
}

// ParseFile decodes and validates a YAML configuration document.
func ParseFile(data []byte) (*FileConfig, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// LoadFile reads the configuration file at path.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseFile(data)
}

// LoadDotEnv loads environment variables from the given files, or from
// ".env" when none are named. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}
