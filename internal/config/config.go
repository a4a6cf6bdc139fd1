package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory
const FileName = "cvanalyzer"

// Backend names accepted by the NLP and progress settings
const (
	TaggerProse    = "prose"
	TaggerVertex   = "vertex"
	EmbedderNGram  = "ngram"
	EmbedderVertex = "vertex"
	EmbedderGemini = "gemini"
	EmbedderNone   = "none"

	ProgressMemory = "memory"
	ProgressRedis  = "redis"

	PredicateSubstring = "substring"
	PredicateToken     = "token"
)

// Config holds application configuration
type Config struct {
	GoogleCloudProject    string `mapstructure:"google_cloud_project"`
	GoogleCloudLocation   string `mapstructure:"google_cloud_location"`
	GoogleCredentialsPath string `mapstructure:"google_credentials_path"`
	GeminiAPIKey          string `mapstructure:"gemini_api_key"`
	UploadsDir            string `mapstructure:"uploads_dir"`
	VocabularyFile        string `mapstructure:"vocabulary_file"`

	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	NLP        NLPConfig        `mapstructure:"nlp"`
	Matching   MatchingConfig   `mapstructure:"matching"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Progress   ProgressConfig   `mapstructure:"progress"`
	Gmail      GmailConfig      `mapstructure:"gmail"`
}

type ServerConfig struct {
	Port    int `mapstructure:"port"`
	Workers int `mapstructure:"workers"`
	// MaxUploadMB bounds multipart request bodies
	MaxUploadMB int64 `mapstructure:"max_upload_mb"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// NLPConfig selects the tagging and embedding backends
type NLPConfig struct {
	Tagger             string `mapstructure:"tagger"`
	Embedder           string `mapstructure:"embedder"`
	TaggerModel        string `mapstructure:"tagger_model"`
	EmbeddingModel     string `mapstructure:"embedding_model"`
	EmbeddingDimension int    `mapstructure:"embedding_dimension"`
}

type MatchingConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	Predicate string  `mapstructure:"predicate"`
}

type ExtractionConfig struct {
	PreserveNegativeTerms bool `mapstructure:"preserve_negative_terms"`
}

// ProgressConfig selects where batch progress and results live
type ProgressConfig struct {
	Backend       string        `mapstructure:"backend"`
	TTL           time.Duration `mapstructure:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

type GmailConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	TokenFile       string `mapstructure:"token_file"`
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		GoogleCloudLocation: "us-central1",
		UploadsDir:          "uploads",
		Server: ServerConfig{
			Port:        8080,
			Workers:     4,
			MaxUploadMB: 32,
		},
		NLP: NLPConfig{
			Tagger:             TaggerProse,
			Embedder:           EmbedderNGram,
			TaggerModel:        "gemini-2.0-flash",
			EmbeddingModel:     "text-embedding-004",
			EmbeddingDimension: 512,
		},
		Matching: MatchingConfig{
			Threshold: 0.75,
			Predicate: PredicateSubstring,
		},
		Progress: ProgressConfig{
			Backend:   ProgressMemory,
			TTL:       time.Hour,
			RedisAddr: "localhost:6379",
		},
		Gmail: GmailConfig{
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
		},
	}
}

// NewViper returns a viper instance carrying the defaults and the
// environment bindings. Commands bind their flags on it before Load.
func NewViper() *viper.Viper {
	v := viper.New()

	d := DefaultConfig()
	v.SetDefault("google_cloud_project", d.GoogleCloudProject)
	v.SetDefault("google_cloud_location", d.GoogleCloudLocation)
	v.SetDefault("google_credentials_path", d.GoogleCredentialsPath)
	v.SetDefault("gemini_api_key", d.GeminiAPIKey)
	v.SetDefault("uploads_dir", d.UploadsDir)
	v.SetDefault("vocabulary_file", d.VocabularyFile)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.workers", d.Server.Workers)
	v.SetDefault("server.max_upload_mb", d.Server.MaxUploadMB)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("nlp.tagger", d.NLP.Tagger)
	v.SetDefault("nlp.embedder", d.NLP.Embedder)
	v.SetDefault("nlp.tagger_model", d.NLP.TaggerModel)
	v.SetDefault("nlp.embedding_model", d.NLP.EmbeddingModel)
	v.SetDefault("nlp.embedding_dimension", d.NLP.EmbeddingDimension)
	v.SetDefault("matching.threshold", d.Matching.Threshold)
	v.SetDefault("matching.predicate", d.Matching.Predicate)
	v.SetDefault("extraction.preserve_negative_terms", d.Extraction.PreserveNegativeTerms)
	v.SetDefault("progress.backend", d.Progress.Backend)
	v.SetDefault("progress.ttl", d.Progress.TTL)
	v.SetDefault("progress.redis_addr", d.Progress.RedisAddr)
	v.SetDefault("progress.redis_password", d.Progress.RedisPassword)
	v.SetDefault("progress.redis_db", d.Progress.RedisDB)
	v.SetDefault("gmail.credentials_file", d.Gmail.CredentialsFile)
	v.SetDefault("gmail.token_file", d.Gmail.TokenFile)

	v.SetEnvPrefix("CVA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The Google variables are also read under their usual names
	_ = v.BindEnv("google_cloud_project", "CVA_GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_PROJECT")
	_ = v.BindEnv("google_cloud_location", "CVA_GOOGLE_CLOUD_LOCATION", "GOOGLE_CLOUD_LOCATION")
	_ = v.BindEnv("google_credentials_path", "CVA_GOOGLE_CREDENTIALS_PATH", "GOOGLE_APPLICATION_CREDENTIALS")
	_ = v.BindEnv("gemini_api_key", "CVA_GEMINI_API_KEY", "GEMINI_API_KEY")

	return v
}

// Load reads the config file at path, or cvanalyzer.yaml in the working
// directory when path is empty, and overlays the environment. A missing
// default file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file into the process
// environment without overriding ones already set. A missing file is
// ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	switch c.NLP.Tagger {
	case TaggerProse:
	case TaggerVertex:
		if c.GoogleCloudProject == "" {
			errs = append(errs, fmt.Errorf("google_cloud_project is required for the %s tagger", c.NLP.Tagger))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown tagger %q", c.NLP.Tagger))
	}

	switch c.NLP.Embedder {
	case EmbedderNGram, EmbedderNone:
	case EmbedderVertex:
		if c.GoogleCloudProject == "" {
			errs = append(errs, fmt.Errorf("google_cloud_project is required for the %s embedder", c.NLP.Embedder))
		}
	case EmbedderGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, fmt.Errorf("gemini_api_key is required for the %s embedder", c.NLP.Embedder))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown embedder %q", c.NLP.Embedder))
	}

	if (c.NLP.Tagger == TaggerVertex || c.NLP.Embedder == EmbedderVertex) && c.GoogleCloudLocation == "" {
		errs = append(errs, errors.New("google_cloud_location is required"))
	}

	if c.Matching.Threshold <= 0 || c.Matching.Threshold > 1 {
		errs = append(errs, fmt.Errorf("matching threshold must be in (0, 1], got %v", c.Matching.Threshold))
	}
	if c.Matching.Predicate != PredicateSubstring && c.Matching.Predicate != PredicateToken {
		errs = append(errs, fmt.Errorf("unknown match predicate %q", c.Matching.Predicate))
	}

	if c.Server.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Server.Workers))
	}

	switch c.Progress.Backend {
	case ProgressMemory:
	case ProgressRedis:
		if c.Progress.RedisAddr == "" {
			errs = append(errs, errors.New("progress redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown progress backend %q", c.Progress.Backend))
	}

	if c.GoogleCredentialsPath != "" {
		if _, err := os.Stat(c.GoogleCredentialsPath); err != nil {
			errs = append(errs, fmt.Errorf("google credentials file not found: %w", err))
		}
	}

	if c.VocabularyFile != "" {
		if _, err := os.Stat(c.VocabularyFile); err != nil {
			errs = append(errs, fmt.Errorf("vocabulary file not found: %w", err))
		}
	}

	return errors.Join(errs...)
}

// ApplyToEnv applies configuration values to environment variables
func (c *Config) ApplyToEnv() {
	if c.GoogleCloudProject != "" {
		os.Setenv("GOOGLE_CLOUD_PROJECT", c.GoogleCloudProject)
	}
	if c.GoogleCloudLocation != "" {
		os.Setenv("GOOGLE_CLOUD_LOCATION", c.GoogleCloudLocation)
	}
	if c.GoogleCredentialsPath != "" {
		os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", c.GoogleCredentialsPath)
	}
}
