package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/tutorbot/core/config"
	coredatabase "github.com/m3rciful/tutorbot/core/database"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	RunnerExec   = "exec"
	RunnerDocker = "docker"
)

// StorageConfig selects the session store backend.
type StorageConfig struct {
	Mode string `yaml:"mode" envconfig:"STORAGE_MODE"`
}

// ContentConfig points at the lesson and quiz data directories.
type ContentConfig struct {
	LessonsDir string `yaml:"lessons_dir" envconfig:"CONTENT_LESSONS_DIR"`
	QuizzesDir string `yaml:"quizzes_dir" envconfig:"CONTENT_QUIZZES_DIR"`
}

// RunnerConfig selects and tunes the code execution backend.
type RunnerConfig struct {
	Mode           string `yaml:"mode" envconfig:"RUNNER_MODE"`
	Interpreter    string `yaml:"interpreter" envconfig:"RUNNER_INTERPRETER"`
	Image          string `yaml:"image" envconfig:"RUNNER_IMAGE"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"RUNNER_TIMEOUT_SECONDS"`
}

// Timeout returns the configured execution timeout.
func (r RunnerConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// WebformConfig configures the companion web form server.
type WebformConfig struct {
	Listen string `yaml:"listen" envconfig:"WEBFORM_LISTEN"`
	ChatID int64  `yaml:"chat_id" envconfig:"WEBFORM_CHAT_ID"`
}

// Config aggregates core settings with the app-specific sections.
type Config struct {
	Core coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Storage  StorageConfig       `yaml:"storage"`
	Content  ContentConfig       `yaml:"content"`
	Runner   RunnerConfig        `yaml:"runner"`
	Webform  WebformConfig       `yaml:"webform"`
}

// CoreConfig exposes the embedded core configuration for the cmd runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// LoadConfig reads YAML configuration and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("app: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("app: parse config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("app: process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) error {
	mode := strings.ToLower(strings.TrimSpace(cfg.Storage.Mode))
	if mode == "" {
		mode = StorageMemory
	}
	switch mode {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(cfg.Database.Host) == "" {
			return fmt.Errorf("app: database.host is required when storage.mode is 'postgres'")
		}
		if strings.TrimSpace(cfg.Database.Name) == "" {
			return fmt.Errorf("app: database.name is required when storage.mode is 'postgres'")
		}
	default:
		return fmt.Errorf("app: invalid storage.mode %q; allowed: memory, postgres", cfg.Storage.Mode)
	}
	cfg.Storage.Mode = mode

	runnerMode := strings.ToLower(strings.TrimSpace(cfg.Runner.Mode))
	if runnerMode == "" {
		runnerMode = RunnerExec
	}
	switch runnerMode {
	case RunnerExec, RunnerDocker:
	default:
		return fmt.Errorf("app: invalid runner.mode %q; allowed: exec, docker", cfg.Runner.Mode)
	}
	cfg.Runner.Mode = runnerMode

	if cfg.Runner.TimeoutSeconds < 0 {
		return fmt.Errorf("app: runner.timeout_seconds must be >= 0")
	}

	if strings.TrimSpace(cfg.Content.LessonsDir) == "" {
		cfg.Content.LessonsDir = "lessons"
	}
	if strings.TrimSpace(cfg.Content.QuizzesDir) == "" {
		cfg.Content.QuizzesDir = "quizzes"
	}
	return nil
}
