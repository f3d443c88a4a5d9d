// Package app provides the application container holding configuration
// and all wired services.
package app

import (
	"os"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig is the application configuration.
type AppConfig struct {
	File   string       `yaml:"-"` // config file path, not serialized
	Log    LogConfig    `yaml:"log"`
	Repo   RepoConfig   `yaml:"repo"`
	Output OutputConfig `yaml:"output"`
	Media  MediaConfig  `yaml:"media"`
}

// LogConfig is the logging configuration.
type LogConfig struct {
	// Level log level, see zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File log file path, empty logs to stderr
	File string `yaml:"file" default:""`
	// Production enables JSON output
	Production bool `yaml:"production" default:"false"`
}

// RepoConfig locates the deck inside version control.
type RepoConfig struct {
	// Path git repository path
	Path string `yaml:"path" default:"."`
	// DeckFile deck snapshot path relative to the repository root
	DeckFile string `yaml:"deck-file" default:"deck.json"`
	// Commit revision whose changes are reported
	Commit string `yaml:"commit" default:"HEAD"`
}

// OutputConfig controls the written report.
type OutputConfig struct {
	// File report output path
	File string `yaml:"file" default:"diff.html"`
	// Title report page title
	Title string `yaml:"title" default:"Deck Diff"`
}

// MediaConfig controls media copying.
type MediaConfig struct {
	// IsEnabled copies referenced media files next to the report
	IsEnabled bool `yaml:"is-enable" default:"true"`
	// Dir media directory name under the report's directory
	Dir string `yaml:"dir" default:"media"`
}

// LoadConfig reads a YAML config file and applies defaults.
func LoadConfig(path string) (*AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	c, err := ParseConfig(raw)
	if err != nil {
		return nil, err
	}
	c.File = path
	return c, nil
}

// ParseConfig decodes YAML config bytes and applies defaults.
func ParseConfig(raw []byte) (*AppConfig, error) {
	c := &AppConfig{}
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "apply config defaults")
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return c, nil
}
