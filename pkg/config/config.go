// Package config loads the YAML configuration of the gomodeval command.
//
// Values of the form ${VAR} or $VAR are replaced with environment variables
// before the document is parsed. Missing keys take their defaults.
//
//	evaluator:
//	  division_policy: strict   # or "zero"
//	  max_depth: 1000           # 0 selects the default, negative disables the limit
//	  cache_size: 256
//	  timeout: 30s
//	cli:
//	  log_level: info
//	  fail_on_error: false
//	  prompt: "> "
package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/sandrolain/gomodeval/pkg/cache"
	"github.com/sandrolain/gomodeval/pkg/evaluator"
	"github.com/sandrolain/gomodeval/pkg/parser"
)

// Config represents the structure of the configuration file.
type Config struct {
	Evaluator struct {
		DivisionPolicy string `yaml:"division_policy"`
		MaxDepth       int    `yaml:"max_depth"`
		CacheSize      int    `yaml:"cache_size"`
		Timeout        string `yaml:"timeout"`
	} `yaml:"evaluator"`
	CLI struct {
		LogLevel    string `yaml:"log_level"`
		FailOnError bool   `yaml:"fail_on_error"`
		Prompt      string `yaml:"prompt"`
	} `yaml:"cli"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

var envVarPattern = regexp.MustCompile(`\$\{?(\w+)\}?`)

// interpolateEnvVars replaces occurrences of `${VAR}` or `$VAR` in the input string
// with the value of the VAR environment variable.
func interpolateEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(varName string) string {
		trimmed := strings.TrimPrefix(varName, "${")
		trimmed = strings.TrimPrefix(trimmed, "$")
		trimmed = strings.TrimSuffix(trimmed, "}")
		return os.Getenv(trimmed)
	})
}

// Load reads the configuration file at path. An empty path yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document, applies defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	var c Config
	interpolated := interpolateEnvVars(string(data))
	if strings.TrimSpace(interpolated) != "" {
		if err := yaml.UnmarshalStrict([]byte(interpolated), &c); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ApplyDefaults fills every zero value with its default. A max_depth of 0
// selects parser.DefaultMaxDepth; a negative one disables the limit.
func (c *Config) ApplyDefaults() {
	if c.Evaluator.DivisionPolicy == "" {
		c.Evaluator.DivisionPolicy = "strict"
	}
	if c.Evaluator.MaxDepth == 0 {
		c.Evaluator.MaxDepth = parser.DefaultMaxDepth
	}
	if c.Evaluator.CacheSize == 0 {
		c.Evaluator.CacheSize = cache.DefaultCapacity
	}
	if c.Evaluator.Timeout == "" {
		c.Evaluator.Timeout = "30s"
	}
	if c.CLI.LogLevel == "" {
		c.CLI.LogLevel = "info"
	}
	if c.CLI.Prompt == "" {
		c.CLI.Prompt = "> "
	}
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	if _, err := evaluator.ParseDivisionPolicy(c.Evaluator.DivisionPolicy); err != nil {
		return fmt.Errorf("evaluator.division_policy: %w", err)
	}
	if c.Evaluator.CacheSize < 0 {
		return fmt.Errorf("evaluator.cache_size: must not be negative, got %d", c.Evaluator.CacheSize)
	}
	if _, err := time.ParseDuration(c.Evaluator.Timeout); err != nil {
		return fmt.Errorf("evaluator.timeout: %w", err)
	}
	if _, err := ParseLogLevel(c.CLI.LogLevel); err != nil {
		return fmt.Errorf("cli.log_level: %w", err)
	}
	return nil
}

// Timeout returns the parsed evaluation timeout.
func (c Config) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.Evaluator.Timeout)
	return d
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() slog.Level {
	l, _ := ParseLogLevel(c.CLI.LogLevel)
	return l
}

// EvalOptions converts the evaluator section into evaluator options.
// Caching is always on for the command, which often sees repeated lines.
func (c Config) EvalOptions() []evaluator.EvalOption {
	policy, _ := evaluator.ParseDivisionPolicy(c.Evaluator.DivisionPolicy)
	return []evaluator.EvalOption{
		evaluator.WithDivisionPolicy(policy),
		evaluator.WithMaxDepth(c.Evaluator.MaxDepth),
		evaluator.WithTimeout(c.Timeout()),
		evaluator.WithCaching(true),
		evaluator.WithCacheSize(c.Evaluator.CacheSize),
	}
}

// ParseLogLevel parses debug, info, warn/warning or error, in any case.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
