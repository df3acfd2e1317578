// Package config provides configuration management and validation for rxrename.
// A Config is built once from command-line input and the environment, validated,
// and then passed read-only to every component.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"rxrename/internal/errors"
)

// LogLevelEnv names the environment variable that sets the logging level.
const LogLevelEnv = "RXRENAME_LOG_LEVEL"

// OutputFormat selects how the reporter renders events.
type OutputFormat string

// Supported output formats.
const (
	OutputText  OutputFormat = "text"
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputCSV   OutputFormat = "csv"
	OutputYAML  OutputFormat = "yaml"
)

// ColorMode is the tri-state color setting.
type ColorMode string

// Supported color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config holds all runtime options for one rename run.
type Config struct {
	Directory     string
	Pattern       string
	Template      string
	TemplateSet   bool
	Recursive     bool
	Commit        bool
	Verbose       bool
	Debug         bool
	Color         ColorMode
	FirstOnly     bool
	KeepExtension bool
	SkipHidden    bool
	Exclude       []string
	OutputFormat  OutputFormat
	LogLevel      slog.Level
}

// Validate checks the configuration and normalizes it in place. Every failure is an
// ArgumentError; the only filesystem access is the stat of the target directory.
func (c *Config) Validate() error {
	if err := c.validatePattern(); err != nil {
		return err
	}

	if err := c.validateDirectory(); err != nil {
		return err
	}

	if err := c.validateOutputFormat(); err != nil {
		return err
	}

	if err := c.validateColor(); err != nil {
		return err
	}

	if err := c.validateExclude(); err != nil {
		return err
	}

	return c.resolveLogLevel(os.Getenv(LogLevelEnv))
}

func (c *Config) validatePattern() error {
	if c.Pattern == "" {
		return errors.NewArgumentError("missing input regex", nil)
	}

	if _, err := regexp.Compile(c.Pattern); err != nil {
		return errors.NewArgumentError("invalid regex "+c.Pattern, err)
	}

	if !c.TemplateSet {
		return errors.NewArgumentError(`missing replacement template, pass "" explicitly for an empty one`, nil)
	}
	return nil
}

func (c *Config) validateDirectory() error {
	if c.Directory == "" {
		return errors.NewArgumentError("directory is required", nil)
	}

	absDir, err := filepath.Abs(c.Directory)
	if err != nil {
		return errors.NewArgumentErrorWithPath(c.Directory, "invalid directory path", err)
	}

	info, err := os.Stat(absDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewArgumentErrorWithPath(absDir, "specified directory does not exist", nil)
		}
		return errors.NewArgumentErrorWithPath(absDir, "cannot access specified directory", err)
	}

	if !info.IsDir() {
		return errors.NewArgumentErrorWithPath(absDir, "specified directory is not a directory", nil)
	}

	// Walking starts from the resolved directory; a symlinked root would otherwise
	// be reported as a single non-regular entry.
	if resolved, err := filepath.EvalSymlinks(absDir); err == nil {
		absDir = resolved
	}

	c.Directory = absDir
	return nil
}

func (c *Config) validateOutputFormat() error {
	if c.OutputFormat == "" {
		c.OutputFormat = OutputText
	}

	switch c.OutputFormat {
	case OutputText, OutputTable, OutputJSON, OutputCSV, OutputYAML:
		return nil
	default:
		return errors.NewArgumentError("output format must be one of text, table, json, csv, yaml", nil)
	}
}

func (c *Config) validateColor() error {
	if c.Color == "" {
		c.Color = ColorAuto
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return errors.NewArgumentError("color must be one of auto, always, never", nil)
	}
}

func (c *Config) validateExclude() error {
	var normalized []string
	for _, pattern := range c.Exclude {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if _, err := filepath.Match(pattern, ""); err != nil {
			return errors.NewArgumentError("invalid exclude pattern: "+pattern, err)
		}
		normalized = append(normalized, pattern)
	}
	c.Exclude = normalized
	return nil
}

// resolveLogLevel applies the environment level. --debug always wins.
func (c *Config) resolveLogLevel(env string) error {
	c.LogLevel = slog.LevelInfo

	if env != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(strings.TrimSpace(env))); err != nil {
			return errors.NewArgumentError("invalid "+LogLevelEnv+" value "+env, err)
		}
		c.LogLevel = level
	}

	if c.Debug {
		c.LogLevel = slog.LevelDebug
	}
	return nil
}

// IsDryRun reports whether the run only previews changes.
func (c *Config) IsDryRun() bool {
	return !c.Commit
}

// LogValue renders the resolved configuration for the debug dump.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("directory", c.Directory),
		slog.String("pattern", c.Pattern),
		slog.String("template", c.Template),
		slog.Bool("recursive", c.Recursive),
		slog.Bool("commit", c.Commit),
		slog.Bool("verbose", c.Verbose),
		slog.String("color", string(c.Color)),
		slog.Bool("first_only", c.FirstOnly),
		slog.Bool("keep_extension", c.KeepExtension),
		slog.Bool("skip_hidden", c.SkipHidden),
		slog.Any("exclude", c.Exclude),
		slog.String("output", string(c.OutputFormat)),
	)
}
