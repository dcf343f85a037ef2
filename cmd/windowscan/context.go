package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vivekJax/JABS-Window-Analysis/internal/config"
	"github.com/vivekJax/JABS-Window-Analysis/internal/infrastructure"
)

// commandContext carries the persistent flag values and the lazily loaded
// configuration shared by all subcommands.
type commandContext struct {
	configFlag    *string
	inputFlag     *string
	outputFlag    *string
	logLevelFlag  *string
	logFormatFlag *string
	topKFlag      *int
	toleranceFlag *float64

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, inputFlag, outputFlag, logLevelFlag, logFormatFlag *string, topKFlag *int, toleranceFlag *float64) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		inputFlag:     inputFlag,
		outputFlag:    outputFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
		topKFlag:      topKFlag,
		toleranceFlag: toleranceFlag,
	}
}

// ensureConfig loads the configuration once, overlays the command line
// flags and prepares the output directories.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.applyFlags(cfg)
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// applyFlags overlays flag values onto the loaded configuration. Flags win
// over both file and environment values.
func (c *commandContext) applyFlags(cfg *config.Config) {
	if value := flagString(c.inputFlag); value != "" {
		cfg.Input.ScanFile = absolutePath(value)
	}
	if value := flagString(c.outputFlag); value != "" {
		out := absolutePath(value)
		cfg.Paths.OutputDir = out
		cfg.Paths.ChartsDir = filepath.Join(out, config.DefaultChartsSubdir)
	}
	if value := flagString(c.logLevelFlag); value != "" {
		cfg.Logging.Level = value
	}
	if value := flagString(c.logFormatFlag); value != "" {
		cfg.Logging.Format = value
	}
	if c.topKFlag != nil && *c.topKFlag > 0 {
		cfg.Analysis.TopK = *c.topKFlag
	}
	if c.toleranceFlag != nil && *c.toleranceFlag > 0 {
		cfg.Validation.Tolerance = *c.toleranceFlag
	}
}

func flagString(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func absolutePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// fileLogger initializes logging for interactive commands. The console
// belongs to command output, so log lines go to the log file only.
func fileLogger(cfg *config.Config) *slog.Logger {
	logCfg := cfg.Logging
	logCfg.Output = "file"
	return newLogger(logCfg)
}

func newLogger(logCfg config.LoggingConfig) *slog.Logger {
	logger, err := infrastructure.InitializeLogger(logCfg)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		return slog.Default()
	}
	return logger
}
