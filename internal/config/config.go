package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "WINDOWSCAN"

// Config represents the complete application configuration
type Config struct {
	Input      InputConfig      `yaml:"input" envconfig:"INPUT"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Export     ExportConfig     `yaml:"export" envconfig:"EXPORT"`
	Validation ValidationConfig `yaml:"validation" envconfig:"VALIDATION"`
	Analysis   AnalysisConfig   `yaml:"analysis" envconfig:"ANALYSIS"`
	Report     ReportConfig     `yaml:"report" envconfig:"REPORT"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Tracing    TracingConfig    `yaml:"tracing" envconfig:"TRACING"`
}

// InputConfig identifies the scan results to process
type InputConfig struct {
	// ScanFile is the window scan results text file to parse. Usually set
	// by the --input flag rather than file or environment.
	ScanFile string `yaml:"scan_file" envconfig:"SCAN_FILE"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	// OutputDir receives the exported tables, reports and the workbook.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`

	// ChartsDir receives standalone SVG charts. Defaults to
	// OutputDir/charts when empty.
	ChartsDir string `yaml:"charts_dir" envconfig:"CHARTS_DIR"`

	// LogsDir receives log files and run manifests. Run artifacts are kept
	// out of OutputDir so table output stays byte-identical across runs.
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// ExportConfig controls table export behavior
type ExportConfig struct {
	// BOM prefixes CSV files with a UTF-8 byte order mark so Excel detects
	// the encoding.
	BOM bool `yaml:"bom" envconfig:"BOM"`
}

// ValidationConfig controls the consistency validator
type ValidationConfig struct {
	// Tolerance is the allowed deviation between reported and recomputed
	// summary statistics.
	Tolerance float64 `yaml:"tolerance" envconfig:"TOLERANCE" validate:"gt=0"`
}

// AnalysisConfig controls the aggregator
type AnalysisConfig struct {
	// TopK caps the worst-video and sensitivity rankings.
	TopK int `yaml:"top_k" envconfig:"TOP_K" validate:"min=1"`
}

// ReportConfig controls report rendering
type ReportConfig struct {
	// Title heads the HTML and LaTeX reports.
	Title string `yaml:"title" envconfig:"TITLE" validate:"required"`

	// Behavior optionally names the classified behavior in report headers.
	Behavior string `yaml:"behavior" envconfig:"BEHAVIOR"`

	// Formats selects which renderers run.
	Formats []string `yaml:"formats" envconfig:"FORMATS" validate:"min=1,dive,oneof=html latex excel svg"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TracingConfig contains OpenTelemetry tracing configuration
type TracingConfig struct {
	// Exporter selects the span exporter: "stdout" or "none".
	Exporter string `yaml:"exporter" envconfig:"EXPORTER" validate:"oneof=none stdout"`
}

// Load loads configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence. Pass an empty
// configFile to search the default locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := cfg.mergeFile(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables override file values. Struct tags carry no
	// defaults, so Process only touches fields with a variable set.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// mergeFile overlays values from a YAML file onto the config.
func (c *Config) mergeFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// findConfigFile returns the first config file found in the default
// locations, or empty when none exists.
func findConfigFile() string {
	locations := []string{
		"windowscan.yaml",
		"configs/windowscan.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// resolvePaths makes all configured paths absolute and fills derived paths.
func (c *Config) resolvePaths() error {
	var err error
	if c.Input.ScanFile, err = absolute(c.Input.ScanFile); err != nil {
		return err
	}
	if c.Paths.OutputDir, err = absolute(c.Paths.OutputDir); err != nil {
		return err
	}
	if c.Paths.LogsDir, err = absolute(c.Paths.LogsDir); err != nil {
		return err
	}
	if c.Paths.ChartsDir == "" {
		c.Paths.ChartsDir = filepath.Join(c.Paths.OutputDir, DefaultChartsSubdir)
	} else if c.Paths.ChartsDir, err = absolute(c.Paths.ChartsDir); err != nil {
		return err
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(c.Paths.LogsDir, DefaultLogFile)
	} else if c.Logging.FilePath, err = absolute(c.Logging.FilePath); err != nil {
		return err
	}
	return nil
}

func absolute(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Abs(path)
}

// Validate checks the configuration with struct tags and a few hand checks.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("field %s failed %q validation", first.Namespace(), first.Tag())
		}
		return err
	}

	if c.Validation.Tolerance >= 1 {
		return fmt.Errorf("validation tolerance %g is implausibly large, expected a value well below 1", c.Validation.Tolerance)
	}
	return nil
}

// EnsureDirectories creates the output, charts and logs directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.ChartsDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LockFilePath returns the output directory lock file path.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.Paths.OutputDir, LockFileName)
}

// ManifestPath returns the run manifest path under the logs directory.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.Paths.LogsDir, ManifestFileName)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			OutputDir: DefaultOutputDir,
			LogsDir:   DefaultLogsDir,
		},
		Export: ExportConfig{
			BOM: true,
		},
		Validation: ValidationConfig{
			Tolerance: DefaultTolerance,
		},
		Analysis: AnalysisConfig{
			TopK: DefaultTopK,
		},
		Report: ReportConfig{
			Title:   "JABS Window Size Analysis",
			Formats: []string{"html", "latex", "excel", "svg"},
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: "both",
		},
		Tracing: TracingConfig{
			Exporter: "none",
		},
	}
}
