// Package config provides centralized configuration management for the
// window scan toolkit. It handles loading configuration from multiple
// sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// Defaults live in Default(); struct tags carry no default values so that a
// YAML file can never be silently overridden by a tag.
//
// # Environment Variables
//
// All environment variables follow the pattern WINDOWSCAN_* for namespacing:
//
//	WINDOWSCAN_INPUT_SCAN_FILE=results/window_scan.txt
//	WINDOWSCAN_PATHS_OUTPUT_DIR=data/processed
//	WINDOWSCAN_VALIDATION_TOLERANCE=0.001
//	WINDOWSCAN_ANALYSIS_TOP_K=10
//	WINDOWSCAN_LOGGING_LEVEL=info
//
// # Configuration File
//
// A windowscan.yaml file is looked up in the working directory and under
// configs/; an explicit path can be passed via Load. Example:
//
//	input:
//	  scan_file: results/window_scan.txt
//	paths:
//	  output_dir: data/processed
//	validation:
//	  tolerance: 0.001
//
// # Validation
//
// All configuration is validated at load time with go-playground/validator
// struct tags plus a few hand checks, so every component can trust the
// values it receives.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
