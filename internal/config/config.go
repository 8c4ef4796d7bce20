// =============================================================================
// MILSTRIP Validator - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration used by the batch processing commands.
//
// CONFIGURATION FILE:
//   config.yaml: directories, report settings, processing and logging
//
// ARCHITECTURE:
//   The configuration system is designed to be:
//   - Optional for one-off checks: `check` runs on defaults
//   - Defaulted: every unset option receives a working default
//   - Validated: all values are validated on load
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the directory scanned for record files.
	// Default: "./input"
	InputDir string `yaml:"input_dir" validate:"required"`

	// OutputDir is the directory where validation reports are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" validate:"required"`

	// InputArchiveDir is the directory where processed record files are moved.
	// Files are only moved here after successful processing.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir" validate:"required"`

	// OutputArchiveDir is the directory where reports are copied for
	// long-term storage.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir" validate:"required"`

	// FilePatterns is a list of glob patterns selecting input files.
	// Default: ["*.txt", "*.dat", "*.csv", "*.xlsx"]
	FilePatterns []string `yaml:"file_patterns" validate:"min=1,dive,required"`

	// =========================================================================
	// VALIDATION SETTINGS
	// =========================================================================

	// ReferenceYear pins the calendar year used to check record dates.
	// Zero uses the current year. Set it to replay an old batch.
	// Default: 0
	ReferenceYear int `yaml:"reference_year" validate:"omitempty,min=1900,max=9999"`

	// =========================================================================
	// WORKBOOK SETTINGS
	// =========================================================================

	// Workbook controls how records are read from .xlsx input files.
	Workbook WorkbookSettings `yaml:"workbook"`

	// CSV controls how records are read from .csv input files.
	CSV CSVSettings `yaml:"csv"`

	// =========================================================================
	// REPORT SETTINGS
	// =========================================================================

	// ReportFormat selects the report encoding: "xml" or "yaml".
	// Default: "xml"
	ReportFormat string `yaml:"report_format" validate:"oneof=xml yaml"`

	// ReportNameFormat defines the report file name, without extension.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {original}  - Input file name without extension
	// Default: "{original}_{timestamp}_{uuid}"
	ReportNameFormat string `yaml:"report_name_format" validate:"required"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files processed concurrently.
	// Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" validate:"min=1,max=256"`

	// ContinueOnError determines whether to continue processing other files
	// if one file fails.
	// Default: true
	ContinueOnError *bool `yaml:"continue_on_error"`

	// ArchiveOnSuccess moves processed inputs to InputArchiveDir.
	// Default: true
	ArchiveOnSuccess *bool `yaml:"archive_on_success"`

	// ArchiveDateSubdirs files archived copies under YYYY/MM/DD
	// directories inside the archive directories.
	// Default: false
	ArchiveDateSubdirs *bool `yaml:"archive_date_subdirs"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the application log file.
	// Default: "./logs/milstrip.log"
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// LogMaxSizeMB is the size at which the log file is rotated.
	// Default: 100
	LogMaxSizeMB int `yaml:"log_max_size_mb" validate:"min=1"`

	// LogMaxBackups is the number of rotated log files kept. Zero keeps
	// every rotated file.
	// Default: 10
	LogMaxBackups *int `yaml:"log_max_backups" validate:"omitempty,min=0"`
}

// WorkbookSettings locates records inside a workbook.
type WorkbookSettings struct {
	// Sheet is the sheet holding records. Empty means the first sheet.
	Sheet string `yaml:"sheet"`

	// Column is the zero-based column holding one record per row.
	// Default: 0 (Column A)
	Column int `yaml:"column" validate:"min=0"`

	// HeaderRows is the number of leading rows skipped.
	// Default: 0
	HeaderRows int `yaml:"header_rows" validate:"min=0"`
}

// CSVSettings locates records inside a delimited file.
type CSVSettings struct {
	// Delimiter separates fields. Accepts a single character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Column is the zero-based column holding the record.
	// Default: 0
	Column int `yaml:"column" validate:"min=0"`

	// HeaderRows is the number of leading rows skipped.
	// Default: 0
	HeaderRows int `yaml:"header_rows" validate:"min=0"`
}

// ShouldContinueOnError reports the effective continue_on_error setting.
func (c *MainConfig) ShouldContinueOnError() bool {
	return c.ContinueOnError == nil || *c.ContinueOnError
}

// ShouldArchiveOnSuccess reports the effective archive_on_success setting.
func (c *MainConfig) ShouldArchiveOnSuccess() bool {
	return c.ArchiveOnSuccess == nil || *c.ArchiveOnSuccess
}

// ShouldArchiveDateSubdirs reports the effective archive_date_subdirs setting.
func (c *MainConfig) ShouldArchiveDateSubdirs() bool {
	return c.ArchiveDateSubdirs != nil && *c.ArchiveDateSubdirs
}

// LogBackups reports the effective log_max_backups setting.
func (c *MainConfig) LogBackups() int {
	if c.LogMaxBackups == nil {
		return defaultLogMaxBackups
	}
	return *c.LogMaxBackups
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

const defaultLogMaxBackups = 10

// validate is shared by every load; validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = validator.New()

// Default returns a configuration with every option at its default.
func Default() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	// Read the configuration file.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse the YAML.
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply default values.
	applyMainConfigDefaults(&config)

	// Validate the configuration.
	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads the configuration file if it exists and falls back
// to Default otherwise. Any other read or parse failure is returned.
func LoadOrDefault(configPath string) (*MainConfig, error) {
	config, err := LoadMainConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if len(config.FilePatterns) == 0 {
		config.FilePatterns = []string{"*.txt", "*.dat", "*.csv", "*.xlsx"}
	}
	if config.ReportFormat == "" {
		config.ReportFormat = "xml"
	}
	if config.ReportNameFormat == "" {
		config.ReportNameFormat = "{original}_{timestamp}_{uuid}"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.LogFile == "" {
		config.LogFile = "./logs/milstrip.log"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogMaxSizeMB == 0 {
		config.LogMaxSizeMB = 100
	}
}

// ValidateReferenceYear applies the reference_year rule to a year given
// outside the configuration file. Zero means the current year.
func ValidateReferenceYear(year int) error {
	if err := validate.Var(year, "omitempty,min=1900,max=9999"); err != nil {
		return fmt.Errorf("invalid reference year %d: must be between 1900 and 9999", year)
	}
	return nil
}

// validateMainConfig checks the configuration values. It does not touch
// the filesystem; directories are created by the file manager.
func validateMainConfig(config *MainConfig) error {
	if err := validate.Struct(config); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			first := validationErrors[0]
			return fmt.Errorf("field '%s' failed '%s' (value: '%v')", first.Namespace(), first.Tag(), first.Value())
		}
		return err
	}
	return nil
}
