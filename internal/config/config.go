// Package config loads the sheetcsv command configuration. Values come from
// struct tag defaults, then an optional TOML file, then SHEETCSV_*
// environment variables. Command-line flags are applied last by the caller.
package config

import (
	"time"
)

// Config holds all command configuration.
type Config struct {
	Export  ExportConfig  `toml:"export"`
	Output  OutputConfig  `toml:"output"`
	Watch   WatchConfig   `toml:"watch"`
	Logging LoggingConfig `toml:"logging"`
}

// ExportConfig holds the delimited-text settings.
type ExportConfig struct {
	// Delimiter separates fields (default: ","). "\t" selects a tab.
	Delimiter string `toml:"delimiter" env:"SHEETCSV_DELIMITER" default:","`

	// EscapeConvention is "Windows", "Unix" or "None" (default: Windows)
	EscapeConvention string `toml:"escape_convention" env:"SHEETCSV_ESCAPE" default:"Windows"`

	// UTF8Encoded writes a byte-order marker and UTF-8 text (default: false)
	UTF8Encoded bool `toml:"utf8_encoded" env:"SHEETCSV_UTF8" default:"false"`

	// ExtractSheets limits the export to these sheets (default: all)
	ExtractSheets []string `toml:"extract_sheets" env:"SHEETCSV_SHEETS"`

	// Charset encodes output when UTF8Encoded is false (default: windows-1252)
	Charset string `toml:"charset" env:"SHEETCSV_CHARSET" default:"windows-1252"`

	// ReplaceUnsupported writes "?" for characters Charset cannot represent
	// instead of failing the sheet (default: false)
	ReplaceUnsupported bool `toml:"replace_unsupported" env:"SHEETCSV_REPLACE_UNSUPPORTED" default:"false"`

	// MaxInputSize is the largest accepted workbook in bytes (default: 100MB)
	MaxInputSize int64 `toml:"max_input_size" env:"SHEETCSV_MAX_INPUT_SIZE" default:"104857600"`
}

// OutputConfig holds where converted files are written.
type OutputConfig struct {
	// Dir receives one file per exported sheet (default: current directory)
	Dir string `toml:"dir" env:"SHEETCSV_OUT_DIR" default:"."`

	// OriginalDir receives a copy of every input when set
	OriginalDir string `toml:"original_dir" env:"SHEETCSV_ORIGINAL_DIR"`

	// Jobs is the maximum number of inputs converted in parallel (default: 4)
	Jobs int `toml:"jobs" env:"SHEETCSV_JOBS" default:"4"`
}

// WatchConfig holds directory watch settings.
type WatchConfig struct {
	// Dir is watched for new workbooks when set
	Dir string `toml:"dir" env:"SHEETCSV_WATCH_DIR"`

	// Debounce is how long a file must stay unchanged before conversion (default: 500ms)
	Debounce time.Duration `toml:"debounce" env:"SHEETCSV_WATCH_DEBOUNCE" default:"500ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is debug, info, warn or error (default: info)
	Level string `toml:"level" env:"SHEETCSV_LOG_LEVEL" default:"info"`

	// Format is text or json (default: text)
	Format string `toml:"format" env:"SHEETCSV_LOG_FORMAT" default:"text"`
}
