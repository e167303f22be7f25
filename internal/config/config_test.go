package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/csvtext"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheetcsv.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Export.Delimiter != "," {
		t.Errorf("Export.Delimiter = %q, want %q", cfg.Export.Delimiter, ",")
	}
	if cfg.Export.EscapeConvention != "Windows" {
		t.Errorf("Export.EscapeConvention = %q, want %q", cfg.Export.EscapeConvention, "Windows")
	}
	if cfg.Export.Charset != "windows-1252" {
		t.Errorf("Export.Charset = %q, want %q", cfg.Export.Charset, "windows-1252")
	}
	if cfg.Export.MaxInputSize != 104857600 {
		t.Errorf("Export.MaxInputSize = %d, want %d", cfg.Export.MaxInputSize, 104857600)
	}
	if cfg.Output.Jobs != 4 {
		t.Errorf("Output.Jobs = %d, want %d", cfg.Output.Jobs, 4)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want %v", cfg.Watch.Debounce, 500*time.Millisecond)
	}
	if cfg.Export.ExtractSheets != nil {
		t.Errorf("Export.ExtractSheets = %v, want nil", cfg.Export.ExtractSheets)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[export]
delimiter = ";"
escape_convention = "Unix"
extract_sheets = ["Q1", "Q2"]

[output]
dir = "out"
jobs = 2

[watch]
debounce = "2s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Export.Delimiter != ";" {
		t.Errorf("Export.Delimiter = %q, want %q", cfg.Export.Delimiter, ";")
	}
	if len(cfg.Export.ExtractSheets) != 2 || cfg.Export.ExtractSheets[1] != "Q2" {
		t.Errorf("Export.ExtractSheets = %v, want [Q1 Q2]", cfg.Export.ExtractSheets)
	}
	if cfg.Output.Dir != "out" || cfg.Output.Jobs != 2 {
		t.Errorf("Output = %+v, want dir out and 2 jobs", cfg.Output)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("Watch.Debounce = %v, want 2s", cfg.Watch.Debounce)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Export.Charset != "windows-1252" {
		t.Errorf("Export.Charset = %q, want default", cfg.Export.Charset)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, "[export]\nseparator = \";\"\n")

	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected error for unknown key")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[output]\njobs = 2\n")
	t.Setenv("SHEETCSV_JOBS", "8")
	t.Setenv("SHEETCSV_UTF8", "true")
	t.Setenv("SHEETCSV_SHEETS", "Data, Summary")
	t.Setenv("SHEETCSV_REPLACE_UNSUPPORTED", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output.Jobs != 8 {
		t.Errorf("Output.Jobs = %d, want %d", cfg.Output.Jobs, 8)
	}
	if !cfg.Export.UTF8Encoded {
		t.Error("Export.UTF8Encoded = false, want true")
	}
	if len(cfg.Export.ExtractSheets) != 2 || cfg.Export.ExtractSheets[0] != "Data" {
		t.Errorf("Export.ExtractSheets = %v, want [Data Summary]", cfg.Export.ExtractSheets)
	}
	if !cfg.Export.ReplaceUnsupported {
		t.Error("Export.ReplaceUnsupported = false, want true")
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("SHEETCSV_JOBS", "many")

	if _, err := Load(""); err == nil {
		t.Fatal("Load() expected error for invalid integer")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty delimiter", func(c *Config) { c.Export.Delimiter = "" }},
		{"bad convention", func(c *Config) { c.Export.EscapeConvention = "Mac" }},
		{"bad charset", func(c *Config) { c.Export.Charset = "klingon-8" }},
		{"zero jobs", func(c *Config) { c.Output.Jobs = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, sheetcsv.ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestExportConfigSheetCSV(t *testing.T) {
	e := Default().Export
	e.Delimiter = `\t`
	e.EscapeConvention = "unix"
	e.UTF8Encoded = true
	e.ReplaceUnsupported = true

	cfg, err := e.SheetCSV()
	if err != nil {
		t.Fatalf("SheetCSV() error = %v", err)
	}
	if cfg.Delimiter != "\t" {
		t.Errorf("Delimiter = %q, want tab", cfg.Delimiter)
	}
	if cfg.Convention != csvtext.UnixStyle {
		t.Errorf("Convention = %v, want %v", cfg.Convention, csvtext.UnixStyle)
	}
	if !cfg.UTF8Encoded {
		t.Error("UTF8Encoded = false, want true")
	}
	if !cfg.ReplaceUnsupported {
		t.Error("ReplaceUnsupported = false, want true")
	}
}
