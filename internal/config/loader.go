package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/csvtext"
)

// Load builds the configuration from defaults, the TOML file at path (when
// path is not empty) and environment variables. It does not validate the
// result, since flags may still override it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := loadEnv(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration described by the default tags.
func Default() *Config {
	cfg := &Config{}
	if err := walk(reflect.ValueOf(cfg).Elem(), applyDefault); err != nil {
		// Default tags are constants; a bad one is a programming error.
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

func applyDefault(field reflect.StructField, fieldVal reflect.Value) error {
	defaultVal := field.Tag.Get("default")
	if defaultVal == "" {
		return nil
	}
	if err := setField(fieldVal, defaultVal); err != nil {
		return fmt.Errorf("invalid default for %s=%q: %w", field.Name, defaultVal, err)
	}
	return nil
}

// loadEnv overrides fields whose environment variable is set.
func loadEnv(v reflect.Value) error {
	return walk(v, func(field reflect.StructField, fieldVal reflect.Value) error {
		envName := field.Tag.Get("env")
		if envName == "" {
			return nil
		}
		value, ok := os.LookupEnv(envName)
		if !ok || value == "" {
			return nil
		}
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
		return nil
	})
}

// walk calls fn for every settable leaf field, recursing into nested structs.
func walk(v reflect.Value, fn func(reflect.StructField, reflect.Value) error) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := walk(fieldVal, fn); err != nil {
				return err
			}
			continue
		}

		if err := fn(field, fieldVal); err != nil {
			return err
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			field.Set(reflect.ValueOf(sheetcsv.ParseSheetList(value)))
		} else {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if _, err := c.Export.Convention(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Export.MaxInputSize <= 0 {
		errs = append(errs, "SHEETCSV_MAX_INPUT_SIZE must be positive")
	}
	if exportCfg, err := c.Export.SheetCSV(); err == nil {
		for _, e := range unwrapJoined(exportCfg.Validate()) {
			errs = append(errs, e.Error())
		}
	}

	if c.Output.Jobs <= 0 {
		errs = append(errs, fmt.Sprintf("SHEETCSV_JOBS (%d) must be positive", c.Output.Jobs))
	}
	if c.Output.Dir == "" {
		errs = append(errs, "SHEETCSV_OUT_DIR must not be empty")
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, "SHEETCSV_WATCH_DEBOUNCE must be non-negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("SHEETCSV_LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("SHEETCSV_LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", sheetcsv.ErrInvalidConfig, strings.Join(errs, "\n  - "))
	}

	return nil
}

func unwrapJoined(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

// Convention resolves the configured escape convention label.
func (e ExportConfig) Convention() (csvtext.Convention, error) {
	return csvtext.ParseConvention(e.EscapeConvention)
}

// DelimiterValue returns the delimiter with the escapes \t, \n and \\ resolved.
func (e ExportConfig) DelimiterValue() string {
	r := strings.NewReplacer(`\t`, "\t", `\n`, "\n", `\\`, `\`)
	return r.Replace(e.Delimiter)
}

// SheetCSV converts the settings to an export configuration.
func (e ExportConfig) SheetCSV() (sheetcsv.Config, error) {
	cfg := sheetcsv.DefaultConfig()
	conv, err := e.Convention()
	if err != nil {
		return cfg, errors.Join(sheetcsv.ErrInvalidConfig, err)
	}
	cfg.Delimiter = e.DelimiterValue()
	cfg.Convention = conv
	cfg.UTF8Encoded = e.UTF8Encoded
	cfg.ExtractSheets = e.ExtractSheets
	cfg.Charset = e.Charset
	cfg.ReplaceUnsupported = e.ReplaceUnsupported
	cfg.MaxInputSize = e.MaxInputSize
	return cfg, nil
}
