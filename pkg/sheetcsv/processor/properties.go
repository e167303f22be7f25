// Package processor adapts the workbook exporter to a flow-based host: the
// host passes string properties and an input flow file, and receives one
// flow file per sheet plus the forwarded original.
package processor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/csvtext"
)

// Property names accepted by New.
const (
	PropUTF8Encoded        = "utf8-encoded"
	PropEscapeConvention   = "escape-convention"
	PropDelimiter          = "delimiter"
	PropExtractSheets      = "extract-sheets"
	PropCharset            = "charset"
	PropReplaceUnsupported = "replace-unsupported"
)

// PropertyDescriptor describes one configurable property.
type PropertyDescriptor struct {
	Name          string
	DisplayName   string
	Description   string
	Required      bool
	DefaultValue  string
	AllowedValues []string
}

// Properties lists the supported properties in display order.
var Properties = []*PropertyDescriptor{
	{
		Name:          PropUTF8Encoded,
		DisplayName:   "UTF-8 Encoded",
		Description:   "Write a UTF-8 byte-order marker followed by UTF-8 text. When false, output uses the configured charset.",
		Required:      true,
		DefaultValue:  "false",
		AllowedValues: []string{"true", "false"},
	},
	{
		Name:          PropEscapeConvention,
		DisplayName:   "Escape Convention",
		Description:   "How fields containing the delimiter, quotes or line breaks are escaped.",
		Required:      true,
		DefaultValue:  csvtext.LabelWindows,
		AllowedValues: csvtext.Labels(),
	},
	{
		Name:         PropDelimiter,
		DisplayName:  "CSV Delimiter",
		Description:  "Separator placed between fields.",
		Required:     true,
		DefaultValue: sheetcsv.DefaultDelimiter,
	},
	{
		Name:        PropExtractSheets,
		DisplayName: "Sheets to Extract",
		Description: "Comma-separated sheet names to export, matched case-insensitively. Empty exports every sheet.",
	},
	{
		Name:         PropCharset,
		DisplayName:  "Character Set",
		Description:  "IANA name of the output encoding when UTF-8 is not selected.",
		DefaultValue: sheetcsv.DefaultCharset,
	},
	{
		Name:          PropReplaceUnsupported,
		DisplayName:   "Replace Unsupported Characters",
		Description:   "Write \"?\" for characters the character set cannot represent. When false, such a sheet is routed to failure.",
		DefaultValue:  "false",
		AllowedValues: []string{"true", "false"},
	},
}

// Descriptor returns the descriptor named name, or nil.
func Descriptor(name string) *PropertyDescriptor {
	for _, p := range Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// value returns the configured value of p, falling back to its default.
func (p *PropertyDescriptor) value(props map[string]string) string {
	if v, ok := props[p.Name]; ok && v != "" {
		return v
	}
	return p.DefaultValue
}

func (p *PropertyDescriptor) validate(v string) error {
	if p.Required && v == "" {
		return fmt.Errorf("%w: property %q is required", sheetcsv.ErrInvalidConfig, p.Name)
	}
	if len(p.AllowedValues) == 0 {
		return nil
	}
	for _, allowed := range p.AllowedValues {
		if strings.EqualFold(strings.TrimSpace(v), allowed) {
			return nil
		}
	}
	return fmt.Errorf("%w: property %q must be one of %s, got %q",
		sheetcsv.ErrInvalidConfig, p.Name, strings.Join(p.AllowedValues, ", "), v)
}

// ConfigFromProperties builds an export configuration from host properties.
// Unknown property names are rejected.
func ConfigFromProperties(props map[string]string) (sheetcsv.Config, error) {
	cfg := sheetcsv.DefaultConfig()
	for name := range props {
		if Descriptor(name) == nil {
			return cfg, fmt.Errorf("%w: unknown property %q", sheetcsv.ErrInvalidConfig, name)
		}
	}

	values := make(map[string]string, len(Properties))
	for _, p := range Properties {
		v := p.value(props)
		if err := p.validate(v); err != nil {
			return cfg, err
		}
		values[p.Name] = v
	}

	utf8Encoded, err := strconv.ParseBool(strings.TrimSpace(values[PropUTF8Encoded]))
	if err != nil {
		return cfg, fmt.Errorf("%w: property %q: %v", sheetcsv.ErrInvalidConfig, PropUTF8Encoded, err)
	}
	replace, err := strconv.ParseBool(strings.TrimSpace(values[PropReplaceUnsupported]))
	if err != nil {
		return cfg, fmt.Errorf("%w: property %q: %v", sheetcsv.ErrInvalidConfig, PropReplaceUnsupported, err)
	}
	conv, err := csvtext.ParseConvention(values[PropEscapeConvention])
	if err != nil {
		return cfg, fmt.Errorf("%w: property %q: %v", sheetcsv.ErrInvalidConfig, PropEscapeConvention, err)
	}

	cfg.UTF8Encoded = utf8Encoded
	cfg.Convention = conv
	cfg.Delimiter = values[PropDelimiter]
	cfg.ExtractSheets = sheetcsv.ParseSheetList(values[PropExtractSheets])
	cfg.Charset = values[PropCharset]
	cfg.ReplaceUnsupported = replace
	return cfg, cfg.Validate()
}
