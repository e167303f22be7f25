// Package csvtext turns formatted cell values into delimited text.
package csvtext

import (
	"fmt"
	"strings"
)

// Convention selects how special characters inside a field are escaped.
type Convention int

const (
	// ExcelStyle wraps fields in double quotes and doubles embedded quotes.
	ExcelStyle Convention = iota
	// UnixStyle prefixes delimiters and newlines with a backslash.
	UnixStyle
	// None emits fields unchanged.
	None
)

// Host labels accepted by ParseConvention.
const (
	LabelWindows = "Windows"
	LabelUnix    = "Unix"
	LabelNone    = "None"
)

func (c Convention) String() string {
	switch c {
	case ExcelStyle:
		return "excel"
	case UnixStyle:
		return "unix"
	case None:
		return "none"
	default:
		return fmt.Sprintf("Convention(%d)", int(c))
	}
}

// Label returns the host label that selects c.
func (c Convention) Label() string {
	switch c {
	case UnixStyle:
		return LabelUnix
	case None:
		return LabelNone
	default:
		return LabelWindows
	}
}

// Labels returns the accepted host labels in display order.
func Labels() []string {
	return []string{LabelWindows, LabelUnix, LabelNone}
}

// ParseConvention maps a host label ("Windows", "Unix" or "None") to a
// Convention. Matching ignores case.
func ParseConvention(label string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "windows":
		return ExcelStyle, nil
	case "unix":
		return UnixStyle, nil
	case "none":
		return None, nil
	default:
		return ExcelStyle, fmt.Errorf("invalid escape convention: %q (must be one of %s)", label, strings.Join(Labels(), ", "))
	}
}

// Escape makes field safe to embed as one field of a delimited line.
func Escape(field, delimiter string, conv Convention) string {
	switch conv {
	case ExcelStyle:
		return escapeExcel(field, delimiter)
	case UnixStyle:
		return escapeUnix(field, delimiter)
	default:
		return field
	}
}

func escapeExcel(field, delimiter string) string {
	if strings.Contains(field, `"`) {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	if (delimiter != "" && strings.Contains(field, delimiter)) || strings.Contains(field, "\n") {
		return `"` + field + `"`
	}
	return field
}

// Quote characters are left alone under this convention.
func escapeUnix(field, delimiter string) string {
	if delimiter != "" && strings.Contains(field, delimiter) {
		field = strings.ReplaceAll(field, delimiter, `\`+delimiter)
	}
	if strings.Contains(field, "\n") {
		field = strings.ReplaceAll(field, "\n", "\\\n")
	}
	return field
}
