package sheetcsv

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// replacementChar stands in for characters the charset cannot represent
// when replacement is enabled.
const replacementChar = "?"

// utf8BOM is the byte-order marker written before UTF-8 output.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// lookupCharset resolves an IANA charset name. Empty selects DefaultCharset.
func lookupCharset(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, DefaultCharset) {
		return charmap.Windows1252, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCharset, name)
	}
	return enc, nil
}

// encodeText converts serialized text to output bytes. A character the
// charset cannot represent is an error unless cfg.ReplaceUnsupported is set.
func encodeText(text string, cfg Config) ([]byte, error) {
	if cfg.UTF8Encoded {
		out := make([]byte, 0, len(utf8BOM)+len(text))
		out = append(out, utf8BOM...)
		return append(out, text...), nil
	}

	enc, err := lookupCharset(cfg.Charset)
	if err != nil {
		return nil, err
	}
	if cfg.ReplaceUnsupported {
		return encodeReplacing(enc, text), nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode as %s: %w", charsetName(cfg.Charset), err)
	}
	return out, nil
}

// encodeReplacing encodes text, writing replacementChar for every rune the
// encoder rejects.
func encodeReplacing(enc encoding.Encoding, text string) []byte {
	e := enc.NewEncoder()
	var b strings.Builder
	for text != "" {
		out, n, err := transform.String(e, text)
		b.WriteString(out)
		if err == nil || n >= len(text) {
			break
		}
		_, size := utf8.DecodeRuneInString(text[n:])
		b.WriteString(replacementChar)
		text = text[n+size:]
		e.Reset()
	}
	return []byte(b.String())
}

func charsetName(name string) string {
	if strings.TrimSpace(name) == "" {
		return DefaultCharset
	}
	return name
}
