package format

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/xuri/nfp"
)

// sectionCache holds parsed format codes. Parsed sections are never mutated.
var sectionCache sync.Map // map[string][]nfp.Section

func parseCode(code string) []nfp.Section {
	if cached, ok := sectionCache.Load(code); ok {
		return cached.([]nfp.Section)
	}
	p := nfp.NumberFormatParser()
	sections := p.Parse(code)
	sectionCache.Store(code, sections)
	return sections
}

func isGeneralCode(code string) bool {
	return code == "" || strings.EqualFold(code, generalCode)
}

// IsDateFormat reports whether code renders numbers as dates or times.
func IsDateFormat(code string) bool {
	if isGeneralCode(code) {
		return false
	}
	sections := parseCode(code)
	if len(sections) == 0 {
		return false
	}
	return isDateSection(sections[0].Items)
}

func isDateSection(items []nfp.Token) bool {
	for _, tok := range items {
		if tok.TType == nfp.TokenTypeDateTimes || tok.TType == nfp.TokenTypeElapsedDateTimes {
			return true
		}
	}
	return false
}

// Number renders v with the number format code. Date and time codes
// interpret v as a serial date in the 1900 (or 1904) date system.
func Number(v float64, code string, date1904 bool) string {
	if isGeneralCode(code) || math.IsNaN(v) || math.IsInf(v, 0) {
		return General(v)
	}
	sections := parseCode(code)
	if len(sections) == 0 {
		return General(v)
	}

	items, signed := pickSection(sections, v)
	if isDateSection(items) {
		t, err := excelize.ExcelDateToTime(v, date1904)
		if err != nil {
			return General(v)
		}
		return renderDate(items, t, v)
	}

	out, ok := renderNumber(items, math.Abs(v))
	if !ok {
		return General(v)
	}
	if signed && v < 0 && strings.ContainsAny(out, "123456789") {
		out = "-" + out
	}
	return out
}

// Time renders t with a date format code, falling back to m/d/yy (with
// h:mm when t has a time component) for codes that are not date formats.
func Time(t time.Time, code string) string {
	if !IsDateFormat(code) {
		code = Builtin(14)
		if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 {
			code = Builtin(22)
		}
	}
	return renderDate(parseCode(code)[0].Items, t, serialOf(t))
}

// pickSection selects the section for v. The second result reports whether
// the caller must add a minus sign for negative values.
func pickSection(sections []nfp.Section, v float64) ([]nfp.Token, bool) {
	switch {
	case len(sections) == 1:
		return sections[0].Items, true
	case v < 0:
		return sections[1].Items, false
	case v == 0 && len(sections) >= 3:
		return sections[2].Items, false
	default:
		return sections[0].Items, false
	}
}

// numberLayout describes the digit placeholders of a numeric section.
type numberLayout struct {
	prefix, suffix strings.Builder
	minInt         int
	intWidth       int
	minDec, maxDec int
	thousands      bool
	decimalPoint   bool
	scale          int
	percent        int
	exponent       bool
	expSign        string
	expDigits      int
}

func literal(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	if len(s) == 2 && s[0] == '\\' {
		return s[1:]
	}
	return s
}

func currencySymbol(s string) string {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	s = strings.TrimPrefix(s, "$")
	if i := strings.Index(s, "-"); i >= 0 {
		s = s[:i]
	}
	return s
}

// renderNumber renders a non-negative value. It reports false for sections
// it cannot render.
func renderNumber(items []nfp.Token, v float64) (string, bool) {
	if slices.ContainsFunc(items, func(tok nfp.Token) bool { return tok.TType == nfp.TokenTypeFraction }) {
		return renderFraction(items, v)
	}

	var l numberLayout
	seenDigits, inDecimals, inExponent := false, false, false
	pendingCommas := 0

	for _, tok := range items {
		switch tok.TType {
		case nfp.TokenTypeGeneral, nfp.TokenTypeTextPlaceHolder:
			text := General(v)
			if seenDigits {
				l.suffix.WriteString(text)
			} else {
				l.prefix.WriteString(text)
			}
		case nfp.TokenTypeZeroPlaceHolder, nfp.TokenTypeHashPlaceHolder, nfp.TokenTypeDigitalPlaceHolder:
			n := len(tok.TValue)
			zeros := strings.Count(tok.TValue, "0")
			if tok.TType == nfp.TokenTypeZeroPlaceHolder && zeros == 0 {
				zeros = n
			}
			switch {
			case inExponent:
				l.expDigits += n
			case inDecimals:
				l.minDec += zeros
				l.maxDec += n
			default:
				l.minInt += zeros
				l.intWidth += n
				if pendingCommas > 0 {
					l.thousands = true
					pendingCommas = 0
				}
			}
			seenDigits = true
		case nfp.TokenTypeThousandsSeparator:
			if seenDigits && !inDecimals && !inExponent {
				pendingCommas += len(tok.TValue)
			} else {
				l.suffixOrPrefix(seenDigits, tok.TValue)
			}
		case nfp.TokenTypeDecimalPoint:
			if !inExponent {
				l.scale += pendingCommas
				pendingCommas = 0
				inDecimals = true
				l.decimalPoint = true
				seenDigits = true
			}
		case nfp.TokenTypeExponential:
			l.scale += pendingCommas
			pendingCommas = 0
			inExponent = true
			l.exponent = true
			if strings.Contains(tok.TValue, "+") {
				l.expSign = "+"
			}
			l.expDigits += strings.Count(tok.TValue, "0") + strings.Count(tok.TValue, "#")
		case nfp.TokenTypePercent:
			l.percent++
			l.suffixOrPrefix(seenDigits, tok.TValue)
		case nfp.TokenTypeLiteral:
			l.suffixOrPrefix(seenDigits, literal(tok.TValue))
		case nfp.TokenTypeCurrencyLanguage:
			l.suffixOrPrefix(seenDigits, currencySymbol(tok.TValue))
		case nfp.TokenTypeAlignment:
			// _x pads with the width of x; plain text gets one space.
			l.suffixOrPrefix(seenDigits, " ")
		}
	}
	l.scale += pendingCommas

	for i := 0; i < l.percent; i++ {
		v *= 100
	}
	for i := 0; i < l.scale; i++ {
		v /= 1000
	}

	var num string
	if l.exponent {
		num = l.scientific(v)
	} else {
		num = l.fixed(v)
	}
	return l.prefix.String() + num + l.suffix.String(), true
}

func isPlaceholder(tt string) bool {
	switch tt {
	case nfp.TokenTypeZeroPlaceHolder, nfp.TokenTypeHashPlaceHolder, nfp.TokenTypeDigitalPlaceHolder:
		return true
	}
	return false
}

// decoration renders the non-digit tokens around a number.
func decoration(tok nfp.Token) string {
	switch tok.TType {
	case nfp.TokenTypeLiteral:
		return literal(tok.TValue)
	case nfp.TokenTypeCurrencyLanguage:
		return currencySymbol(tok.TValue)
	case nfp.TokenTypeAlignment:
		return " "
	case nfp.TokenTypePercent:
		return tok.TValue
	}
	return ""
}

// renderFraction renders sections such as "# ?/?" and "?/8". A placeholder
// before the numerator selects a mixed fraction with a whole part.
func renderFraction(items []nfp.Token, v float64) (string, bool) {
	slash := slices.IndexFunc(items, func(tok nfp.Token) bool { return tok.TType == nfp.TokenTypeFraction })
	if slash < 1 || slash+1 >= len(items) {
		return "", false
	}
	numer := -1
	for i := slash - 1; i >= 0; i-- {
		if isPlaceholder(items[i].TType) {
			numer = i
			break
		}
	}
	if numer < 0 {
		return "", false
	}
	first := slices.IndexFunc(items[:numer+1], func(tok nfp.Token) bool { return isPlaceholder(tok.TType) })
	mixed := first < numer

	den := items[slash+1]
	maxDen, fixedDen := 0, 0
	switch {
	case den.TType == nfp.TokenTypeDenominator,
		den.TType == nfp.TokenTypeZeroPlaceHolder && strings.Trim(den.TValue, "0") != "":
		n, err := strconv.Atoi(den.TValue)
		if err != nil || n <= 0 {
			return "", false
		}
		fixedDen = n
	case isPlaceholder(den.TType):
		maxDen = int(math.Pow10(min(len(den.TValue), 4))) - 1
	default:
		return "", false
	}

	var prefix, suffix strings.Builder
	for _, tok := range items[:first] {
		prefix.WriteString(decoration(tok))
	}
	for _, tok := range items[slash+2:] {
		suffix.WriteString(decoration(tok))
	}

	whole := 0.0
	frac := v
	if mixed {
		whole = math.Floor(v)
		frac = v - whole
	}
	var n, d int
	if fixedDen > 0 {
		n, d = int(math.Round(frac*float64(fixedDen))), fixedDen
	} else {
		n, d = approximate(frac, maxDen)
	}

	var body string
	switch {
	case mixed && n == 0:
		body = strconv.FormatFloat(whole, 'f', 0, 64)
	case mixed && n == d:
		body = strconv.FormatFloat(whole+1, 'f', 0, 64)
	case mixed && whole > 0:
		body = strconv.FormatFloat(whole, 'f', 0, 64) + " " + strconv.Itoa(n) + "/" + strconv.Itoa(d)
	default:
		body = strconv.Itoa(n) + "/" + strconv.Itoa(d)
	}
	return prefix.String() + body + suffix.String(), true
}

// approximate returns the fraction n/d closest to v with d <= maxDen,
// preferring the smallest denominator on ties.
func approximate(v float64, maxDen int) (int, int) {
	bestN, bestD := int(math.Round(v)), 1
	bestErr := math.Abs(v - float64(bestN))
	for d := 2; d <= maxDen && bestErr > 0; d++ {
		n := int(math.Round(v * float64(d)))
		if err := math.Abs(v - float64(n)/float64(d)); err < bestErr {
			bestN, bestD, bestErr = n, d, err
		}
	}
	return bestN, bestD
}

func (l *numberLayout) suffixOrPrefix(afterDigits bool, s string) {
	if afterDigits {
		l.suffix.WriteString(s)
	} else {
		l.prefix.WriteString(s)
	}
}

func (l *numberLayout) fixed(v float64) string {
	s := trimFraction(roundHalfUp(v, l.maxDec), l.minDec)
	intPart, frac, _ := strings.Cut(s, ".")
	if intPart == "0" && l.minInt == 0 {
		intPart = ""
	}
	if pad := l.minInt - len(intPart); pad > 0 {
		intPart = strings.Repeat("0", pad) + intPart
	}
	if l.thousands {
		intPart = groupThousands(intPart)
	}
	if l.decimalPoint {
		return intPart + "." + frac
	}
	return intPart
}

func (l *numberLayout) scientific(v float64) string {
	width := 1
	if l.intWidth > 1 {
		// Layouts such as ##0.0E+0 keep the exponent a multiple of the
		// integer placeholder width.
		width = l.intWidth
	}
	exp := 0
	if v != 0 {
		exp = int(math.Floor(math.Log10(v)))
		exp -= ((exp % width) + width) % width
	}
	m := roundHalfUp(v/math.Pow(10, float64(exp)), l.maxDec)
	if r, err := strconv.ParseFloat(m, 64); err == nil && r >= math.Pow(10, float64(width)) {
		exp += width
		m = roundHalfUp(v/math.Pow(10, float64(exp)), l.maxDec)
	}
	m = trimFraction(m, l.minDec)
	if l.decimalPoint && !strings.Contains(m, ".") {
		m += "."
	}

	sign := ""
	switch {
	case exp < 0:
		sign = "-"
	case l.expSign == "+":
		sign = "+"
	}
	digits := strconv.Itoa(absInt(exp))
	if pad := l.expDigits - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return m + "E" + sign + digits
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
