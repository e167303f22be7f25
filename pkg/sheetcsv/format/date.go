package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/nfp"
)

var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// serialOf converts t to a 1900-system serial date. Elapsed-time tokens
// need the serial rather than the calendar fields.
func serialOf(t time.Time) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return wall.Sub(excelEpoch).Hours() / 24
}

func hasAMPM(items []nfp.Token) bool {
	for _, tok := range items {
		v := strings.ToUpper(tok.TValue)
		if v == "AM/PM" || v == "A/P" {
			return true
		}
	}
	return false
}

// isMinute decides whether the m/mm token at idx means minutes: it does
// when it follows an hour token or precedes a seconds token.
func isMinute(items []nfp.Token, idx int) bool {
	for i := idx - 1; i >= 0; i-- {
		tt := items[i].TType
		if tt == nfp.TokenTypeDateTimes || tt == nfp.TokenTypeElapsedDateTimes {
			if strings.ContainsAny(items[i].TValue, "hH") {
				return true
			}
			break
		}
	}
	for i := idx + 1; i < len(items); i++ {
		tt := items[i].TType
		if tt == nfp.TokenTypeDateTimes || tt == nfp.TokenTypeElapsedDateTimes {
			return strings.ContainsAny(items[i].TValue, "sS")
		}
	}
	return false
}

func fractionalSeconds(items []nfp.Token) int {
	for i := 0; i+1 < len(items); i++ {
		if items[i].TType == nfp.TokenTypeDecimalPoint && items[i+1].TType == nfp.TokenTypeZeroPlaceHolder {
			return len(items[i+1].TValue)
		}
	}
	return 0
}

// renderDate renders t with the tokens of a date or time section.
func renderDate(items []nfp.Token, t time.Time, serial float64) string {
	ampm := hasAMPM(items)
	fracDigits := fractionalSeconds(items)
	if fracDigits == 0 {
		t = t.Round(time.Second)
	}

	var b strings.Builder
	for i := 0; i < len(items); i++ {
		tok := items[i]
		switch tok.TType {
		case nfp.TokenTypeDateTimes:
			b.WriteString(dateToken(items, i, t, ampm))
		case nfp.TokenTypeElapsedDateTimes:
			b.WriteString(elapsedToken(tok.TValue, serial))
		case nfp.TokenTypeDecimalPoint:
			if i+1 < len(items) && items[i+1].TType == nfp.TokenTypeZeroPlaceHolder {
				n := len(items[i+1].TValue)
				frac := float64(t.Nanosecond()) / float64(time.Second)
				digits := strconv.Itoa(int(math.Round(frac * math.Pow(10, float64(n)))))
				if len(digits) > n {
					digits = strings.Repeat("9", n)
				}
				b.WriteString("." + strings.Repeat("0", n-len(digits)) + digits)
				i++
				continue
			}
			b.WriteString(tok.TValue)
		case nfp.TokenTypeLiteral:
			if hasAMPM(items[i : i+1]) {
				b.WriteString(dateToken(items, i, t, ampm))
				continue
			}
			b.WriteString(literal(tok.TValue))
		case nfp.TokenTypeCurrencyLanguage:
			b.WriteString(currencySymbol(tok.TValue))
		case nfp.TokenTypeColor, nfp.TokenTypeCondition:
		default:
			b.WriteString(tok.TValue)
		}
	}
	return b.String()
}

func dateToken(items []nfp.Token, idx int, t time.Time, ampm bool) string {
	v := items[idx].TValue
	upper := strings.ToUpper(v)
	switch {
	case upper == "AM/PM":
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case upper == "A/P":
		if t.Hour() < 12 {
			return "A"
		}
		return "P"
	case strings.HasPrefix(upper, "Y") || strings.HasPrefix(upper, "E"):
		if len(v) <= 2 {
			return fmt.Sprintf("%02d", t.Year()%100)
		}
		return fmt.Sprintf("%04d", t.Year())
	case strings.HasPrefix(upper, "M"):
		if len(v) <= 2 && isMinute(items, idx) {
			return pad(t.Minute(), len(v))
		}
		switch len(v) {
		case 1, 2:
			return pad(int(t.Month()), len(v))
		case 3:
			return t.Month().String()[:3]
		case 4:
			return t.Month().String()
		default:
			return t.Month().String()[:1]
		}
	case strings.HasPrefix(upper, "D"):
		switch len(v) {
		case 1, 2:
			return pad(t.Day(), len(v))
		case 3:
			return t.Weekday().String()[:3]
		default:
			return t.Weekday().String()
		}
	case strings.HasPrefix(upper, "H"):
		h := t.Hour()
		if ampm {
			h %= 12
			if h == 0 {
				h = 12
			}
		}
		return pad(h, len(v))
	case strings.HasPrefix(upper, "S"):
		return pad(t.Second(), len(v))
	default:
		return v
	}
}

func elapsedToken(v string, serial float64) string {
	width := len(strings.Trim(v, "[]"))
	switch {
	case strings.ContainsAny(v, "hH"):
		return pad(int(math.Floor(serial*24)), width)
	case strings.ContainsAny(v, "mM"):
		return pad(int(math.Floor(serial*24*60)), width)
	case strings.ContainsAny(v, "sS"):
		return pad(int(math.Round(serial*24*60*60)), width)
	default:
		return v
	}
}

func pad(n, width int) string {
	if width >= 2 {
		return fmt.Sprintf("%0*d", width, n)
	}
	return strconv.Itoa(n)
}
