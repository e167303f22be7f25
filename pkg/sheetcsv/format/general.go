package format

import (
	"math"
	"strconv"
	"strings"
)

const generalCode = "General"

// Magnitudes outside [generalSciLow, generalSciHigh) switch General to
// scientific notation.
const (
	generalSciHigh   = 1e11
	generalSciLow    = 1e-10
	generalSigDigits = 10
)

// General renders v the way the General number format displays it.
func General(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return "#NUM!"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}

	if abs >= generalSciHigh || abs < generalSciLow {
		s := strconv.FormatFloat(abs, 'E', 5, 64)
		mant, exp, _ := strings.Cut(s, "E")
		if strings.Contains(mant, ".") {
			mant = strings.TrimRight(strings.TrimRight(mant, "0"), ".")
		}
		return sign + mant + "E" + exp
	}

	s := trimFraction(roundSignificant(abs, generalSigDigits), 0)
	if s == "0" {
		return "0"
	}
	return sign + s
}

// roundHalfUp renders a non-negative v with exactly dec decimals, rounding
// half away from zero on the shortest decimal representation of v.
func roundHalfUp(v float64, dec int) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	if len(frac) <= dec {
		frac += strings.Repeat("0", dec-len(frac))
		if dec == 0 {
			return intPart
		}
		return intPart + "." + frac
	}

	digits := intPart + frac[:dec]
	if frac[dec] >= '5' {
		digits = increment(digits)
	}
	ip, fp := digits[:len(digits)-dec], digits[len(digits)-dec:]
	if ip == "" {
		ip = "0"
	}
	if dec == 0 {
		return ip
	}
	return ip + "." + fp
}

// roundSignificant renders a positive v rounded half up to sig significant
// digits, in plain notation.
func roundSignificant(v float64, sig int) string {
	e := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err != nil {
		return roundHalfUp(v, sig)
	}
	dec := sig - 1 - exp
	if dec >= 0 {
		return roundHalfUp(v, dec)
	}

	s := roundHalfUp(v, 0)
	keep := len(s) + dec
	if keep <= 0 {
		return s
	}
	digits := s[:keep]
	if s[keep] >= '5' {
		digits = increment(digits)
	}
	return digits + strings.Repeat("0", -dec)
}

// increment adds one to a string of decimal digits.
func increment(digits string) string {
	b := []byte(digits)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < '9' {
			b[i]++
			return string(b)
		}
		b[i] = '0'
	}
	return "1" + string(b)
}

// trimFraction drops trailing zeros from the fractional part of s while
// keeping at least keep decimals. The decimal point goes with the last digit.
func trimFraction(s string, keep int) string {
	intPart, frac, ok := strings.Cut(s, ".")
	if !ok {
		return s
	}
	for len(frac) > keep && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
	}
	if frac == "" {
		return intPart
	}
	return intPart + "." + frac
}
