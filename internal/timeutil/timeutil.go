package timeutil

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// maxIntegral is the magnitude from which float seconds stop rendering as
// plain integer digits and are therefore not formattable.
const maxIntegral = 1e21

// Number coerces raw text into a float the permissive way note authors
// expect: surrounding whitespace is ignored, blank text counts as zero,
// and anything unparseable becomes NaN instead of an error.
func Number(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	// strconv accepts '_' digit separators; note text never does.
	if strings.Contains(s, "_") {
		return math.NaN()
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	// ParseFloat also accepts "inf", "nan" and signed hex floats, none of
	// which count as numbers here.
	lower := strings.ToLower(strings.TrimLeft(s, "+-"))
	if strings.HasPrefix(lower, "inf") || strings.HasPrefix(lower, "nan") || strings.HasPrefix(lower, "0x") {
		return math.NaN()
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return n
		}
		return math.NaN()
	}
	return n
}

// ToSecond converts hour, minute and second text into a total number of seconds.
func ToSecond(hour, minute, second string) float64 {
	return Number(hour)*3600 + Number(minute)*60 + Number(second)
}

// Format renders seconds as h:mm:ss with a leading '-' for negative input.
// Hours are not padded. The second return value is false when seconds is
// NaN, infinite, fractional or too large to print as integer digits.
func Format(seconds float64) (string, bool) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "", false
	}
	if seconds != math.Trunc(seconds) || math.Abs(seconds) >= maxIntegral {
		return "", false
	}

	abs := math.Abs(seconds)
	hour := math.Floor(abs / 3600)
	minute := int64(math.Floor(math.Mod(abs, 3600) / 60))
	second := int64(math.Floor(math.Mod(abs, 60)))

	var b strings.Builder
	if seconds < 0 {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatFloat(hour, 'f', 0, 64))
	b.WriteByte(':')
	b.WriteString(pad(minute))
	b.WriteByte(':')
	b.WriteString(pad(second))
	return b.String(), true
}

func pad(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// Fixed renders v with exactly digits decimals. Rounding works on the exact
// binary value of v and sends exact halves away from zero, so 0.125 gives
// "0.13" where strconv would round to even. Non-finite values are spelled
// NaN, Infinity and -Infinity.
func Fixed(v float64, digits int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	if digits < 0 {
		digits = 0
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	x := new(big.Float).SetPrec(2048).SetFloat64(math.Abs(v))
	x.Mul(x, new(big.Float).SetInt(scale))

	n, _ := x.Int(nil)
	frac := new(big.Float).SetPrec(2048).Sub(x, new(big.Float).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	text := n.String()
	if len(text) <= digits {
		text = strings.Repeat("0", digits-len(text)+1) + text
	}

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	if digits == 0 {
		b.WriteString(text)
		return b.String()
	}
	b.WriteString(text[:len(text)-digits])
	b.WriteByte('.')
	b.WriteString(text[len(text)-digits:])
	return b.String()
}
