package columns

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney rounds v to places decimals and adds comma thousand separators.
func FormatMoney(v float64, places int32) string {
	return commaSeparate(decimal.NewFromFloat(v).StringFixed(places))
}

// FormatFloat formats a ratio with fixed decimals and no separators.
func FormatFloat(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// commaSeparate inserts thousand separators into the integer part of a
// plain decimal string such as "-1234567.89".
func commaSeparate(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}
	n := len(intPart)
	if n <= 3 {
		return sign + intPart + frac
	}
	out := make([]byte, 0, n+n/3)
	rem := n % 3
	if rem == 0 {
		rem = 3
	}
	out = append(out, intPart[:rem]...)
	for i := rem; i < n; i += 3 {
		out = append(out, ',')
		out = append(out, intPart[i:i+3]...)
	}
	return sign + string(out) + frac
}
