package util

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var compactUnits = []struct {
	scale  float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
}

// FormatPrice renders a USD price. Values of a million or more are compact
// ("$1.22T"); smaller ones keep 6, 4 or 2 decimals depending on magnitude.
func FormatPrice(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return "N/A"
	}
	sign := ""
	abs := price
	if price < 0 {
		sign = "-"
		abs = -price
	}
	if abs >= 1e6 {
		return sign + "$" + compact(abs)
	}

	pattern := "#,###.##"
	switch {
	case abs < 0.01:
		pattern = "#,###.######"
	case abs < 1:
		pattern = "#,###.####"
	}
	return sign + "$" + humanize.FormatFloat(pattern, abs)
}

// FormatPercentage renders a signed percentage with two decimals.
func FormatPercentage(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return "N/A"
	}
	return humanize.FormatFloat("+#,###.##", pct) + "%"
}

// FormatNumber groups thousands and keeps at most two decimals. Values of a
// million or more are compact.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	if v >= 1e6 {
		return compact(v)
	}
	return groupRounded(v, 2)
}

// ShortenAddress renders the first and last chars runes of addr around
// "...". Short input overlaps rather than passing through.
func ShortenAddress(addr string, chars int) string {
	if addr == "" {
		return ""
	}
	if chars <= 0 {
		chars = 4
	}
	r := []rune(addr)
	n := chars
	if n > len(r) {
		n = len(r)
	}
	return string(r[:n]) + "..." + string(r[len(r)-n:])
}

func compact(v float64) string {
	for _, u := range compactUnits {
		if v >= u.scale {
			return groupRounded(v/u.scale, 2) + u.suffix
		}
	}
	return groupRounded(v, 2)
}

// groupRounded rounds half away from zero to at most places decimals, drops
// trailing zeros and groups thousands.
func groupRounded(v float64, places int32) string {
	d := decimal.NewFromFloat(v).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	s := sign + humanize.BigComma(whole.BigInt())
	if frac := d.Sub(whole); !frac.IsZero() {
		// "0.68" -> ".68"
		s += frac.String()[1:]
	}
	return s
}
