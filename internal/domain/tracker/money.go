package tracker

import (
	"math"

	"github.com/dustin/go-humanize"
)

// FormatMoney renders a dollar amount with thousands separators. Negative
// amounts carry a leading minus sign and fractional amounts show cents.
func FormatMoney(n float64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	if n == math.Trunc(n) {
		return sign + "$" + humanize.Comma(int64(n))
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", n)
}

// FormatShortMoney renders compact amounts for chat replies, e.g. "$12.5K".
func FormatShortMoney(n float64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	if n < 1000 {
		return sign + "$" + humanize.Comma(int64(math.Round(n)))
	}
	k := n / 1000
	if math.Mod(n, 1000) == 0 {
		return sign + "$" + humanize.Comma(int64(k)) + "K"
	}
	return sign + "$" + humanize.FormatFloat("#,###.#", k) + "K"
}
