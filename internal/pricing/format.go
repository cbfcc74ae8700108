package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatPrice renders amount as US dollars with two fraction digits and
// thousands grouping, e.g. 1234.5 -> "$1,234.50". The digits come from the
// exact decimal; amounts never pass through float64.
func FormatPrice(amount decimal.Decimal) string {
	cents := amount.Round(2)

	sign := ""
	if cents.IsNegative() {
		sign = "-"
		cents = cents.Neg()
	}

	whole, fraction, _ := strings.Cut(cents.StringFixed(2), ".")
	return sign + "$" + groupThousands(whole) + "." + fraction
}

// groupThousands inserts US grouping separators into a string of digits
func groupThousands(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return message.NewPrinter(language.AmericanEnglish).Sprint(number.Decimal(n))
	}

	// Beyond int64 the separators are placed by hand
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
