package identity

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

var symbolsByCode = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"GHS": "GH₵",
	"NGN": "₦",
	"KES": "KSh",
	"ZAR": "R",
}

// FormatCurrency renders an amount the en-US way: $1,234.50, -$12.00.
// Unknown or invalid codes fall back to USD.
func FormatCurrency(amount float64, code string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		unit = currency.USD
	}
	symbol, ok := symbolsByCode[unit.String()]
	if !ok {
		symbol = unit.String() + " "
	}

	// cents first, so amounts that round to zero carry no sign
	amount = math.Round(amount*100) / 100
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + symbol + printer.Sprintf("%.2f", amount)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders Jan 2, 2006. Unparseable input is returned unchanged.
func FormatDate(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateTime renders Jan 2, 2006, 03:04 PM. Unparseable input is returned unchanged.
func FormatDateTime(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006, 03:04 PM")
}
