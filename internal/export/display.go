package export

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/profile-cli/internal/resolve"
)

// printer groups digits the way the source pages render them ("10,000").
var printer = message.NewPrinter(language.English)

// RateDisplay renders an hourly rate for humans: "$1,234.50/hr". The
// symbol comes from the resolved currency code; records without a
// currency fall back to "$", matching the dominant source market. Whole
// amounts drop the cents.
func RateDisplay(rate *float64, currency *string) string {
	if rate == nil {
		return ""
	}
	return symbolFor(currency) + amount(*rate) + "/hr"
}

// EarningsDisplay renders a lifetime earnings total in the record's
// resolved currency: "$10,000", "€10,000".
func EarningsDisplay(total *float64, currency *string) string {
	if total == nil {
		return ""
	}
	return symbolFor(currency) + amount(*total)
}

// ScoreDisplay renders a job success score: "97%".
func ScoreDisplay(score *int) string {
	if score == nil {
		return ""
	}
	return strconv.Itoa(*score) + "%"
}

func symbolFor(currency *string) string {
	if currency == nil {
		return "$"
	}
	if sym := resolve.SymbolForCurrency(*currency); sym != "" {
		return sym
	}
	return "$"
}

func amount(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}
