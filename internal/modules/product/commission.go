package product

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CommissionRate is the marketplace fee charged on the listed price.
var CommissionRate = decimal.RequireFromString("0.025")

const zeroDisplay = "0.00"

// Commission returns price * CommissionRate rounded to cents.
func Commission(price decimal.Decimal) decimal.Decimal {
	return price.Mul(CommissionRate).Round(2)
}

// CommissionPreview renders the commission for a raw price string as typed
// by the seller. Unparsable or zero prices render as "0.00".
func CommissionPreview(rawPrice string) string {
	price, err := decimal.NewFromString(strings.TrimSpace(rawPrice))
	if err != nil || price.IsZero() {
		return zeroDisplay
	}
	return price.Mul(CommissionRate).StringFixed(2)
}

// FormatMoney renders an amount with exactly two decimals.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
