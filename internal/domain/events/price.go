package events

import (
	"github.com/shopspring/decimal"
	"strings"
)

// PriceLabel renders a price the way the site shows it: "Free" for zero,
// otherwise Indian-rupee notation with lakh grouping, e.g. ₹1,25,000.00.
func PriceLabel(price decimal.Decimal) string {
	if price.IsZero() {
		return "Free"
	}

	sign := ""
	if price.IsNegative() {
		sign = "-"
		price = price.Neg()
	}

	fixed := price.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	return sign + "₹" + groupIndian(whole) + "." + frac
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}

	return strings.Join(groups, ",") + "," + tail
}
