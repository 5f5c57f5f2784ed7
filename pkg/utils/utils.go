package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatMoney renders an amount with two decimals and comma thousands
// separators, e.g. 17000 -> "17,000.00". Output never depends on locale.
func FormatMoney(amount decimal.Decimal) string {
	fixed := amount.Round(2).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	if sign != "" && strings.Trim(whole+frac, "0") == "" {
		sign = ""
	}
	return sign + groupThousands(whole) + "." + frac
}

// FormatCount renders an integer with comma thousands separators.
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + groupThousands(s[1:])
	}
	return groupThousands(s)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FloorZero returns d, or zero when d is negative.
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Average divides total by n rounded to cents; zero when n is zero.
func Average(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// ToFloat converts a money amount to the float carried in metric values.
// Amounts are rounded to cents first so the float is the closest to the
// displayed value.
func ToFloat(d decimal.Decimal) float64 {
	f, _ := d.Mul(hundred).Round(0).Div(hundred).Float64()
	return f
}

// DaysAgoLabel renders a signed day distance: "3 days ago" for the past,
// "In 3 days" for the future.
func DaysAgoLabel(days int) string {
	if days >= 0 {
		return fmt.Sprintf("%d days ago", days)
	}
	return fmt.Sprintf("In %d days", -days)
}
