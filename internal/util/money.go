// ABOUTME: Rupee formatting helpers shared by negotiation rationale and drafts
// ABOUTME: Comma grouping matches the upstream renderer's expectations
package util

import (
	"fmt"
	"strconv"
	"strings"
)

// Rupees formats a whole rupee amount with thousands separators, e.g. 460000
// becomes "460,000".
func Rupees(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatInt(amount, 10)
	grouped := group(s)
	if neg {
		return "-" + grouped
	}
	return grouped
}

// RupeesFixed formats a fractional rupee amount with separators and exactly
// two decimal places, e.g. 1088020.5 becomes "1,088,020.50".
func RupeesFixed(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%.2f", amount)
	whole, frac, _ := strings.Cut(s, ".")
	out := group(whole) + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

func group(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(digits[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
