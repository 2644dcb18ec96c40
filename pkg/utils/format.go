// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatCurrency formats a dollar amount with thousands separators.
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")

	result := "$" + groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(s[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatPnL formats P&L with an explicit sign.
func FormatPnL(pnl float64) string {
	formatted := FormatCurrency(pnl)
	if pnl > 0 {
		return "+" + formatted
	}
	return formatted
}

// FormatQuantity formats a share count with commas.
func FormatQuantity(qty int64) string {
	negative := qty < 0
	if negative {
		qty = -qty
	}
	result := groupThousands(fmt.Sprintf("%d", qty))
	if negative {
		result = "-" + result
	}
	return result
}

// FormatVolume formats trading volume in compact form (K/M/B).
func FormatVolume(volume int64) string {
	v := float64(volume)
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	}
	return fmt.Sprintf("%d", volume)
}
