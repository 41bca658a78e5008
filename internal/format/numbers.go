package format

import "strings"

// FormatNumberString inserts thousands separators into a decimal string,
// keeping a leading sign.
func FormatNumberString(s string) string {
	if s == "" {
		return s
	}
	sign := ""
	if s[0] == '-' || s[0] == '+' {
		sign, s = s[:1], s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.Grow(len(sign) + len(s) + len(s)/3)
	b.WriteString(sign)
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// TruncateDigits shortens s to its first and last edge characters when it
// is longer than limit.
func TruncateDigits(s string, limit, edge int) string {
	if len(s) <= limit || 2*edge >= len(s) {
		return s
	}
	return s[:edge] + "..." + s[len(s)-edge:]
}
