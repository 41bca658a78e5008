package ui

import "github.com/charmbracelet/lipgloss"

// Badge colors for each verdict, adaptive to the terminal background.
var (
	primeColor     = lipgloss.AdaptiveColor{Light: "#1B5E20", Dark: "#9ECE6A"}
	compositeColor = lipgloss.AdaptiveColor{Light: "#B71C1C", Dark: "#FF4444"}
	failedColor    = lipgloss.AdaptiveColor{Light: "#E65100", Dark: "#FFB347"}
)

// Verdict is the outcome displayed for a tested number.
type Verdict int

const (
	VerdictPrime Verdict = iota
	VerdictComposite
	VerdictFailed
)

func (v Verdict) String() string {
	switch v {
	case VerdictPrime:
		return "PRIME"
	case VerdictComposite:
		return "NOT PRIME"
	default:
		return "FAILED"
	}
}

// VerdictFor maps a primality flag to its verdict.
func VerdictFor(prime bool) Verdict {
	if prime {
		return VerdictPrime
	}
	return VerdictComposite
}

// BadgeStyle returns the lipgloss style for v. Under NoColorTheme it is
// the empty style, so the badge renders as plain text.
func BadgeStyle(v Verdict) lipgloss.Style {
	if GetCurrentTheme().Name == NoColorTheme.Name {
		return lipgloss.NewStyle()
	}
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch v {
	case VerdictPrime:
		return style.Foreground(primeColor)
	case VerdictComposite:
		return style.Foreground(compositeColor)
	default:
		return style.Foreground(failedColor)
	}
}

// Badge renders v with its style.
func Badge(v Verdict) string {
	return BadgeStyle(v).Render(v.String())
}
