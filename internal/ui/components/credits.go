package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/homeworkhelper/internal/ui/theme"
)

// CreditBar displays remaining pay-per-use credits as a horizontal bar.
type CreditBar struct {
	Remaining int
	Total     int
	Width     int
}

// NewCreditBar creates a credit bar.
func NewCreditBar(remaining, total, width int) CreditBar {
	return CreditBar{Remaining: remaining, Total: total, Width: width}
}

// Fraction returns the filled share of the bar, clamped to [0, 1].
func (c CreditBar) Fraction() float64 {
	if c.Total <= 0 {
		return 0
	}
	f := float64(c.Remaining) / float64(c.Total)
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}

// View renders the bar with a "credits" label and count.
func (c CreditBar) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Text).Render("Credits") + "  "
	count := fmt.Sprintf("  %d left", c.Remaining)

	barWidth := c.Width - lipgloss.Width(label) - len(count)
	if barWidth < 4 {
		barWidth = 4
	}
	filled := int(float64(barWidth) * c.Fraction())
	empty := barWidth - filled

	fill := theme.Secondary
	if c.Remaining == 0 {
		fill = theme.Error
	}
	bar := lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))

	return label + bar + lipgloss.NewStyle().Foreground(theme.TextDim).Render(count)
}
