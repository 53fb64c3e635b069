// Package pricing shows the plans and lets a signed-in learner switch.
package pricing

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/homeworkhelper/internal/plans"
	"github.com/abhisek/homeworkhelper/internal/screen"
	sess "github.com/abhisek/homeworkhelper/internal/session"
	"github.com/abhisek/homeworkhelper/internal/ui/layout"
	"github.com/abhisek/homeworkhelper/internal/ui/theme"
)

// PricingScreen lists the plans side by side.
type PricingScreen struct {
	session  *sess.Session
	plans    []plans.Plan
	selected int
	notice   string
	errMsg   string
}

var _ screen.Screen = (*PricingScreen)(nil)
var _ screen.KeyHintProvider = (*PricingScreen)(nil)

// New creates a PricingScreen with the popular plan highlighted.
func New(session *sess.Session) *PricingScreen {
	p := &PricingScreen{session: session, plans: plans.All()}
	def := plans.Default()
	for i, pl := range p.plans {
		if pl.Tier == def.Tier {
			p.selected = i
		}
	}
	return p
}

func (p *PricingScreen) Init() tea.Cmd { return nil }

func (p *PricingScreen) Title() string { return "Choose Your Plan" }

func (p *PricingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Browse"},
		{Key: "Enter", Description: "Choose plan"},
		{Key: "Esc", Description: "Back"},
	}
}

// Selected returns the highlighted plan.
func (p *PricingScreen) Selected() plans.Plan {
	return p.plans[p.selected]
}

func (p *PricingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch kmsg.String() {
	case "left", "h":
		if p.selected > 0 {
			p.selected--
		}
	case "right", "l":
		if p.selected < len(p.plans)-1 {
			p.selected++
		}
	case "enter":
		p.choose()
	}
	return p, nil
}

func (p *PricingScreen) choose() {
	p.notice, p.errMsg = "", ""
	plan := p.Selected()
	if !p.session.SignedIn() {
		p.errMsg = "Sign in from the home screen to choose a plan."
		return
	}
	if err := p.session.SelectPlan(context.Background(), plan.Tier); err != nil {
		p.errMsg = err.Error()
		return
	}
	p.notice = fmt.Sprintf("You're on the %s now.", plan.Name)
	if plan.Tier.Metered() {
		p.notice += fmt.Sprintf(" %d starter credits are ready to use.", *p.session.User().Credits)
	}
}

func (p *PricingScreen) View(width, height int) string {
	cardWidth := (width - 10) / len(p.plans)
	if cardWidth > 34 {
		cardWidth = 34
	}

	var current plans.Tier
	if u := p.session.User(); u != nil {
		current = u.Plan
	}

	cards := make([]string, len(p.plans))
	for i, pl := range p.plans {
		cards[i] = renderCard(pl, i == p.selected, pl.Tier == current, cardWidth)
	}

	parts := []string{
		theme.Title.Render("Choose Your Plan"),
		theme.Subtitle.Render("Affordable homework help for every family"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
	}
	if p.notice != "" {
		parts = append(parts, "", lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(p.notice))
	}
	if p.errMsg != "" {
		parts = append(parts, "", theme.ErrorText.Render(p.errMsg))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(parts, "\n"))
}

func renderCard(pl plans.Plan, selected, current bool, width int) string {
	var b strings.Builder
	if pl.Popular {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("★ Most Popular"))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(pl.Name))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Chalk).Bold(true).Render(pl.Price))
	b.WriteString(" " + theme.Hint.Render(pl.Period))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(pl.Description))
	b.WriteString("\n\n")
	for _, f := range pl.Features {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render("✓ "))
		b.WriteString(theme.Body.Render(f))
		b.WriteString("\n")
	}
	if current {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Current plan"))
	}

	style := theme.Card
	if pl.Popular {
		style = theme.PopularCard
	}
	if selected {
		style = style.BorderForeground(theme.Chalk)
	}
	return style.Width(width).Render(b.String())
}
