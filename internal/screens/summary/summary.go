package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/homeworkhelper/internal/chat"
	"github.com/abhisek/homeworkhelper/internal/router"
	"github.com/abhisek/homeworkhelper/internal/screen"
	"github.com/abhisek/homeworkhelper/internal/tutor"
	"github.com/abhisek/homeworkhelper/internal/ui/layout"
	"github.com/abhisek/homeworkhelper/internal/ui/theme"
)

// modalityLabels name each way of asking, in display order.
var modalityLabels = []struct {
	modality tutor.Modality
	label    string
}{
	{tutor.ModalityText, "✎ typed"},
	{tutor.ModalityVoice, "🎤 spoken"},
	{tutor.ModalityImage, "📷 photo"},
	{tutor.ModalityFile, "📎 file"},
}

// SummaryScreen recaps a chat when the learner leaves it.
type SummaryScreen struct {
	summary chat.Summary
	credits *int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.BackInterceptor = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. credits is the remaining pay-per-use
// balance, or nil on unmetered plans.
func New(summary chat.Summary, credits *int) *SummaryScreen {
	return &SummaryScreen{summary: summary, credits: credits}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Chat Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) InterceptBack() bool { return true }

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(style lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(text))
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Great studying!"))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Grade %d  ·  %d:%02d", sum.Grade, mins, secs)))
	b.WriteString("\n\n")

	questions := fmt.Sprintf("%d question", sum.Questions)
	if sum.Questions != 1 {
		questions += "s"
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), "You asked "+questions))
	b.WriteString("\n")

	var ways []string
	for _, ml := range modalityLabels {
		if n := sum.Modalities[ml.modality]; n > 0 {
			ways = append(ways, fmt.Sprintf("%s %d", ml.label, n))
		}
	}
	if len(ways) > 0 {
		b.WriteString(center(theme.Hint, strings.Join(ways, "   ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(sum.Subjects) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 40)))
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Subjects"))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		for _, sc := range sum.Subjects {
			line := fmt.Sprintf("%-16s %d", tutor.SubjectDisplayName(sc.Subject), sc.Count)
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Secondary), line))
			b.WriteString("\n")
		}
	}

	if s.credits != nil {
		b.WriteString("\n")
		style := lipgloss.NewStyle().Foreground(theme.Accent)
		if *s.credits == 0 {
			style = theme.ErrorText
		}
		b.WriteString(center(style, fmt.Sprintf("%d credits left", *s.credits)))
		b.WriteString("\n")
	}

	return b.String()
}
