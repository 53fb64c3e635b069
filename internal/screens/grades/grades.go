// Package grades is the grade picker shown before a chat.
package grades

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/homeworkhelper/internal/grades"
	"github.com/abhisek/homeworkhelper/internal/router"
	"github.com/abhisek/homeworkhelper/internal/screen"
	chatscreen "github.com/abhisek/homeworkhelper/internal/screens/chat"
	sess "github.com/abhisek/homeworkhelper/internal/session"
	"github.com/abhisek/homeworkhelper/internal/ui/layout"
	"github.com/abhisek/homeworkhelper/internal/ui/theme"
)

const columns = 3

// GradesScreen lets the learner pick a grade from a 3x3 grid.
type GradesScreen struct {
	session  *sess.Session
	grades   []grades.Grade
	selected int
	errMsg   string
}

var _ screen.Screen = (*GradesScreen)(nil)
var _ screen.KeyHintProvider = (*GradesScreen)(nil)

// New creates a GradesScreen.
func New(session *sess.Session) *GradesScreen {
	return &GradesScreen{session: session, grades: grades.All()}
}

func (g *GradesScreen) Init() tea.Cmd { return nil }

func (g *GradesScreen) Title() string { return "Choose Your Grade" }

func (g *GradesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "1-9", Description: "Pick grade"},
		{Key: "←↑↓→", Description: "Move"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

// Selected returns the grade under the cursor.
func (g *GradesScreen) Selected() grades.Grade {
	return g.grades[g.selected]
}

func (g *GradesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return g, nil
	}

	key := kmsg.String()
	switch key {
	case "left", "h":
		if g.selected%columns > 0 {
			g.selected--
		}
	case "right", "l":
		if g.selected%columns < columns-1 && g.selected < len(g.grades)-1 {
			g.selected++
		}
	case "up", "k":
		if g.selected >= columns {
			g.selected -= columns
		}
	case "down", "j":
		if g.selected+columns < len(g.grades) {
			g.selected += columns
		}
	case "enter":
		return g.start()
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			n := int(key[0] - '0')
			for i, gr := range g.grades {
				if gr.Number == n {
					g.selected = i
					return g.start()
				}
			}
		}
	}
	return g, nil
}

func (g *GradesScreen) start() (screen.Screen, tea.Cmd) {
	conv, err := g.session.StartConversation(g.Selected().Number)
	if err != nil {
		g.errMsg = err.Error()
		return g, nil
	}
	g.errMsg = ""
	next := chatscreen.New(g.session, conv)
	return g, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (g *GradesScreen) View(width, height int) string {
	cardWidth := (width - 12) / columns
	if cardWidth > 30 {
		cardWidth = 30
	}

	var rows []string
	for start := 0; start < len(g.grades); start += columns {
		var cards []string
		for i := start; i < start+columns && i < len(g.grades); i++ {
			cards = append(cards, renderCard(g.grades[i], i == g.selected, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	heading := theme.Title.Render("Choose Your Grade")
	sub := theme.Subtitle.Render("Select your grade to get personalized homework help")

	parts := []string{heading, sub, "", strings.Join(rows, "\n")}
	if g.errMsg != "" {
		parts = append(parts, "", theme.ErrorText.Render(g.errMsg))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(parts, "\n"))
}

func renderCard(gr grades.Grade, selected bool, width int) string {
	border := theme.Border
	numStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if selected {
		border = theme.Primary
		numStyle = numStyle.Foreground(theme.Chalk)
	}
	body := numStyle.Render(fmt.Sprintf("Grade %d", gr.Number)) + "\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(gr.Description)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Height(5).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(body)
}
