package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/homeworkhelper/internal/plans"
	"github.com/abhisek/homeworkhelper/internal/router"
	"github.com/abhisek/homeworkhelper/internal/screen"
	"github.com/abhisek/homeworkhelper/internal/screens/auth"
	"github.com/abhisek/homeworkhelper/internal/screens/grades"
	"github.com/abhisek/homeworkhelper/internal/screens/history"
	"github.com/abhisek/homeworkhelper/internal/screens/pricing"
	sess "github.com/abhisek/homeworkhelper/internal/session"
	"github.com/abhisek/homeworkhelper/internal/ui/components"
	"github.com/abhisek/homeworkhelper/internal/ui/layout"
	"github.com/abhisek/homeworkhelper/internal/ui/theme"
)

const (
	itemStart = iota
	itemPricing
	itemAccount
	itemHistory
	itemExit
)

// features are the landing page highlights.
var features = []string{
	"📷 Snap a photo of any homework question",
	"🎤 Ask out loud and hear the answer read back",
	"📎 Upload worksheets and documents",
	"📚 Aligned with Kenya's CBC curriculum, grades 1-9",
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// HomeScreen is the landing screen.
type HomeScreen struct {
	session *sess.Session
	menu    components.Menu
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(session *sess.Session) *HomeScreen {
	h := &HomeScreen{session: session}

	items := []components.MenuItem{
		itemStart:   {Label: "START CHAT", Action: h.startChat},
		itemPricing: {Label: "PRICING", Action: push(func() screen.Screen { return pricing.New(session) })},
		itemAccount: {Label: "SIGN IN", Action: h.toggleAccount},
		itemHistory: {Label: "HISTORY", Action: push(func() screen.Screen { return history.New(session.Events()) })},
		itemExit:    {Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	if session.Events() == nil {
		items[itemHistory].Disabled = true
	}
	h.menu = components.NewMenu(items)
	return h
}

func push(factory func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		s := factory()
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}
}

// startChat goes to the grade picker, through sign-in when needed.
func (h *HomeScreen) startChat() tea.Cmd {
	h.errMsg = ""
	session := h.session
	if session.SignedIn() {
		return push(func() screen.Screen { return grades.New(session) })()
	}
	return push(func() screen.Screen {
		return auth.New(session, func() screen.Screen { return grades.New(session) })
	})()
}

func (h *HomeScreen) toggleAccount() tea.Cmd {
	h.errMsg = ""
	if !h.session.SignedIn() {
		return push(func() screen.Screen { return auth.New(h.session, nil) })()
	}
	if err := h.session.SignOut(context.Background()); err != nil {
		h.errMsg = err.Error()
	}
	return nil
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// labels returns the menu labels for the current sign-in state.
func (h *HomeScreen) labels() []string {
	out := make([]string, len(h.menu.Items))
	for i, item := range h.menu.Items {
		out[i] = item.Label
	}
	if h.session.SignedIn() {
		out[itemAccount] = "SIGN OUT"
	}
	return out
}

func (h *HomeScreen) mascot() MascotVariant {
	u := h.session.User()
	switch {
	case u == nil:
		return MascotIdle
	case u.Plan.Metered() && (u.Credits == nil || *u.Credits == 0):
		return MascotAlert
	default:
		return MascotHappy
	}
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompact(width, layout.TerminalHeight(height))

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw))
	if !compact {
		sections = append(sections,
			lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(RenderMascot(h.mascot())),
			renderFeatures(cw))
	}
	sections = append(sections, h.renderStatus(cw))
	sections = append(sections, h.renderMenu(cw, compact))
	if h.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render(h.errMsg))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func renderTitle(cw int) string {
	title := lipgloss.NewStyle().Foreground(theme.Chalk).Bold(true).Render("H O M E W O R K   H E L P E R")
	sub := theme.Subtitle.Render("Homework help that speaks your child's language")
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(title + "\n" + sub)
}

func renderFeatures(cw int) string {
	lines := make([]string, len(features))
	for i, f := range features {
		lines[i] = theme.Body.Render(f)
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Left).
		PaddingLeft(4).
		Render(strings.Join(lines, "\n"))
}

// renderStatus shows who is signed in, their plan and credits.
func (h *HomeScreen) renderStatus(cw int) string {
	u := h.session.User()
	if u == nil {
		return components.Card(theme.Hint.Render("Sign in to start asking questions"), cw)
	}
	line := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(u.Name) +
		theme.Hint.Render("  ·  ") +
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(u.PlanName())
	if u.Plan.Metered() {
		credits := 0
		if u.Credits != nil {
			credits = *u.Credits
		}
		line += "\n" + components.NewCreditBar(credits, plans.StarterCredits, cw-8).View()
	}
	return components.Card(line, cw)
}

func (h *HomeScreen) renderMenu(cw int, compact bool) string {
	var lines []string
	for i, label := range h.labels() {
		item := h.menu.Items[i]
		switch {
		case item.Disabled:
			lines = append(lines, lipgloss.NewStyle().
				Width(buttonWidth).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Render(label))
		case compact && i == h.menu.Selected:
			lines = append(lines, theme.Selected.Render("▸ "+label))
		case compact:
			lines = append(lines, theme.Unselected.Render("  "+label))
		default:
			lines = append(lines, components.OptionButton(label, i == h.menu.Selected, buttonWidth))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

func (h *HomeScreen) Title() string {
	return "Home"
}
