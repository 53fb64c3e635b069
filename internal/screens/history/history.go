package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/homeworkhelper/internal/router"
	"github.com/abhisek/homeworkhelper/internal/screen"
	"github.com/abhisek/homeworkhelper/internal/store"
	"github.com/abhisek/homeworkhelper/internal/ui/layout"
	"github.com/abhisek/homeworkhelper/internal/ui/theme"
)

// listLimit caps how many past conversations are shown.
const listLimit = 50

type historyLoadedMsg struct {
	Conversations []store.ConversationSummary
	Err           error
}

type transcriptLoadedMsg struct {
	ConversationID string
	Messages       []store.ChatMessageRecord
	Err            error
}

// HistoryScreen displays past conversations from the transcript log.
type HistoryScreen struct {
	eventRepo     store.EventRepo
	conversations []store.ConversationSummary
	transcripts   map[string][]store.ChatMessageRecord
	selected      int
	expanded      map[int]bool
	loaded        bool
	errMsg        string
	now           func() time.Time
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo:   eventRepo,
		transcripts: make(map[string][]store.ChatMessageRecord),
		expanded:    make(map[int]bool),
		now:         time.Now,
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		convs, err := repo.ConversationSummaries(context.Background(), store.QueryOpts{Limit: listLimit})
		return historyLoadedMsg{Conversations: convs, Err: err}
	}
}

func loadTranscript(repo store.EventRepo, id string) tea.Cmd {
	return func() tea.Msg {
		msgs, err := repo.Conversation(context.Background(), id)
		return transcriptLoadedMsg{ConversationID: id, Messages: msgs, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Transcript"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.conversations = msg.Conversations
		}
		s.loaded = true
		return s, nil

	case transcriptLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.transcripts[msg.ConversationID] = msg.Messages
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.conversations)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected >= len(s.conversations) {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			id := s.conversations[s.selected].ConversationID
			if _, ok := s.transcripts[id]; s.expanded[s.selected] && !ok {
				return s, loadTranscript(s.eventRepo, id)
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.conversations) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No conversations yet. Ask your first question!")
	}

	var b strings.Builder
	b.WriteString("\n")

	lineWidth := width - 8
	for i, c := range s.conversations {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		questions := fmt.Sprintf("%d question", c.Questions)
		if c.Questions != 1 {
			questions += "s"
		}
		line := fmt.Sprintf("%s%-14s  Grade %d  %s  %s",
			prefix,
			humanize.RelTime(c.LastActivity, s.now(), "ago", "from now"),
			c.Grade,
			questions,
			truncate(c.FirstQuestion, 40))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(truncate(line, lineWidth))))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderTranscript(c.ConversationID, width, lineWidth))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderTranscript(id string, width, lineWidth int) string {
	msgs, ok := s.transcripts[id]
	if !ok {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render("    Loading transcript...")) + "\n"
	}

	var b strings.Builder
	for _, m := range msgs {
		who := "You"
		color := theme.Accent
		if m.Role == "bot" {
			who = "Tutor"
			color = theme.Secondary
		}
		line := fmt.Sprintf("    %s %s: %s", m.Timestamp.Local().Format("15:04"), who, m.Content)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(color).Render(truncate(line, lineWidth))))
		b.WriteString("\n")
	}
	return b.String()
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
