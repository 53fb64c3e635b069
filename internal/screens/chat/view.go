package chat

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	convo "github.com/abhisek/homeworkhelper/internal/chat"
	"github.com/abhisek/homeworkhelper/internal/plans"
	"github.com/abhisek/homeworkhelper/internal/tutor"
	"github.com/abhisek/homeworkhelper/internal/ui/components"
	"github.com/abhisek/homeworkhelper/internal/ui/theme"
)

func (s *ChatScreen) View(width, height int) string {
	info := s.renderInfoLine(width)
	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
	bottom := s.renderInputArea(width)

	transcriptHeight := height - lipgloss.Height(info) - lipgloss.Height(bottom) - 3
	transcript := s.renderTranscript(width, transcriptHeight)

	return strings.Join([]string{info, rule, transcript, rule, bottom}, "\n")
}

// renderInfoLine shows the grade on the left and the learner's plan or
// credits on the right.
func (s *ChatScreen) renderInfoLine(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Grade %d Homework Helper", s.conv.Grade()))

	var right string
	if u := s.session.User(); u != nil {
		if u.Plan.Metered() && u.Credits != nil {
			right = components.NewCreditBar(*u.Credits, plans.StarterCredits, 30).View()
		} else {
			right = lipgloss.NewStyle().Foreground(theme.TextDim).Render(u.PlanName())
		}
	}
	if s.session.Speaker().Speaking() {
		right = lipgloss.NewStyle().Foreground(theme.Accent).Render("♪ reading aloud") + "   " + right
	}

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad < 1 {
		return left
	}
	return left + strings.Repeat(" ", pad) + right
}

// renderTranscript renders every shown message and keeps the newest lines
// that fit, so the view follows the conversation.
func (s *ChatScreen) renderTranscript(width, height int) string {
	if height < 1 {
		return ""
	}
	bubbleWidth := width * 7 / 10

	var blocks []string
	for _, m := range s.conv.Messages() {
		if m.ID == s.pendingID {
			continue
		}
		blocks = append(blocks, renderMessage(m, width, bubbleWidth))
	}
	if s.typing {
		blocks = append(blocks, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("  Tutor is typing ● ● ●"))
	}

	lines := strings.Split(strings.Join(blocks, "\n\n"), "\n")
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func renderMessage(m convo.Message, width, bubbleWidth int) string {
	stamp := m.Timestamp.Local().Format("15:04")

	if m.Role == convo.RoleUser {
		body := m.Content
		if m.Attachment != nil {
			body += "\n" + modalityIcon(m.Modality) + " " + m.Attachment.Name + " (" + convo.FormatSize(m.Attachment.Size) + ")"
		}
		label := theme.Hint.Render(modalityIcon(m.Modality) + " You · " + stamp)
		bubble := theme.UserBubble.Width(bubbleWidth).Render(body)
		return lipgloss.PlaceHorizontal(width-2, lipgloss.Right, label+"\n"+bubble)
	}

	who := "Tutor"
	if m.Subject != "" && m.Subject != tutor.SubjectGeneral {
		who += " · " + tutor.SubjectDisplayName(m.Subject)
	}
	label := theme.Hint.Render("  " + who + " · " + stamp)
	bubble := theme.BotBubble.Width(bubbleWidth).Render(m.Content)
	return label + "\n" + lipgloss.NewStyle().PaddingLeft(2).Render(bubble)
}

func modalityIcon(m tutor.Modality) string {
	switch m {
	case tutor.ModalityVoice:
		return "🎤"
	case tutor.ModalityImage:
		return "📷"
	case tutor.ModalityFile:
		return "📎"
	default:
		return "✎"
	}
}

func (s *ChatScreen) renderInputArea(width int) string {
	var b strings.Builder

	switch s.mode {
	case modeRecording:
		b.WriteString(theme.Recording.Render(fmt.Sprintf("  ● Recording %d:%02d", s.recordSecs/60, s.recordSecs%60)))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("  Ask your question out loud, then press Ctrl+R to send."))
	case modeAttach:
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(s.attachInput.View()))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  Images, PDF, Word or text files up to %s.", convo.FormatSize(convo.MaxAttachmentSize))))
	default:
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(s.input.View()))
		if s.Busy() {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("  Waiting for the tutor..."))
		}
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Foreground(theme.Error).
			Render("  " + s.errMsg))
	}
	return b.String()
}
