// Package chat is the tutoring conversation screen.
package chat

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	convo "github.com/abhisek/homeworkhelper/internal/chat"
	"github.com/abhisek/homeworkhelper/internal/profile"
	"github.com/abhisek/homeworkhelper/internal/router"
	"github.com/abhisek/homeworkhelper/internal/screen"
	"github.com/abhisek/homeworkhelper/internal/screens/summary"
	sess "github.com/abhisek/homeworkhelper/internal/session"
	"github.com/abhisek/homeworkhelper/internal/speech"
	"github.com/abhisek/homeworkhelper/internal/tutor"
	"github.com/abhisek/homeworkhelper/internal/ui/components"
	"github.com/abhisek/homeworkhelper/internal/ui/layout"
)

type mode int

const (
	modeType mode = iota
	modeRecording
	modeAttach
)

// ChatScreen shows the transcript of one conversation and takes typed,
// recorded or attached questions.
type ChatScreen struct {
	session *sess.Session
	conv    *convo.Conversation

	input       components.TextInput
	attachInput components.TextInput
	mode        mode
	recordSecs  int

	// pendingID is the bot message held back while the typing indicator
	// runs. Input is blocked until it is shown.
	pendingID string
	typing    bool

	errMsg string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.BackInterceptor = (*ChatScreen)(nil)

// New creates a ChatScreen for conv.
func New(session *sess.Session, conv *convo.Conversation) *ChatScreen {
	return &ChatScreen{
		session:     session,
		conv:        conv,
		input:       components.NewTextInput("Your question", "Type your homework question...", false, 500),
		attachInput: components.NewTextInput("Attach a photo or file", "/path/to/homework.jpg", false, 0),
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Focus()
}

func (s *ChatScreen) Title() string {
	return "Chat"
}

func (s *ChatScreen) InterceptBack() bool { return true }

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeRecording:
		return []layout.KeyHint{
			{Key: "Ctrl+R", Description: "Stop & send"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeAttach:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Attach"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+R", Description: "Voice"},
		{Key: "Ctrl+O", Description: "Attach"},
		{Key: "Ctrl+P", Description: "Read aloud"},
		{Key: "Esc", Description: "Back"},
	}
}

// leave stops playback and closes the chat, through the recap when any
// question was asked.
func (s *ChatScreen) leave() tea.Cmd {
	s.session.Speaker().Stop()
	sum := s.conv.Summary()
	if sum.Questions == 0 {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	var credits *int
	if u := s.session.User(); u != nil && u.Plan.Metered() && u.Credits != nil {
		n := *u.Credits
		credits = &n
	}
	next := summary.New(sum, credits)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// Busy reports whether a reply is still being "typed".
func (s *ChatScreen) Busy() bool {
	return s.pendingID != ""
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case typingStartedMsg:
		if msg.ID != s.pendingID {
			return s, nil
		}
		s.typing = true
		id := msg.ID
		return s, tea.Tick(s.session.Pacing().Typing, func(time.Time) tea.Msg {
			return replyReadyMsg{ID: id}
		})

	case replyReadyMsg:
		if msg.ID == s.pendingID {
			s.pendingID = ""
			s.typing = false
		}
		return s, nil

	case recordTickMsg:
		if s.mode != modeRecording {
			return s, nil
		}
		s.recordSecs++
		return s, recordTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	if s.mode == modeAttach {
		s.attachInput, cmd = s.attachInput.Update(msg)
	} else {
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

func (s *ChatScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.mode {
	case modeRecording:
		switch key {
		case "ctrl+r":
			s.mode = modeType
			return s.submit(convo.VoiceInput())
		case "esc":
			s.mode = modeType
		}
		return s, nil

	case modeAttach:
		switch key {
		case "esc":
			s.closeAttach()
			return s, s.input.Focus()
		case "enter":
			return s.attach()
		}
		var cmd tea.Cmd
		s.attachInput, cmd = s.attachInput.Update(msg)
		return s, cmd
	}

	switch key {
	case "esc":
		return s, s.leave()
	case "ctrl+p":
		return s.readAloud()
	}

	if s.Busy() {
		// Keep typing allowed, but nothing new can be sent until the
		// reply is shown.
		if key == "enter" || key == "ctrl+r" || key == "ctrl+o" {
			return s, nil
		}
	}

	switch key {
	case "enter":
		text := s.input.Value()
		if strings.TrimSpace(text) == "" {
			return s, nil
		}
		return s.submit(convo.TextInput(text))
	case "ctrl+r":
		s.errMsg = ""
		s.mode = modeRecording
		s.recordSecs = 0
		return s, recordTick()
	case "ctrl+o":
		s.errMsg = ""
		s.mode = modeAttach
		s.input.Blur()
		s.attachInput.Reset()
		return s, s.attachInput.Focus()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit sends in to the conversation and starts the typing indicator.
func (s *ChatScreen) submit(in convo.Input) (screen.Screen, tea.Cmd) {
	_, bot, err := s.conv.Submit(context.Background(), in)
	if err != nil {
		s.errMsg = submitError(err)
		return s, nil
	}
	s.errMsg = ""
	if in.Modality == tutor.ModalityText {
		s.input.Reset()
	}
	s.pendingID = bot.ID
	s.typing = false
	id := bot.ID
	return s, tea.Tick(s.session.Pacing().BeforeTyping, func(time.Time) tea.Msg {
		return typingStartedMsg{ID: id}
	})
}

func (s *ChatScreen) attach() (screen.Screen, tea.Cmd) {
	path := strings.TrimSpace(s.attachInput.Value())
	if path == "" {
		return s, nil
	}
	a, err := convo.AttachmentFromPath(path)
	if err != nil {
		s.attachInput.Err = submitError(err)
		return s, nil
	}
	s.closeAttach()
	scr, cmd := s.submit(convo.AttachmentInput(a))
	return scr, tea.Batch(cmd, s.input.Focus())
}

func (s *ChatScreen) closeAttach() {
	s.mode = modeType
	s.attachInput.Blur()
	s.attachInput.Reset()
}

func (s *ChatScreen) readAloud() (screen.Screen, tea.Cmd) {
	reply, ok := s.conv.LastReply()
	if !ok || reply.ID == s.pendingID {
		return s, nil
	}
	if _, err := speech.Toggle(context.Background(), s.session.Speaker(), reply.Content); err != nil {
		s.errMsg = submitError(err)
		return s, nil
	}
	s.errMsg = ""
	return s, nil
}

// submitError turns a submission failure into a message for the learner.
func submitError(err error) string {
	var ae *convo.AttachmentError
	switch {
	case errors.Is(err, profile.ErrNoCredits):
		return "You're out of credits. Pick a plan from Pricing to keep asking."
	case errors.Is(err, speech.ErrUnavailable):
		return "Read aloud needs espeak-ng, espeak or say installed."
	case errors.As(err, &ae):
		return ae.Reason
	case errors.Is(err, fs.ErrNotExist):
		return "No file at that path."
	case errors.Is(err, convo.ErrEmptyMessage):
		return "Type a question first."
	default:
		return err.Error()
	}
}

func recordTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return recordTickMsg(t)
	})
}
