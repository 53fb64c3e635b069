// Package auth is the sign-in and sign-up form.
package auth

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/homeworkhelper/internal/profile"
	"github.com/abhisek/homeworkhelper/internal/router"
	"github.com/abhisek/homeworkhelper/internal/screen"
	sess "github.com/abhisek/homeworkhelper/internal/session"
	"github.com/abhisek/homeworkhelper/internal/ui/components"
	"github.com/abhisek/homeworkhelper/internal/ui/layout"
	"github.com/abhisek/homeworkhelper/internal/ui/theme"
)

const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldConfirm
	fieldCount
)

// fieldKeys maps profile.FormError fields to inputs.
var fieldKeys = map[string]int{
	"name":     fieldName,
	"email":    fieldEmail,
	"password": fieldPassword,
	"confirm":  fieldConfirm,
}

// AuthScreen collects a learner's details and signs them in.
type AuthScreen struct {
	session *sess.Session
	next    func() screen.Screen

	fields [fieldCount]components.TextInput
	focus  int
	signUp bool
	errMsg string
}

var _ screen.Screen = (*AuthScreen)(nil)
var _ screen.KeyHintProvider = (*AuthScreen)(nil)

// New creates an AuthScreen. On success it is replaced by next, or popped
// when next is nil.
func New(session *sess.Session, next func() screen.Screen) *AuthScreen {
	a := &AuthScreen{session: session, next: next}
	a.fields[fieldName] = components.NewTextInput("Name", "Amina Otieno", false, 60)
	a.fields[fieldEmail] = components.NewTextInput("Email", "parent@example.com", false, 120)
	a.fields[fieldPassword] = components.NewTextInput("Password", "at least 6 characters", true, 64)
	a.fields[fieldConfirm] = components.NewTextInput("Confirm password", "type it again", true, 64)
	a.focus = fieldEmail
	return a
}

func (a *AuthScreen) Init() tea.Cmd {
	return a.fields[a.focus].Focus()
}

func (a *AuthScreen) Title() string {
	if a.signUp {
		return "Create Account"
	}
	return "Sign In"
}

func (a *AuthScreen) KeyHints() []layout.KeyHint {
	toggle := "Create account"
	if a.signUp {
		toggle = "I have an account"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Continue"},
		{Key: "Ctrl+T", Description: toggle},
		{Key: "Esc", Description: "Back"},
	}
}

// visible returns the inputs shown in the current mode, in order.
func (a *AuthScreen) visible() []int {
	if a.signUp {
		return []int{fieldName, fieldEmail, fieldPassword, fieldConfirm}
	}
	return []int{fieldEmail, fieldPassword}
}

func (a *AuthScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "ctrl+t":
			a.signUp = !a.signUp
			a.errMsg = ""
			return a, a.setFocus(a.visible()[0])
		case "tab", "down":
			return a, a.move(1)
		case "shift+tab", "up":
			return a, a.move(-1)
		case "enter":
			vis := a.visible()
			if a.focus != vis[len(vis)-1] {
				return a, a.move(1)
			}
			return a.submit()
		}
	}

	var cmd tea.Cmd
	a.fields[a.focus], cmd = a.fields[a.focus].Update(msg)
	return a, cmd
}

func (a *AuthScreen) move(delta int) tea.Cmd {
	vis := a.visible()
	pos := 0
	for i, f := range vis {
		if f == a.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(vis)) % len(vis)
	return a.setFocus(vis[pos])
}

func (a *AuthScreen) setFocus(field int) tea.Cmd {
	for i := range a.fields {
		a.fields[i].Blur()
	}
	a.focus = field
	return a.fields[field].Focus()
}

// Form returns the form as currently filled in.
func (a *AuthScreen) Form() profile.Form {
	f := profile.Form{
		Email:    a.fields[fieldEmail].Value(),
		Password: a.fields[fieldPassword].Value(),
		SignUp:   a.signUp,
	}
	if a.signUp {
		f.Name = a.fields[fieldName].Value()
		f.ConfirmPassword = a.fields[fieldConfirm].Value()
	}
	return f
}

func (a *AuthScreen) submit() (screen.Screen, tea.Cmd) {
	for i := range a.fields {
		a.fields[i].Err = ""
	}
	a.errMsg = ""

	_, err := a.session.SignIn(context.Background(), a.Form())
	if err != nil {
		var fe *profile.FormError
		if errors.As(err, &fe) {
			if idx, ok := fieldKeys[fe.Field]; ok {
				a.fields[idx].Err = fe.Message
				return a, a.setFocus(idx)
			}
		}
		a.errMsg = err.Error()
		return a, nil
	}

	if a.next == nil {
		return a, func() tea.Msg { return router.PopScreenMsg{} }
	}
	next := a.next()
	return a, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (a *AuthScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 50 {
		cw = 50
	}

	heading := "Welcome back!"
	sub := "Sign in to continue your learning journey"
	if a.signUp {
		heading = "Join Homework Helper"
		sub = "Create an account to get started"
	}

	var parts []string
	parts = append(parts,
		theme.Title.Render(heading),
		theme.Subtitle.Render(sub),
		"")
	for _, f := range a.visible() {
		parts = append(parts, a.fields[f].View(), "")
	}

	label := "Sign In"
	if a.signUp {
		label = "Create Account"
	}
	parts = append(parts, components.NewButton(label, a.focus == a.visible()[len(a.visible())-1], nil).View())
	if a.errMsg != "" {
		parts = append(parts, "", theme.ErrorText.Render(a.errMsg))
	}

	card := components.Card(strings.Join(parts, "\n"), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
