package grades

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/homeworkhelper/internal/profile"
	"github.com/abhisek/homeworkhelper/internal/router"
	sess "github.com/abhisek/homeworkhelper/internal/session"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func signedInSession(t *testing.T) *sess.Session {
	t.Helper()
	s := sess.New(sess.Options{})
	if _, err := s.SignIn(context.Background(), profile.Form{Email: "amina@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	return s
}

func TestGridNavigation(t *testing.T) {
	g := New(signedInSession(t))

	steps := []struct {
		key  tea.KeyPressMsg
		want int
	}{
		{specialKey(tea.KeyRight), 2},
		{specialKey(tea.KeyRight), 3},
		{specialKey(tea.KeyRight), 3}, // end of row
		{specialKey(tea.KeyDown), 6},
		{specialKey(tea.KeyDown), 9},
		{specialKey(tea.KeyDown), 9}, // bottom row
		{specialKey(tea.KeyLeft), 8},
		{specialKey(tea.KeyUp), 5},
	}
	for i, step := range steps {
		g.Update(step.key)
		if got := g.Selected().Number; got != step.want {
			t.Fatalf("step %d: grade %d, want %d", i, got, step.want)
		}
	}
}

func TestEnterStartsChat(t *testing.T) {
	g := New(signedInSession(t))
	g.Update(specialKey(tea.KeyDown))

	_, cmd := g.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected navigation command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if msg.Screen.Title() != "Chat" {
		t.Errorf("pushed %q", msg.Screen.Title())
	}
	if !strings.Contains(msg.Screen.View(100, 30), "Grade 4") {
		t.Error("chat should open at grade 4")
	}
}

func TestDigitPicksGrade(t *testing.T) {
	g := New(signedInSession(t))

	_, cmd := g.Update(keyPress('7'))
	if cmd == nil {
		t.Fatal("digit should start the chat")
	}
	if g.Selected().Number != 7 {
		t.Errorf("selected grade %d, want 7", g.Selected().Number)
	}
}

func TestSignedOutShowsError(t *testing.T) {
	g := New(sess.New(sess.Options{}))

	_, cmd := g.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("signed-out learners cannot start a chat")
	}
	if g.errMsg == "" {
		t.Error("expected an error message")
	}
}

func TestViewListsDescriptions(t *testing.T) {
	g := New(signedInSession(t))
	view := g.View(120, 40)
	for _, want := range []string{"Grade 1", "Grade 9", "Foundation skills"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
