package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/homeworkhelper/internal/chat"
	"github.com/abhisek/homeworkhelper/internal/router"
	"github.com/abhisek/homeworkhelper/internal/tutor"
)

func testSummary() chat.Summary {
	return chat.Summary{
		Grade:     4,
		Duration:  3*time.Minute + 5*time.Second,
		Questions: 3,
		Subjects: []chat.SubjectCount{
			{Subject: tutor.SubjectMathematics, Count: 2},
			{Subject: tutor.SubjectScience, Count: 1},
		},
		Modalities: map[tutor.Modality]int{
			tutor.ModalityText:  2,
			tutor.ModalityImage: 1,
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary(), nil)
	if s.Title() != "Chat Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Chat Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testSummary(), nil)
	view := s.View(80, 24)
	for _, want := range []string{"Grade 4", "3:05", "You asked 3 questions", "✎ typed 2", "📷 photo 1", "Mathematics", "Science"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "credits left") {
		t.Error("unmetered summary should not show credits")
	}
}

func TestSummaryScreen_Credits(t *testing.T) {
	left := 7
	s := New(testSummary(), &left)
	if !strings.Contains(s.View(80, 24), "7 credits left") {
		t.Error("expected remaining credits")
	}
}

func TestSummaryScreen_ReturnsHome(t *testing.T) {
	for _, code := range []rune{tea.KeyEnter, tea.KeyEscape} {
		s := New(testSummary(), nil)
		_, cmd := s.Update(tea.KeyPressMsg{Code: code})
		if cmd == nil {
			t.Fatal("expected a command")
		}
		if _, ok := cmd().(router.PopToRootMsg); !ok {
			t.Error("expected PopToRootMsg")
		}
	}
	if !New(testSummary(), nil).InterceptBack() {
		t.Error("summary should handle esc itself")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testSummary(), nil)
	hints := s.KeyHints()
	if len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}
