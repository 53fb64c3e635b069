package speech

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"
)

func stubLookPath(t *testing.T, installed ...string) {
	t.Helper()
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestNewCommandSpeakerProbeOrder(t *testing.T) {
	stubLookPath(t, "say", "espeak")

	s, err := NewCommandSpeaker("", 0.8)
	if err != nil {
		t.Fatalf("NewCommandSpeaker: %v", err)
	}
	if s.path != "/usr/bin/espeak" {
		t.Errorf("path = %q, want espeak before say", s.path)
	}
	if s.rate != 140 {
		t.Errorf("rate = %d, want 140", s.rate)
	}
	args := s.args(s.rate, "hello")
	if len(args) != 3 || args[0] != "-s" || args[1] != "140" || args[2] != "hello" {
		t.Errorf("args = %v", args)
	}
}

func TestNewCommandSpeakerExplicitCommand(t *testing.T) {
	stubLookPath(t, "say", "espeak-ng")

	s, err := NewCommandSpeaker("say", 1)
	if err != nil {
		t.Fatalf("NewCommandSpeaker: %v", err)
	}
	if s.path != "/usr/bin/say" {
		t.Errorf("path = %q", s.path)
	}
	if args := s.args(s.rate, "x"); args[0] != "-r" {
		t.Errorf("say should use -r, got %v", args)
	}

	if _, err := NewCommandSpeaker("festival", 1); !errors.Is(err, ErrUnavailable) {
		t.Errorf("missing command: err = %v", err)
	}
}

func TestNewFallsBackToNop(t *testing.T) {
	stubLookPath(t)
	if _, ok := New(true, "", 0.8).(Nop); !ok {
		t.Error("expected Nop without an engine")
	}
	stubLookPath(t, "espeak")
	if _, ok := New(false, "", 0.8).(Nop); !ok {
		t.Error("expected Nop when disabled")
	}
	if _, ok := New(true, "", 0.8).(*CommandSpeaker); !ok {
		t.Error("expected CommandSpeaker when installed")
	}
}

func TestCommandSpeakerStop(t *testing.T) {
	sleep, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}
	s := &CommandSpeaker{path: sleep, args: func(int, string) []string { return []string{"10"} }}

	if err := s.Speak(context.Background(), "long reply"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if !s.Speaking() {
		t.Fatal("expected speaking after Speak")
	}

	started, err := Toggle(context.Background(), s, "long reply")
	if err != nil || started {
		t.Fatalf("Toggle while speaking: started=%v err=%v", started, err)
	}
	if s.Speaking() {
		t.Error("expected stopped after toggle")
	}
}

func TestCommandSpeakerFinishes(t *testing.T) {
	truePath, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not available")
	}
	s := &CommandSpeaker{path: truePath, args: func(int, string) []string { return nil }}

	started, err := Toggle(context.Background(), s, "short")
	if err != nil || !started {
		t.Fatalf("Toggle: started=%v err=%v", started, err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for s.Speaking() {
		if time.Now().After(deadline) {
			t.Fatal("speaker never finished")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNop(t *testing.T) {
	var s Speaker = Nop{}
	if _, err := Toggle(context.Background(), s, "x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v", err)
	}
	s.Stop()
	if s.Speaking() {
		t.Error("Nop never speaks")
	}
}
