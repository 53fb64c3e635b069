// Package speech reads replies aloud through a local text-to-speech
// command.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
)

// ErrUnavailable is returned when no speech engine is installed.
var ErrUnavailable = errors.New("no text-to-speech engine found")

// Speaker plays text aloud.
type Speaker interface {
	// Speak starts playback and returns once it has started. Playback of
	// any previous text is stopped first.
	Speak(ctx context.Context, text string) error
	// Stop ends playback if any.
	Stop()
	// Speaking reports whether playback is in progress.
	Speaking() bool
}

// Toggle stops playback when speaking and otherwise starts reading text.
// It reports whether playback was started.
func Toggle(ctx context.Context, s Speaker, text string) (bool, error) {
	if s.Speaking() {
		s.Stop()
		return false, nil
	}
	if err := s.Speak(ctx, text); err != nil {
		return false, err
	}
	return true, nil
}

// engine describes how to invoke one text-to-speech command.
type engine struct {
	name string
	// baseRate is the engine's default speaking rate in words per minute.
	baseRate int
	args     func(rate int, text string) []string
}

var engines = []engine{
	{name: "espeak-ng", baseRate: 175, args: espeakArgs},
	{name: "espeak", baseRate: 175, args: espeakArgs},
	{name: "say", baseRate: 175, args: func(rate int, text string) []string {
		return []string{"-r", strconv.Itoa(rate), text}
	}},
}

func espeakArgs(rate int, text string) []string {
	return []string{"-s", strconv.Itoa(rate), text}
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// CommandSpeaker runs an external text-to-speech command.
type CommandSpeaker struct {
	path string
	rate int
	args func(rate int, text string) []string

	mu     sync.Mutex
	cmd    *exec.Cmd
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCommandSpeaker finds the first installed engine. When command is set
// only that engine is tried. rate scales the engine's default speed.
func NewCommandSpeaker(command string, rate float64) (*CommandSpeaker, error) {
	candidates := engines
	if command != "" {
		candidates = []engine{{name: command, baseRate: 175, args: espeakArgs}}
		for _, e := range engines {
			if e.name == command {
				candidates = []engine{e}
			}
		}
	}
	for _, e := range candidates {
		p, err := lookPath(e.name)
		if err != nil {
			continue
		}
		return &CommandSpeaker{
			path: p,
			rate: int(float64(e.baseRate) * rate),
			args: e.args,
		}, nil
	}
	return nil, ErrUnavailable
}

// Speak starts the command in the background.
func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	s.Stop()

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, s.path, s.args(s.rate, text)...)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start speech: %w", err)
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.cmd, s.cancel, s.done = cmd, cancel, done
	s.mu.Unlock()

	go func() {
		_ = cmd.Wait()
		cancel()
		s.mu.Lock()
		if s.cmd == cmd {
			s.cmd, s.cancel, s.done = nil, nil, nil
		}
		s.mu.Unlock()
		close(done)
	}()
	return nil
}

// Stop kills the running command and waits for it to exit.
func (s *CommandSpeaker) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Speaking reports whether the command is still running.
func (s *CommandSpeaker) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd != nil
}

// Nop is a Speaker for machines without a speech engine.
type Nop struct{}

func (Nop) Speak(context.Context, string) error { return ErrUnavailable }

func (Nop) Stop() {}

func (Nop) Speaking() bool { return false }

// New returns a CommandSpeaker when an engine is installed and enabled is
// true, otherwise Nop.
func New(enabled bool, command string, rate float64) Speaker {
	if !enabled {
		return Nop{}
	}
	s, err := NewCommandSpeaker(command, rate)
	if err != nil {
		return Nop{}
	}
	return s
}
