// Package session holds the state shared by the terminal screens: the
// signed-in learner and the services a chat needs.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/homeworkhelper/internal/chat"
	"github.com/abhisek/homeworkhelper/internal/logging"
	"github.com/abhisek/homeworkhelper/internal/plans"
	"github.com/abhisek/homeworkhelper/internal/profile"
	"github.com/abhisek/homeworkhelper/internal/speech"
	"github.com/abhisek/homeworkhelper/internal/store"
	"github.com/abhisek/homeworkhelper/internal/tutor"
)

// ErrSignedOut is returned by operations that need a signed-in learner.
var ErrSignedOut = errors.New("not signed in")

// Options configures a Session. Every field is optional.
type Options struct {
	Profiles  *profile.Store
	Events    store.EventRepo
	Responder *tutor.Responder
	Speaker   speech.Speaker
	Pacing    chat.Pacing
	Logger    *logging.Logger
	Now       func() time.Time
}

// Session is the app-wide state passed to every screen. It is only used
// from the Bubble Tea update loop and is not safe for concurrent use.
type Session struct {
	profiles  *profile.Store
	events    store.EventRepo
	responder *tutor.Responder
	speaker   speech.Speaker
	pacing    chat.Pacing
	log       *logging.Logger
	now       func() time.Time

	user *profile.User
}

// New creates a Session. Call Restore to pick up a saved sign-in.
func New(opts Options) *Session {
	s := &Session{
		profiles:  opts.Profiles,
		events:    opts.Events,
		responder: opts.Responder,
		speaker:   opts.Speaker,
		pacing:    opts.Pacing,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if s.responder == nil {
		s.responder = tutor.NewResponder(nil, nil)
	}
	if s.speaker == nil {
		s.speaker = speech.Nop{}
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Restore loads the saved sign-in, if any.
func (s *Session) Restore(ctx context.Context) error {
	if s.profiles == nil {
		return nil
	}
	u, err := s.profiles.Load(ctx)
	if err != nil {
		return err
	}
	s.user = u
	return nil
}

// User returns the signed-in learner, or nil.
func (s *Session) User() *profile.User { return s.user }

// SignedIn reports whether a learner is signed in.
func (s *Session) SignedIn() bool { return s.user != nil }

// Speaker returns the text-to-speech backend.
func (s *Session) Speaker() speech.Speaker { return s.speaker }

// Pacing returns the typing indicator timings.
func (s *Session) Pacing() chat.Pacing { return s.pacing }

// Events returns the transcript log, which may be nil.
func (s *Session) Events() store.EventRepo { return s.events }

// Logger returns the session logger.
func (s *Session) Logger() *logging.Logger { return s.log }

// SignIn validates the form, saves the new profile and makes it current.
// Form problems are returned as *profile.FormError.
func (s *Session) SignIn(ctx context.Context, f profile.Form) (*profile.User, error) {
	u, err := profile.SignIn(f, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	s.user = u
	s.log.Info("signed in", "user_id", u.ID, "sign_up", f.SignUp, "email", u.Email)
	return u, nil
}

// SignOut forgets the current learner and clears the saved session.
func (s *Session) SignOut(ctx context.Context) error {
	if s.profiles != nil {
		if err := s.profiles.Clear(ctx); err != nil {
			return err
		}
	}
	if s.user != nil {
		s.log.Info("signed out", "user_id", s.user.ID)
	}
	s.user = nil
	return nil
}

// SelectPlan switches the signed-in learner to tier and saves the profile.
func (s *Session) SelectPlan(ctx context.Context, tier plans.Tier) error {
	if s.user == nil {
		return ErrSignedOut
	}
	s.user.SelectPlan(tier)
	if err := s.save(ctx, s.user); err != nil {
		return fmt.Errorf("select plan: %w", err)
	}
	s.log.Info("plan selected", "user_id", s.user.ID, "plan", string(tier))
	return nil
}

// StartConversation opens a chat at grade for the signed-in learner.
// Questions are charged against the learner's credits on metered plans.
func (s *Session) StartConversation(grade int) (*chat.Conversation, error) {
	if s.user == nil {
		return nil, ErrSignedOut
	}
	opts := chat.Options{
		Grade:       grade,
		LearnerName: s.user.Name,
		Responder:   s.responder,
		Events:      s.events,
		Logger:      s.log,
		Now:         s.now,
	}
	if s.profiles != nil {
		opts.Meter = s.profiles.Meter(s.user)
	} else {
		opts.Meter = userMeter{s.user}
	}
	c := chat.NewConversation(opts)
	s.log.Info("conversation started", "conversation_id", c.ID(), "grade", grade, "user_id", s.user.ID)
	return c, nil
}

func (s *Session) save(ctx context.Context, u *profile.User) error {
	if s.profiles == nil {
		return nil
	}
	return s.profiles.Save(ctx, u)
}

// userMeter charges an unsaved profile.
type userMeter struct {
	user *profile.User
}

func (m userMeter) Charge(context.Context) error {
	return m.user.Charge()
}
