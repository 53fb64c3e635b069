package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/homeworkhelper/internal/logging"
	"github.com/abhisek/homeworkhelper/internal/store"
	"github.com/abhisek/homeworkhelper/internal/tutor"
)

// Meter charges for a question before it is answered.
type Meter interface {
	Charge(ctx context.Context) error
}

// Options configures a Conversation. Only Grade is required.
type Options struct {
	Grade       int
	LearnerName string
	Responder   *tutor.Responder // nil uses the default catalog and source
	Events      store.EventRepo  // nil disables the transcript log
	Meter       Meter            // nil means unmetered
	Logger      *logging.Logger  // nil discards
	Now         func() time.Time // nil uses time.Now
}

// Conversation is one chat session at a fixed grade. It is safe for
// concurrent use.
type Conversation struct {
	id        string
	grade     int
	learner   string
	responder *tutor.Responder
	events    store.EventRepo
	meter     Meter
	log       *logging.Logger
	now       func() time.Time

	mu       sync.Mutex
	messages []Message
}

// NewConversation starts a conversation with the greeting as its first
// message. The greeting is not written to the event log.
func NewConversation(opts Options) *Conversation {
	c := &Conversation{
		id:        uuid.NewString(),
		grade:     opts.Grade,
		learner:   opts.LearnerName,
		responder: opts.Responder,
		events:    opts.Events,
		meter:     opts.Meter,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if c.responder == nil {
		c.responder = tutor.NewResponder(nil, nil)
	}
	if c.log == nil {
		c.log = logging.Nop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.learner == "" {
		c.learner = "there"
	}
	c.log = c.log.With("conversation_id", c.id, "grade", c.grade)

	c.messages = []Message{{
		ID:        uuid.NewString(),
		Role:      RoleBot,
		Content:   Greeting(c.learner, c.grade),
		Modality:  tutor.ModalityText,
		Timestamp: c.now(),
		HasAudio:  true,
	}}
	return c
}

// ID returns the conversation ID used in the event log.
func (c *Conversation) ID() string { return c.id }

// Grade returns the conversation's grade.
func (c *Conversation) Grade() int { return c.grade }

// Messages returns a copy of the transcript, oldest first.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// LastReply returns the most recent bot message.
func (c *Conversation) LastReply() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == RoleBot {
			return c.messages[i], true
		}
	}
	return Message{}, false
}

// Submit answers a learner submission. Blank text is rejected with
// ErrEmptyMessage and invalid attachments with *AttachmentError; in both
// cases nothing is charged or recorded. A meter error is returned as is.
// Failures writing the event log are logged and otherwise ignored.
func (c *Conversation) Submit(ctx context.Context, in Input) (user, bot Message, err error) {
	if strings.TrimSpace(in.Text) == "" {
		return Message{}, Message{}, ErrEmptyMessage
	}
	if in.Modality == "" {
		in.Modality = tutor.ModalityText
	}
	if err := in.validate(); err != nil {
		return Message{}, Message{}, err
	}
	if c.meter != nil {
		if err := c.meter.Charge(ctx); err != nil {
			return Message{}, Message{}, fmt.Errorf("charge question: %w", err)
		}
	}

	user = Message{
		ID:         uuid.NewString(),
		Role:       RoleUser,
		Content:    in.Text,
		Modality:   in.Modality,
		Timestamp:  c.now(),
		Attachment: in.Attachment,
	}

	reply := c.responder.Reply(in.Text, c.grade, in.Modality)
	bot = Message{
		ID:        uuid.NewString(),
		Role:      RoleBot,
		Content:   reply.Text(),
		Modality:  tutor.ModalityText,
		Timestamp: c.now(),
		HasAudio:  true,
		Subject:   reply.Subject,
	}

	c.mu.Lock()
	c.messages = append(c.messages, user, bot)
	c.mu.Unlock()

	c.log.Debug("question answered",
		"modality", in.Modality,
		"subject", reply.Subject,
		"fallback", reply.Fallback,
	)
	c.record(ctx, user)
	c.record(ctx, bot)
	return user, bot, nil
}

func (c *Conversation) record(ctx context.Context, m Message) {
	if c.events == nil {
		return
	}
	err := c.events.AppendChatMessage(ctx, store.ChatMessageData{
		ConversationID: c.id,
		Role:           string(m.Role),
		Modality:       string(m.Modality),
		Grade:          c.grade,
		Subject:        string(m.Subject),
		Content:        m.Content,
		HasAudio:       m.HasAudio,
		Timestamp:      m.Timestamp,
	})
	if err != nil {
		c.log.Warn("record chat message failed", "role", m.Role, "error", err)
	}
}
