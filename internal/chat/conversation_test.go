package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/homeworkhelper/internal/store"
	"github.com/abhisek/homeworkhelper/internal/tutor"
)

// firstSource always picks the first item.
type firstSource struct{}

func (firstSource) IntN(int) int { return 0 }

type recordingRepo struct {
	mu   sync.Mutex
	data []store.ChatMessageData
	err  error
}

func (r *recordingRepo) AppendChatMessage(_ context.Context, d store.ChatMessageData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.data = append(r.data, d)
	return nil
}

func (r *recordingRepo) QueryChatMessages(context.Context, store.QueryOpts) ([]store.ChatMessageRecord, error) {
	return nil, nil
}

func (r *recordingRepo) Conversation(context.Context, string) ([]store.ChatMessageRecord, error) {
	return nil, nil
}

func (r *recordingRepo) ConversationSummaries(context.Context, store.QueryOpts) ([]store.ConversationSummary, error) {
	return nil, nil
}

type countingMeter struct {
	calls int
	err   error
}

func (m *countingMeter) Charge(context.Context) error {
	m.calls++
	return m.err
}

func newTestConversation(t *testing.T, opts Options) *Conversation {
	t.Helper()
	if opts.Grade == 0 {
		opts.Grade = 2
	}
	if opts.Responder == nil {
		opts.Responder = tutor.NewResponder(nil, firstSource{})
	}
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	opts.Now = func() time.Time { return fixed }
	return NewConversation(opts)
}

func expectedReply(t *testing.T, subject tutor.Subject, grade int, m tutor.Modality) string {
	t.Helper()
	c := tutor.DefaultCatalog()
	templates, ok := c.Templates(subject, grade)
	if !ok {
		templates = c.FallbackTemplates(grade)
	}
	return c.Prefix(m) + templates[0] + c.FollowUps()[0]
}

func TestNewConversationGreeting(t *testing.T) {
	c := newTestConversation(t, Options{Grade: 4, LearnerName: "Amina"})

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleBot, msgs[0].Role)
	assert.True(t, msgs[0].HasAudio)
	assert.True(t, strings.HasPrefix(msgs[0].Content, "Hello Amina! I'm here to help with Grade 4 homework."))
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, 4, c.Grade())
}

func TestSubmitText(t *testing.T) {
	repo := &recordingRepo{}
	c := newTestConversation(t, Options{Grade: 2, LearnerName: "Amina", Events: repo})

	user, bot, err := c.Submit(context.Background(), TextInput("Can you help me add 5 and 3?"))
	require.NoError(t, err)

	assert.Equal(t, RoleUser, user.Role)
	assert.Equal(t, "Can you help me add 5 and 3?", user.Content)
	assert.Equal(t, tutor.ModalityText, user.Modality)
	assert.False(t, user.HasAudio)

	assert.Equal(t, RoleBot, bot.Role)
	assert.True(t, bot.HasAudio)
	assert.Equal(t, tutor.SubjectMathematics, bot.Subject)
	assert.Equal(t, expectedReply(t, tutor.SubjectMathematics, 2, tutor.ModalityText), bot.Content)
	assert.NotEqual(t, user.ID, bot.ID)

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, user, msgs[1])
	assert.Equal(t, bot, msgs[2])

	last, ok := c.LastReply()
	require.True(t, ok)
	assert.Equal(t, bot.ID, last.ID)

	require.Len(t, repo.data, 2)
	assert.Equal(t, c.ID(), repo.data[0].ConversationID)
	assert.Equal(t, "user", repo.data[0].Role)
	assert.Equal(t, "bot", repo.data[1].Role)
	assert.Equal(t, "mathematics", repo.data[1].Subject)
	assert.Equal(t, 2, repo.data[1].Grade)
	assert.True(t, repo.data[0].Timestamp.Equal(user.Timestamp), "user timestamp should follow the clock")
	assert.True(t, repo.data[1].Timestamp.Equal(bot.Timestamp), "bot timestamp should follow the clock")
}

func TestSubmitModalities(t *testing.T) {
	img := Attachment{Name: "page1.png", MIMEType: "image/png", Size: 2048}
	doc := Attachment{Name: "essay.pdf", MIMEType: "application/pdf", Size: 2048}

	tests := []struct {
		name     string
		in       Input
		wantText string
		subject  tutor.Subject
	}{
		{"voice", VoiceInput(), VoicePlaceholder, tutor.SubjectGeneral},
		{"image", ImageInput(img), "I've uploaded an image of my homework: page1.png. Can you help me understand this problem?", tutor.SubjectGeneral},
		{"file", FileInput(doc), "I've uploaded a file: essay.pdf. Can you help me with this homework?", tutor.SubjectGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConversation(t, Options{Grade: 5})
			user, bot, err := c.Submit(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, user.Content)
			assert.Equal(t, tt.in.Modality, user.Modality)
			assert.Equal(t, tt.subject, bot.Subject)
			assert.Equal(t, expectedReply(t, tt.subject, 5, tt.in.Modality), bot.Content)
		})
	}
}

func TestSubmitRejects(t *testing.T) {
	repo := &recordingRepo{}
	meter := &countingMeter{}
	c := newTestConversation(t, Options{Events: repo, Meter: meter})
	ctx := context.Background()

	_, _, err := c.Submit(ctx, TextInput("   \n\t"))
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, _, err = c.Submit(ctx, ImageInput(Attachment{Name: "notes.pdf", MIMEType: "application/pdf", Size: 10}))
	var ae *AttachmentError
	assert.ErrorAs(t, err, &ae)

	_, _, err = c.Submit(ctx, FileInput(Attachment{Name: "big.pdf", MIMEType: "application/pdf", Size: MaxAttachmentSize + 1}))
	assert.ErrorAs(t, err, &ae)

	assert.Len(t, c.Messages(), 1)
	assert.Empty(t, repo.data)
	assert.Zero(t, meter.calls)
}

func TestSubmitMeter(t *testing.T) {
	outOfCredits := errors.New("no credits")
	meter := &countingMeter{}
	c := newTestConversation(t, Options{Meter: meter})
	ctx := context.Background()

	_, _, err := c.Submit(ctx, TextInput("read a story"))
	require.NoError(t, err)
	assert.Equal(t, 1, meter.calls)

	meter.err = outOfCredits
	_, _, err = c.Submit(ctx, TextInput("read another story"))
	assert.ErrorIs(t, err, outOfCredits)
	assert.Len(t, c.Messages(), 3)
}

func TestSubmitIgnoresRecordFailures(t *testing.T) {
	repo := &recordingRepo{err: errors.New("database is locked")}
	c := newTestConversation(t, Options{Events: repo})

	_, bot, err := c.Submit(context.Background(), TextInput("plants"))
	require.NoError(t, err)
	assert.Equal(t, tutor.SubjectScience, bot.Subject)
	assert.Len(t, c.Messages(), 3)
}

func TestSubmitConcurrent(t *testing.T) {
	c := newTestConversation(t, Options{Responder: tutor.NewResponder(nil, nil)})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := c.Submit(context.Background(), TextInput("spell elephant"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, c.Messages(), 41)
}

func TestPacing(t *testing.T) {
	p := DefaultPacing()
	assert.Equal(t, 2*time.Second, p.Total())

	assert.NoError(t, Pacing{}.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Wait(ctx), context.Canceled)

	start := time.Now()
	assert.NoError(t, Pacing{BeforeTyping: 5 * time.Millisecond, Typing: 5 * time.Millisecond}.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestSummary(t *testing.T) {
	c := newTestConversation(t, Options{Grade: 3})
	ctx := context.Background()

	sum := c.Summary()
	assert.Equal(t, 3, sum.Grade)
	assert.Zero(t, sum.Questions)
	assert.Empty(t, sum.Subjects)

	for _, in := range []Input{
		TextInput("add 2 and 2"),
		TextInput("tell me about a plant"),
		TextInput("multiply 3 by 4"),
		VoiceInput(),
	} {
		_, _, err := c.Submit(ctx, in)
		require.NoError(t, err)
	}

	sum = c.Summary()
	assert.Equal(t, 4, sum.Questions)
	assert.Equal(t, []SubjectCount{
		{Subject: tutor.SubjectMathematics, Count: 2},
		{Subject: tutor.SubjectScience, Count: 1},
		{Subject: tutor.SubjectGeneral, Count: 1},
	}, sum.Subjects)
	assert.Equal(t, 3, sum.Modalities[tutor.ModalityText])
	assert.Equal(t, 1, sum.Modalities[tutor.ModalityVoice])
	assert.Zero(t, sum.Duration)
}
