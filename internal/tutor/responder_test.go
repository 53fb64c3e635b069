package tutor

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource returns preset indexes in order, then zeros.
type scriptedSource struct {
	picks []int
	calls []int
}

func (s *scriptedSource) IntN(n int) int {
	s.calls = append(s.calls, n)
	if len(s.picks) == 0 {
		return 0
	}
	i := s.picks[0]
	s.picks = s.picks[1:]
	return i
}

func TestRespond_Example(t *testing.T) {
	src := &scriptedSource{picks: []int{1, 3}}
	r := NewResponder(nil, src)

	got := r.Respond("Can you help me add 5 and 3?", 2, ModalityText)

	want := "This is a good problem for Grade 2! Let's use place value to understand this better." +
		" Would you like to try a practice problem together?"
	assert.Equal(t, want, got)
	assert.Equal(t, []int{4, 5}, src.calls, "template then follow-up should be drawn")
}

func TestReply_EveryGradeUsesSubjectTable(t *testing.T) {
	questions := map[Subject]string{
		SubjectMathematics: "How do I subtract these?",
		SubjectEnglish:     "Help me write a sentence",
		SubjectScience:     "Tell me about this animal",
	}
	c := DefaultCatalog()

	for subject, q := range questions {
		for grade := 1; grade <= 9; grade++ {
			t.Run(fmt.Sprintf("%s/%d", subject, grade), func(t *testing.T) {
				templates, ok := c.Templates(subject, grade)
				require.True(t, ok)

				reply := NewResponder(c, nil).Reply(q, grade, ModalityText)
				assert.Equal(t, subject, reply.Subject)
				assert.False(t, reply.Fallback)
				assert.Contains(t, templates, reply.Template)
				assert.NotEmpty(t, reply.Text())
				assert.True(t, strings.Contains(reply.Text(), reply.Template))
			})
		}
	}
}

func TestReply_FallbackInterpolatesGrade(t *testing.T) {
	for _, grade := range []int{0, -3, 10, 12} {
		src := &scriptedSource{picks: []int{0, 0}}
		reply := NewResponder(nil, src).Reply("What is the capital of Kenya?", grade, ModalityText)

		assert.Equal(t, SubjectGeneral, reply.Subject)
		assert.True(t, reply.Fallback)
		assert.Equal(t, fmt.Sprintf("That's a great question for Grade %d! Let me help you understand this step by step.", grade), reply.Template)
	}
}

func TestReply_KnownSubjectUnknownGradeFallsBack(t *testing.T) {
	reply := NewResponder(nil, nil).Reply("add these numbers", 11, ModalityText)

	assert.Equal(t, SubjectMathematics, reply.Subject)
	assert.True(t, reply.Fallback)
	assert.Contains(t, reply.Template, "Grade 11")
}

func TestReply_GeneralWithinRangeStillFallsBack(t *testing.T) {
	reply := NewResponder(nil, nil).Reply("Who was the first president?", 4, ModalityText)

	assert.True(t, reply.Fallback)
	assert.Contains(t, DefaultCatalog().FallbackTemplates(4), reply.Template)
}

func TestReply_ModalityPrefix(t *testing.T) {
	tests := []struct {
		modality Modality
		prefix   string
	}{
		{ModalityText, ""},
		{ModalityVoice, "I heard your question! "},
		{ModalityImage, "I can see the homework in your image! "},
		{ModalityFile, "I've reviewed your homework file! "},
		{Modality("fax"), ""},
	}

	r := NewResponder(nil, nil)
	for _, tt := range tests {
		t.Run(string(tt.modality), func(t *testing.T) {
			reply := r.Reply("add 2 and 2", 3, tt.modality)
			assert.Equal(t, tt.prefix, reply.Prefix)
			assert.True(t, strings.HasPrefix(reply.Text(), tt.prefix+reply.Template))
		})
	}
}

func TestReply_FollowUpFromFixedSet(t *testing.T) {
	followUps := DefaultCatalog().FollowUps()
	r := NewResponder(nil, nil)
	for i := 0; i < 50; i++ {
		reply := r.Reply("spell cat", 1, ModalityVoice)
		assert.Contains(t, followUps, reply.FollowUp)
		assert.True(t, strings.HasSuffix(reply.Text(), reply.FollowUp))
	}
}

func TestReply_EmptyQuestion(t *testing.T) {
	got := NewResponder(nil, nil).Respond("", 5, ModalityText)
	assert.NotEmpty(t, got)
	assert.Contains(t, got, "Grade 5")
}

func TestReply_SameSubjectDifferentPicks(t *testing.T) {
	a := NewResponder(nil, &scriptedSource{picks: []int{0, 0}}).Reply("nature walk", 6, ModalityText)
	b := NewResponder(nil, &scriptedSource{picks: []int{3, 4}}).Reply("nature walk", 6, ModalityText)

	assert.Equal(t, a.Subject, b.Subject)
	assert.NotEqual(t, a.Text(), b.Text())
}

func TestPick_FoldsOutOfRange(t *testing.T) {
	items := []string{"a", "b", "c"}
	assert.Equal(t, "b", pick(&scriptedSource{picks: []int{4}}, items))
	assert.Equal(t, "c", pick(&scriptedSource{picks: []int{-1}}, items))
	assert.Equal(t, "", pick(&scriptedSource{}, nil))
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := NewResponder(nil, NewSeededSource(42))
	b := NewResponder(nil, NewSeededSource(42))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Respond("divide 10 by 2", 4, ModalityImage), b.Respond("divide 10 by 2", 4, ModalityImage))
	}
}

func TestResponder_ConcurrentUse(t *testing.T) {
	r := NewResponder(nil, NewSeededSource(7))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(grade int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if r.Respond("multiply", grade, ModalityFile) == "" {
					t.Error("empty response")
				}
			}
		}(i%9 + 1)
	}
	wg.Wait()
}

func TestGenerateResponse(t *testing.T) {
	got := GenerateResponse("Read me a story", 1, ModalityVoice)
	assert.True(t, strings.HasPrefix(got, "I heard your question! "))
}
