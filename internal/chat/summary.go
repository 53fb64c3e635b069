package chat

import (
	"time"

	"github.com/abhisek/homeworkhelper/internal/tutor"
)

// SubjectCount is how many replies a subject received.
type SubjectCount struct {
	Subject tutor.Subject
	Count   int
}

// Summary describes a conversation so far.
type Summary struct {
	Grade     int
	Duration  time.Duration
	Questions int
	// Subjects are in the order they first came up.
	Subjects   []SubjectCount
	Modalities map[tutor.Modality]int
}

// Summary tallies the questions asked since the greeting.
func (c *Conversation) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum := Summary{
		Grade:      c.grade,
		Modalities: make(map[tutor.Modality]int),
	}
	if len(c.messages) == 0 {
		return sum
	}
	sum.Duration = c.now().Sub(c.messages[0].Timestamp)

	index := make(map[tutor.Subject]int)
	for _, m := range c.messages[1:] {
		switch m.Role {
		case RoleUser:
			sum.Questions++
			sum.Modalities[m.Modality]++
		case RoleBot:
			i, ok := index[m.Subject]
			if !ok {
				i = len(sum.Subjects)
				index[m.Subject] = i
				sum.Subjects = append(sum.Subjects, SubjectCount{Subject: m.Subject})
			}
			sum.Subjects[i].Count++
		}
	}
	return sum
}
