// Package chat runs a tutoring conversation: it turns learner input into
// messages, asks the responder for replies and records the transcript.
package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/homeworkhelper/internal/tutor"
)

// ErrEmptyMessage is returned when a submission has no text.
var ErrEmptyMessage = errors.New("message is empty")

// Role identifies who sent a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one entry of the transcript.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Modality  tutor.Modality
	Timestamp time.Time
	// HasAudio marks messages that can be read aloud.
	HasAudio bool
	// Subject is the classified subject of a bot reply.
	Subject    tutor.Subject
	Attachment *Attachment
}

// Placeholder question texts for input whose content is not interpreted.
const (
	VoicePlaceholder = "I need help with my homework. Can you explain how to solve this problem?"
	imageTemplate    = "I've uploaded an image of my homework: %s. Can you help me understand this problem?"
	fileTemplate     = "I've uploaded a file: %s. Can you help me with this homework?"
)

// Input is a learner submission.
type Input struct {
	Text       string
	Modality   tutor.Modality
	Attachment *Attachment
}

// TextInput is a typed question.
func TextInput(text string) Input {
	return Input{Text: text, Modality: tutor.ModalityText}
}

// VoiceInput is a recorded question. The audio is discarded and a fixed
// question stands in for it.
func VoiceInput() Input {
	return Input{Text: VoicePlaceholder, Modality: tutor.ModalityVoice}
}

// ImageInput is a photo of homework.
func ImageInput(a Attachment) Input {
	return Input{Text: fmt.Sprintf(imageTemplate, a.Name), Modality: tutor.ModalityImage, Attachment: &a}
}

// FileInput is an uploaded homework document.
func FileInput(a Attachment) Input {
	return Input{Text: fmt.Sprintf(fileTemplate, a.Name), Modality: tutor.ModalityFile, Attachment: &a}
}

// AttachmentInput picks the image or file picker for a by its MIME type.
func AttachmentInput(a Attachment) Input {
	if strings.HasPrefix(a.MIMEType, "image/") {
		return ImageInput(a)
	}
	return FileInput(a)
}

// validate checks the attachment against the picker it came from.
func (in Input) validate() error {
	if in.Attachment == nil {
		return nil
	}
	switch in.Modality {
	case tutor.ModalityImage:
		return in.Attachment.ValidateImage()
	case tutor.ModalityFile:
		return in.Attachment.ValidateFile()
	default:
		return nil
	}
}

// Greeting returns the opening bot message for a conversation.
func Greeting(name string, grade int) string {
	return fmt.Sprintf("Hello %s! I'm here to help with Grade %d homework. I can assist with Mathematics, English, Kiswahili, Science, and Social Studies. You can ask me questions by typing, speaking, or uploading photos of your homework. What would you like help with today?", name, grade)
}
