package tutor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Subject is a content bucket used to pick a response table.
type Subject string

const (
	SubjectMathematics Subject = "mathematics"
	SubjectEnglish     Subject = "english"
	SubjectScience     Subject = "science"

	// SubjectGeneral is the bucket for questions that match no keywords.
	// It never has a table of its own and always uses the fallback family.
	SubjectGeneral Subject = "general"
)

// SubjectDisplayName returns a human-readable name for a subject.
func SubjectDisplayName(s Subject) string {
	switch s {
	case SubjectMathematics:
		return "Mathematics"
	case SubjectEnglish:
		return "English"
	case SubjectScience:
		return "Science"
	case SubjectGeneral:
		return "General"
	default:
		r, size := utf8.DecodeRuneInString(string(s))
		if size == 0 {
			return ""
		}
		return string(unicode.ToUpper(r)) + string(s[size:])
	}
}

// Modality is the channel a question was submitted through.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityVoice Modality = "voice"
	ModalityImage Modality = "image"
	ModalityFile  Modality = "file"
)

// AllModalities returns every modality in display order.
func AllModalities() []Modality {
	return []Modality{ModalityText, ModalityVoice, ModalityImage, ModalityFile}
}

// ModalityNames returns the modality tags joined for help and error text.
func ModalityNames() string {
	all := AllModalities()
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// ParseModality converts a tag to a Modality. The empty string means text.
func ParseModality(s string) (Modality, error) {
	m := Modality(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModalityText, nil
	}
	for _, known := range AllModalities() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown modality %q (want one of %s)", s, ModalityNames())
}
