package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// MaxAttachmentSize is the largest image or file a learner may attach.
const MaxAttachmentSize = 10 << 20

// acceptedFileTypes are the MIME types the file picker accepts.
var acceptedFileTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
	"image/jpeg",
	"image/png",
	"image/gif",
}

// extensionTypes resolves the accepted file types by name when content
// sniffing is inconclusive.
var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// Attachment describes an uploaded image or file. Only its name, size and
// type are used; the content is never read into a reply.
type Attachment struct {
	Name     string
	Path     string
	Size     int64
	MIMEType string
}

// AttachmentError reports a rejected attachment.
type AttachmentError struct {
	Name   string
	Reason string
}

func (e *AttachmentError) Error() string {
	if e.Name == "" {
		return "attachment rejected: " + e.Reason
	}
	return fmt.Sprintf("attachment %s rejected: %s", e.Name, e.Reason)
}

// AttachmentFromPath describes the file at path. The MIME type is sniffed
// from the file header, falling back to the extension.
func AttachmentFromPath(path string) (Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("stat attachment: %w", err)
	}
	if info.IsDir() {
		return Attachment{}, &AttachmentError{Name: filepath.Base(path), Reason: "is a directory"}
	}

	a := Attachment{
		Name: filepath.Base(path),
		Path: path,
		Size: info.Size(),
	}

	byExt := extensionTypes[strings.ToLower(filepath.Ext(path))]
	mt, err := mimetype.DetectFile(path)
	switch {
	case err != nil:
		return Attachment{}, fmt.Errorf("detect attachment type: %w", err)
	case byExt != "" && (mt.Is("application/octet-stream") || mt.Is("text/plain") || mt.Is("application/zip") || mt.Is("application/x-ole-storage")):
		// Word documents sniff as generic containers and plain text has no
		// magic number, so the extension decides.
		a.MIMEType = byExt
	default:
		a.MIMEType, _, _ = strings.Cut(mt.String(), ";")
	}
	return a, nil
}

// ValidateImage checks an attachment submitted through the image picker.
func (a Attachment) ValidateImage() error {
	if !strings.HasPrefix(a.MIMEType, "image/") {
		return &AttachmentError{Name: a.Name, Reason: "please select an image file"}
	}
	return a.checkSize()
}

// ValidateFile checks an attachment submitted through the file picker.
func (a Attachment) ValidateFile() error {
	if !slices.Contains(acceptedFileTypes, a.MIMEType) {
		return &AttachmentError{Name: a.Name, Reason: "please select a valid file type (PDF, Word, Text, or Image)"}
	}
	return a.checkSize()
}

func (a Attachment) checkSize() error {
	if a.Size > MaxAttachmentSize {
		return &AttachmentError{
			Name:   a.Name,
			Reason: fmt.Sprintf("%s exceeds the %s limit", humanize.IBytes(uint64(a.Size)), humanize.IBytes(MaxAttachmentSize)),
		}
	}
	return nil
}

// FormatSize renders a byte count for display, e.g. "2.0 MiB".
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
