package document

import (
	"strings"

	"github.com/Dharanish-AM/InterVueAI/internal/domain"
	"github.com/Dharanish-AM/InterVueAI/pkg/apperror"
)

// Mime types accepted at the upload boundary.
const (
	MimePDF  = "application/pdf"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// Registry dispatches uploads to a format decoder by mime type.
// Decoder errors propagate as-is: the same file fails identically on
// retry, so nothing here retries.
type Registry struct {
	decoders map[string]domain.ResumeDecoder
}

func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]domain.ResumeDecoder)}
}

// Register installs a decoder for a mime type, replacing any previous one.
func (r *Registry) Register(mimeType string, decoder domain.ResumeDecoder) {
	r.decoders[normalizeMime(mimeType)] = decoder
}

func (r *Registry) Decode(data []byte, mimeType string) (string, error) {
	decoder, ok := r.decoders[normalizeMime(mimeType)]
	if !ok {
		return "", apperror.UnsupportedMedia(
			"Unsupported file type. Please upload PDF or DOCX files only.",
			domain.ErrUnsupportedFormat,
		)
	}
	return decoder.Decode(data, mimeType)
}

// normalizeMime drops parameters such as "; charset=utf-8".
func normalizeMime(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = mimeType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// PlainText passes already-decoded text through unchanged.
type PlainText struct{}

func (PlainText) Decode(data []byte, _ string) (string, error) {
	return string(data), nil
}
