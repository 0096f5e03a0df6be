package domain

import (
	"time"
)

// ResumeFields is the best-effort output of the heuristic extractor.
// Absent fields are empty strings/slices, never nil pointers; extraction
// itself never fails.
type ResumeFields struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Skills     []string  `json:"skills"`
	Experience string    `json:"experience"`
	RawText    string    `json:"raw_text"`
	ParsedAt   time.Time `json:"parsed_at"`
}

// ResumeValidation reports every violated rule, not just the first.
type ResumeValidation struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// ResumeDecoder converts an uploaded document to plain text. Byte-level
// format handling lives behind this boundary; decoder errors propagate
// as-is and are never retried, since the same file fails identically.
type ResumeDecoder interface {
	Decode(data []byte, mimeType string) (string, error)
}
