package services

import (
	"errors"
	"fmt"
	"strings"
)

// UnsupportedFormatMessage is the wire message for ErrUnsupportedFormat.
const UnsupportedFormatMessage = "Unsupported file format. Use PDF or DOCX"

// ErrUnsupportedFormat is returned for any extension other than .pdf/.docx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ExtractionError reports a document that has a supported extension but
// could not be read.
type ExtractionError struct {
	Format string
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("Error reading %s: %v", strings.ToUpper(e.Format), e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// ValidationError reports missing required input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
