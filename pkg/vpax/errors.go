package vpax

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Reasons carried by FormatError.
const (
	ReasonNotArchive       = "not a valid archive"
	ReasonModelNotFound    = "model definition not found"
	ReasonModelUnparseable = "unparseable model definition"
)

// FormatError reports an export that cannot be turned into a model.
type FormatError struct {
	Reason string
	// Entries lists the archive entries, set when no model definition was found.
	Entries []string
	Cause   error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("invalid model export: ")
	b.WriteString(e.Reason)
	if len(e.Entries) > 0 {
		b.WriteString(" (entries: ")
		b.WriteString(strings.Join(e.Entries, ", "))
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *FormatError) Unwrap() error { return e.Cause }

// IsFormatError reports whether err (or anything it wraps) is a *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

func newFormatError(reason string, cause error, entries []string) error {
	err := errors.WithStack(&FormatError{Reason: reason, Entries: entries, Cause: cause})
	switch reason {
	case ReasonNotArchive:
		return errors.WithHint(err, "export the model from DAX Studio or VertiPaq Analyzer as a .vpax file")
	case ReasonModelNotFound:
		return errors.WithHint(err, "the archive must contain a model definition such as Model.bim")
	default:
		return errors.WithHint(err, "the model definition must be a JSON document")
	}
}
