package lifecycle

import (
	"fmt"
	"unicode/utf8"

	"github.com/marketloop/supportd/pkg/utils"
)

// Field length rules, mirrored from the mobile client's forms. The engine
// enforces them independently so the contract holds for any caller.
const (
	MinSubjectLen     = 10
	MaxSubjectLen     = 100
	MinDescriptionLen = 50
	MaxDescriptionLen = 1000
	MaxMessageLen     = 1000
	MinReasonLen      = 20
	MaxReasonLen      = 200
	MinExplanationLen = 100
	MaxExplanationLen = 2000
)

// ValidationError reports a malformed input field. The caller can recover
// by correcting the field and retrying.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateTicketInput checks subject and description against the form
// rules. Lengths are counted in runes after whitespace cleanup, so padding
// a short subject with spaces does not pass.
func ValidateTicketInput(subject, description string) error {
	if err := checkLength("subject", subject, MinSubjectLen, MaxSubjectLen); err != nil {
		return err
	}
	return checkLength("description", description, MinDescriptionLen, MaxDescriptionLen)
}

// ValidateMessage checks a ticket message body.
func ValidateMessage(content string) error {
	return checkLength("message", content, 1, MaxMessageLen)
}

// ValidateAppealInput checks appeal reason and explanation. Boundaries are
// inclusive: a 20-rune reason passes.
func ValidateAppealInput(reason, explanation string) error {
	if err := checkLength("reason", reason, MinReasonLen, MaxReasonLen); err != nil {
		return err
	}
	return checkLength("explanation", explanation, MinExplanationLen, MaxExplanationLen)
}

func checkLength(field, value string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(utils.CleanupText(value))
	switch {
	case n < minLen:
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", minLen)}
	case n > maxLen:
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", maxLen)}
	}
	return nil
}
