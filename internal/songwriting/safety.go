package songwriting

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinInstructionLength = 3
	MaxInstructionLength = 500
)

// InstructionError carries the client-facing reason an instruction was refused.
type InstructionError struct {
	Reason string
}

func (e *InstructionError) Error() string { return e.Reason }

var (
	ErrInappropriateInstruction = &InstructionError{Reason: "Revision instruction contains inappropriate content"}
	ErrCopyrightInstruction     = &InstructionError{Reason: "Revision instruction may request copyrighted material"}
	ErrInstructionTooShort      = &InstructionError{Reason: "Revision instruction is too short"}
	ErrInstructionTooLong       = &InstructionError{Reason: "Revision instruction is too long"}
)

var harmfulPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(violent|kill|harm|hate|racist|sexist|homophobic|transphobic)\b`),
	regexp.MustCompile(`(?i)\b(terrorist|isis|al-qaeda)\b`),
	regexp.MustCompile(`(?i)\b(drug|overdose|suicide)\b`),
}

var copyrightPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)copy\s+the\s+lyrics`),
	regexp.MustCompile(`(?i)use\s+the\s+same\s+words`),
	regexp.MustCompile(`(?i)exactly\s+like`),
	regexp.MustCompile(`(?i)sound\s+like\s+\w+\s+song`),
}

// CheckInstruction rejects revision instructions that are unsafe, ask for
// copyrighted text, or fall outside the length bounds. Content checks run
// before length checks.
func CheckInstruction(instruction string) error {
	for _, pattern := range harmfulPatterns {
		if pattern.MatchString(instruction) {
			return ErrInappropriateInstruction
		}
	}
	for _, pattern := range copyrightPatterns {
		if pattern.MatchString(instruction) {
			return ErrCopyrightInstruction
		}
	}
	if utf8.RuneCountInString(strings.TrimSpace(instruction)) < MinInstructionLength {
		return ErrInstructionTooShort
	}
	if utf8.RuneCountInString(instruction) > MaxInstructionLength {
		return ErrInstructionTooLong
	}
	return nil
}
