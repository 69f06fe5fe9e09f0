package agent

import (
	"errors"
	"strings"
)

var errBlankQuestion = errors.New("question is empty")

// NormalizeQuestion trims surrounding whitespace and rejects blank questions.
func NormalizeQuestion(question string) (string, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return "", NewError(KindInputRejected, errBlankQuestion)
	}
	return q, nil
}
