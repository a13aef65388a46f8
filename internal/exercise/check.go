package exercise

import (
	"strconv"
	"strings"
)

// Check compares a learner's answer against the exercise.
//
// Normalization rules:
// - Whitespace is trimmed and inner runs collapse to one space
// - Comparison is case-insensitive
// - Leading and trailing sentence punctuation is ignored
// - Any listed alternate is accepted
// - For multiple choice: matches against the choice text, then its 1-based index
func Check(answer string, ex Exercise) bool {
	given := normalize(answer)
	if given == "" {
		return false
	}
	if accepts(ex, given) {
		return true
	}

	// A reply that names a choice literally is never read as an index.
	if ex.Type == TypeMultipleChoice && !isChoice(ex, given) {
		if idx, err := strconv.Atoi(given); err == nil && idx >= 1 && idx <= len(ex.Choices) {
			return accepts(ex, normalize(ex.Choices[idx-1]))
		}
	}
	return false
}

func accepts(ex Exercise, given string) bool {
	if given == normalize(ex.Answer) {
		return true
	}
	for _, alt := range ex.Alternates {
		if given == normalize(alt) {
			return true
		}
	}
	return false
}

func isChoice(ex Exercise, given string) bool {
	for _, c := range ex.Choices {
		if given == normalize(c) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return strings.Trim(s, ".!?¡¿")
}
