package services

import (
	"strings"
	"unicode"

	"github.com/joeys1992/Date/models"
)

// CountWords counts whitespace-separated words; answers and first messages
// must reach MinAnswerWords.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CheckPasswordStrength enforces the registration password policy: at
// least 8 characters with an upper-case letter, a lower-case letter, a
// digit and a symbol.
func CheckPasswordStrength(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		return ErrWeakPassword
	}
	return nil
}

// ValidateAnswers checks a whole answer batch before anything persists so
// partial updates never land: every index must be in the catalog and every
// answer at least MinAnswerWords long.
func ValidateAnswers(answers []models.QuestionAnswer) error {
	for _, qa := range answers {
		if !models.ValidQuestionIndex(qa.QuestionIndex) {
			return ErrInvalidAnswer
		}
		if CountWords(qa.Answer) < models.MinAnswerWords {
			return ErrInvalidAnswer
		}
	}
	return nil
}
