package services

import "errors"

// Error taxonomy surfaced to handlers. Validation and precondition failures
// map to 400, credential failures to 401, forbidden to 403, missing
// documents to 404 and conflicts to 409.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidAge         = errors.New("age must be between 18 and 100")
	ErrWeakPassword       = errors.New("password must be at least 8 characters with upper, lower, digit and symbol")
	ErrInvalidGender      = errors.New("gender must be male or female")
	ErrInvalidPreference  = errors.New("gender preference must be male, female or both")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired verification token")
	ErrAlreadyVerified    = errors.New("email already verified")

	ErrInvalidCoordinate = errors.New("coordinates out of range")
	ErrInvalidRadius     = errors.New("search radius must be between 1 and 100 miles")
	ErrInvalidAnswer     = errors.New("invalid question answer")
	ErrTooManyPhotos     = errors.New("maximum 10 photos allowed")

	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrSelfTarget   = errors.New("cannot target yourself")
	ErrNotViewed    = errors.New("must view profile before liking")
	ErrIncompatible = errors.New("gender preferences are not mutually compatible")

	ErrEmptyMessage         = errors.New("message content is empty")
	ErrFirstMessageQuestion = errors.New("first message must respond to one of the recipient's answered questions")
	ErrMessageTooShort      = errors.New("first message must be at least 20 words")
)
