package domain

import "errors"

var (
	// ErrInvalidLanguage is returned when an unsupported language is submitted.
	ErrInvalidLanguage = errors.New("invalid or unsupported language")

	// ErrEmptyCode is returned when source code is empty.
	ErrEmptyCode = errors.New("source code cannot be empty")

	// ErrNoTestCases is returned when a verification request carries no test cases.
	ErrNoTestCases = errors.New("at least one test case is required")

	// ErrPayloadTooLarge is returned when the source code exceeds the size limit.
	ErrPayloadTooLarge = errors.New("source code payload exceeds maximum size (1MB)")

	// ErrChallengeNotFound is returned when a challenge cannot be found by ID.
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrUnauthorized is returned when no authenticated user identity is present.
	ErrUnauthorized = errors.New("authentication required")

	// ErrDuplicateSubmission is returned when an identical submission is
	// already being processed.
	ErrDuplicateSubmission = errors.New("submission already in progress")

	// ErrPublishFailed is returned when the message broker publish fails.
	ErrPublishFailed = errors.New("failed to publish submission event")
)
