package domain

import (
	"time"

	"github.com/google/uuid"
)

// Language represents a supported programming language.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
)

// IsValid checks if the language is supported.
func (l Language) IsValid() bool {
	return l == LangJavaScript || l == LangPython
}

// FileName returns the source file name the sandbox provider expects.
func (l Language) FileName() string {
	switch l {
	case LangJavaScript:
		return "main.js"
	case LangPython:
		return "main.py"
	}
	return "main.txt"
}

// TestCase is one verification unit for a challenge. Immutable once
// fetched for a run.
type TestCase struct {
	ID             string `json:"id"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Description    string `json:"description"`
	IsHidden       bool   `json:"is_hidden"`
}

// ExecutionRequest carries one submission attempt through the test
// verification engine. It is constructed per attempt and never persisted.
type ExecutionRequest struct {
	Code      string     `json:"code"`
	Language  Language   `json:"language"`
	TestCases []TestCase `json:"test_cases"`

	// Nondeterministic marks the challenge's correct output as intentionally
	// randomized. When unset, the verifier falls back to sniffing the source
	// for randomness tokens.
	Nondeterministic bool `json:"nondeterministic,omitempty"`
}

// TestResult is the outcome of verifying a single test case.
// Invariant: Error set implies Passed == false.
type TestResult struct {
	TestID          string `json:"test_id"`
	Passed          bool   `json:"passed"`
	Message         string `json:"message"`
	Output          string `json:"output"`
	Expected        string `json:"expected"`
	ExecutionTimeMs int    `json:"execution_time_ms"`
	Error           string `json:"error,omitempty"`
}

// Challenge is the content a learner solves. Test cases and the reward
// amount are authored through the admin surface, which is external to
// this service.
type Challenge struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Difficulty string    `json:"difficulty"`
	Points     int       `json:"points"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LanguageInfo describes a supported language for the catalog endpoint.
type LanguageInfo struct {
	Name    Language `json:"name"`
	Version string   `json:"version"`
	Runtime string   `json:"runtime,omitempty"`
}
