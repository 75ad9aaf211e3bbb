package verifier

import (
	"strings"

	"github.com/codequest-labs/codequest-engine/internal/domain"
)

// Comparator decides whether an actual program output satisfies the
// expected output of a test case. Both inputs arrive pre-trimmed.
type Comparator interface {
	Match(actual, expected string) bool
}

// NormalizeOutput canonicalizes program output for strict comparison:
// lowercase, CRLF converted to LF, then every run of whitespace collapsed
// to a single space.
func NormalizeOutput(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Join(strings.Fields(s), " ")
}

// StrictComparator passes only on normalized-string equality.
type StrictComparator struct{}

func (StrictComparator) Match(actual, expected string) bool {
	return NormalizeOutput(actual) == NormalizeOutput(expected)
}

// TolerantComparator accepts any plausible playout of a randomized
// "choice vs. computer, with a score" program. It is a narrow heuristic
// tied to that challenge shape, not a general randomness-tolerant match.
type TolerantComparator struct{}

// requiredPhrases must all appear (case-insensitively) in the actual output.
var requiredPhrases = []string{"choose", "you chose", "computer chose", "score"}

// outcomeWords: at least one must appear in the actual output.
var outcomeWords = []string{"win", "lose", "tie"}

// maxLineCountDrift bounds the relative difference in non-blank line
// counts between actual and expected output.
const maxLineCountDrift = 0.5

func (TolerantComparator) Match(actual, expected string) bool {
	lower := strings.ToLower(actual)

	for _, phrase := range requiredPhrases {
		if !strings.Contains(lower, phrase) {
			return false
		}
	}

	hasOutcome := false
	for _, word := range outcomeWords {
		if strings.Contains(lower, word) {
			hasOutcome = true
			break
		}
	}
	if !hasOutcome {
		return false
	}

	actualLines := countNonBlankLines(actual)
	expectedLines := countNonBlankLines(expected)
	larger := actualLines
	if expectedLines > larger {
		larger = expectedLines
	}
	if larger == 0 {
		return true
	}
	drift := float64(abs(actualLines-expectedLines)) / float64(larger)
	return drift <= maxLineCountDrift
}

func countNonBlankLines(s string) int {
	count := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// UsesRandomness sniffs the submitted source for randomness tokens. Kept
// as a fallback for challenges without an explicit nondeterministic flag.
func UsesRandomness(code string, lang domain.Language) bool {
	lower := strings.ToLower(code)
	if strings.Contains(lower, "random") {
		return true
	}
	switch lang {
	case domain.LangPython:
		return strings.Contains(lower, "randint")
	case domain.LangJavaScript:
		return strings.Contains(lower, "math.random")
	}
	return false
}

// ComparatorFor selects the comparator once per submission: the explicit
// request flag wins, source sniffing is the fallback.
func ComparatorFor(req *domain.ExecutionRequest) Comparator {
	if req.Nondeterministic || UsesRandomness(req.Code, req.Language) {
		return TolerantComparator{}
	}
	return StrictComparator{}
}
