// Package repair recovers structured (question, expected_answer) pairs from
// raw model responses, which are frequently malformed JSON. Every input,
// however broken, yields a usable pair; repair never fails.
package repair

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/interview-agent/internal/schemas"
)

// Pair is the recovered (question, expected answer) pair for one slot.
// ScoringNotes carries the optional scoring_criteria field some responses
// include; it is empty when the model omitted it.
type Pair struct {
	Question       string
	ExpectedAnswer string
	ScoringNotes   string
	// Parsed reports whether the structured parse succeeded. When false,
	// the whole cleaned text was used as the question; callers log the
	// condition for audit, it is not an error.
	Parsed bool
}

// step is one total, side-effect-free transformation of the raw text.
// Steps run in order and the pipeline short-circuits as soon as the text
// parses as a question-pair object, so later steps never disturb input an
// earlier step already fixed. New malformation patterns are handled by
// appending steps, not by widening existing ones.
type step struct {
	name  string
	apply func(string) string
}

var steps = []step{
	{"strip_fence", stripFence},
	{"trim_to_object", trimToObject},
	{"collapse_doubled_quotes", collapseDoubledQuotes},
	{"reattach_keyword_line", reattachKeywordLine},
}

// Repair runs the transformation pipeline over one raw model response.
func Repair(raw string) Pair {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Pair{}
	}

	if pair, ok := tryParse(text); ok {
		return pair
	}

	for _, s := range steps {
		text = s.apply(text)
		if pair, ok := tryParse(text); ok {
			return pair
		}
	}

	// Worst case: the whole cleaned text becomes the question.
	return Pair{Question: text}
}

// tryParse attempts a structured parse of the cleaned text. The schema check
// rejects objects whose fields have the wrong type; those fall through to
// the plain-text fallback instead of yielding garbage pairs.
func tryParse(text string) (Pair, bool) {
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return Pair{}, false
	}

	if err := schemas.ValidateQuestionPair([]byte(text)); err != nil {
		return Pair{}, false
	}

	var doc struct {
		Question       string `json:"question"`
		ExpectedAnswer string `json:"expected_answer"`
		ScoringNotes   string `json:"scoring_criteria"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return Pair{}, false
	}

	return Pair{
		Question:       doc.Question,
		ExpectedAnswer: doc.ExpectedAnswer,
		ScoringNotes:   doc.ScoringNotes,
		Parsed:         true,
	}, true
}
