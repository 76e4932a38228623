package v1

import (
	"math"
	"regexp"
	"strconv"
)

// Scorer derives the recorded score from an examiner evaluation.
type Scorer interface {
	Score(evaluation string) int
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(evaluation string) int

func (f ScorerFunc) Score(evaluation string) int { return f(evaluation) }

const (
	// defaultOutOf is the scale the examiner prompt asks for.
	defaultOutOf = 5
	// maxOutOf bounds the denominators accepted from free text.
	maxOutOf = 100
)

var (
	// "Marks: 3/5", "Mark awarded - 4", "Score = 2 out of 5"
	markLabelRe = regexp.MustCompile(`(?i)(?:marks?(?:\s+awarded)?|score)\s*[:=\-]\s*(\d+(?:\.\d+)?)(?:\s*(?:/|out\s+of)\s*(\d+(?:\.\d+)?))?`)
	// "3/5", "3.5 / 5", "3 out of 5"
	markOutOfRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:/|out\s+of)\s*(\d+(?:\.\d+)?)`)
)

// MarkScorer reads the mark the examiner gave from the evaluation text,
// rounding half marks up. A labelled mark ("Marks: 3/5", "Marks: 3") wins
// over any bare fraction; a bare fraction ("3/5") is used only when no label
// is present. Marks outside [0, out-of] are discarded, the out-of being 5
// when the text gives none. Default is used when no usable mark is found.
type MarkScorer struct {
	Default int
}

// Score implements Scorer.
func (s MarkScorer) Score(evaluation string) int {
	if m := markLabelRe.FindStringSubmatch(evaluation); m != nil {
		if mark, ok := boundedMark(m[1], m[2]); ok {
			return mark
		}
		return s.Default
	}
	for _, m := range markOutOfRe.FindAllStringSubmatch(evaluation, -1) {
		if mark, ok := boundedMark(m[1], m[2]); ok {
			return mark
		}
	}
	return s.Default
}

func boundedMark(rawGot, rawOutOf string) (int, bool) {
	got, err := strconv.ParseFloat(rawGot, 64)
	if err != nil {
		return 0, false
	}
	outOf := float64(defaultOutOf)
	if rawOutOf != "" {
		if outOf, err = strconv.ParseFloat(rawOutOf, 64); err != nil {
			return 0, false
		}
	}
	if outOf <= 0 || outOf > maxOutOf || got < 0 || got > outOf {
		return 0, false
	}
	return int(math.Round(got)), true
}
