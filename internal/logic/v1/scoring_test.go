package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkScorer(t *testing.T) {
	s := MarkScorer{Default: -1}

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "slash", text: "Overall a fair attempt.\nMarks: 3/5", want: 3},
		{name: "half mark rounds up", text: "I award 3.5 / 5 for this answer", want: 4},
		{name: "out of", text: "This deserves 2 out of 5.", want: 2},
		{name: "label only", text: "Mark awarded - 4", want: 4},
		{name: "numerator above denominator ignored", text: "Section 143/5 applies. Score: 1", want: 1},
		{name: "no mark", text: "Please upload a clearer image.", want: -1},
		{name: "label wins over earlier fraction", text: "As per Section 2/3 of the Act the answer is incomplete.\nMarks: 1/5", want: 1},
		{name: "label without denominator", text: "Marks: 2.5", want: 3},
		{name: "label out of ten", text: "Score = 7 out of 10", want: 7},
		{name: "huge label rejected", text: "Marks: 99999999999999999999", want: -1},
		{name: "label above scale rejected", text: "Marks: 6", want: -1},
		{name: "label above own denominator rejected", text: "Marks: 9/5", want: -1},
		{name: "huge fraction rejected", text: "99999999999999999999/99999999999999999999", want: -1},
		{name: "bare fraction skips unusable ones", text: "Rule 9/2 applies, so 4/5 overall.", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(tt.text))
		})
	}
}

func TestScorerFunc(t *testing.T) {
	var s Scorer = ScorerFunc(func(string) int { return 7 })
	assert.Equal(t, 7, s.Score("anything"))
}
