package classify

import (
	"fmt"
	"math"
	"strings"
)

// LabelScore pairs a label with the raw engine score for it.
type LabelScore struct {
	Label string  `json:"label"`
	Score float32 `json:"score"`
}

// Result is the top-1 classification and its display text.
type Result struct {
	TopLabel   string       `json:"label"`
	TopIndex   int          `json:"index"`
	Confidence float32      `json:"confidence"`
	Text       string       `json:"report"`
	Scores     []LabelScore `json:"predictions"`
}

// Reporter turns a confidence vector into a Result.
//
// With ZeroFloor set the running maximum starts at 0, so a vector with no
// positive score always reports the first label. This matches the
// behaviour of the mobile client. Without it the running maximum starts at
// -Inf and the true argmax is reported.
type Reporter struct {
	ZeroFloor bool
}

// DefaultReporter keeps parity with the mobile client.
var DefaultReporter = Reporter{ZeroFloor: true}

// Report runs DefaultReporter.
func Report(scores []float32, labels []string) (Result, error) {
	return DefaultReporter.Report(scores, labels)
}

// Report selects the highest score (first wins on ties) and renders one
// "<label>: <pct>%" line per label, in label order.
func (r Reporter) Report(scores []float32, labels []string) (Result, error) {
	if len(labels) == 0 {
		return Result{}, invalidf("at least one label is required")
	}
	if len(scores) != len(labels) {
		return Result{}, invalidf("got %d scores for %d labels", len(scores), len(labels))
	}

	maxVal := float32(math.Inf(-1))
	if r.ZeroFloor {
		maxVal = 0
	}
	maxIdx := 0
	for i, s := range scores {
		if s > maxVal {
			maxVal = s
			maxIdx = i
		}
	}

	var sb strings.Builder
	per := make([]LabelScore, len(labels))
	for i, label := range labels {
		fmt.Fprintf(&sb, "%s: %.1f%%\n", label, scores[i]*100)
		per[i] = LabelScore{Label: label, Score: scores[i]}
	}

	return Result{
		TopLabel:   labels[maxIdx],
		TopIndex:   maxIdx,
		Confidence: scores[maxIdx],
		Text:       sb.String(),
		Scores:     per,
	}, nil
}
