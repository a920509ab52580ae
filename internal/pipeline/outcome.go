package pipeline

import (
	"fmt"

	"github.com/spacesedan/sentidash/internal/models"
)

// Outcome is the result of one Analyze call: idle, a prediction per
// classifier, or a single error.
type Outcome struct {
	Predictions []models.Prediction
	Err         error

	slots int
}

func (o Outcome) Idle() bool {
	return o.Err == nil && o.Predictions == nil
}

// Outputs renders one display string per classifier slot. An error is shown
// in the first slot only and every other slot is left blank.
func (o Outcome) Outputs() []string {
	out := make([]string, o.slots)
	switch {
	case o.Err != nil:
		if len(out) > 0 {
			out[0] = "Error: " + o.Err.Error()
		}
	case o.Predictions != nil:
		for i, p := range o.Predictions {
			if i < len(out) {
				out[i] = FormatPrediction(p)
			}
		}
	}
	return out
}

func FormatPrediction(p models.Prediction) string {
	return fmt.Sprintf("%s Sentiment: %s", p.Classifier, p.Label)
}
