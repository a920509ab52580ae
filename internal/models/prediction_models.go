package models

// Prediction is a single classifier's verdict for one request.
type Prediction struct {
	Classifier string         `json:"classifier"`
	Label      SentimentLabel `json:"-"`
	LabelName  string         `json:"label"`
	Code       int            `json:"code"`
}

func NewPrediction(classifier string, label SentimentLabel) Prediction {
	return Prediction{
		Classifier: classifier,
		Label:      label,
		LabelName:  label.String(),
		Code:       label.Code(),
	}
}

type BaselineScore struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

type AnalyzeRequest struct {
	Text string `json:"text"`
}

type AnalyzeResponse struct {
	Outputs     []string       `json:"outputs"`
	Predictions []Prediction   `json:"predictions,omitempty"`
	Error       string         `json:"error,omitempty"`
	Baseline    *BaselineScore `json:"baseline,omitempty"`
}
