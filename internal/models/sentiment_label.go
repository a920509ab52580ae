package models

import (
	"errors"
	"fmt"
)

// SentimentLabel is the polarity class predicted for a piece of text. The
// numeric values are the class codes the classifiers were trained on.
type SentimentLabel int

const (
	Negative SentimentLabel = 0
	Neutral  SentimentLabel = 1
	Positive SentimentLabel = 2
)

var ErrUnmappedLabel = errors.New("unmapped sentiment label")

var labelNames = map[SentimentLabel]string{
	Negative: "Negative",
	Neutral:  "Neutral",
	Positive: "Positive",
}

// LabelFromCode maps a raw classifier output onto a SentimentLabel.
func LabelFromCode(code int) (SentimentLabel, error) {
	label := SentimentLabel(code)
	if _, ok := labelNames[label]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnmappedLabel, code)
	}
	return label, nil
}

func (l SentimentLabel) String() string {
	if name, ok := labelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("SentimentLabel(%d)", int(l))
}

func (l SentimentLabel) Code() int {
	return int(l)
}
