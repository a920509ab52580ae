// Package pipeline runs one piece of user text through the shared vectorizer
// and every loaded classifier and formats the per-classifier output slots.
//
// A Pipeline is built once at startup from immutable models and is safe for
// concurrent use without locking.
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spacesedan/sentidash/internal/models"
)

// Vectorizer turns normalized text into a fixed-length feature vector.
type Vectorizer interface {
	Transform(text string) ([]float64, error)
	Dimension() int
}

// Classifier maps a feature vector onto a raw class code.
type Classifier interface {
	Predict(features []float64) (int, error)
}

// NamedClassifier pairs a classifier with the name shown in its output slot.
type NamedClassifier struct {
	Name  string
	Model Classifier
}

type Pipeline struct {
	vectorizer  Vectorizer
	classifiers []NamedClassifier
}

var ErrNoClassifiers = errors.New("pipeline needs at least one classifier")

func New(vectorizer Vectorizer, classifiers ...NamedClassifier) (*Pipeline, error) {
	if vectorizer == nil {
		return nil, errors.New("pipeline needs a vectorizer")
	}
	if len(classifiers) == 0 {
		return nil, ErrNoClassifiers
	}
	for i, c := range classifiers {
		if c.Model == nil {
			return nil, fmt.Errorf("classifier %d (%q) has no model", i, c.Name)
		}
		if c.Name == "" {
			return nil, fmt.Errorf("classifier %d has no name", i)
		}
	}

	return &Pipeline{
		vectorizer:  vectorizer,
		classifiers: append([]NamedClassifier(nil), classifiers...),
	}, nil
}

// ClassifierNames returns the slot names in output order.
func (p *Pipeline) ClassifierNames() []string {
	names := make([]string, len(p.classifiers))
	for i, c := range p.classifiers {
		names[i] = c.Name
	}
	return names
}

// Normalize is the only text preprocessing applied before vectorizing.
func Normalize(text string) string {
	return strings.ToLower(text)
}

// Analyze computes the outcome for text once the analyze action has fired at
// least once. It never returns an error directly: failures are carried in
// the Outcome.
func (p *Pipeline) Analyze(text string, triggers int) Outcome {
	out := Outcome{slots: len(p.classifiers)}
	if triggers <= 0 || text == "" {
		return out
	}

	predictions, err := p.predict(Normalize(text))
	if err != nil {
		out.Err = err
		return out
	}
	out.Predictions = predictions
	return out
}

func (p *Pipeline) predict(text string) (predictions []models.Prediction, err error) {
	// a corrupt model can index out of range; report it like any other failure
	defer func() {
		if r := recover(); r != nil {
			predictions = nil
			err = fmt.Errorf("%v", r)
		}
	}()

	features, err := p.vectorizer.Transform(text)
	if err != nil {
		return nil, err
	}

	predictions = make([]models.Prediction, 0, len(p.classifiers))
	for _, c := range p.classifiers {
		code, err := c.Model.Predict(features)
		if err != nil {
			return nil, err
		}
		label, err := models.LabelFromCode(code)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, models.NewPrediction(c.Name, label))
	}
	return predictions, nil
}
