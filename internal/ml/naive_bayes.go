package ml

import (
	"fmt"
	"math"
)

// MultinomialNB holds the fitted log priors and per-class feature log
// probabilities of a multinomial Naive Bayes model.
type MultinomialNB struct {
	Classes        []int       `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

func NewMultinomialNB(classes []int, classLogPrior []float64, featureLogProb [][]float64) (*MultinomialNB, error) {
	nb := &MultinomialNB{
		Classes:        classes,
		ClassLogPrior:  classLogPrior,
		FeatureLogProb: featureLogProb,
	}
	if err := nb.validate(); err != nil {
		return nil, err
	}
	return nb, nil
}

func (nb *MultinomialNB) validate() error {
	if len(nb.Classes) == 0 {
		return fmt.Errorf("%w: naive bayes has no classes", ErrInvalidModel)
	}
	if len(nb.ClassLogPrior) != len(nb.Classes) {
		return fmt.Errorf("%w: naive bayes has %d priors for %d classes", ErrInvalidModel, len(nb.ClassLogPrior), len(nb.Classes))
	}
	if len(nb.FeatureLogProb) != len(nb.Classes) {
		return fmt.Errorf("%w: naive bayes has %d feature rows for %d classes", ErrInvalidModel, len(nb.FeatureLogProb), len(nb.Classes))
	}
	width := len(nb.FeatureLogProb[0])
	if width == 0 {
		return fmt.Errorf("%w: naive bayes has no features", ErrInvalidModel)
	}
	for i, row := range nb.FeatureLogProb {
		if len(row) != width {
			return fmt.Errorf("%w: naive bayes feature row %d has %d columns, want %d", ErrInvalidModel, i, len(row), width)
		}
	}
	return nil
}

func (nb *MultinomialNB) Kind() string {
	return KIND_MULTINOMIAL_NB
}

func (nb *MultinomialNB) NumFeatures() int {
	if len(nb.FeatureLogProb) == 0 {
		return 0
	}
	return len(nb.FeatureLogProb[0])
}

// Predict returns the class with the highest joint log likelihood. Ties go
// to the class listed first.
func (nb *MultinomialNB) Predict(features []float64) (int, error) {
	if nb.NumFeatures() == 0 {
		return 0, ErrNotFitted
	}
	if len(features) != nb.NumFeatures() {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrDimensionMismatch, len(features), nb.NumFeatures())
	}

	best, bestScore := 0, math.Inf(-1)
	for c, row := range nb.FeatureLogProb {
		score := nb.ClassLogPrior[c]
		for j, x := range features {
			if x != 0 {
				score += x * row[j]
			}
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return nb.Classes[best], nil
}
