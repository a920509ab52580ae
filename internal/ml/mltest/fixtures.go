// Package mltest provides a tiny fitted model set for tests. The same
// parameters are shipped as JSON artifacts under models/ for local runs.
package mltest

import (
	"math"

	"github.com/spacesedan/sentidash/internal/ml"
)

var DemoVocabulary = map[string]int{
	"awful":     0,
	"bad":       1,
	"excellent": 2,
	"fine":      3,
	"good":      4,
	"great":     5,
	"hate":      6,
	"love":      7,
	"okay":      8,
	"product":   9,
	"terrible":  10,
	"this":      11,
}

var DemoIDF = []float64{2.0, 1.8, 2.2, 1.9, 1.6, 1.7, 2.0, 2.0, 1.9, 1.2, 2.1, 1.1}

var DemoClasses = []int{0, 1, 2}

func DemoVectorizer() *ml.TFIDF {
	v, err := ml.NewTFIDF(DemoVocabulary, DemoIDF)
	if err != nil {
		panic(err)
	}
	return v
}

func DemoNaiveBayes() *ml.MultinomialNB {
	prior := math.Log(1.0 / 3.0)
	nb, err := ml.NewMultinomialNB(DemoClasses,
		[]float64{prior, prior, prior},
		[][]float64{
			{-1.5, -1.5, -3.5, -3.5, -3.5, -3.5, -1.5, -3.5, -3.5, -2.5, -1.5, -2.5},
			{-3.5, -3.5, -3.5, -1.5, -3.5, -3.5, -3.5, -3.5, -1.5, -2.5, -3.5, -2.5},
			{-3.5, -3.5, -1.5, -3.5, -1.5, -1.5, -3.5, -1.5, -3.5, -2.5, -3.5, -2.5},
		})
	if err != nil {
		panic(err)
	}
	return nb
}

// DemoRandomForest has two stumps-of-stumps: one splitting on "love" then
// "hate", the other on "good" then "terrible".
func DemoRandomForest() *ml.RandomForest {
	rf, err := ml.NewRandomForest(DemoClasses, len(DemoIDF), []ml.DecisionTree{
		{
			ChildrenLeft:  []int{1, 3, -1, -1, -1},
			ChildrenRight: []int{2, 4, -1, -1, -1},
			Feature:       []int{7, 6, -2, -2, -2},
			Threshold:     []float64{0.1, 0.1, -2, -2, -2},
			Value:         [][]float64{{11, 3, 11}, {6, 3, 1}, {0, 0, 5}, {1, 3, 1}, {5, 0, 0}},
		},
		{
			ChildrenLeft:  []int{1, 3, -1, -1, -1},
			ChildrenRight: []int{2, 4, -1, -1, -1},
			Feature:       []int{4, 10, -2, -2, -2},
			Threshold:     []float64{0.1, 0.1, -2, -2, -2},
			Value:         [][]float64{{5, 4, 5}, {5, 3, 1}, {0, 1, 4}, {1, 2, 1}, {4, 1, 0}},
		},
	})
	if err != nil {
		panic(err)
	}
	return rf
}
