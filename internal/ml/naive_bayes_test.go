package ml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/sentidash/internal/ml"
	"github.com/spacesedan/sentidash/internal/ml/mltest"
)

func TestMultinomialNB_Predict(t *testing.T) {
	v := mltest.DemoVectorizer()
	nb := mltest.DemoNaiveBayes()

	tests := []struct {
		text string
		want int
	}{
		{"I love this product", 2},
		{"I hate this product", 0},
		{"this product is fine", 1},
		{"great and excellent", 2},
		{"awful, terrible", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			vec, err := v.Transform(tt.text)
			require.NoError(t, err)

			got, err := nb.Predict(vec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMultinomialNB_ZeroVectorFallsBackToPrior(t *testing.T) {
	nb, err := ml.NewMultinomialNB([]int{0, 1, 2}, []float64{-2, -0.5, -1}, [][]float64{{-1}, {-1}, {-1}})
	require.NoError(t, err)

	got, err := nb.Predict([]float64{0})
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestMultinomialNB_TieGoesToFirstClass(t *testing.T) {
	got, err := mltest.DemoNaiveBayes().Predict(make([]float64, len(mltest.DemoIDF)))
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestMultinomialNB_ReturnsFittedClassCodes(t *testing.T) {
	nb, err := ml.NewMultinomialNB([]int{7, 9}, []float64{-1, -1}, [][]float64{{-3}, {-1}})
	require.NoError(t, err)

	got, err := nb.Predict([]float64{1})
	require.NoError(t, err)
	assert.Equal(t, 9, got)
}

func TestMultinomialNB_DimensionMismatch(t *testing.T) {
	_, err := mltest.DemoNaiveBayes().Predict([]float64{1, 2})
	assert.ErrorIs(t, err, ml.ErrDimensionMismatch)
}

func TestMultinomialNB_Invalid(t *testing.T) {
	_, err := ml.NewMultinomialNB(nil, nil, nil)
	assert.ErrorIs(t, err, ml.ErrInvalidModel)

	_, err = ml.NewMultinomialNB([]int{0, 1}, []float64{-1}, [][]float64{{-1}, {-1}})
	assert.ErrorIs(t, err, ml.ErrInvalidModel)

	_, err = ml.NewMultinomialNB([]int{0, 1}, []float64{-1, -1}, [][]float64{{-1, -1}, {-1}})
	assert.ErrorIs(t, err, ml.ErrInvalidModel)
}

func TestMultinomialNB_UnfittedFails(t *testing.T) {
	var nb ml.MultinomialNB
	_, err := nb.Predict([]float64{1})
	assert.ErrorIs(t, err, ml.ErrNotFitted)
}
