package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/spacesedan/sentidash/internal/ml"
	"github.com/spacesedan/sentidash/internal/ml/mltest"
	"github.com/spacesedan/sentidash/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var outputPattern = regexp.MustCompile(`^(Naive Bayes|Random Forest) Sentiment: (Negative|Neutral|Positive)$`)

func newDemoPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(mltest.DemoVectorizer(),
		NamedClassifier{Name: "Naive Bayes", Model: mltest.DemoNaiveBayes()},
		NamedClassifier{Name: "Random Forest", Model: mltest.DemoRandomForest()},
	)
	require.NoError(t, err)
	return p
}

type failingVectorizer struct{ err error }

func (f failingVectorizer) Transform(string) ([]float64, error) { return nil, f.err }
func (f failingVectorizer) Dimension() int                      { return 1 }

type fixedClassifier struct{ code int }

func (f fixedClassifier) Predict([]float64) (int, error) { return f.code, nil }

type panickingClassifier struct{}

func (panickingClassifier) Predict(features []float64) (int, error) {
	_ = features[len(features)+1]
	return 0, nil
}

func TestAnalyze_IdleWithoutTriggerOrText(t *testing.T) {
	p := newDemoPipeline(t)

	tests := []struct {
		name     string
		text     string
		triggers int
	}{
		{"no trigger", "I love this product", 0},
		{"negative trigger count", "I love this product", -1},
		{"empty text", "", 1},
		{"empty text no trigger", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := p.Analyze(tt.text, tt.triggers)

			assert.True(t, out.Idle())
			assert.Equal(t, []string{"", ""}, out.Outputs())
		})
	}
}

func TestAnalyze_IdleEvenWithBrokenModels(t *testing.T) {
	p, err := New(failingVectorizer{err: errors.New("boom")},
		NamedClassifier{Name: "A", Model: fixedClassifier{code: 9}},
		NamedClassifier{Name: "B", Model: fixedClassifier{code: 9}},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"", ""}, p.Analyze("", 3).Outputs())
	assert.Equal(t, []string{"", ""}, p.Analyze("text", 0).Outputs())
}

func TestAnalyze_LovesProduct(t *testing.T) {
	out := newDemoPipeline(t).Analyze("I love this product", 1)

	require.NoError(t, out.Err)
	outputs := out.Outputs()
	require.Len(t, outputs, 2)
	for _, s := range outputs {
		assert.Regexp(t, outputPattern, s)
	}
	assert.Equal(t, []string{
		"Naive Bayes Sentiment: Positive",
		"Random Forest Sentiment: Positive",
	}, outputs)
}

func TestAnalyze_OutOfVocabularyText(t *testing.T) {
	out := newDemoPipeline(t).Analyze("gibberish zzqx qqzv", 1)

	require.NoError(t, out.Err)
	for _, s := range out.Outputs() {
		assert.Regexp(t, outputPattern, s)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	p := newDemoPipeline(t)

	for _, text := range []string{"I love this product", "awful", "zzqx", "This product is okay"} {
		first := p.Analyze(text, 1).Outputs()
		second := p.Analyze(text, 1).Outputs()
		third := p.Analyze(text, 7).Outputs()

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("repeat call for %q differs (-first +second):\n%s", text, diff)
		}
		if diff := cmp.Diff(first, third); diff != "" {
			t.Errorf("trigger count changed output for %q (-first +third):\n%s", text, diff)
		}
	}
}

func TestAnalyze_CaseInsensitive(t *testing.T) {
	p := newDemoPipeline(t)

	for _, text := range []string{"love", "Hate", "okay", "Great", "terrible", "zzqx"} {
		lower := p.Analyze(text, 1).Outputs()
		upper := p.Analyze(strings.ToUpper(text), 1).Outputs()
		assert.Equal(t, lower, upper, text)
	}
}

func TestAnalyze_LabelMapping(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Negative"},
		{1, "Neutral"},
		{2, "Positive"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p, err := New(mltest.DemoVectorizer(),
				NamedClassifier{Name: "A", Model: fixedClassifier{code: tt.code}},
				NamedClassifier{Name: "B", Model: fixedClassifier{code: tt.code}},
			)
			require.NoError(t, err)

			outputs := p.Analyze("anything", 1).Outputs()
			assert.Equal(t, "A Sentiment: "+tt.want, outputs[0])
			assert.Equal(t, "B Sentiment: "+tt.want, outputs[1])
		})
	}
}

func TestAnalyze_VectorizerFailure(t *testing.T) {
	p, err := New(failingVectorizer{err: errors.New("malformed vocabulary")},
		NamedClassifier{Name: "Naive Bayes", Model: mltest.DemoNaiveBayes()},
		NamedClassifier{Name: "Random Forest", Model: mltest.DemoRandomForest()},
	)
	require.NoError(t, err)

	out := p.Analyze("I love this product", 1)

	require.Error(t, out.Err)
	assert.False(t, out.Idle())
	outputs := out.Outputs()
	assert.True(t, strings.HasPrefix(outputs[0], "Error: "))
	assert.Equal(t, "Error: malformed vocabulary", outputs[0])
	assert.Equal(t, "", outputs[1])
}

func TestAnalyze_UnfittedVectorizer(t *testing.T) {
	p, err := New(&ml.TFIDF{},
		NamedClassifier{Name: "Naive Bayes", Model: mltest.DemoNaiveBayes()},
		NamedClassifier{Name: "Random Forest", Model: mltest.DemoRandomForest()},
	)
	require.NoError(t, err)

	outputs := p.Analyze("love", 1).Outputs()
	assert.Equal(t, "Error: "+ml.ErrNotFitted.Error(), outputs[0])
	assert.Equal(t, "", outputs[1])
}

func TestAnalyze_UnmappedLabelInSecondClassifier(t *testing.T) {
	p, err := New(mltest.DemoVectorizer(),
		NamedClassifier{Name: "A", Model: fixedClassifier{code: 2}},
		NamedClassifier{Name: "B", Model: fixedClassifier{code: 3}},
	)
	require.NoError(t, err)

	out := p.Analyze("love", 1)

	assert.ErrorIs(t, out.Err, models.ErrUnmappedLabel)
	assert.Equal(t, []string{"Error: unmapped sentiment label: 3", ""}, out.Outputs())
}

func TestAnalyze_DimensionMismatchIsRecoverable(t *testing.T) {
	v, err := ml.NewTFIDF(map[string]int{"love": 0}, []float64{1})
	require.NoError(t, err)

	p, err := New(v,
		NamedClassifier{Name: "Naive Bayes", Model: mltest.DemoNaiveBayes()},
		NamedClassifier{Name: "Random Forest", Model: mltest.DemoRandomForest()},
	)
	require.NoError(t, err)

	out := p.Analyze("love", 1)
	assert.ErrorIs(t, out.Err, ml.ErrDimensionMismatch)
	assert.Equal(t, "", out.Outputs()[1])

	// a failed request leaves nothing behind for the next one
	again := p.Analyze("love", 2)
	assert.Equal(t, out.Outputs(), again.Outputs())
}

func TestAnalyze_PanicInModelBecomesError(t *testing.T) {
	p, err := New(mltest.DemoVectorizer(),
		NamedClassifier{Name: "A", Model: panickingClassifier{}},
		NamedClassifier{Name: "B", Model: fixedClassifier{code: 1}},
	)
	require.NoError(t, err)

	outputs := p.Analyze("love", 1).Outputs()
	assert.True(t, strings.HasPrefix(outputs[0], "Error: "), outputs[0])
	assert.Equal(t, "", outputs[1])
}

func TestAnalyze_ConcurrentReadOnlyUse(t *testing.T) {
	p := newDemoPipeline(t)
	texts := []string{"I love this product", "I hate this product", "this is fine", "zzqx"}

	want := make(map[string][]string, len(texts))
	for _, text := range texts {
		want[text] = p.Analyze(text, 1).Outputs()
	}

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		text := texts[i%len(texts)]
		g.Go(func() error {
			for j := 0; j < 50; j++ {
				got := p.Analyze(text, 1).Outputs()
				if diff := cmp.Diff(want[text], got); diff != "" {
					return fmt.Errorf("concurrent output for %q differs:\n%s", text, diff)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, NamedClassifier{Name: "A", Model: fixedClassifier{}})
	assert.Error(t, err)

	_, err = New(mltest.DemoVectorizer())
	assert.ErrorIs(t, err, ErrNoClassifiers)

	_, err = New(mltest.DemoVectorizer(), NamedClassifier{Name: "A"})
	assert.Error(t, err)

	_, err = New(mltest.DemoVectorizer(), NamedClassifier{Model: fixedClassifier{}})
	assert.Error(t, err)
}

func TestClassifierNames(t *testing.T) {
	assert.Equal(t, []string{"Naive Bayes", "Random Forest"}, newDemoPipeline(t).ClassifierNames())
}
