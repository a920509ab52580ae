package artifacts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/sentidash/internal/ml"
	"github.com/spacesedan/sentidash/internal/ml/mltest"
)

func testManifest(nb, rf string) *Manifest {
	return &Manifest{
		Vectorizer: Ref{Name: "TF-IDF", Location: "testdata/tfidf_vectorizer.json"},
		Classifiers: []Ref{
			{Name: "Naive Bayes", Location: nb},
			{Name: "Random Forest", Location: rf},
		},
	}
}

func TestLoad_MatchesFixtureModels(t *testing.T) {
	m, err := LoadManifest("testdata/manifest.yaml")
	require.NoError(t, err)

	set, err := Load(context.Background(), NewFetcher(), m)
	require.NoError(t, err)

	require.Len(t, set.Classifiers, 2)
	assert.Equal(t, "Naive Bayes", set.Classifiers[0].Name)
	assert.Equal(t, ml.KIND_MULTINOMIAL_NB, set.Classifiers[0].Model.Kind())
	assert.Equal(t, "Random Forest", set.Classifiers[1].Name)
	assert.Equal(t, ml.KIND_RANDOM_FOREST, set.Classifiers[1].Model.Kind())

	fixtures := []ml.Classifier{mltest.DemoNaiveBayes(), mltest.DemoRandomForest()}
	for _, text := range []string{"I love this product", "I hate this product", "okay fine", "zzqx", "good"} {
		got, err := set.Vectorizer.Transform(text)
		require.NoError(t, err)
		want, err := mltest.DemoVectorizer().Transform(text)
		require.NoError(t, err)
		assert.InDeltaSlice(t, want, got, 1e-12)

		for i, c := range set.Classifiers {
			gotCode, err := c.Model.Predict(got)
			require.NoError(t, err)
			wantCode, err := fixtures[i].Predict(want)
			require.NoError(t, err)
			assert.Equal(t, wantCode, gotCode, "%s on %q", c.Name, text)
		}
	}
}

func TestLoad_ShippedManifest(t *testing.T) {
	t.Chdir("../..")

	m, err := LoadManifest("config/models.yaml")
	require.NoError(t, err)

	set, err := Load(context.Background(), NewFetcher(), m)
	require.NoError(t, err)

	p, err := set.Pipeline()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Naive Bayes Sentiment: Positive",
		"Random Forest Sentiment: Positive",
	}, p.Analyze("I love this product", 1).Outputs())
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name string
		m    *Manifest
		want error
	}{
		{
			name: "missing file",
			m:    testManifest("testdata/missing.json", "testdata/random_forest_model.json"),
			want: os.ErrNotExist,
		},
		{
			name: "corrupt artifact",
			m:    testManifest("testdata/naive_bayes_model.json", "testdata/corrupt_forest.json"),
		},
		{
			name: "wrong kind for vectorizer",
			m: &Manifest{
				Vectorizer:  Ref{Location: "testdata/naive_bayes_model.json"},
				Classifiers: []Ref{{Name: "Naive Bayes", Location: "testdata/naive_bayes_model.json"}},
			},
			want: ml.ErrUnknownKind,
		},
		{
			name: "feature count mismatch",
			m:    testManifest("testdata/naive_bayes_short.json", "testdata/random_forest_model.json"),
			want: ErrDimensionMismatch,
		},
		{
			name: "no source for scheme",
			m:    testManifest("valkey://nb", "testdata/random_forest_model.json"),
			want: ErrUnsupportedScheme,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Load(context.Background(), NewFetcher(), tt.m)
			require.Error(t, err)
			assert.Nil(t, set)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestLoad_CustomSource(t *testing.T) {
	nb, err := os.ReadFile("testdata/naive_bayes_model.json")
	require.NoError(t, err)

	var asked []string
	f := NewFetcher()
	f.Register(SCHEME_VALKEY, SourceFunc(func(_ context.Context, loc Location) ([]byte, error) {
		asked = append(asked, loc.Path)
		if loc.Path != "sentidash:nb" {
			return nil, errors.New("no such key")
		}
		return nb, nil
	}))

	set, err := Load(context.Background(), f, testManifest("valkey://sentidash:nb", "testdata/random_forest_model.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"sentidash:nb"}, asked)
	assert.Equal(t, ml.KIND_MULTINOMIAL_NB, set.Classifiers[0].Model.Kind())
}

func TestNewFetcherForManifest_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.FileServer(http.Dir("testdata")))
	defer srv.Close()

	m := testManifest(srv.URL+"/naive_bayes_model.json", srv.URL+"/random_forest_model.json")
	f, err := NewFetcherForManifest(context.Background(), m, SourceOptions{HTTPTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer f.Close()

	set, err := Load(context.Background(), f, m)
	require.NoError(t, err)
	assert.Len(t, set.Classifiers, 2)
}

func TestNewFetcherForManifest_ValkeyUnreachable(t *testing.T) {
	m := testManifest("valkey://nb", "testdata/random_forest_model.json")

	_, err := NewFetcherForManifest(context.Background(), m, SourceOptions{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "VALKEY_INIT_ADDRESS"), err.Error())
}

func TestLoadPipeline(t *testing.T) {
	p, err := LoadPipeline(context.Background(), "testdata/manifest.yaml", SourceOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Naive Bayes", "Random Forest"}, p.ClassifierNames())
	assert.Equal(t,
		[]string{"Naive Bayes Sentiment: Positive", "Random Forest Sentiment: Positive"},
		p.Analyze("I love this product", 1).Outputs())
}

func TestLoadPipeline_MissingManifest(t *testing.T) {
	_, err := LoadPipeline(context.Background(), "testdata/nope.yaml", SourceOptions{})
	assert.Error(t, err)
}
