package artifacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spacesedan/sentidash/internal/ml"
	"github.com/spacesedan/sentidash/internal/pipeline"
)

var ErrDimensionMismatch = errors.New("classifier and vectorizer disagree on feature count")

type LoadedClassifier struct {
	Name  string
	Model ml.Classifier
}

// ModelSet is the immutable set of fitted models the service runs with.
type ModelSet struct {
	Vectorizer  *ml.TFIDF
	Classifiers []LoadedClassifier
}

// Load fetches and decodes every artifact in the manifest concurrently. Any
// failure, including a feature-count mismatch, fails the whole load.
func Load(ctx context.Context, f *Fetcher, m *Manifest) (*ModelSet, error) {
	start := time.Now()
	set := &ModelSet{Classifiers: make([]LoadedClassifier, len(m.Classifiers))}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := f.Fetch(gctx, m.Vectorizer.Location)
		if err != nil {
			return fmt.Errorf("vectorizer: %w", err)
		}
		v, err := ml.DecodeVectorizer(data)
		if err != nil {
			return fmt.Errorf("vectorizer %s: %w", m.Vectorizer.Location, err)
		}
		set.Vectorizer = v
		return nil
	})

	for i, ref := range m.Classifiers {
		g.Go(func() error {
			data, err := f.Fetch(gctx, ref.Location)
			if err != nil {
				return fmt.Errorf("classifier %q: %w", ref.Name, err)
			}
			c, err := ml.DecodeClassifier(data)
			if err != nil {
				return fmt.Errorf("classifier %q (%s): %w", ref.Name, ref.Location, err)
			}
			set.Classifiers[i] = LoadedClassifier{Name: ref.Name, Model: c}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("[Artifacts] Failed to load models",
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := set.validate(); err != nil {
		return nil, err
	}

	slog.Info("[Artifacts] Models loaded",
		slog.Int("features", set.Vectorizer.Dimension()),
		slog.Int("classifiers", len(set.Classifiers)),
		slog.Duration("elapsed", time.Since(start)))
	return set, nil
}

func (s *ModelSet) validate() error {
	dim := s.Vectorizer.Dimension()
	for _, c := range s.Classifiers {
		if c.Model.NumFeatures() != dim {
			return fmt.Errorf("%w: %q expects %d features, vectorizer produces %d",
				ErrDimensionMismatch, c.Name, c.Model.NumFeatures(), dim)
		}
	}
	return nil
}

// Pipeline wires the loaded models into an inference pipeline.
func (s *ModelSet) Pipeline() (*pipeline.Pipeline, error) {
	named := make([]pipeline.NamedClassifier, len(s.Classifiers))
	for i, c := range s.Classifiers {
		named[i] = pipeline.NamedClassifier{Name: c.Name, Model: c.Model}
	}
	return pipeline.New(s.Vectorizer, named...)
}
