package ml

import (
	"encoding/json"
	"fmt"
)

const (
	ARTIFACT_VERSION = 1

	KIND_TFIDF          = "tfidf"
	KIND_MULTINOMIAL_NB = "multinomial_nb"
	KIND_DECISION_TREE  = "decision_tree"
	KIND_RANDOM_FOREST  = "random_forest"
)

// Classifier scores a feature vector and returns the raw class code the model
// was fitted with.
type Classifier interface {
	Predict(features []float64) (int, error)
	NumFeatures() int
	Kind() string
}

type envelope struct {
	Kind    string `json:"kind"`
	Version int    `json:"version"`
}

type classifierDecoder func(data []byte) (Classifier, error)

var classifierDecoders = map[string]classifierDecoder{
	KIND_MULTINOMIAL_NB: func(data []byte) (Classifier, error) {
		var nb MultinomialNB
		if err := json.Unmarshal(data, &nb); err != nil {
			return nil, err
		}
		return &nb, nb.validate()
	},
	KIND_DECISION_TREE: func(data []byte) (Classifier, error) {
		var tree DecisionTree
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
		return &tree, tree.validate()
	},
	KIND_RANDOM_FOREST: func(data []byte) (Classifier, error) {
		var rf RandomForest
		if err := json.Unmarshal(data, &rf); err != nil {
			return nil, err
		}
		return &rf, rf.validate()
	},
}

func readEnvelope(data []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("failed to decode artifact header: %w", err)
	}
	if env.Version != 0 && env.Version != ARTIFACT_VERSION {
		return env, fmt.Errorf("%w: unsupported artifact version %d", ErrInvalidModel, env.Version)
	}
	return env, nil
}

// DecodeVectorizer decodes and validates a fitted TF-IDF artifact.
func DecodeVectorizer(data []byte) (*TFIDF, error) {
	env, err := readEnvelope(data)
	if err != nil {
		return nil, err
	}
	if env.Kind != KIND_TFIDF {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrUnknownKind, KIND_TFIDF, env.Kind)
	}

	var v TFIDF
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s artifact: %w", env.Kind, err)
	}
	if err := v.compile(); err != nil {
		return nil, err
	}
	return &v, nil
}

// DecodeClassifier dispatches on the artifact kind and returns a validated
// classifier.
func DecodeClassifier(data []byte) (Classifier, error) {
	env, err := readEnvelope(data)
	if err != nil {
		return nil, err
	}

	decode, ok := classifierDecoders[env.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}

	c, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s artifact: %w", env.Kind, err)
	}
	return c, nil
}
