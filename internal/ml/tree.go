package ml

import (
	"fmt"
)

const TREE_LEAF = -1

// DecisionTree is a fitted classification tree stored as parallel node
// arrays. Node 0 is the root; a node is a leaf when both children are
// TREE_LEAF. Value holds the per-class training weight reaching each node.
type DecisionTree struct {
	Classes       []int       `json:"classes,omitempty"`
	NFeatures     int         `json:"n_features,omitempty"`
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`

	proba [][]float64
}

func (t *DecisionTree) validate() error {
	if len(t.Classes) == 0 {
		return fmt.Errorf("%w: decision tree has no classes", ErrInvalidModel)
	}
	if t.NFeatures <= 0 {
		return fmt.Errorf("%w: decision tree has no features", ErrInvalidModel)
	}
	return t.compile(len(t.Classes), t.NFeatures)
}

// compile checks the node arrays and precomputes the normalized class
// distribution of every leaf.
func (t *DecisionTree) compile(nClasses, nFeatures int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("%w: tree has no nodes", ErrInvalidModel)
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("%w: tree node arrays have different lengths", ErrInvalidModel)
	}

	proba := make([][]float64, n)
	for node := 0; node < n; node++ {
		left, right := t.ChildrenLeft[node], t.ChildrenRight[node]
		if (left == TREE_LEAF) != (right == TREE_LEAF) {
			return fmt.Errorf("%w: node %d has exactly one child", ErrInvalidModel, node)
		}

		if left != TREE_LEAF {
			// children always come after their parent, which also rules out cycles
			if left <= node || left >= n || right <= node || right >= n {
				return fmt.Errorf("%w: node %d has out of range children (%d, %d)", ErrInvalidModel, node, left, right)
			}
			if f := t.Feature[node]; f < 0 || f >= nFeatures {
				return fmt.Errorf("%w: node %d splits on feature %d outside [0,%d)", ErrInvalidModel, node, f, nFeatures)
			}
			continue
		}

		if len(t.Value[node]) != nClasses {
			return fmt.Errorf("%w: leaf %d has %d class weights, want %d", ErrInvalidModel, node, len(t.Value[node]), nClasses)
		}
		var total float64
		for _, w := range t.Value[node] {
			if w < 0 {
				return fmt.Errorf("%w: leaf %d has a negative class weight", ErrInvalidModel, node)
			}
			total += w
		}
		if total == 0 {
			return fmt.Errorf("%w: leaf %d has no class weight", ErrInvalidModel, node)
		}
		dist := make([]float64, nClasses)
		for c, w := range t.Value[node] {
			dist[c] = w / total
		}
		proba[node] = dist
	}

	t.proba = proba
	return nil
}

// leafProba walks the tree and returns the class distribution of the leaf
// the sample falls into.
func (t *DecisionTree) leafProba(features []float64) ([]float64, error) {
	if t.proba == nil {
		return nil, ErrNotFitted
	}
	node := 0
	for t.ChildrenLeft[node] != TREE_LEAF {
		if features[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.proba[node], nil
}

func (t *DecisionTree) Kind() string {
	return KIND_DECISION_TREE
}

func (t *DecisionTree) NumFeatures() int {
	return t.NFeatures
}

func (t *DecisionTree) Predict(features []float64) (int, error) {
	if len(features) != t.NFeatures {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrDimensionMismatch, len(features), t.NFeatures)
	}
	dist, err := t.leafProba(features)
	if err != nil {
		return 0, err
	}
	return t.Classes[argmax(dist)], nil
}

// RandomForest averages the leaf distributions of its trees and predicts the
// most probable class.
type RandomForest struct {
	Classes    []int          `json:"classes"`
	NFeatures  int            `json:"n_features"`
	Estimators []DecisionTree `json:"estimators"`
}

func NewRandomForest(classes []int, nFeatures int, estimators []DecisionTree) (*RandomForest, error) {
	rf := &RandomForest{
		Classes:    classes,
		NFeatures:  nFeatures,
		Estimators: estimators,
	}
	if err := rf.validate(); err != nil {
		return nil, err
	}
	return rf, nil
}

func (rf *RandomForest) validate() error {
	if len(rf.Classes) == 0 {
		return fmt.Errorf("%w: random forest has no classes", ErrInvalidModel)
	}
	if rf.NFeatures <= 0 {
		return fmt.Errorf("%w: random forest has no features", ErrInvalidModel)
	}
	if len(rf.Estimators) == 0 {
		return fmt.Errorf("%w: random forest has no estimators", ErrInvalidModel)
	}
	for i := range rf.Estimators {
		if err := rf.Estimators[i].compile(len(rf.Classes), rf.NFeatures); err != nil {
			return fmt.Errorf("estimator %d: %w", i, err)
		}
	}
	return nil
}

func (rf *RandomForest) Kind() string {
	return KIND_RANDOM_FOREST
}

func (rf *RandomForest) NumFeatures() int {
	return rf.NFeatures
}

func (rf *RandomForest) Predict(features []float64) (int, error) {
	if len(rf.Estimators) == 0 {
		return 0, ErrNotFitted
	}
	if len(features) != rf.NFeatures {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrDimensionMismatch, len(features), rf.NFeatures)
	}

	mean := make([]float64, len(rf.Classes))
	for i := range rf.Estimators {
		dist, err := rf.Estimators[i].leafProba(features)
		if err != nil {
			return 0, fmt.Errorf("estimator %d: %w", i, err)
		}
		for c, p := range dist {
			mean[c] += p
		}
	}
	for c := range mean {
		mean[c] /= float64(len(rf.Estimators))
	}
	return rf.Classes[argmax(mean)], nil
}

func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}
