package ml

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// DEFAULT_TOKEN_PATTERN matches runs of two or more word characters, the
// usual default for bag-of-words vectorizers.
const DEFAULT_TOKEN_PATTERN = `[\p{L}\p{N}_]{2,}`

const (
	NORM_L2   = "l2"
	NORM_L1   = "l1"
	NORM_NONE = "none"
)

// TFIDF is a fitted term-frequency/inverse-document-frequency vectorizer. The
// exported fields are the fitted parameters read from the artifact; the
// vectorizer is never refit.
type TFIDF struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	TokenPattern string         `json:"token_pattern,omitempty"`
	NgramRange   [2]int         `json:"ngram_range,omitempty"`
	StopWords    []string       `json:"stop_words,omitempty"`
	Norm         string         `json:"norm,omitempty"`
	UseIDF       *bool          `json:"use_idf,omitempty"`
	SublinearTF  bool           `json:"sublinear_tf,omitempty"`
	Binary       bool           `json:"binary,omitempty"`
	Lowercase    *bool          `json:"lowercase,omitempty"`

	pattern   *regexp.Regexp
	stopWords map[string]struct{}
	minN      int
	maxN      int
	useIDF    bool
	lowercase bool
}

// NewTFIDF builds a vectorizer from already fitted parameters using the
// default tokenization settings.
func NewTFIDF(vocabulary map[string]int, idf []float64) (*TFIDF, error) {
	v := &TFIDF{Vocabulary: vocabulary, IDF: idf}
	if err := v.compile(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *TFIDF) compile() error {
	if len(v.IDF) == 0 {
		return fmt.Errorf("%w: tfidf has an empty idf vector", ErrInvalidModel)
	}
	if len(v.Vocabulary) == 0 {
		return fmt.Errorf("%w: tfidf has an empty vocabulary", ErrInvalidModel)
	}
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return fmt.Errorf("%w: term %q maps to index %d outside [0,%d)", ErrInvalidModel, term, idx, len(v.IDF))
		}
	}

	pattern := v.TokenPattern
	if pattern == "" {
		pattern = DEFAULT_TOKEN_PATTERN
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("%w: bad token pattern: %v", ErrInvalidModel, err)
	}

	minN, maxN := v.NgramRange[0], v.NgramRange[1]
	if minN == 0 && maxN == 0 {
		minN, maxN = 1, 1
	}
	if minN < 1 || maxN < minN {
		return fmt.Errorf("%w: bad ngram range [%d, %d]", ErrInvalidModel, minN, maxN)
	}

	switch v.Norm {
	case "", NORM_L2, NORM_L1, NORM_NONE:
	default:
		return fmt.Errorf("%w: unknown norm %q", ErrInvalidModel, v.Norm)
	}

	stop := make(map[string]struct{}, len(v.StopWords))
	for _, w := range v.StopWords {
		stop[w] = struct{}{}
	}

	v.pattern = re
	v.stopWords = stop
	v.minN, v.maxN = minN, maxN
	v.useIDF = v.UseIDF == nil || *v.UseIDF
	v.lowercase = v.Lowercase == nil || *v.Lowercase
	return nil
}

func (v *TFIDF) Dimension() int {
	return len(v.IDF)
}

// Transform turns a document into a dense feature vector of length
// Dimension(). Documents made only of unknown terms produce the zero vector.
func (v *TFIDF) Transform(text string) ([]float64, error) {
	if v == nil || v.pattern == nil {
		return nil, ErrNotFitted
	}

	if v.lowercase {
		text = strings.ToLower(text)
	}

	var tokens []string
	for _, tok := range v.pattern.FindAllString(text, -1) {
		if _, stop := v.stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}

	counts := make(map[int]float64)
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			term := tokens[i]
			if n > 1 {
				term = strings.Join(tokens[i:i+n], " ")
			}
			if idx, ok := v.Vocabulary[term]; ok {
				counts[idx]++
			}
		}
	}

	vec := make([]float64, len(v.IDF))
	for idx, tf := range counts {
		if v.Binary {
			tf = 1
		}
		if v.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		if v.useIDF {
			tf *= v.IDF[idx]
		}
		vec[idx] = tf
	}

	normalize(vec, v.Norm)
	return vec, nil
}

func normalize(vec []float64, norm string) {
	var total float64
	switch norm {
	case NORM_NONE:
		return
	case NORM_L1:
		for _, x := range vec {
			total += math.Abs(x)
		}
	default:
		for _, x := range vec {
			total += x * x
		}
		total = math.Sqrt(total)
	}

	if total == 0 {
		return
	}
	for i := range vec {
		vec[i] /= total
	}
}
