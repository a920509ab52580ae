package sentiment

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"golang.org/x/net/html"

	"github.com/spacesedan/sentidash/internal/models"
)

// VADER compound scores at or beyond these bounds count as polarized.
const (
	POSITIVE_THRESHOLD = 0.20
	NEGATIVE_THRESHOLD = -0.20
)

var (
	analyzer    = govader.NewSentimentIntensityAnalyzer()
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(extractText(string(output))), " ")

	return RemoveLinks(plainText)
}

// extractText keeps only the text nodes of the rendered markup. Comments and
// attribute values never reach the analyzer.
func extractText(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return markup
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return sb.String()
}

// LabelForScore buckets a VADER compound score into a sentiment label.
func LabelForScore(score float64) models.SentimentLabel {
	switch {
	case score >= POSITIVE_THRESHOLD:
		return models.Positive
	case score <= NEGATIVE_THRESHOLD:
		return models.Negative
	default:
		return models.Neutral
	}
}

// AnalyzeWithVADER scores text with the lexicon-based analyzer. It is a
// reference point next to the fitted classifiers and never replaces them.
func AnalyzeWithVADER(text string) models.BaselineScore {
	plainText := ConvertMarkdownToText(text)

	score := analyzer.PolarityScores(plainText).Compound
	return models.BaselineScore{
		Score: score,
		Label: LabelForScore(score).String(),
	}
}
