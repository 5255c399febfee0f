package providers

import (
	"regexp"
	"strings"
)

// Sentiment labels the overall tone of a piece of market commentary.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentMixed    Sentiment = "mixed"
)

var positiveTerms = []string{
	"positive", "bullish", "optimistic", "upbeat", "growth",
	"gain", "increase", "up", "rally", "outperform",
}

var negativeTerms = []string{
	"negative", "bearish", "pessimistic", "downbeat", "decline",
	"loss", "decrease", "down", "fall", "underperform",
}

var (
	positivePattern = termPattern(positiveTerms)
	negativePattern = termPattern(negativeTerms)
)

func termPattern(terms []string) *regexp.Regexp {
	return regexp.MustCompile(`\b(` + strings.Join(terms, "|") + `)\b`)
}

// ExtractSentiment is a best-effort heuristic over prose: it counts sentiment
// indicator words and buckets the result. It is lossy and non-authoritative;
// do not treat its output as a guaranteed-correct classification.
func ExtractSentiment(content string) Sentiment {
	lower := strings.ToLower(content)

	positive := len(positivePattern.FindAllString(lower, -1))
	negative := len(negativePattern.FindAllString(lower, -1))

	switch {
	case positive > negative*2:
		return SentimentPositive
	case negative > positive*2:
		return SentimentNegative
	case positive > 0 && negative > 0:
		return SentimentMixed
	default:
		return SentimentNeutral
	}
}
