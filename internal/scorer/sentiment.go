package scorer

import (
	"math"
	"strings"

	"github.com/NullMeDev/mediabias/internal/model"
	"github.com/NullMeDev/mediabias/internal/textutil"
)

const intensifierMultiplier = 1.8

var positiveWords = []string{
	"good", "great", "excellent", "amazing", "wonderful", "fantastic", "positive", "success",
	"achievement", "progress", "improvement", "beneficial", "effective", "outstanding",
	"remarkable", "brilliant", "superb", "magnificent", "exceptional", "impressive",
	"breakthrough", "victory", "triumph", "prosperity", "flourishing", "thriving",
	"celebrate", "win", "accomplish", "advance", "boost", "enhance", "upgrade",
	"approve", "support", "endorse", "praise", "commend", "applaud", "welcome",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "horrible", "disgusting", "outrageous", "negative", "failure",
	"crisis", "disaster", "problem", "issue", "concern", "disappointing", "devastating",
	"catastrophic", "tragic", "alarming", "disturbing", "shocking", "appalling",
	"scandal", "corruption", "fraud", "violence", "conflict", "war", "death",
	"decline", "collapse", "crash", "plummet", "suffer", "struggle", "threat",
	"condemn", "criticize", "oppose", "reject", "deny", "refuse", "attack",
}

var intensifiers = map[string]bool{
	"very": true, "extremely": true, "incredibly": true, "absolutely": true, "completely": true,
	"totally": true, "utterly": true, "highly": true, "deeply": true,
}

// SentimentResult is the full sentiment sub-step output
type SentimentResult struct {
	Label      model.Sentiment `json:"label"`
	Score      float64         `json:"score"`
	Confidence float64         `json:"confidence"`
	Positive   float64         `json:"positive"`
	Negative   float64         `json:"negative"`
}

// minReverseMatchLen is the shortest token allowed to match by being
// contained in a list word. Shorter tokens ("a", "on") would otherwise
// match almost every list word.
const minReverseMatchLen = 4

// containsEither reports whether token contains a list word, or a list word
// contains a token of at least minReverseMatchLen characters.
func containsEither(token string, words []string) bool {
	if token == "" {
		return false
	}
	reverse := len([]rune(token)) >= minReverseMatchLen
	for _, w := range words {
		if strings.Contains(token, w) || (reverse && strings.Contains(w, token)) {
			return true
		}
	}
	return false
}

// AnalyzeSentiment classifies text as positive, negative or neutral from
// weighted keyword counts.
func AnalyzeSentiment(text string) SentimentResult {
	words := textutil.Words(text)

	var pos, neg float64
	for i, w := range words {
		multiplier := 1.0
		if i > 0 && intensifiers[words[i-1]] {
			multiplier = intensifierMultiplier
		}
		if containsEither(w, positiveWords) {
			pos += multiplier
		}
		if containsEither(w, negativeWords) {
			neg += multiplier
		}
	}

	total := pos + neg
	if total == 0 {
		return SentimentResult{Label: model.SentimentNeutral, Confidence: 0.5}
	}

	ratio := pos / total
	strength := total / math.Max(float64(len(words))/100, 1)
	result := SentimentResult{
		Label:      model.SentimentNeutral,
		Confidence: math.Min(strength, 1),
		Positive:   pos,
		Negative:   neg,
	}

	switch {
	case ratio > 0.6:
		result.Label = model.SentimentPositive
		result.Score = (ratio - 0.5) * 10
	case ratio < 0.4:
		result.Label = model.SentimentNegative
		result.Score = (ratio - 0.5) * 10
	}
	result.Score = textutil.Round1(result.Score)
	return result
}
