package scorer

import (
	"math"
	"regexp"

	"github.com/NullMeDev/mediabias/internal/textutil"
)

type qualityIndicator struct {
	re     *regexp.Regexp
	weight float64
	cap    float64
}

// Counted per 1000 characters of body, each capped on its own.
var qualitySignals = []qualityIndicator{
	{regexp.MustCompile(`(?i)according to|sources say|reported by|officials said|spokesperson|statement from|data shows|study finds|research indicates`), 0.5, 1.5},
	{regexp.MustCompile(`"[^"]{20,}"`), 0.3, 1.0},
	{regexp.MustCompile(`\d+(\.\d+)?%|\d+\s*(million|billion|thousand|percent)`), 0.4, 1.0},
	{regexp.MustCompile(`(?i)yesterday|today|this week|last month|january|february|march|april|may|june|july|august|september|october|november|december|\d{4}|\d{1,2}/\d{1,2}/\d{2,4}`), 0.2, 0.5},
	{regexp.MustCompile(`(?i)professor|doctor|researcher|analyst|expert|specialist|director|chief|president|ceo`), 0.3, 0.8},
	{regexp.MustCompile(`(?i)data|evidence|research|study|analysis|investigation|report|survey|poll`), 0.2, 0.5},
	{regexp.MustCompile(`(?i)confirmed|verified|documented|established|proven|fact-checked`), 0.4, 0.8},
}

var qualityPenalties = []qualityIndicator{
	{regexp.MustCompile(`(?i)i think|i believe|in my opinion|it seems|arguably|presumably|supposedly|clearly|obviously`), 0.3, 1.0},
	{regexp.MustCompile(`(?i)shocking|outrageous|unbelievable|incredible|devastating|explosive|bombshell`), 0.4, 1.5},
	{regexp.MustCompile(`(?i)many people say|it is said|rumors suggest|sources claim|allegedly without attribution`), 0.5, 1.2},
	{regexp.MustCompile(`(?i)you won't believe|this will shock you|amazing|incredible|must see`), 0.3, 0.8},
}

func indicatorSum(text string, density float64, indicators []qualityIndicator) float64 {
	var sum float64
	for _, ind := range indicators {
		n := float64(len(ind.re.FindAllStringIndex(text, -1)))
		sum += math.Min(n*density*ind.weight, ind.cap)
	}
	return sum
}

// Factuality adjusts the outlet baseline by content quality, 1 to 10
func Factuality(text string, baseline float64) float64 {
	density := 1000 / math.Max(float64(len(text)), 1000)
	score := baseline + indicatorSum(text, density, qualitySignals) - indicatorSum(text, density, qualityPenalties)
	return textutil.Clamp(textutil.Round1(score), 1, 10)
}
