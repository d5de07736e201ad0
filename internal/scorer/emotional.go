package scorer

import (
	"math"
	"regexp"
	"strings"

	"github.com/NullMeDev/mediabias/internal/textutil"
)

type emotionalTier struct {
	weight float64
	words  []string
}

// Tiers are checked in order; a token scores only for the first tier it matches.
var emotionalTiers = []emotionalTier{
	{4, stripWords(
		"outrageous", "shocking", "devastating", "catastrophic", "unprecedented", "explosive",
		"bombshell", "scandalous", "horrific", "terrifying", "incredible", "unbelievable",
		"mind-blowing", "earth-shattering", "jaw-dropping", "breathtaking", "sensational",
		"dramatic", "stunning", "astounding", "phenomenal", "extraordinary", "miraculous",
	)},
	{3, stripWords(
		"concerning", "troubling", "worrying", "surprising", "remarkable", "notable",
		"significant", "important", "serious", "major", "critical", "urgent", "alarming",
		"disturbing", "amazing", "fantastic", "wonderful", "terrible", "awful", "brilliant",
	)},
	{2, stripWords(
		"interesting", "notable", "relevant", "related", "connected", "associated",
		"considerable", "substantial", "meaningful", "noteworthy", "impressive", "concerning",
	)},
	{1, stripWords("some", "certain", "particular", "specific", "general", "basic", "simple", "minor")},
}

type surfaceMarker struct {
	re     *regexp.Regexp
	weight float64
}

var surfaceMarkers = []surfaceMarker{
	{regexp.MustCompile(`\b[A-Z]{3,}\b`), 3},
	{regexp.MustCompile(`!+`), 2},
	{regexp.MustCompile(`\?{2,}`), 1.5},
	{regexp.MustCompile(`"[^"]*"`), 1},
}

var nonWordChars = regexp.MustCompile(`[^\w]`)

func stripWords(words ...string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = nonWordChars.ReplaceAllString(w, "")
	}
	return out
}

// EmotionalLanguage scores how emotionally loaded text is, 0 to 10
func EmotionalLanguage(text string) float64 {
	words := textutil.Words(text)

	var score float64
	for _, w := range words {
		for _, tier := range emotionalTiers {
			if containsEither(w, tier.words) {
				score += tier.weight
				break
			}
		}
	}

	for _, m := range surfaceMarkers {
		score += float64(len(m.re.FindAllStringIndex(text, -1))) * m.weight
	}
	if strings.Contains(text, "...") {
		score++
	}
	if strings.Contains(text, "--") {
		score += 0.5
	}

	normalized := (score / math.Max(float64(len(words))/50, 1)) * 2
	return textutil.Round1(textutil.Clamp(normalized, 0, 10))
}

// EmotionWeights scale external classifier labels into the 0 to 10 emotional score
var EmotionWeights = map[string]float64{
	"anger":    1.5,
	"fear":     1.3,
	"sadness":  1.2,
	"disgust":  1.4,
	"joy":      1.0,
	"surprise": 0.8,
}

// WeightedEmotionScore converts classifier label scores into the 0 to 10 scale
func WeightedEmotionScore(labels map[string]float64) float64 {
	var raw float64
	for label, s := range labels {
		weight, ok := EmotionWeights[strings.ToLower(label)]
		if !ok {
			weight = 1
		}
		raw += s * weight
	}
	return textutil.Round1(textutil.Clamp(raw*2, 0, 10))
}
