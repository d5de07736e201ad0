package scorer

import (
	"regexp"
	"strings"

	"github.com/NullMeDev/mediabias/internal/textutil"
)

const (
	leanScale         = 5.0
	framingWeight     = 1.5
	sourcePriorWeight = 0.3
	contentWeight     = 0.7
)

var leftKeywords = phrases(
	"progressive", "social justice", "climate change", "climate crisis", "inequality", "diversity", "inclusion",
	"environmental", "renewable", "sustainable", "universal healthcare", "minimum wage", "living wage",
	"gun control", "reproductive rights", "immigration reform", "wealth tax", "medicare for all",
	"green new deal", "systemic racism", "police reform", "lgbtq rights", "affordable housing",
	"workers rights", "union", "collective bargaining", "public option", "student debt relief",
	"corporate accountability", "tax the wealthy", "social programs", "public education funding",
)

var rightKeywords = phrases(
	"conservative", "traditional values", "free market", "law and order", "border security",
	"fiscal responsibility", "deregulation", "second amendment", "pro-life", "family values",
	"small government", "tax cuts", "military strength", "national security", "religious freedom",
	"school choice", "constitutional rights", "individual liberty", "free enterprise", "patriotism",
	"states rights", "personal responsibility", "limited government", "free speech", "capitalism",
	"business friendly", "job creators", "economic growth", "defense spending",
)

// Negative framing of the opposite pole counts toward the speaker's side.
var leftFraming = phrases(
	"corporate greed", "tax breaks for the wealthy", "climate denial", "voter suppression",
	"authoritarian", "fascist", "far-right", "extremist", "white supremacist", "racist",
	"bigoted", "discriminatory", "oppressive", "regressive",
)

var rightFraming = phrases(
	"socialist", "communist", "radical left", "liberal elite", "mainstream media",
	"deep state", "fake news", "cancel culture", "woke agenda", "virtue signaling",
	"anti-american", "unpatriotic", "godless", "immoral",
)

// phrases compiles each keyword into a word-bounded pattern with flexible whitespace
func phrases(keywords ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(keywords))
	for i, k := range keywords {
		parts := strings.Fields(k)
		for j, p := range parts {
			parts[j] = regexp.QuoteMeta(p)
		}
		out[i] = regexp.MustCompile(`\b` + strings.Join(parts, `\s+`) + `\b`)
	}
	return out
}

func countAll(text string, patterns []*regexp.Regexp) float64 {
	var n int
	for _, re := range patterns {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return float64(n)
}

// ContentLean returns the weighted left and right keyword counts in text
func ContentLean(text string) (left, right float64) {
	lower := strings.ToLower(text)
	left = countAll(lower, leftKeywords) + countAll(lower, leftFraming)*framingWeight
	right = countAll(lower, rightKeywords) + countAll(lower, rightFraming)*framingWeight
	return left, right
}

// PoliticalBias blends the outlet's lean prior with the content signal,
// -5 (left) to 5 (right).
func PoliticalBias(text string, prior float64) float64 {
	left, right := ContentLean(text)
	total := left + right

	bias := prior
	if total > 0 {
		content := ((right - left) / total) * leanScale
		bias = prior*sourcePriorWeight + content*contentWeight
	}
	return textutil.Round1(textutil.Clamp(bias, -5, 5))
}
