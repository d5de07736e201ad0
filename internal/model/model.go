// Package model holds the records passed between pipeline stages.
package model

import "time"

// Sentiment is the coarse tone label of a text
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// BiasLabel is the registry's coarse political classification
type BiasLabel string

const (
	BiasLeft        BiasLabel = "left"
	BiasCenterLeft  BiasLabel = "center-left"
	BiasCenter      BiasLabel = "center"
	BiasCenterRight BiasLabel = "center-right"
	BiasRight       BiasLabel = "right"
	BiasUnknown     BiasLabel = "unknown"
)

// BiasLabels lists the registry labels from left to right
var BiasLabels = []BiasLabel{BiasLeft, BiasCenterLeft, BiasCenter, BiasCenterRight, BiasRight}

// Valid reports whether b is one of the registry labels
func (b BiasLabel) Valid() bool {
	for _, l := range BiasLabels {
		if b == l {
			return true
		}
	}
	return false
}

// HighlightCategory groups highlight rules
type HighlightCategory string

const (
	CategoryEmotional HighlightCategory = "emotional"
	CategoryBias      HighlightCategory = "bias"
	CategoryFactual   HighlightCategory = "factual"
)

// ExtractedArticle is the normalized result of scraping one page
type ExtractedArticle struct {
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Author      string    `json:"author"`
	PublishDate time.Time `json:"publishDate"`
	SourceName  string    `json:"sourceName"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	// Fallback is set when the record was synthesized instead of extracted
	Fallback bool `json:"fallback,omitempty"`
}

// SourceRating is a registry entry
type SourceRating struct {
	Name       string    `json:"name" yaml:"name"`
	Bias       BiasLabel `json:"bias" yaml:"bias"`
	Factuality float64   `json:"factuality" yaml:"factuality"`
	Country    string    `json:"country" yaml:"country"`
	MediaType  string    `json:"mediaType" yaml:"media_type"`
}

// Highlight is one rule match inside an article body.
// Start and End are byte offsets, Body[Start:End] == Text.
type Highlight struct {
	Text        string            `json:"text"`
	Category    HighlightCategory `json:"category"`
	Explanation string            `json:"explanation"`
	Start       int               `json:"startIndex"`
	End         int               `json:"endIndex"`
}

// BiasAnalysis is the scorer output
type BiasAnalysis struct {
	PoliticalBias     float64     `json:"politicalBias"`
	EmotionalLanguage float64     `json:"emotionalLanguage"`
	Factuality        float64     `json:"factuality"`
	Sentiment         Sentiment   `json:"sentiment"`
	Highlights        []Highlight `json:"highlights"`
}

// ComparativeCoverageItem is one related article from another outlet
type ComparativeCoverageItem struct {
	SourceName  string    `json:"source"`
	Bias        BiasLabel `json:"bias"`
	Headline    string    `json:"headline"`
	Factuality  float64   `json:"factuality"`
	Sentiment   Sentiment `json:"sentiment"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

// SocialReaction summarizes the (mocked) reaction on one platform
type SocialReaction struct {
	Platform    string    `json:"platform"`
	Sentiment   Sentiment `json:"sentiment"`
	Engagement  int       `json:"engagement"`
	TopComments []string  `json:"topComments"`
	URL         string    `json:"url"`
}

// ArticleSummary is the article part of an AnalysisResult
type ArticleSummary struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	PublishDate time.Time `json:"publishDate"`
	Author      string    `json:"author"`
	Bias        BiasLabel `json:"bias"`
	Factuality  float64   `json:"factuality"`
	Sentiment   Sentiment `json:"sentiment"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Fallback    bool      `json:"fallback,omitempty"`
}

// BiasScore is the score triple shown for an article
type BiasScore struct {
	Political float64 `json:"political"`
	Factual   float64 `json:"factual"`
	Emotional float64 `json:"emotional"`
}

// AnalysisResult is everything one analysis produces
type AnalysisResult struct {
	RequestID           string                    `json:"requestId"`
	Article             ArticleSummary            `json:"article"`
	BiasScore           BiasScore                 `json:"biasScore"`
	Highlights          []Highlight               `json:"highlights"`
	ComparativeCoverage []ComparativeCoverageItem `json:"comparativeCoverage"`
	SocialReactions     []SocialReaction          `json:"socialReactions"`
	ExtractedContent    string                    `json:"extractedContent"`
	AnalyzedAt          time.Time                 `json:"analyzedAt"`
}

// EmotionScore is one label from an external emotion classifier
type EmotionScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
