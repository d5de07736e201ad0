// Package scorer runs the heuristic text analyses over an article body:
// sentiment, emotional language, highlights, political lean and factuality.
package scorer

import (
	"github.com/NullMeDev/mediabias/internal/model"
)

// Priors supplies per-outlet baselines
type Priors interface {
	LeanPrior(source string) float64
	FactualityPrior(source string) float64
}

// Scorer is stateless apart from its priors and safe for concurrent use
type Scorer struct {
	priors Priors
}

// New creates a Scorer
func New(priors Priors) *Scorer {
	return &Scorer{priors: priors}
}

// Score analyzes body as published by source. It never fails; text without
// any signal yields neutral, low or baseline values.
func (s *Scorer) Score(body, source string) model.BiasAnalysis {
	return model.BiasAnalysis{
		PoliticalBias:     PoliticalBias(body, s.priors.LeanPrior(source)),
		EmotionalLanguage: EmotionalLanguage(body),
		Factuality:        Factuality(body, s.priors.FactualityPrior(source)),
		Sentiment:         AnalyzeSentiment(body).Label,
		Highlights:        Highlights(body),
	}
}

// Sentiment labels a short text such as a headline or description
func (s *Scorer) Sentiment(text string) model.Sentiment {
	return AnalyzeSentiment(text).Label
}
