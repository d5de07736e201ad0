// Package emotion optionally replaces the heuristic emotional-language score
// with one derived from an external emotion classifier.
package emotion

import (
	"context"
	"fmt"

	"github.com/NullMeDev/mediabias/internal/config"
	"github.com/NullMeDev/mediabias/internal/logger"
	"github.com/NullMeDev/mediabias/internal/model"
	"github.com/NullMeDev/mediabias/internal/scorer"
	"github.com/NullMeDev/mediabias/internal/textutil"
)

// maxInputChars keeps requests within the classifiers' input limits
const maxInputChars = 2000

// Classifier labels the emotions present in a text
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string) ([]model.EmotionScore, error)
}

// Service tries its classifiers in order
type Service struct {
	classifiers []Classifier
	log         *logger.Logger
}

// NewService creates a Service; with no classifiers it is disabled
func NewService(log *logger.Logger, classifiers ...Classifier) *Service {
	return &Service{classifiers: classifiers, log: log}
}

// FromConfig enables Hugging Face and then OpenAI when their keys are set
func FromConfig(cfg *config.Config, log *logger.Logger) *Service {
	var classifiers []Classifier
	if cfg.HuggingFaceAPIKey != "" {
		classifiers = append(classifiers, NewHuggingFace(cfg.HuggingFaceAPIKey, "", cfg.SearchTimeout))
	}
	if cfg.OpenAIAPIKey != "" {
		classifiers = append(classifiers, NewOpenAI(cfg.OpenAIAPIKey, ""))
	}
	return NewService(log, classifiers...)
}

// Enabled reports whether any classifier is configured
func (s *Service) Enabled() bool {
	return s != nil && len(s.classifiers) > 0
}

// EmotionalScore returns the weighted 0 to 10 score from the first
// classifier that answers. ok is false when none is configured or all fail,
// and the caller keeps its heuristic score.
func (s *Service) EmotionalScore(ctx context.Context, text string) (score float64, ok bool) {
	if !s.Enabled() || text == "" {
		return 0, false
	}
	input := textutil.Truncate(text, maxInputChars)

	for _, c := range s.classifiers {
		emotions, err := c.Classify(ctx, input)
		if err != nil {
			s.log.Warning("Emotion classifier %s failed: %v", c.Name(), err)
			continue
		}
		if len(emotions) == 0 {
			continue
		}
		return Weighted(emotions), true
	}
	return 0, false
}

// Weighted folds classifier labels into the emotional-language scale
func Weighted(emotions []model.EmotionScore) float64 {
	labels := make(map[string]float64, len(emotions))
	for _, e := range emotions {
		labels[e.Label] += e.Score
	}
	return scorer.WeightedEmotionScore(labels)
}

func errStatus(provider string, code int, body string) error {
	return fmt.Errorf("%s returned status %d: %s", provider, code, textutil.Truncate(body, 200))
}
