// Package analyzer sequences one analysis request: fetch, extract, score,
// compare, then assembles the AnalysisResult.
package analyzer

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NullMeDev/mediabias/internal/apperrors"
	"github.com/NullMeDev/mediabias/internal/extractor"
	"github.com/NullMeDev/mediabias/internal/fetcher"
	"github.com/NullMeDev/mediabias/internal/logger"
	"github.com/NullMeDev/mediabias/internal/model"
	"github.com/NullMeDev/mediabias/internal/scorer"
)

// Stage names a pipeline step reported to progress listeners
type Stage string

const (
	StageFetching   Stage = "fetching"
	StageExtracting Stage = "extracting"
	StageScoring    Stage = "scoring"
	StageComparing  Stage = "comparing"
	StageDone       Stage = "done"
	StageError      Stage = "error"
)

// ProgressFunc receives stage transitions; it may be nil
type ProgressFunc func(Stage)

// Fetcher retrieves raw markup
type Fetcher interface {
	Fetch(ctx context.Context, target string) (*fetcher.Result, error)
}

// RatingLookup resolves an outlet name or URL
type RatingLookup interface {
	Lookup(nameOrURL string) *model.SourceRating
}

// Comparer finds related coverage for a headline
type Comparer interface {
	Compare(ctx context.Context, title string) []model.ComparativeCoverageItem
}

// ReactionSource supplies social reactions for a headline
type ReactionSource interface {
	Reactions(title string) []model.SocialReaction
}

// EmotionScorer optionally overrides the heuristic emotional-language score
type EmotionScorer interface {
	EmotionalScore(ctx context.Context, text string) (float64, bool)
}

// Recorder stores completed analyses
type Recorder interface {
	Record(ctx context.Context, result *model.AnalysisResult) error
}

// Options holds the collaborators. Fetcher, Extractor, Scorer and Ratings
// are required; the rest may be nil.
type Options struct {
	Fetcher   Fetcher
	Extractor *extractor.Extractor
	Scorer    *scorer.Scorer
	Ratings   RatingLookup
	Coverage  Comparer
	Social    ReactionSource
	Emotion   EmotionScorer
	History   Recorder
}

// Analyzer is safe for concurrent use; each call runs its own chain
type Analyzer struct {
	opts Options
	log  *logger.Logger
	now  func() time.Time
}

// New creates an Analyzer
func New(opts Options, log *logger.Logger) *Analyzer {
	return &Analyzer{opts: opts, log: log, now: time.Now}
}

// ValidateURL checks that raw is an absolute http(s) URL
func ValidateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperrors.NewInputError(apperrors.ErrEmptyURL, "Please enter a URL to analyze.")
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperrors.NewInputError(apperrors.ErrMalformedURL, "Please enter a valid URL.")
	}
	return u.String(), nil
}

// Analyze runs the whole chain for rawURL. Only invalid input, cancellation
// and unexpected faults are returned as errors; fetch, extraction and
// comparison problems degrade into placeholder or empty data.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string, progress ProgressFunc) (result *model.AnalysisResult, err error) {
	if progress == nil {
		progress = func(Stage) {}
	}
	requestID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			err = apperrors.FromPanic("analyzer", r)
			result = nil
		}
		if err != nil {
			if !apperrors.IsType(err, apperrors.ErrorTypeInput) && ctx.Err() == nil {
				a.log.Error("Analysis %s of %s failed: %v", requestID, rawURL, err)
			}
			progress(StageError)
		}
	}()

	target, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	a.log.Info("Analysis %s started for %s", requestID, target)

	progress(StageFetching)
	markup, fetchErr := a.fetch(ctx, target)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress(StageExtracting)
	article := a.extract(markup, target, fetchErr)

	progress(StageScoring)
	analysis := a.opts.Scorer.Score(article.Body, article.SourceName)
	if a.opts.Emotion != nil && !article.Fallback {
		if score, ok := a.opts.Emotion.EmotionalScore(ctx, article.Body); ok {
			analysis.EmotionalLanguage = score
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress(StageComparing)
	coverage := []model.ComparativeCoverageItem{}
	if a.opts.Coverage != nil {
		coverage = a.opts.Coverage.Compare(ctx, article.Title)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reactions := []model.SocialReaction{}
	if a.opts.Social != nil {
		reactions = a.opts.Social.Reactions(article.Title)
	}

	result = &model.AnalysisResult{
		RequestID: requestID,
		Article:   a.summarize(article, analysis),
		BiasScore: model.BiasScore{
			Political: analysis.PoliticalBias,
			Factual:   analysis.Factuality,
			Emotional: analysis.EmotionalLanguage,
		},
		Highlights:          analysis.Highlights,
		ComparativeCoverage: coverage,
		SocialReactions:     reactions,
		ExtractedContent:    article.Body,
		AnalyzedAt:          a.now().UTC(),
	}

	if a.opts.History != nil {
		if err := a.opts.History.Record(ctx, result); err != nil {
			a.log.Warning("Failed to record analysis %s: %v", requestID, err)
		}
	}

	a.log.Info("Analysis %s finished: political=%.1f factual=%.1f emotional=%.1f highlights=%d coverage=%d",
		requestID, result.BiasScore.Political, result.BiasScore.Factual, result.BiasScore.Emotional,
		len(result.Highlights), len(result.ComparativeCoverage))
	progress(StageDone)
	return result, nil
}

func (a *Analyzer) fetch(ctx context.Context, target string) (string, error) {
	res, err := a.opts.Fetcher.Fetch(ctx, target)
	if err != nil {
		return "", err
	}
	return res.Markup, nil
}

// extract falls back to a synthesized record when fetching or extraction failed
func (a *Analyzer) extract(markup, target string, fetchErr error) *model.ExtractedArticle {
	if fetchErr != nil {
		a.log.Warning("Using fallback article for %s: %v", target, fetchErr)
		return extractor.Fallback(target, a.now())
	}

	article, err := a.opts.Extractor.Extract(markup, target)
	if err != nil {
		a.log.Warning("Using fallback article for %s: %v", target, err)
		return extractor.Fallback(target, a.now())
	}
	return article
}

func (a *Analyzer) summarize(article *model.ExtractedArticle, analysis model.BiasAnalysis) model.ArticleSummary {
	bias := model.BiasUnknown
	if rating := a.opts.Ratings.Lookup(article.SourceName); rating != nil {
		bias = rating.Bias
	} else if rating := a.opts.Ratings.Lookup(article.URL); rating != nil {
		bias = rating.Bias
	}

	return model.ArticleSummary{
		Title:       article.Title,
		Source:      article.SourceName,
		PublishDate: article.PublishDate,
		Author:      article.Author,
		Bias:        bias,
		Factuality:  analysis.Factuality,
		Sentiment:   analysis.Sentiment,
		URL:         article.URL,
		ImageURL:    article.ImageURL,
		Fallback:    article.Fallback,
	}
}
