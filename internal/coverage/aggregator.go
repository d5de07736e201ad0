// Package coverage finds how other outlets covered the same story and rates
// each of them through the source registry.
package coverage

import (
	"context"
	"strings"

	"golang.org/x/time/rate"

	"github.com/NullMeDev/mediabias/internal/apperrors"
	"github.com/NullMeDev/mediabias/internal/config"
	"github.com/NullMeDev/mediabias/internal/logger"
	"github.com/NullMeDev/mediabias/internal/model"
)

// DefaultLimit is the number of comparison items shown
const DefaultLimit = 6

// unknownFactuality is used for outlets missing from the registry
const unknownFactuality = 5.0

// searchPageSize is how many candidates are requested before filtering
const searchPageSize = 10

// DefaultRatePerSecond caps provider calls when no rate is configured
const DefaultRatePerSecond = 2.0

// RatingLookup resolves an outlet name or URL
type RatingLookup interface {
	Lookup(nameOrURL string) *model.SourceRating
}

// SentimentLabeler labels a short text
type SentimentLabeler interface {
	Sentiment(text string) model.Sentiment
}

// Aggregator queries providers in order; the first one returning usable
// candidates wins.
type Aggregator struct {
	providers []Provider
	ratings   RatingLookup
	sentiment SentimentLabeler
	limit     int
	limiter   *rate.Limiter
	log       *logger.Logger
}

// NewAggregator creates an Aggregator limited to DefaultRatePerSecond
// provider calls. limit <= 0 means DefaultLimit.
func NewAggregator(providers []Provider, ratings RatingLookup, sentiment SentimentLabeler, limit int, log *logger.Logger) *Aggregator {
	return newAggregator(providers, ratings, sentiment, limit, DefaultRatePerSecond, log)
}

// FromConfig builds the Aggregator over the configured providers, with the
// configured result limit and search rate.
func FromConfig(cfg *config.Config, ratings RatingLookup, sentiment SentimentLabeler, log *logger.Logger) *Aggregator {
	return newAggregator(ProvidersFromConfig(cfg), ratings, sentiment, cfg.CoverageLimit, cfg.SearchRatePerSecond, log)
}

func newAggregator(providers []Provider, ratings RatingLookup, sentiment SentimentLabeler, limit int, perSecond float64, log *logger.Logger) *Aggregator {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if perSecond <= 0 {
		perSecond = DefaultRatePerSecond
	}
	burst := int(2 * perSecond)
	if burst < 1 {
		burst = 1
	}
	return &Aggregator{
		providers: providers,
		ratings:   ratings,
		sentiment: sentiment,
		limit:     limit,
		limiter:   rate.NewLimiter(rate.Limit(perSecond), burst),
		log:       log,
	}
}

// ProvidersFromConfig builds the providers that have credentials, in the
// order NewsAPI, GNews, Google News RSS.
func ProvidersFromConfig(cfg *config.Config) []Provider {
	var providers []Provider
	if cfg.NewsAPIKey != "" {
		providers = append(providers, NewNewsAPI(cfg.NewsAPIKey, "", cfg.SearchTimeout))
	}
	if cfg.GNewsAPIKey != "" {
		providers = append(providers, NewGNews(cfg.GNewsAPIKey, "", cfg.SearchTimeout))
	}
	if cfg.EnableGoogleNewsRSS {
		providers = append(providers, NewGoogleNewsRSS("", cfg.SearchTimeout))
	}
	return providers
}

// Compare returns up to limit related articles for title. Provider failures
// are logged and yield an empty list, never an error.
func (a *Aggregator) Compare(ctx context.Context, title string) []model.ComparativeCoverageItem {
	items := []model.ComparativeCoverageItem{}

	query := QueryTerms(title)
	if query == "" {
		return items
	}

	for _, p := range a.providers {
		if err := a.limiter.Wait(ctx); err != nil {
			return items
		}

		candidates, err := p.Search(ctx, query, searchPageSize)
		if err != nil {
			a.log.Warning("%v", apperrors.NewUpstreamError("search provider "+p.Name()+" failed", err))
			continue
		}

		for _, c := range candidates {
			if !usable(c, title) {
				continue
			}
			items = append(items, a.toItem(c))
			if len(items) == a.limit {
				break
			}
		}
		if len(items) > 0 {
			a.log.Debug("Comparative coverage for %q from %s: %d items", query, p.Name(), len(items))
			return items
		}
	}

	return items
}

func usable(c Candidate, originalTitle string) bool {
	if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.Description) == "" || strings.TrimSpace(c.URL) == "" {
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(c.Title), strings.TrimSpace(originalTitle))
}

func (a *Aggregator) toItem(c Candidate) model.ComparativeCoverageItem {
	item := model.ComparativeCoverageItem{
		SourceName:  c.SourceName,
		Bias:        model.BiasUnknown,
		Headline:    c.Title,
		Factuality:  unknownFactuality,
		Sentiment:   a.sentiment.Sentiment(c.Description),
		URL:         c.URL,
		PublishedAt: c.PublishedAt,
	}

	rating := a.ratings.Lookup(c.SourceName)
	if rating == nil {
		rating = a.ratings.Lookup(c.URL)
	}
	if rating != nil {
		item.Bias = rating.Bias
		item.Factuality = rating.Factuality
	}
	return item
}
