package history

import (
	"sort"
	"time"

	"github.com/NullMeDev/mediabias/internal/model"
	"github.com/NullMeDev/mediabias/internal/textutil"
)

const topSourceCount = 5

// SourceCount is how often an outlet was analyzed
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// Rollup aggregates the analyses of one period
type Rollup struct {
	From          time.Time               `json:"from"`
	To            time.Time               `json:"to"`
	Count         int                     `json:"count"`
	MeanPolitical float64                 `json:"meanPolitical"`
	MeanFactual   float64                 `json:"meanFactual"`
	MeanEmotional float64                 `json:"meanEmotional"`
	Sentiments    map[model.Sentiment]int `json:"sentiments"`
	BiasLabels    map[model.BiasLabel]int `json:"biasLabels"`
	TopSources    []SourceCount           `json:"topSources"`
}

// Summarize aggregates the entries analyzed in [from, to)
func Summarize(entries []Entry, from, to time.Time) Rollup {
	r := Rollup{
		From: from,
		To:   to,
		Sentiments: map[model.Sentiment]int{
			model.SentimentPositive: 0,
			model.SentimentNegative: 0,
			model.SentimentNeutral:  0,
		},
		BiasLabels: map[model.BiasLabel]int{},
		TopSources: []SourceCount{},
	}

	var political, factual, emotional float64
	sources := map[string]int{}
	for _, e := range entries {
		if e.AnalyzedAt.Before(from) || !e.AnalyzedAt.Before(to) {
			continue
		}
		r.Count++
		political += e.Political
		factual += e.Factual
		emotional += e.Emotional
		r.Sentiments[e.Sentiment]++
		r.BiasLabels[e.Bias]++
		if e.Source != "" {
			sources[e.Source]++
		}
	}

	if r.Count > 0 {
		n := float64(r.Count)
		r.MeanPolitical = textutil.Round1(political / n)
		r.MeanFactual = textutil.Round1(factual / n)
		r.MeanEmotional = textutil.Round1(emotional / n)
	}

	for s, c := range sources {
		r.TopSources = append(r.TopSources, SourceCount{Source: s, Count: c})
	}
	sort.Slice(r.TopSources, func(i, j int) bool {
		if r.TopSources[i].Count != r.TopSources[j].Count {
			return r.TopSources[i].Count > r.TopSources[j].Count
		}
		return r.TopSources[i].Source < r.TopSources[j].Source
	})
	if len(r.TopSources) > topSourceCount {
		r.TopSources = r.TopSources[:topSourceCount]
	}
	return r
}
