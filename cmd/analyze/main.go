// Command analyze runs one article analysis and prints the result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/NullMeDev/mediabias/internal/analyzer"
	"github.com/NullMeDev/mediabias/internal/apperrors"
	"github.com/NullMeDev/mediabias/internal/config"
	"github.com/NullMeDev/mediabias/internal/coverage"
	"github.com/NullMeDev/mediabias/internal/emotion"
	"github.com/NullMeDev/mediabias/internal/extractor"
	"github.com/NullMeDev/mediabias/internal/fetcher"
	"github.com/NullMeDev/mediabias/internal/logger"
	"github.com/NullMeDev/mediabias/internal/model"
	"github.com/NullMeDev/mediabias/internal/ratings"
	"github.com/NullMeDev/mediabias/internal/scorer"
	"github.com/NullMeDev/mediabias/internal/social"
)

func main() {
	target := flag.String("url", "", "Article URL to analyze")
	asJSON := flag.Bool("json", false, "Print the full result as JSON")
	verbose := flag.Bool("v", false, "Log pipeline progress to stderr")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall analysis timeout")
	flag.Parse()

	if *target == "" && flag.NArg() > 0 {
		*target = flag.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, *target, *asJSON, *verbose, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", apperrors.UserMessage(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, target string, asJSON, verbose bool, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := logger.LogWarning
	if verbose {
		level = logger.LogDebug
	}
	lg := logger.NewWriter(os.Stderr, level)

	registry := ratings.Default()
	if cfg.RatingsFile != "" {
		if registry, err = ratings.LoadFile(cfg.RatingsFile); err != nil {
			return err
		}
	}

	fetch, closer, err := fetcher.FromConfig(cfg, lg)
	if err != nil {
		return err
	}
	defer closer.Close()

	sc := scorer.New(registry)
	a := analyzer.New(analyzer.Options{
		Fetcher:   fetch,
		Extractor: extractor.New(cfg.MinBodyLength),
		Scorer:    sc,
		Ratings:   registry,
		Coverage:  coverage.FromConfig(cfg, registry, sc, lg),
		Social:    social.NewGenerator(),
		Emotion:   emotion.FromConfig(cfg, lg),
	}, lg)

	progress := func(st analyzer.Stage) {
		if verbose {
			fmt.Fprintf(os.Stderr, "... %s\n", st)
		}
	}
	result, err := a.Analyze(ctx, target, progress)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printSummary(out, result)
	return nil
}

func printSummary(w io.Writer, r *model.AnalysisResult) {
	a := r.Article
	fmt.Fprintf(w, "%s\n%s\n", a.Title, strings.Repeat("=", len([]rune(a.Title))))
	fmt.Fprintf(w, "Source:     %s (%s)\n", a.Source, a.Bias)
	fmt.Fprintf(w, "Author:     %s\n", a.Author)
	fmt.Fprintf(w, "Published:  %s\n", a.PublishDate.Format("2006-01-02 15:04 MST"))
	if a.Fallback {
		fmt.Fprintln(w, "Note:       full text unavailable, placeholder content analyzed")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Political:  %+.1f  (-5 left .. +5 right)\n", r.BiasScore.Political)
	fmt.Fprintf(w, "Factual:    %.1f / 10\n", r.BiasScore.Factual)
	fmt.Fprintf(w, "Emotional:  %.1f / 10\n", r.BiasScore.Emotional)
	fmt.Fprintf(w, "Sentiment:  %s\n", a.Sentiment)

	if len(r.Highlights) > 0 {
		fmt.Fprintf(w, "\nHighlights (%d):\n", len(r.Highlights))
		for _, h := range r.Highlights {
			fmt.Fprintf(w, "  [%-9s] %q  %s\n", h.Category, h.Text, h.Explanation)
		}
	}

	if len(r.ComparativeCoverage) == 0 {
		fmt.Fprintln(w, "\nNo comparative coverage found.")
	} else {
		fmt.Fprintln(w, "\nOther coverage:")
		for _, c := range r.ComparativeCoverage {
			fmt.Fprintf(w, "  %-24s %-12s %4.1f  %s\n", c.SourceName, c.Bias, c.Factuality, c.Headline)
		}
	}

	for _, s := range r.SocialReactions {
		fmt.Fprintf(w, "\n%s: %s, %d engagements\n", s.Platform, s.Sentiment, s.Engagement)
	}
}
