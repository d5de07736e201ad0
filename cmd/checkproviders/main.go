// Command checkproviders reports which optional integrations are configured
// and probes every configured search provider with a sample query.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/NullMeDev/mediabias/internal/config"
	"github.com/NullMeDev/mediabias/internal/coverage"
)

type credential struct {
	Key     string
	Purpose string
	Set     bool
}

type probeResult struct {
	Provider string
	Count    int
	Err      error
	Elapsed  time.Duration
}

func main() {
	query := flag.String("query", "climate policy", "Query sent to each search provider")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall probe timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	printCredentials(os.Stdout, credentials(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	providers := coverage.ProvidersFromConfig(cfg)
	if len(providers) == 0 {
		fmt.Println("\nNo search providers configured; comparative coverage will be empty.")
		return
	}

	fmt.Printf("\nProbing %d search providers with %q\n\n", len(providers), *query)
	if failed := printProbes(os.Stdout, probe(ctx, providers, *query)); failed > 0 {
		os.Exit(1)
	}
}

func credentials(cfg *config.Config) []credential {
	return []credential{
		{"NEWS_API_KEY", "comparative coverage (NewsAPI)", cfg.NewsAPIKey != ""},
		{"GNEWS_API_KEY", "comparative coverage (GNews)", cfg.GNewsAPIKey != ""},
		{"HUGGINGFACE_API_KEY", "emotion classification", cfg.HuggingFaceAPIKey != ""},
		{"OPENAI_API_KEY", "emotion classification and speech", cfg.OpenAIAPIKey != ""},
		{"ELEVENLABS_API_KEY", "speech synthesis", cfg.ElevenLabsAPIKey != ""},
		{"DATABASE_URL", "persistent analysis history", cfg.DatabaseURL != ""},
		{"DISCORD_TOKEN", "Discord bot", cfg.DiscordEnabled()},
	}
}

func printCredentials(w io.Writer, creds []credential) {
	fmt.Fprintln(w, "Optional integrations:")
	for _, c := range creds {
		mark := "❌"
		if c.Set {
			mark = "✅"
		}
		fmt.Fprintf(w, "%s %-20s %s\n", mark, c.Key, c.Purpose)
	}
}

func probe(ctx context.Context, providers []coverage.Provider, query string) []probeResult {
	results := make(chan probeResult, len(providers))

	var wg sync.WaitGroup
	for _, p := range providers {
		wg.Add(1)
		go func(p coverage.Provider) {
			defer wg.Done()
			start := time.Now()
			candidates, err := p.Search(ctx, query, 5)
			results <- probeResult{
				Provider: p.Name(),
				Count:    len(candidates),
				Err:      err,
				Elapsed:  time.Since(start),
			}
		}(p)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var out []probeResult
	for r := range results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}

// printProbes writes one line per provider plus a summary and returns the
// number of failed providers.
func printProbes(w io.Writer, results []probeResult) int {
	var failed int
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "❌ %-20s [%7dms] %v\n", r.Provider, r.Elapsed.Milliseconds(), r.Err)
			failed++
			continue
		}
		fmt.Fprintf(w, "✅ %-20s [%7dms] %d results\n", r.Provider, r.Elapsed.Milliseconds(), r.Count)
	}

	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintf(w, "Working providers: %d\n", len(results)-failed)
	fmt.Fprintf(w, "Failed providers:  %d\n", failed)
	return failed
}
