// Package ratings is the static outlet registry: bias label and factuality
// per known outlet, plus the lean and reputation priors the scorer blends in.
package ratings

import (
	_ "embed"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
	"gopkg.in/yaml.v2"

	"github.com/NullMeDev/mediabias/internal/model"
)

//go:embed sources.yml
var embeddedSources []byte

var (
	orgSuffixRe = regexp.MustCompile(`\s+(news|media|network|times|post|journal|herald|tribune)$`)
	schemeRe    = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://`)
)

// genericWords never identify an outlet on their own
var genericWords = map[string]bool{
	"news": true, "media": true, "network": true, "times": true, "post": true,
	"journal": true, "herald": true, "tribune": true, "the": true, "daily": true,
}

type sourceEntry struct {
	Key        string   `yaml:"key"`
	Name       string   `yaml:"name"`
	Bias       string   `yaml:"bias"`
	Factuality float64  `yaml:"factuality"`
	Country    string   `yaml:"country"`
	MediaType  string   `yaml:"media_type"`
	Domains    []string `yaml:"domains"`
}

type prior struct {
	Key   string  `yaml:"key"`
	Value float64 `yaml:"value"`
}

type document struct {
	Sources           []sourceEntry `yaml:"sources"`
	Lean              []prior       `yaml:"lean"`
	DefaultFactuality float64       `yaml:"default_factuality"`
	Reputation        []prior       `yaml:"reputation"`
}

// Registry is read-only after construction and safe for concurrent use
type Registry struct {
	sources           []sourceEntry
	byKey             map[string]int
	byDomain          map[string]int
	lean              []prior
	reputation        []prior
	defaultFactuality float64
}

// Default returns the registry compiled into the binary
func Default() *Registry {
	r, err := Parse(embeddedSources)
	if err != nil {
		panic(fmt.Sprintf("ratings: embedded sources.yml is invalid: %v", err))
	}
	return r
}

// LoadFile reads a registry from a YAML file with the same layout as sources.yml
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ratings file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a registry from r
func Load(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read ratings: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML bytes, validating every entry
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse ratings: %w", err)
	}

	reg := &Registry{
		byKey:             make(map[string]int, len(doc.Sources)),
		byDomain:          make(map[string]int),
		lean:              doc.Lean,
		reputation:        doc.Reputation,
		defaultFactuality: doc.DefaultFactuality,
	}
	if reg.defaultFactuality == 0 {
		reg.defaultFactuality = 6.0
	}

	for i, s := range doc.Sources {
		s.Key = strings.ToLower(strings.TrimSpace(s.Key))
		if s.Key == "" {
			return nil, fmt.Errorf("source %d has no key", i)
		}
		if _, dup := reg.byKey[s.Key]; dup {
			return nil, fmt.Errorf("duplicate source key %q", s.Key)
		}
		if !model.BiasLabel(s.Bias).Valid() {
			return nil, fmt.Errorf("source %q has invalid bias %q", s.Key, s.Bias)
		}
		if s.Factuality < 0 || s.Factuality > 10 {
			return nil, fmt.Errorf("source %q has factuality %.1f outside [0,10]", s.Key, s.Factuality)
		}
		reg.byKey[s.Key] = len(reg.sources)
		for _, d := range s.Domains {
			reg.byDomain[strings.ToLower(d)] = len(reg.sources)
		}
		reg.sources = append(reg.sources, s)
	}

	for _, p := range reg.lean {
		if p.Value < -5 || p.Value > 5 {
			return nil, fmt.Errorf("lean prior %q is %.1f, outside [-5,5]", p.Key, p.Value)
		}
	}
	for _, p := range reg.reputation {
		if p.Value < 0 || p.Value > 10 {
			return nil, fmt.Errorf("reputation prior %q is %.1f, outside [0,10]", p.Key, p.Value)
		}
	}

	return reg, nil
}

// Normalize lowercases a name and strips a leading "the " and a trailing
// organizational suffix.
func Normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "the ")
	n = orgSuffixRe.ReplaceAllString(n, "")
	return strings.TrimSpace(n)
}

// Lookup resolves an outlet name or URL to its rating. A nil result means
// the outlet is unknown; it is not an error.
func (r *Registry) Lookup(nameOrURL string) *model.SourceRating {
	raw := strings.TrimSpace(nameOrURL)
	if raw == "" {
		return nil
	}

	if looksLikeURL(raw) {
		return r.lookupDomain(raw)
	}

	full := strings.TrimPrefix(strings.ToLower(raw), "the ")
	if i, ok := r.byKey[full]; ok {
		return r.rating(i)
	}

	n := Normalize(raw)
	if n == "" {
		return nil
	}
	if i, ok := r.byKey[n]; ok {
		return r.rating(i)
	}

	suffix := orgSuffix(full)
	for i, s := range r.sources {
		// "Washington Times" must not resolve to "washington post"
		if ks := orgSuffix(s.Key); suffix != "" && ks != "" && ks != suffix {
			continue
		}
		if fuzzyMatch(n, s.Key) {
			return r.rating(i)
		}
	}
	return nil
}

func orgSuffix(name string) string {
	if m := orgSuffixRe.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}

func (r *Registry) lookupDomain(raw string) *model.SourceRating {
	host := Hostname(raw)
	if host == "" {
		return nil
	}

	if i, ok := r.byDomain[host]; ok {
		return r.rating(i)
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		if i, ok := r.byDomain[etld1]; ok {
			return r.rating(i)
		}
		host = etld1
	}

	token := strings.SplitN(host, ".", 2)[0]
	if len(token) < 3 || genericWords[token] {
		return nil
	}
	for i, s := range r.sources {
		compact := strings.ReplaceAll(s.Key, " ", "")
		if strings.Contains(compact, token) || strings.Contains(token, compact) {
			return r.rating(i)
		}
	}
	return nil
}

func (r *Registry) rating(i int) *model.SourceRating {
	s := r.sources[i]
	return &model.SourceRating{
		Name:       s.Name,
		Bias:       model.BiasLabel(s.Bias),
		Factuality: s.Factuality,
		Country:    s.Country,
		MediaType:  s.MediaType,
	}
}

// LeanPrior returns the political lean prior for an outlet, 0 when unknown
func (r *Registry) LeanPrior(source string) float64 {
	v, _ := r.priorFor(r.lean, source)
	return v
}

// FactualityPrior returns the reputation baseline for an outlet
func (r *Registry) FactualityPrior(source string) float64 {
	if v, ok := r.priorFor(r.reputation, source); ok {
		return v
	}
	return r.defaultFactuality
}

// DefaultFactuality is the baseline used for unknown outlets
func (r *Registry) DefaultFactuality() float64 {
	return r.defaultFactuality
}

func (r *Registry) priorFor(table []prior, source string) (float64, bool) {
	candidates := []string{strings.ToLower(strings.TrimSpace(source))}
	if rating := r.Lookup(source); rating != nil {
		candidates = append(candidates, strings.ToLower(rating.Name))
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		for _, p := range table {
			if fuzzyMatch(c, p.Key) {
				return p.Value, true
			}
		}
	}
	return 0, false
}

// All returns every registry entry in registry order
func (r *Registry) All() []model.SourceRating {
	out := make([]model.SourceRating, 0, len(r.sources))
	for i := range r.sources {
		out = append(out, *r.rating(i))
	}
	return out
}

// BiasGroup is one column of the source directory
type BiasGroup struct {
	Bias    model.BiasLabel      `json:"bias"`
	Sources []model.SourceRating `json:"sources"`
}

// Directory groups the registry by bias label, left to right, each group
// sorted by descending factuality.
func (r *Registry) Directory() []BiasGroup {
	groups := make([]BiasGroup, 0, len(model.BiasLabels))
	for _, label := range model.BiasLabels {
		g := BiasGroup{Bias: label}
		for _, s := range r.All() {
			if s.Bias == label {
				g.Sources = append(g.Sources, s)
			}
		}
		sort.SliceStable(g.Sources, func(i, j int) bool {
			return g.Sources[i].Factuality > g.Sources[j].Factuality
		})
		groups = append(groups, g)
	}
	return groups
}

// Hostname extracts the lowercase host from a URL or bare domain, without "www."
func Hostname(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if !schemeRe.MatchString(s) {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func looksLikeURL(s string) bool {
	if schemeRe.MatchString(strings.ToLower(s)) {
		return true
	}
	if strings.ContainsAny(s, " \t") {
		return false
	}
	host := strings.SplitN(s, "/", 2)[0]
	return strings.Contains(host, ".")
}

// fuzzyMatch is whole-word containment in both directions. A single
// generic word such as "news" never matches a longer key.
func fuzzyMatch(name, key string) bool {
	if name == "" || key == "" {
		return false
	}
	if strings.Contains(" "+name+" ", " "+key+" ") {
		return true
	}
	if genericWords[name] {
		return false
	}
	return strings.Contains(" "+key+" ", " "+name+" ")
}
