// Package social produces the social-media reaction panel. No platform API
// is called: reactions are generated from the headline's tone, seeded by the
// headline so the same article always gets the same reactions.
package social

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"net/url"
	"strings"

	"github.com/NullMeDev/mediabias/internal/model"
)

var (
	controversialTerms = []string{"scandal", "crisis", "controversy", "debate"}
	positiveTerms      = []string{"success", "achievement", "progress", "breakthrough"}
)

var commentPools = map[model.Sentiment][]string{
	model.SentimentPositive: {
		"This is really encouraging news! Great to see progress being made.",
		"Finally some good news for a change. Thanks for sharing this.",
		"Excellent reporting. This gives me hope for the future.",
		"Well written article with solid facts. Appreciate the balanced perspective.",
		"This is exactly what we needed to hear. Great work by everyone involved.",
	},
	model.SentimentNegative: {
		"This is deeply concerning. We need to pay more attention to these issues.",
		"The situation is more complex than this article suggests.",
		"I'm worried about the long-term implications of this development.",
		"This raises serious questions that need to be addressed immediately.",
		"The article misses some important context that changes everything.",
	},
	model.SentimentNeutral: {
		"Interesting perspective. Would like to see more data on this topic.",
		"Thanks for the update. Will be following this story closely.",
		"Good to stay informed about these developments.",
		"Appreciate the coverage. Looking forward to more details.",
		"This is worth keeping an eye on as it develops further.",
	},
}

// Generator builds mock reactions
type Generator struct{}

// NewGenerator creates a Generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Reactions returns a Reddit and a Twitter reaction for the headline
func (g *Generator) Reactions(title string) []model.SocialReaction {
	seed := seedFor(title)
	rng := rand.New(rand.NewSource(int64(seed)))

	lower := strings.ToLower(title)
	controversial := containsAny(lower, controversialTerms)
	positive := containsAny(lower, positiveTerms)

	sentiment := model.SentimentNeutral
	redditEngagement := rng.Intn(150) + 50
	switch {
	case controversial:
		sentiment = model.SentimentNegative
		redditEngagement = rng.Intn(500) + 200
	case positive:
		sentiment = model.SentimentPositive
		redditEngagement = rng.Intn(300) + 100
	}

	return []model.SocialReaction{
		{
			Platform:    "Reddit",
			Sentiment:   sentiment,
			Engagement:  redditEngagement,
			TopComments: pickComments(rng, sentiment),
			URL:         fmt.Sprintf("https://reddit.com/r/news/comments/mock_%x", seed),
		},
		{
			Platform:    "Twitter",
			Sentiment:   sentiment,
			Engagement:  rng.Intn(1000) + 100,
			TopComments: pickComments(rng, sentiment),
			URL:         "https://twitter.com/search?q=" + strings.ReplaceAll(url.QueryEscape(title), "+", "%20"),
		},
	}
}

// pickComments returns 3 to 5 distinct comments from the sentiment's pool
func pickComments(rng *rand.Rand, sentiment model.Sentiment) []string {
	pool := commentPools[sentiment]
	n := rng.Intn(3) + 3
	order := rng.Perm(len(pool))

	comments := make([]string, 0, n)
	for _, i := range order[:n] {
		comments = append(comments, pool[i])
	}
	return comments
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func seedFor(title string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(title))
	return h.Sum64()
}
