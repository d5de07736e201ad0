package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NullMeDev/mediabias/internal/model"
)

func TestReactionsByHeadlineTone(t *testing.T) {
	tests := []struct {
		title     string
		sentiment model.Sentiment
		minReddit int
		maxReddit int
	}{
		{"Budget crisis deepens in the capital", model.SentimentNegative, 200, 699},
		{"Vaccine breakthrough announced", model.SentimentPositive, 100, 399},
		{"Library extends weekend hours", model.SentimentNeutral, 50, 199},
	}

	g := NewGenerator()
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			reactions := g.Reactions(tt.title)
			require.Len(t, reactions, 2)

			reddit, twitter := reactions[0], reactions[1]
			assert.Equal(t, "Reddit", reddit.Platform)
			assert.Equal(t, tt.sentiment, reddit.Sentiment)
			assert.GreaterOrEqual(t, reddit.Engagement, tt.minReddit)
			assert.LessOrEqual(t, reddit.Engagement, tt.maxReddit)

			assert.Equal(t, "Twitter", twitter.Platform)
			assert.Equal(t, tt.sentiment, twitter.Sentiment)
			assert.GreaterOrEqual(t, twitter.Engagement, 100)
			assert.LessOrEqual(t, twitter.Engagement, 1099)

			for _, r := range reactions {
				assert.GreaterOrEqual(t, len(r.TopComments), 3)
				assert.LessOrEqual(t, len(r.TopComments), 5)
				for _, c := range r.TopComments {
					assert.Contains(t, commentPools[tt.sentiment], c)
				}
			}
		})
	}
}

func TestReactionsAreStablePerHeadline(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, g.Reactions("Same headline"), g.Reactions("Same headline"))
}

func TestTwitterSearchURL(t *testing.T) {
	reactions := NewGenerator().Reactions("Rates & jobs: what next?")
	assert.Equal(t, "https://twitter.com/search?q=Rates%20%26%20jobs%3A%20what%20next%3F", reactions[1].URL)
}
