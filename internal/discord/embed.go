package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/NullMeDev/mediabias/internal/model"
	"github.com/NullMeDev/mediabias/internal/textutil"
)

const (
	maxEmbedTitle      = 256
	maxFieldValue      = 1024
	maxHighlightsShown = 5
)

var biasColors = map[model.BiasLabel]int{
	model.BiasLeft:        0x1565C0,
	model.BiasCenterLeft:  0x64B5F6,
	model.BiasCenter:      0x9E9E9E,
	model.BiasCenterRight: 0xEF9A9A,
	model.BiasRight:       0xC62828,
}

func biasColor(b model.BiasLabel) int {
	if c, ok := biasColors[b]; ok {
		return c
	}
	return 0x7289DA
}

// leanLabel describes a political score in words
func leanLabel(score float64) string {
	switch {
	case score <= -3:
		return "Strong left"
	case score <= -1:
		return "Leans left"
	case score < 1:
		return "Center"
	case score < 3:
		return "Leans right"
	default:
		return "Strong right"
	}
}

// meter renders a 0..10 score as a ten-cell bar
func meter(score float64) string {
	filled := int(textutil.Clamp(score, 0, 10) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

// AnalysisEmbed renders an analysis result
func AnalysisEmbed(r *model.AnalysisResult) *discordgo.MessageEmbed {
	a := r.Article
	embed := &discordgo.MessageEmbed{
		Title:       textutil.Truncate(a.Title, maxEmbedTitle),
		URL:         a.URL,
		Description: fmt.Sprintf("**%s** · %s · outlet rating: %s", a.Source, a.Author, a.Bias),
		Color:       biasColor(a.Bias),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Political lean",
				Value:  fmt.Sprintf("%+.1f (%s)", r.BiasScore.Political, leanLabel(r.BiasScore.Political)),
				Inline: true,
			},
			{
				Name:   "Factuality",
				Value:  fmt.Sprintf("%s %.1f/10", meter(r.BiasScore.Factual), r.BiasScore.Factual),
				Inline: true,
			},
			{
				Name:   "Emotional language",
				Value:  fmt.Sprintf("%s %.1f/10", meter(r.BiasScore.Emotional), r.BiasScore.Emotional),
				Inline: true,
			},
			{
				Name:   "Sentiment",
				Value:  string(a.Sentiment),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Request " + r.RequestID},
	}

	if a.ImageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: a.ImageURL}
	}
	if a.Fallback {
		embed.Description += "\n_Full text could not be retrieved; scores reflect limited content._"
	}
	if len(r.Highlights) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Highlights (%d)", len(r.Highlights)),
			Value: highlightSummary(r.Highlights),
		})
	}
	if len(r.ComparativeCoverage) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Other coverage",
			Value: coverageSummary(r.ComparativeCoverage),
		})
	}
	return embed
}

func highlightSummary(hs []model.Highlight) string {
	var b strings.Builder
	for i, h := range hs {
		if i == maxHighlightsShown {
			fmt.Fprintf(&b, "…and %d more", len(hs)-maxHighlightsShown)
			break
		}
		fmt.Fprintf(&b, "• `%s` (%s) %s\n", h.Text, h.Category, h.Explanation)
	}
	return textutil.Truncate(strings.TrimSpace(b.String()), maxFieldValue)
}

func coverageSummary(items []model.ComparativeCoverageItem) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "• [%s](%s) · %s · %s\n", textutil.Truncate(it.Headline, 80), it.URL, it.SourceName, it.Bias)
	}
	return textutil.Truncate(strings.TrimSpace(b.String()), maxFieldValue)
}

// SourceEmbed renders a registry entry
func SourceEmbed(r *model.SourceRating) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: r.Name,
		Color: biasColor(r.Bias),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bias", Value: string(r.Bias), Inline: true},
			{Name: "Factuality", Value: fmt.Sprintf("%s %.1f/10", meter(r.Factuality), r.Factuality), Inline: true},
			{Name: "Country", Value: r.Country, Inline: true},
			{Name: "Type", Value: r.MediaType, Inline: true},
		},
	}
}
