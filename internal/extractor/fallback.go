package extractor

import (
	"strings"
	"time"

	"github.com/NullMeDev/mediabias/internal/model"
)

// PlaceholderBody is the body of the record used when a page cannot be read
const PlaceholderBody = "Unable to extract full content from this article. " +
	"This may be due to the website's security settings or paywall restrictions. " +
	"Please visit the original article for complete content."

// Fallback returns the record analyzed when fetching or extraction fails:
// a canned article for demo hosts, otherwise a placeholder named after the host.
func Fallback(pageURL string, now time.Time) *model.ExtractedArticle {
	host := hostname(pageURL)
	if canned, ok := cannedArticles[strings.TrimPrefix(host, "www.")]; ok {
		a := canned
		a.URL = pageURL
		a.Fallback = true
		return &a
	}
	return Placeholder(pageURL, now)
}

// Placeholder builds the synthetic record for pageURL
func Placeholder(pageURL string, now time.Time) *model.ExtractedArticle {
	host := hostname(pageURL)
	title := "Unknown Article"
	if host != "" {
		title = "Article from " + host
	}
	return &model.ExtractedArticle{
		Title:       title,
		Body:        PlaceholderBody,
		Author:      "Unknown",
		PublishDate: now.UTC(),
		SourceName:  strings.TrimPrefix(host, "www."),
		URL:         pageURL,
		Fallback:    true,
	}
}

// Demo hosts always resolve to the same article so walkthroughs and tests
// do not depend on the network.
var cannedArticles = map[string]model.ExtractedArticle{
	"example.com": {
		Title:       "City Council Approves Riverside Flood Defense Plan After Heated Debate",
		Author:      "Jordan Avery",
		PublishDate: time.Date(2024, time.March, 14, 9, 30, 0, 0, time.UTC),
		SourceName:  "Example Daily",
		Body: "The city council voted 7-2 on Tuesday to approve a $48 million flood defense plan for the riverside district, " +
			"according to officials who briefed reporters after the session. The plan, which engineers said would protect " +
			"roughly 12,000 homes, follows last year's devastating floods that displaced hundreds of families. " +
			"\"This is the most significant infrastructure investment the district has seen in a generation,\" said Mayor " +
			"Elena Ruiz, who called the vote a breakthrough. Critics argued the spending was rushed. Council member Tom " +
			"Becker described the process as \"an outrageous rush job that ignores taxpayers,\" and warned of cost overruns. " +
			"A 2023 survey by the regional planning office found that 64% of residents supported stronger flood protection. " +
			"The report, which analysts at the state university reviewed, confirmed that river levels have risen steadily " +
			"over the past decade. Construction is expected to begin in September, reportedly pending final environmental review.",
	},
	"example.org": {
		Title:       "Local Library Extends Weekend Hours Through the Summer",
		Author:      "Priya Natarajan",
		PublishDate: time.Date(2024, time.June, 3, 14, 0, 0, 0, time.UTC),
		SourceName:  "Example Community News",
		Body: "The public library will extend its weekend hours from June through August, the library director announced " +
			"on Monday. Branches will open at 9 a.m. on Saturdays and Sundays and close at 6 p.m. The change follows a " +
			"survey of patrons in which 71% asked for longer weekend access. The director said the additional hours would " +
			"be covered by the existing budget and by volunteers from the Friends of the Library group. Summer reading " +
			"programs for children will also move to weekend mornings, according to a statement from the library board. " +
			"Staff said the schedule will be reviewed in September based on attendance data.",
	},
}
