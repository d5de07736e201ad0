package extractor

var titleSelectors = []string{
	`h1[class*="title"]`,
	`h1[class*="headline"]`,
	`h1[id*="title"]`,
	`h1[id*="headline"]`,
	`.article-title h1`,
	`.post-title h1`,
	`.entry-title h1`,
	`article h1`,
	`main h1`,
	`h1`,
	`[property="og:title"]`,
	`[name="twitter:title"]`,
	`title`,
}

// Removed before the body is read
var boilerplateSelectors = []string{
	`script`, `style`, `noscript`, `nav`, `header`, `footer`, `aside`,
	`.advertisement`, `.ad`, `.ads`, `.social-share`, `.comments`, `.related-articles`,
	`.newsletter`, `.subscription`, `.paywall`, `.cookie-notice`, `.popup`, `.modal`,
	`.sidebar`, `.menu`, `[class*="ad-"]`, `[id*="ad-"]`, `[class*="advertisement"]`,
}

var contentSelectors = []string{
	`article[role="main"]`,
	`main article`,
	`[role="main"] article`,
	`article .article-body`,
	`article .post-content`,
	`article .entry-content`,
	`article .content`,
	`.article-content`,
	`.post-content`,
	`.entry-content`,
	`.story-body`,
	`.article-body`,
	`.post-body`,
	`.content-body`,
	`main .content`,
	`article`,
	`main`,
	`.content`,
}

var authorSelectors = []string{
	`[rel="author"]`,
	`[property="article:author"]`,
	`[name="author"]`,
	`.author-name`,
	`.byline-author`,
	`.article-author`,
	`.post-author`,
	`.by-author`,
	`.author`,
	`.byline`,
}

var dateSelectors = []string{
	`[property="article:published_time"]`,
	`[property="article:published"]`,
	`[name="publish_date"]`,
	`[name="date"]`,
	`time[datetime]`,
	`.publish-date`,
	`.article-date`,
	`.post-date`,
	`.date`,
}

var sourceSelectors = []string{
	`[property="og:site_name"]`,
	`[name="application-name"]`,
	`.site-name`,
	`.source-name`,
	`.publication-name`,
}

var imageSelectors = []string{
	`[property="og:image"]`,
	`[name="twitter:image"]`,
	`[name="twitter:image:src"]`,
	`.article-image img`,
	`.post-image img`,
	`article img`,
	`main img`,
}

var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Mon, 02 Jan 2006 15:04:05 MST",
	"Mon, 02 Jan 2006 15:04:05 -0700",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"01/02/2006",
}
