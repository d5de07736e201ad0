package scorer

import (
	"regexp"

	"github.com/NullMeDev/mediabias/internal/model"
)

type highlightRule struct {
	category    model.HighlightCategory
	re          *regexp.Regexp
	explanation string
}

func rule(category model.HighlightCategory, pattern, explanation string) highlightRule {
	return highlightRule{
		category:    category,
		re:          regexp.MustCompile(`(?i)\b(` + pattern + `)\b`),
		explanation: explanation,
	}
}

// Rules run in this order: emotional, left-leaning, right-leaning, factual.
var highlightRules = []highlightRule{
	rule(model.CategoryEmotional, `devastating|catastrophic|shocking|outrageous|unprecedented`,
		"Emotionally charged language that may exaggerate impact"),
	rule(model.CategoryEmotional, `explosive|bombshell|stunning|mind-blowing|earth-shattering`,
		"Sensationalized language designed to provoke reaction"),
	rule(model.CategoryEmotional, `miraculous|incredible|unbelievable|phenomenal|extraordinary`,
		"Hyperbolic language that may overstate significance"),
	rule(model.CategoryEmotional, `horrific|terrifying|appalling|disgusting|revolting`,
		"Extreme emotional descriptors that may bias perception"),

	rule(model.CategoryBias, `progressive|social justice|climate crisis|systemic racism|wealth inequality`,
		"Language commonly associated with left-leaning perspectives"),
	rule(model.CategoryBias, `corporate greed|tax the rich|medicare for all|green new deal|reproductive rights`,
		"Terminology often used in progressive political discourse"),
	rule(model.CategoryBias, `fascist|authoritarian|far-right|extremist|white supremacist`,
		"Strong negative characterizations often used by left-leaning sources"),
	rule(model.CategoryBias, `universal healthcare|living wage|workers rights|union organizing|collective bargaining`,
		"Progressive policy terminology"),

	rule(model.CategoryBias, `traditional values|law and order|border security|fiscal responsibility|free market`,
		"Language commonly associated with right-leaning perspectives"),
	rule(model.CategoryBias, `socialist|communist|radical left|liberal elite|mainstream media`,
		"Terminology often used in conservative political discourse"),
	rule(model.CategoryBias, `deep state|fake news|cancel culture|woke agenda|virtue signaling`,
		"Phrases commonly used to dismiss opposing viewpoints"),
	rule(model.CategoryBias, `second amendment|pro-life|family values|religious freedom|states rights`,
		"Conservative policy terminology"),

	rule(model.CategoryFactual, `according to|sources say|data shows|study finds|research indicates`,
		"Proper source attribution - sign of factual reporting"),
	rule(model.CategoryFactual, `allegedly|reportedly|appears to|seems to|may have`,
		"Cautious language indicating unverified claims - good journalism"),
	rule(model.CategoryFactual, `confirmed|verified|documented|established|proven`,
		"Language indicating fact-checking and verification"),
}

// Highlights returns every rule match in body. Matches from different rules
// may overlap; none are merged.
func Highlights(body string) []model.Highlight {
	highlights := []model.Highlight{}
	for _, r := range highlightRules {
		for _, loc := range r.re.FindAllStringIndex(body, -1) {
			highlights = append(highlights, model.Highlight{
				Text:        body[loc[0]:loc[1]],
				Category:    r.category,
				Explanation: r.explanation,
				Start:       loc[0],
				End:         loc[1],
			})
		}
	}
	return highlights
}
