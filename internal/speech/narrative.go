package speech

import (
	"fmt"
	"strings"
)

// Heading is a page heading offered for read-aloud
type Heading struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Narrative turns a list of headings into a sentence flow for reading aloud
func Narrative(headings []Heading) string {
	if len(headings) == 0 {
		return "No headings found on this page."
	}

	var b strings.Builder
	b.WriteString("Here are the main headings on this page. ")
	for i, h := range headings {
		label := levelLabel(h.Level)
		switch {
		case i == 0:
			fmt.Fprintf(&b, "%s: %s. ", label, h.Text)
		case i == len(headings)-1:
			fmt.Fprintf(&b, "And finally, %s: %s.", label, h.Text)
		default:
			fmt.Fprintf(&b, "Next, %s: %s. ", label, h.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

func levelLabel(level int) string {
	switch level {
	case 1:
		return "Main heading"
	case 2:
		return "Section heading"
	case 3:
		return "Subsection heading"
	default:
		return fmt.Sprintf("Level %d heading", level)
	}
}
