package report

import (
	"strings"
)

// Title heads every exported document.
const Title = "Healthcare Diagnosis and Treatment Recommendations"

// Disclaimer closes every report.
const Disclaimer = "*Note: This is just the start, if you are concerned about the diagnosis or treatment plan, please consult with a healthcare professional for accurate diagnosis and treatment.*"

type Kind string

const (
	KindHeading1  Kind = "heading1"
	KindHeading2  Kind = "heading2"
	KindQuote     Kind = "quote"
	KindParagraph Kind = "paragraph"
)

// Block is one line of report text tagged with how it should be displayed.
type Block struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Sections are the parts a report is assembled from.
type Sections struct {
	Diagnosis string
	Treatment string
	Reminders []string
	MoodTrend []string
}

// Compose assembles the report text. Sections always appear in the same order
// so the document layout does not depend on which parts are empty.
func Compose(s Sections) string {
	var b strings.Builder
	b.WriteString("# Diagnosis and Treatment Plan\n\n")
	section(&b, "Preliminary Diagnosis", s.Diagnosis)
	section(&b, "Treatment Plan", s.Treatment)
	section(&b, "Medication Reminders", orNone(strings.Join(s.Reminders, "\n")))
	section(&b, "Mental Health Trend (Last 7 days)", orNone(strings.Join(s.MoodTrend, "\n")))
	b.WriteString("---\n")
	b.WriteString(Disclaimer)
	return b.String()
}

func section(b *strings.Builder, heading, body string) {
	b.WriteString("## ")
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n\n")
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}

// Parse splits text into lines and tags each one by its prefix. Headings lose
// their marker; quotes keep the line as written.
func Parse(text string) []Block {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, classify(line))
	}
	return blocks
}

func classify(line string) Block {
	switch {
	case strings.HasPrefix(line, "# "):
		return Block{Kind: KindHeading1, Text: line[2:]}
	case strings.HasPrefix(line, "## "):
		return Block{Kind: KindHeading2, Text: line[3:]}
	case strings.HasPrefix(line, "*"):
		return Block{Kind: KindQuote, Text: line}
	default:
		return Block{Kind: KindParagraph, Text: line}
	}
}
