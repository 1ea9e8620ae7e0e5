package domain

import (
	"fmt"
	"strings"
)

type FollowUp struct {
	Question string
	Answer   string
}

type Section struct {
	Question  string
	Answer    string
	Depth     int
	FollowUps []FollowUp
}

// Report is the rendered outcome of a finished research session.
type Report struct {
	SessionID string
	Title     string
	Abstract  string
	FullText  string
	Sections  []Section
}

// SplitText treats the first non-blank line as the title and the remainder as
// the abstract. Markdown heading markers are stripped from the title.
func SplitText(text string) (string, string) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		title := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if title == "" {
			continue
		}
		return title, strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
	}
	return "", ""
}

func New(sessionID, fullText string, sections []Section) Report {
	title, abstract := SplitText(fullText)
	if title == "" {
		title = "Research report"
	}
	return Report{
		SessionID: sessionID,
		Title:     title,
		Abstract:  abstract,
		FullText:  fullText,
		Sections:  sections,
	}
}

const noAnswer = "_No answer available._"

// Markdown renders the report. Sections whose question is not expanded show
// only their heading.
func (r Report) Markdown(expanded func(question string) bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	if r.Abstract != "" {
		b.WriteString(r.Abstract)
		b.WriteString("\n\n")
	}
	if len(r.Sections) == 0 {
		return b.String()
	}
	b.WriteString("## Questions\n\n")
	for _, s := range r.Sections {
		open := expanded == nil || expanded(s.Question)
		marker := "▸"
		if open {
			marker = "▾"
		}
		fmt.Fprintf(&b, "### %s %s\n\n", marker, s.Question)
		if !open {
			continue
		}
		b.WriteString(orPlaceholder(s.Answer))
		b.WriteString("\n\n")
		if len(s.FollowUps) == 0 {
			continue
		}
		b.WriteString("**Follow-up questions:**\n\n")
		for _, f := range s.FollowUps {
			fmt.Fprintf(&b, "- **%s**", f.Question)
			if strings.TrimSpace(f.Answer) != "" {
				fmt.Fprintf(&b, ": %s", strings.TrimSpace(f.Answer))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return noAnswer
	}
	return strings.TrimSpace(s)
}
