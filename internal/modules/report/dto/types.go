package dto

import "time"

type FollowUpOutput struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
}

type SectionOutput struct {
	Question  string           `json:"question"`
	Answer    string           `json:"answer"`
	Depth     int              `json:"depth"`
	FollowUps []FollowUpOutput `json:"follow_ups,omitempty"`
}

type ReportOutput struct {
	SessionID string          `json:"session_id"`
	Title     string          `json:"title"`
	Abstract  string          `json:"abstract"`
	FullText  string          `json:"full_text"`
	Sections  []SectionOutput `json:"sections"`
}

type ExportOutput struct {
	Path       string
	SessionID  string
	Title      string
	ExportedAt time.Time
	Sections   int
}

// Expansion is the set of expanded section questions. Toggle returns a new
// set and leaves the receiver untouched.
type Expansion struct {
	open map[string]struct{}
}

func (e Expansion) Toggle(question string) Expansion {
	next := make(map[string]struct{}, len(e.open)+1)
	for q := range e.open {
		next[q] = struct{}{}
	}
	if _, ok := next[question]; ok {
		delete(next, question)
	} else {
		next[question] = struct{}{}
	}
	return Expansion{open: next}
}

func (e Expansion) IsExpanded(question string) bool {
	_, ok := e.open[question]
	return ok
}

func (e Expansion) Len() int {
	return len(e.open)
}
