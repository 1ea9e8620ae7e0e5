package dto

import "time"

type TreeOutput struct {
	SessionID    string              `json:"session_id"`
	FullReport   string              `json:"full_report"`
	Terminal     bool                `json:"terminal"`
	Outstanding  int                 `json:"outstanding"`
	SubQuestions []SubQuestionOutput `json:"subquestions"`
}

type SubQuestionOutput struct {
	ID        string           `json:"id"`
	Question  string           `json:"question"`
	Result    string           `json:"result"`
	Depth     int              `json:"depth"`
	Summary   string           `json:"summary,omitempty"`
	Complete  bool             `json:"complete"`
	Authority *float64         `json:"authority,omitempty"`
	Relevance *float64         `json:"relevance,omitempty"`
	FollowUps []FollowUpOutput `json:"follow_ups,omitempty"`
}

type FollowUpOutput struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Result   string `json:"result,omitempty"`
}

type GraphNodeOutput struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Kind    string `json:"kind"`
	Depth   int    `json:"depth"`
	Payload string `json:"payload,omitempty"`
}

type GraphLinkOutput struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type GraphOutput struct {
	Nodes []GraphNodeOutput `json:"nodes"`
	Links []GraphLinkOutput `json:"links"`
}

type SummaryOutput struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Children  []string  `json:"children,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	Revisions int       `json:"revisions"`
}

// UpdateOutput is one published state of a tracked session.
type UpdateOutput struct {
	SessionID  string
	Tree       TreeOutput
	Summaries  []SummaryOutput
	Graph      GraphOutput
	Terminal   bool
	Stalled    bool
	Failures   int
	ReceivedAt time.Time
}
