package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "solve/internal/platform/errors"
)

// ResearchTree is one full snapshot of a research job as reported by the
// backend. Every fetch replaces the previous snapshot; it is never a delta.
type ResearchTree struct {
	FullReport   string        `json:"full_report"`
	Complete     *bool         `json:"complete,omitempty"`
	SubQuestions []SubQuestion `json:"subquestions"`
}

type SubQuestion struct {
	Question       string          `json:"question"`
	Result         string          `json:"result"`
	Depth          int             `json:"depth"`
	Summary        string          `json:"summary,omitempty"`
	Complete       *bool           `json:"complete,omitempty"`
	Authority      *float64        `json:"authority,omitempty"`
	Relevance      *float64        `json:"relevance,omitempty"`
	OtherQuestions []OtherQuestion `json:"other_questions,omitempty"`
}

// OtherQuestion is a follow-up raised under a sub-question. The backend sends
// either a bare string or an object with an optional answer.
type OtherQuestion struct {
	Question string `json:"question"`
	Result   string `json:"result,omitempty"`
}

func (o *OtherQuestion) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*o = OtherQuestion{Question: text}
		return nil
	}
	type plain OtherQuestion
	var decoded plain
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return err
	}
	*o = OtherQuestion(decoded)
	return nil
}

func (t *ResearchTree) UnmarshalJSON(b []byte) error {
	type plain ResearchTree
	var wire struct {
		plain
		LegacyReport string `json:"full report"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*t = ResearchTree(wire.plain)
	if t.FullReport == "" {
		t.FullReport = wire.LegacyReport
	}
	return nil
}

// IsEmpty reports a snapshot that carries neither report text nor questions.
func (t ResearchTree) IsEmpty() bool {
	return strings.TrimSpace(t.FullReport) == "" && len(t.SubQuestions) == 0
}

// DecodeSnapshot parses a read_json body. The canonical shape is a single tree
// object; the legacy one-element array wrapper is unwrapped here so nothing
// downstream sees two shapes.
func DecodeSnapshot(raw []byte) (ResearchTree, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ResearchTree{}, apperrors.ErrEmptySnapshot
	}
	if trimmed[0] == '[' {
		var wrapped []json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return ResearchTree{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedSnapshot, err)
		}
		switch len(wrapped) {
		case 0:
			return ResearchTree{}, apperrors.ErrEmptySnapshot
		case 1:
			trimmed = bytes.TrimSpace(wrapped[0])
		default:
			return ResearchTree{}, fmt.Errorf("%w: %d trees in one snapshot", apperrors.ErrMalformedSnapshot, len(wrapped))
		}
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ResearchTree{}, fmt.Errorf("%w: expected a tree object", apperrors.ErrMalformedSnapshot)
	}

	var tree ResearchTree
	if err := json.Unmarshal(trimmed, &tree); err != nil {
		return ResearchTree{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedSnapshot, err)
	}
	if tree.IsEmpty() {
		return ResearchTree{}, apperrors.ErrEmptySnapshot
	}
	if err := ValidateNodes(Flatten(tree)); err != nil {
		return ResearchTree{}, err
	}
	return tree, nil
}

// ReportTitle is the first non-blank line of the report text.
func ReportTitle(report string) string {
	for _, line := range strings.Split(report, "\n") {
		if line = strings.TrimSpace(strings.TrimLeft(line, "# ")); line != "" {
			return line
		}
	}
	return ""
}
