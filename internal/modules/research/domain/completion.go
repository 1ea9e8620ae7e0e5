package domain

import "strings"

// Outstanding counts sub-questions still waiting for an answer.
func (t ResearchTree) Outstanding() int {
	n := 0
	for _, sub := range t.SubQuestions {
		if strings.TrimSpace(sub.Result) == "" {
			n++
		}
	}
	return n
}

// IsTerminal is the single completion predicate: the root carries report text
// and no sub-question is outstanding. Per-node complete flags do not count.
func IsTerminal(t ResearchTree) bool {
	return strings.TrimSpace(t.FullReport) != "" && t.Outstanding() == 0
}

// CompletionLatch fires on the first terminal snapshot and never again.
type CompletionLatch struct {
	fired bool
}

func (l *CompletionLatch) Observe(t ResearchTree) bool {
	if l.fired || !IsTerminal(t) {
		return false
	}
	l.fired = true
	return true
}

func (l *CompletionLatch) Fired() bool {
	return l.fired
}
