package domain_test

import (
	"testing"

	"solve/internal/modules/research/domain"
)

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	yes := true
	cases := []struct {
		name string
		tree domain.ResearchTree
		want bool
	}{
		{name: "empty", tree: domain.ResearchTree{}, want: false},
		{name: "whitespace report", tree: domain.ResearchTree{FullReport: "  \n"}, want: false},
		{name: "report only", tree: domain.ResearchTree{FullReport: "R"}, want: true},
		{name: "outstanding question", tree: domain.ResearchTree{
			FullReport:   "R",
			SubQuestions: []domain.SubQuestion{{Question: "Q", Result: " "}},
		}, want: false},
		{name: "flag alone is not enough", tree: domain.ResearchTree{
			Complete:     &yes,
			SubQuestions: []domain.SubQuestion{{Question: "Q", Result: "A", Complete: &yes}},
		}, want: false},
		{name: "answered", tree: scenarioTree(), want: true},
	}
	for _, tc := range cases {
		if got := domain.IsTerminal(tc.tree); got != tc.want {
			t.Fatalf("%s: IsTerminal=%v want %v", tc.name, got, tc.want)
		}
	}
}

func TestCompletionLatchFiresOnce(t *testing.T) {
	t.Parallel()

	var latch domain.CompletionLatch
	if latch.Observe(domain.ResearchTree{}) {
		t.Fatalf("non-terminal tree fired the latch")
	}
	if !latch.Observe(scenarioTree()) {
		t.Fatalf("first terminal tree should fire")
	}
	if latch.Observe(scenarioTree()) {
		t.Fatalf("latch fired twice")
	}
	if !latch.Fired() {
		t.Fatalf("Fired should report true")
	}
}
