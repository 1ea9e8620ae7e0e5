package domain_test

import (
	"testing"
	"time"

	"solve/internal/modules/research/domain"
)

func TestSummaryCacheInsertAndCarryOver(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Second)

	nodes := domain.Flatten(scenarioTree())
	first := domain.NewSummaryCache().Apply(nodes, t0)
	if first.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", first.Len())
	}
	root, ok := first.Get(domain.RootID)
	if !ok {
		t.Fatalf("root missing")
	}
	if len(root.Children) != 1 || root.Children[0] != "subq-0" {
		t.Fatalf("root children: %v", root.Children)
	}

	second := first.Apply(nodes, t1)
	again, _ := second.Get(domain.RootID)
	if !again.UpdatedAt.Equal(t0) {
		t.Fatalf("unchanged entry was replaced: %v", again.UpdatedAt)
	}
	if len(again.History) != 1 {
		t.Fatalf("history grew without change: %d", len(again.History))
	}
}

func TestSummaryCacheReplacesOnChange(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Second)

	tree := scenarioTree()
	first := domain.NewSummaryCache().Apply(domain.Flatten(tree), t0)

	tree.SubQuestions[0].Summary = "short version"
	second := first.Apply(domain.Flatten(tree), t1)

	got, _ := second.Get("subq-0")
	if got.Content != "short version" {
		t.Fatalf("summary should win over result, got %q", got.Content)
	}
	if !got.UpdatedAt.Equal(t1) || len(got.History) != 2 {
		t.Fatalf("expected replacement at t1 with 2 revisions, got %v / %d", got.UpdatedAt, len(got.History))
	}

	old, _ := first.Get("subq-0")
	if old.Content != "A1" || len(old.History) != 1 {
		t.Fatalf("previous cache was mutated: %+v", old)
	}
}

func TestSummaryCacheChildOrderChangeCounts(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Second)

	tree := scenarioTree()
	first := domain.NewSummaryCache().Apply(domain.Flatten(tree), t0)

	tree.SubQuestions = append(tree.SubQuestions, domain.SubQuestion{Question: "Q2"})
	second := first.Apply(domain.Flatten(tree), t1)

	root, _ := second.Get(domain.RootID)
	if !root.UpdatedAt.Equal(t1) {
		t.Fatalf("root should be replaced when children change")
	}
	if len(root.History) != 1 {
		t.Fatalf("content unchanged, history should not grow: %d", len(root.History))
	}
}

func TestSummaryCacheDropsMissingIDs(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first := domain.NewSummaryCache().Apply(domain.Flatten(scenarioTree()), now)
	second := first.Apply(domain.Flatten(domain.ResearchTree{FullReport: "R"}), now)

	if second.Len() != 1 {
		t.Fatalf("expected only root, got %d entries", second.Len())
	}
	if _, ok := second.Get("subq-0"); ok {
		t.Fatalf("subq-0 should be dropped")
	}
	all := first.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].ID > all[i].ID {
			t.Fatalf("All not sorted: %s before %s", all[i-1].ID, all[i].ID)
		}
	}
}
