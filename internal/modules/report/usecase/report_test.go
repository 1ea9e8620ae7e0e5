package usecase_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	reportout "solve/internal/modules/report/adapter/out"
	"solve/internal/modules/report/dto"
	reportin "solve/internal/modules/report/port/in"
	"solve/internal/modules/report/service"
	"solve/internal/modules/report/usecase"
	researchdto "solve/internal/modules/research/dto"
	researchin "solve/internal/modules/research/port/in"
	"solve/internal/platform/clock"
	apperrors "solve/internal/platform/errors"
)

type fakeResearch struct {
	tree  researchdto.TreeOutput
	err   error
	calls int
}

func (f *fakeResearch) Track(context.Context, string) researchin.Tracking { return nil }

func (f *fakeResearch) Snapshot(_ context.Context, sessionID string) (researchdto.TreeOutput, error) {
	f.calls++
	if f.err != nil {
		return researchdto.TreeOutput{}, f.err
	}
	tree := f.tree
	tree.SessionID = sessionID
	return tree, nil
}

func (f *fakeResearch) Graph(context.Context, string) (researchdto.GraphOutput, error) {
	return researchdto.GraphOutput{}, nil
}

type fakeSummaries struct {
	text  string
	err   error
	calls int
}

func (f *fakeSummaries) Summary(context.Context, string) (string, error) {
	f.calls++
	return f.text, f.err
}

var exportedAt = time.Date(2025, 6, 7, 8, 9, 10, 0, time.UTC)

func newUsecase(research *fakeResearch, summaries *fakeSummaries) reportin.Usecase {
	svc := service.NewReportService(summaries, reportout.NewFileExportStore(), clock.Fixed{At: exportedAt}, nil)
	return usecase.NewInteractor(svc, research)
}

func finishedTree() researchdto.TreeOutput {
	return researchdto.TreeOutput{
		FullReport: "Acme Outlook\nStable margins.",
		Terminal:   true,
		SubQuestions: []researchdto.SubQuestionOutput{{
			Question:  "Is revenue growing?",
			Result:    "Yes.",
			Depth:     1,
			FollowUps: []researchdto.FollowUpOutput{{Question: "By how much?", Result: "12%"}},
		}},
	}
}

func TestFromTreeUsesPayloadWithoutFetching(t *testing.T) {
	t.Parallel()

	research := &fakeResearch{}
	uc := newUsecase(research, &fakeSummaries{})
	tree := finishedTree()
	tree.SessionID = "abc123"

	report := uc.FromTree(tree)
	require.Zero(t, research.calls)
	require.Equal(t, "Acme Outlook", report.Title)
	require.Equal(t, "Stable margins.", report.Abstract)
	require.Len(t, report.Sections, 1)
	require.Equal(t, "12%", report.Sections[0].FollowUps[0].Answer)
}

func TestLoadFetchesOnceWhenNoPayload(t *testing.T) {
	t.Parallel()

	research := &fakeResearch{tree: finishedTree()}
	summaries := &fakeSummaries{}
	uc := newUsecase(research, summaries)

	report, err := uc.Load(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, 1, research.calls)
	require.Zero(t, summaries.calls)
	require.Equal(t, "abc123", report.SessionID)
}

func TestLoadFallsBackToStoredSummary(t *testing.T) {
	t.Parallel()

	research := &fakeResearch{err: apperrors.ErrEmptySnapshot}
	summaries := &fakeSummaries{text: "Stored Title\nStored body."}
	uc := newUsecase(research, summaries)

	report, err := uc.Load(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, 1, summaries.calls)
	require.Equal(t, "Stored Title", report.Title)
	require.Empty(t, report.Sections)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := newUsecase(&fakeResearch{}, &fakeSummaries{}).Load(context.Background(), "")
	require.ErrorIs(t, err, apperrors.ErrNoSession)

	_, err = newUsecase(&fakeResearch{err: errors.New("down")}, &fakeSummaries{}).Load(context.Background(), "abc123")
	require.Error(t, err)

	_, err = newUsecase(&fakeResearch{}, &fakeSummaries{text: "  "}).Load(context.Background(), "abc123")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExpansionToggleIsPure(t *testing.T) {
	t.Parallel()

	var empty dto.Expansion
	once := empty.Toggle("Q1")
	require.False(t, empty.IsExpanded("Q1"))
	require.True(t, once.IsExpanded("Q1"))
	require.False(t, once.Toggle("Q1").IsExpanded("Q1"))
	require.True(t, once.IsExpanded("Q1"))
	require.Equal(t, 1, once.Len())
}

func TestMarkdownHonoursExpansion(t *testing.T) {
	t.Parallel()

	uc := newUsecase(&fakeResearch{}, &fakeSummaries{})
	report := uc.FromTree(finishedTree())

	var exp dto.Expansion
	require.NotContains(t, uc.Markdown(report, &exp), "Yes.")
	exp = exp.Toggle("Is revenue growing?")
	require.Contains(t, uc.Markdown(report, &exp), "Yes.")
}

func TestExportWritesFrontmatterAndLists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	uc := newUsecase(&fakeResearch{}, &fakeSummaries{})
	tree := finishedTree()
	tree.SessionID = "abc123"
	report := uc.FromTree(tree)

	out, err := uc.Export(context.Background(), report, dir)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(out.Path, "20250607-080910-acme-outlook.md"), out.Path)

	raw, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	content := string(raw)
	require.True(t, strings.HasPrefix(content, "---\n"))
	require.Contains(t, content, "session_id: abc123")
	require.Contains(t, content, "sections: 1")
	require.Contains(t, content, "# Acme Outlook")

	listed, err := uc.ListExports(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "Acme Outlook", listed[0].Title)
	require.True(t, listed[0].ExportedAt.Equal(exportedAt))
}

func TestListExportsMissingDirIsEmpty(t *testing.T) {
	t.Parallel()

	listed, err := newUsecase(&fakeResearch{}, &fakeSummaries{}).ListExports(context.Background(), t.TempDir()+"/missing")
	require.NoError(t, err)
	require.Empty(t, listed)
}
