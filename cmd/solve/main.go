package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solve/internal/bootstrap"
	intakedto "solve/internal/modules/intake/dto"
	researchdto "solve/internal/modules/research/dto"
	researchin "solve/internal/modules/research/port/in"
	"solve/internal/platform/config"
	apperrors "solve/internal/platform/errors"
	"solve/internal/platform/logging"
	"solve/internal/ui/components"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	stateDir   string
	backendURL string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "solve",
		Short:         "Terminal client for company research reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.stateDir, "state-dir", ".solve", "client state directory (session, config, exports)")
	root.PersistentFlags().StringVar(&opts.backendURL, "backend-url", "", "research backend base URL (overrides config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newSubmitCmd(opts))
	root.AddCommand(newSessionCmd(opts))
	root.AddCommand(newWatchCmd(opts))
	root.AddCommand(newGraphCmd(opts))
	root.AddCommand(newReportCmd(opts))
	root.AddCommand(newTopicsCmd(opts))
	return root
}

// loadApp builds the application. The TUI owns the terminal, so it logs to a
// file; every other command logs to stderr.
func loadApp(opts *rootOptions, tui bool) (*bootstrap.App, error) {
	cfg, err := config.New(opts.stateDir)
	if err != nil {
		return nil, err
	}
	if opts.backendURL != "" {
		cfg.BackendURL = opts.backendURL
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logPath := ""
	if tui {
		logPath = cfg.LogPath
	}
	logger, err := logging.New(cfg.LogLevel, logPath)
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return app, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(opts, true)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

func newTopicsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List the analysis categories accepted by submit --category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, false)
			if err != nil {
				return err
			}
			defer app.Close()
			for _, t := range app.IntakeCLI.Catalog() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	var company, industry string
	var topics, prompts []string
	var detach bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Start a research job and follow it until the report is ready",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signalContext()
			defer stop()

			prepared, err := app.IntakeCLI.Prepare(ctx, intakedto.SubmitInput{
				CompanyName: company,
				Industry:    industry,
				Topics:      topics,
				Prompts:     prompts,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "session %s: researching %s (%s), %d prompts\n",
				prepared.SessionID, prepared.CompanyName, prepared.Industry, len(prepared.Prompts))

			if detach {
				return app.IntakeCLI.Dispatch(ctx, prepared)
			}

			// The analyze call only returns once the job is done, so polling runs
			// beside it. Finishing either side ends the other.
			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			g, gctx := errgroup.WithContext(runCtx)

			var final researchdto.TreeOutput
			g.Go(func() error {
				err := app.IntakeCLI.Dispatch(gctx, prepared)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
			g.Go(func() error {
				defer cancel()
				tree, err := follow(gctx, app.ResearchCLI.Watch(gctx, prepared.SessionID), out, app.Logger)
				final = tree
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}
			if final.FullReport == "" {
				return ctx.Err()
			}
			return printReport(ctx, app, final, out, false)
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "company name (required)")
	cmd.Flags().StringVar(&industry, "industry", "", "industry (required)")
	cmd.Flags().StringSliceVar(&topics, "category", nil, "analysis category from the catalog (repeatable, see `solve topics`)")
	cmd.Flags().StringArrayVar(&prompts, "prompt", nil, "free-form research question (repeatable)")
	cmd.Flags().BoolVar(&detach, "no-watch", false, "only send the analyze request; do not poll")
	return cmd
}

func newSessionCmd(opts *rootOptions) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Manage the stored research session"}

	session.AddCommand(&cobra.Command{
		Use:   "new",
		Short: "Request a new session id and store it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, false)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.New(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.SessionID)
			return nil
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored session id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, false)
			if err != nil {
				return err
			}
			defer app.Close()
			id, err := app.SessionCLI.Current(context.Background())
			if err != nil {
				return err
			}
			if id == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no session")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the stored session id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, false)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.SessionCLI.Clear(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session cleared")
			return nil
		},
	})
	return session
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var sessionID string
	var plain bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll a session until research completes, then print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signalContext()
			defer stop()

			out := cmd.OutOrStdout()
			if sessionID == "" {
				resumed, err := app.SessionCLI.Resume(ctx)
				if err != nil {
					return err
				}
				sessionID = resumed.SessionID
				verb := "created"
				if resumed.Resumed {
					verb = "resumed"
				}
				_, _ = fmt.Fprintf(out, "%s session %s\n", verb, sessionID)
			}

			final, err := follow(ctx, app.ResearchCLI.Watch(ctx, sessionID), out, app.Logger)
			if err != nil {
				return err
			}
			if final.FullReport == "" {
				return ctx.Err()
			}
			return printReport(ctx, app, final, out, plain)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session-id", "", "session to watch (default: stored session, created if missing)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown instead of styled output")
	return cmd
}

func newGraphCmd(opts *rootOptions) *cobra.Command {
	var sessionID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the current research tree as nodes and links",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := context.Background()
			id, err := resolveSession(ctx, app, sessionID)
			if err != nil {
				return err
			}
			g, err := app.ResearchCLI.Graph(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(g)
			}
			for _, n := range g.Nodes {
				_, _ = fmt.Fprintf(out, "%s%s  [%s] %s\n", strings.Repeat("  ", n.Depth), n.ID, n.Kind, n.Label)
			}
			_, _ = fmt.Fprintf(out, "%d nodes, %d links\n", len(g.Nodes), len(g.Links))
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session-id", "", "session to project (default: stored session)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit {nodes, links} as JSON")
	return cmd
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	report := &cobra.Command{Use: "report", Short: "Show, export and list research reports"}

	var showSession string
	var plain bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Fetch the session's report once and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := context.Background()
			id, err := resolveSession(ctx, app, showSession)
			if err != nil {
				return err
			}
			_, md, err := app.ReportCLI.Show(ctx, id)
			if err != nil {
				return err
			}
			return writeMarkdown(cmd.OutOrStdout(), md, plain)
		},
	}
	show.Flags().StringVar(&showSession, "session-id", "", "session to show (default: stored session)")
	show.Flags().BoolVar(&plain, "plain", false, "print raw markdown instead of styled output")

	var exportSession, exportDir string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the session's report to a markdown file with frontmatter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := context.Background()
			id, err := resolveSession(ctx, app, exportSession)
			if err != nil {
				return err
			}
			dir := exportDir
			if dir == "" {
				dir = app.Config.ReportsDir
			}
			out, err := app.ReportCLI.Export(ctx, id, dir)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %q to %s\n", out.Title, out.Path)
			return nil
		},
	}
	export.Flags().StringVar(&exportSession, "session-id", "", "session to export (default: stored session)")
	export.Flags().StringVar(&exportDir, "out", "", "output directory (default: <state-dir>/reports)")

	var listDir string
	list := &cobra.Command{
		Use:   "list",
		Short: "List exported reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, false)
			if err != nil {
				return err
			}
			defer app.Close()

			dir := listDir
			if dir == "" {
				dir = app.Config.ReportsDir
			}
			items, err := app.ReportCLI.List(context.Background(), dir)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no exported reports")
				return nil
			}
			for _, item := range items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %-40s  %s  %s\n",
					item.ExportedAt.Local().Format(time.DateTime), item.Title, item.SessionID, item.Path)
			}
			return nil
		},
	}
	list.Flags().StringVar(&listDir, "dir", "", "export directory (default: <state-dir>/reports)")

	report.AddCommand(show, export, list)
	return report
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func resolveSession(ctx context.Context, app *bootstrap.App, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	id, err := app.SessionCLI.Current(ctx)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("%w: pass --session-id or run `solve session new`", apperrors.ErrNoSession)
	}
	return id, nil
}

// follow prints progress for a tracking until the final tree is delivered or
// ctx ends. The tracking is always stopped before follow returns.
func follow(ctx context.Context, t researchin.Tracking, out io.Writer, logger *zap.Logger) (researchdto.TreeOutput, error) {
	defer t.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		last := ""
		for u := range t.Updates() {
			line := progressLine(u)
			if line == last {
				continue
			}
			last = line
			_, _ = fmt.Fprintln(out, line)
		}
		return nil
	})

	var final researchdto.TreeOutput
	g.Go(func() error {
		select {
		case tree, ok := <-t.Navigate():
			if ok {
				final = tree
			}
			return nil
		case <-gctx.Done():
			logger.Debug("watch interrupted", zap.String("session_id", t.SessionID()))
			t.Stop()
			return nil
		}
	})
	err := g.Wait()
	return final, err
}

func progressLine(u researchdto.UpdateOutput) string {
	stamp := u.ReceivedAt.Local().Format(time.TimeOnly)
	if u.Stalled {
		return fmt.Sprintf("%s  backend not responding (%d failed polls), retrying", stamp, u.Failures)
	}
	total := len(u.Tree.SubQuestions)
	state := "processing"
	if u.Terminal {
		state = "complete"
	}
	return fmt.Sprintf("%s  %s: %d/%d questions answered, %d nodes", stamp, state, total-u.Tree.Outstanding, total, len(u.Graph.Nodes))
}

func printReport(_ context.Context, app *bootstrap.App, tree researchdto.TreeOutput, out io.Writer, plain bool) error {
	report := app.ReportTUI.FromTree(tree)
	return writeMarkdown(out, app.ReportTUI.Markdown(report, nil), plain)
}

func writeMarkdown(out io.Writer, md string, plain bool) error {
	if !plain {
		md = components.NewMarkdownRenderer("auto", 100).Render(md)
	}
	_, err := fmt.Fprintln(out, md)
	return err
}
