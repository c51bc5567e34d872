package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sanix-darker/revfix/internal/comments"
	"github.com/sanix-darker/revfix/internal/common"
	"github.com/sanix-darker/revfix/internal/config"
	"github.com/sanix-darker/revfix/internal/fixer"
	"github.com/sanix-darker/revfix/internal/gitops"
	"github.com/sanix-darker/revfix/internal/renders"
)

func init() {
	conf := config.NewDefaultConfig()

	fixCmd := &cobra.Command{
		Use:     "fix --comments review-comments.json [--repo .] [--dry-run] [--batch]",
		Short:   "Fix PR review comments with AI suggestions",
		Example: "revfix fix --comments review-comments.json --dry-run\nrevfix fix --comments review-comments.json --repo /path/to/repo --min-confidence high --yes",
		Run: func(cmd *cobra.Command, args []string) {
			applyFlags(cmd.Flags(), &conf)
			runFix(conf, cmd)
		},
	}

	fixCmd.Flags().String("comments", "", "Path to JSON file with GitHub PR review comments (required)")
	fixCmd.Flags().String("repo", ".", "Repository root the comment paths are relative to")
	fixCmd.Flags().Bool("dry-run", false, "Print proposed fixes without editing files")
	fixCmd.Flags().Bool("batch", false, "One model call per file instead of one per comment")
	fixCmd.Flags().String("min-confidence", "", "Minimum confidence to apply a fix: low, medium or high")
	fixCmd.Flags().String("provider", "", "AI provider to use (openai, anthropic)")
	fixCmd.Flags().String("model", "", "Model ID (e.g. gpt-4o-mini, openai/gpt-4o-mini for OpenRouter)")
	fixCmd.Flags().Bool("yes", false, "Apply fixes without asking for confirmation")
	fixCmd.Flags().Bool("copy", false, "Copy the fix report to the clipboard")
	fixCmd.Flags().Bool("commit", false, "Commit the edited files after applying fixes")
	fixCmd.Flags().Bool("push", false, "Push after committing (implies --commit)")
	fixCmd.Flags().Bool("debug", false, "Print debug information")
	_ = fixCmd.MarkFlagRequired("comments")

	rootCmd.AddCommand(fixCmd)
}

func runFix(conf config.Config, cmd *cobra.Command) {
	commentsFile, _ := cmd.Flags().GetString("comments")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")
	copyReport, _ := cmd.Flags().GetBool("copy")
	commit, _ := cmd.Flags().GetBool("commit")
	push, _ := cmd.Flags().GetBool("push")

	list, err := comments.Load(commentsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(list) == 0 {
		fmt.Fprintln(os.Stderr, "No comments to process.")
		return
	}

	p, err := resolveProvider(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving provider: %v\n", err)
		os.Exit(1)
	}

	if conf.Debug {
		info := p.Info()
		fmt.Fprintf(os.Stderr, "[debug] provider=%s model=%s batch=%v\n",
			info.Name, info.DefaultModel, conf.Batch)
	}

	ctx := context.Background()

	// Credentials are checked before any file is touched.
	if err := p.Validate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !dryRun && !yes {
		prompt := fmt.Sprintf("Apply AI fixes for %d comment(s) to files under %s?", len(list), conf.RepoRoot)
		if !conf.Printers.Confirm(prompt) {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return
		}
	}

	suggester := &spinnerSuggester{
		inner: fixer.NewModelSuggester(p, conf.Model),
	}

	f := fixer.New(fixer.Config{
		RepoRoot:      conf.RepoRoot,
		DryRun:        dryRun,
		Batch:         conf.Batch,
		MinConfidence: fixer.ParseConfidence(conf.MinConfidence),
		Warnf: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}, suggester)

	result, err := f.Run(ctx, list)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report := fixer.Report(result)
	if dryRun {
		fmt.Print(renders.RenderMarkdown(report))
	} else {
		fmt.Fprintln(os.Stderr, fixer.Summary(result))
	}

	if copyReport {
		if err := common.SetClipboardValue(report); err != nil {
			fmt.Fprintf(os.Stderr, "Could not copy report: %v\n", err)
		}
	}

	if dryRun || (!commit && !push) {
		return
	}

	paths := appliedPaths(result)
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to commit.")
		return
	}
	hash, err := gitops.CommitFixes(conf.RepoRoot, paths, commitMessage(result))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Commit failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Committed %s\n", hash[:8])

	if push {
		if err := gitops.Push(conf.RepoRoot); err != nil {
			fmt.Fprintf(os.Stderr, "Push failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Pushed.")
	}
}

// appliedPaths returns the unique relative paths of files the run edited,
// in first-edit order.
func appliedPaths(result *fixer.RunResult) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, o := range result.Outcomes {
		if o.Status != fixer.StatusApplied || seen[o.Path] {
			continue
		}
		seen[o.Path] = true
		paths = append(paths, o.Path)
	}
	return paths
}

func commitMessage(result *fixer.RunResult) string {
	return fmt.Sprintf("Apply %d review fix(es)", result.Applied())
}

// spinnerSuggester shows a spinner while a model call is in flight.
type spinnerSuggester struct {
	inner fixer.Suggester
}

func (s *spinnerSuggester) SuggestFix(ctx context.Context, req fixer.FixRequest) (*fixer.Suggestion, error) {
	sp := newSpinner(fmt.Sprintf(" Generating fix for %s...", req.Path))
	sp.Start()
	defer sp.Stop()
	return s.inner.SuggestFix(ctx, req)
}

func (s *spinnerSuggester) SuggestFileFixes(ctx context.Context, req fixer.FileFixRequest) ([]fixer.BatchFix, error) {
	sp := newSpinner(fmt.Sprintf(" Generating %d fix(es) for %s...", len(req.Comments), req.Path))
	sp.Start()
	defer sp.Stop()
	return s.inner.SuggestFileFixes(ctx, req)
}

func newSpinner(suffix string) *spinner.Spinner {
	sp := spinner.New(spinner.CharSets[11], 100*time.Millisecond,
		spinner.WithWriter(os.Stderr))
	sp.Suffix = suffix
	return sp
}

// applyFlags copies CLI flag values onto the run config; only flags the
// user actually set override config-file values.
func applyFlags(flags *pflag.FlagSet, conf *config.Config) {
	if v, _ := flags.GetString("repo"); v != "" {
		conf.RepoRoot = v
	}
	if v, _ := flags.GetString("provider"); v != "" {
		conf.Provider = strings.ToLower(v)
	}
	if v, _ := flags.GetString("model"); v != "" {
		conf.Model = v
	}
	if flags.Changed("min-confidence") {
		v, _ := flags.GetString("min-confidence")
		conf.MinConfidence = v
	} else if v := conf.Store.GetString("fix.min_confidence"); v != "" {
		conf.MinConfidence = v
	}
	if flags.Changed("batch") {
		conf.Batch, _ = flags.GetBool("batch")
	} else {
		conf.Batch = conf.Store.GetBool("fix.batch")
	}
	if flags.Changed("debug") {
		conf.Debug, _ = flags.GetBool("debug")
	} else {
		conf.Debug = conf.Store.GetBool("debug")
	}
}
