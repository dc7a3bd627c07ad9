package main

import (
	"context"
	"fmt"

	"kidsnews/internal/archive"
	"kidsnews/internal/capture"
	"kidsnews/internal/edition"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var issuesLimit int

// issuesCmd lists published issues from the ledger
var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List published issues, newest first",
	Long: `Lists issues from the SQLite ledger in the docs directory. Edition
directories published before the ledger existed are added first, so the
numbering matches the printed issue labels.`,
	RunE: runIssues,
}

func init() {
	issuesCmd.Flags().IntVarP(&issuesLimit, "limit", "n", 20, "Maximum issues to list (0 for all)")
}

var headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

// runIssues prints the ledger.
func runIssues(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ledger, err := archive.Open(cfg.GetArchivePath())
	if err != nil {
		return err
	}
	defer ledger.Close()

	dates, err := edition.ListDates(cfg.Output.DocsDir)
	if err != nil {
		return err
	}
	if err := ledger.Backfill(ctx, dates); err != nil {
		logger.Warn("ledger backfill failed", zap.Error(err))
	}

	issues, err := ledger.List(ctx, issuesLimit)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		fmt.Println("No issues published yet.")
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-10s  %-14s  %-24s  %s", "Date", "Issue", "Activity", "Headline")))
	for _, is := range issues {
		headline := is.Headline
		if headline == "" {
			headline = "(not recorded)"
		}
		activity := is.ActivityType
		if is.Captured {
			activity += " *"
		}
		fmt.Printf("%-10s  %-14s  %-24s  %s\n", is.Date, is.Label(), activity, headline)
	}
	fmt.Println(subtitleStyle.Render("* captured to " + capture.MergedFile))
	return nil
}
