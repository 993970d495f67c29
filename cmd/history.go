package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"license-auditor/feature/history"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd lists recorded runs or shows one of them.
var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded audit runs",
	Long: `Without arguments, lists the most recent audit runs. With a run id, prints
the violations recorded for that run. Requires DATABASE_ENABLED=true.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Number of runs to list (default: audit.history_limit)")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.log.Sync()

	repo := rt.service.History()
	if repo == nil {
		return errors.New("audit history is not available, enable it with DATABASE_ENABLED=true")
	}

	if len(args) == 1 {
		run, err := repo.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printRun(cmd.OutOrStdout(), run)
		return nil
	}

	limit := historyLimit
	if limit <= 0 {
		limit = rt.cfg.Audit.HistoryLimit
	}
	runs, err := repo.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	printRuns(cmd.OutOrStdout(), runs)
	return nil
}

func printRuns(out io.Writer, runs []history.RunRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tOBJECTS\tCHECKED\tVIOLATIONS\tSOURCE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.TotalObjects, r.Checked, r.Violations, r.ObjectsSource)
	}
	_ = w.Flush()
}

func printRun(out io.Writer, run *history.RunRecord) {
	fmt.Fprintf(out, "Run %s (%s)\n", run.ID, run.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "License: %s\nObjects: %s (sheet %s)\n", run.LicenseSource, run.ObjectsSource, run.Sheet)
	fmt.Fprintf(out, "Checked %d, covered %d, violations %d\n", run.Checked, run.Covered, run.Violations)
	for _, item := range run.Items {
		fmt.Fprintf(out, "%d %s\t%s\n", item.ObjectID, item.ObjectType, item.Name)
	}
	if run.Artifact != "" {
		fmt.Fprintf(out, "Artifact: %s\n", run.Artifact)
	}
}
