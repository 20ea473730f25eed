package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/petal-labs/musicbridge/journal"
)

// NewHistoryCmd creates the "history" subcommand.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled tool invocations, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of entries (0 = all)")
	cmd.Flags().String("tool", "", "Only show invocations of this tool")
	cmd.Flags().Bool("results", false, "Print each result JSON below its entry")
	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	toolID, _ := cmd.Flags().GetString("tool")
	showResults, _ := cmd.Flags().GetBool("results")

	path, err := cfg.JournalPath()
	if err != nil {
		return exitError(exitRuntime, "%v", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(cmd.OutOrStdout(), "No invocations recorded.")
		return nil
	}

	store, err := journal.Open(journal.StoreConfig{DSN: path})
	if err != nil {
		return exitError(exitRuntime, "%v", err)
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), toolID, limit)
	if err != nil {
		return exitError(exitRuntime, "%v", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No invocations recorded.")
		return nil
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(writer, "TIME\tTOOL\tSTATUS\tDURATION\tREQUEST")
	for _, e := range entries {
		status := "ok"
		if !e.Success {
			status = e.ErrorCode
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			e.StartedAt.Local().Format(time.DateTime),
			e.ToolID,
			status,
			e.Duration,
			e.RequestID,
		)
		if showResults {
			fmt.Fprintf(writer, "\t%s\n", e.Result)
		}
	}
	return writer.Flush()
}
