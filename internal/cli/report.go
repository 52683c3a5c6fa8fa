package cli

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"taskfactory/internal/task"
)

var listFilter string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the tasks passing a filter",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print completion counters",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "all, active or completed (default: default_filter)")
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, store, err := openStore(cfg, log.New(cmd.ErrOrStderr(), "taskfactory: ", 0))
	if err != nil {
		return err
	}
	defer db.Close()

	if listFilter != "" {
		f, err := task.ParseFilter(listFilter)
		if err != nil {
			return err
		}
		if err := store.SetFilter(f); err != nil {
			return err
		}
	}

	v := store.View()
	out := cmd.OutOrStdout()
	if len(v.Visible) == 0 {
		fmt.Fprintln(out, store.Filter().EmptyText())
		return nil
	}
	for _, t := range v.Visible {
		writeTask(out, t)
	}
	return nil
}

func writeTask(w io.Writer, t task.Task) {
	checkbox := "[ ]"
	if t.Completed {
		checkbox = "[x]"
	}
	fmt.Fprintf(w, "%s %-6s %s  (%s)\n", checkbox, t.Priority, t.Text, t.ShortID())
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, store, err := openStore(cfg, log.New(cmd.ErrOrStderr(), "taskfactory: ", 0))
	if err != nil {
		return err
	}
	defer db.Close()

	v := store.View()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total Units: %d\n", v.TotalCount)
	fmt.Fprintf(out, "In Queue:    %d\n", v.ActiveCount)
	fmt.Fprintf(out, "Processed:   %d\n", v.CompletedCount)
	fmt.Fprintf(out, "Completion:  %.0f%%\n", v.CompletionPercentage)

	saved, ok, err := db.UpdatedAt(cfg.StorageKey)
	if err != nil {
		return fmt.Errorf("failed to read save time: %w", err)
	}
	if ok {
		fmt.Fprintf(out, "Last saved:  %s\n", saved.Format(time.RFC3339))
	} else {
		fmt.Fprintln(out, "Last saved:  never")
	}
	return nil
}
