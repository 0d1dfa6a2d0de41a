package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/granville-run/granville/internal/daemon"
	"github.com/granville-run/granville/internal/infra/audit"
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of recent tasks to show")
	rootCmd.AddCommand(historyCmd)
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently completed tasks from the audit log",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.Audit.Path == "" {
		fmt.Println("audit log is disabled")
		return nil
	}

	log, err := audit.Open(cfg.Audit.Path)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer log.Close()

	entries, err := log.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("read audit log: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("no completed tasks recorded")
		return nil
	}

	for _, e := range entries {
		outcome := "ok"
		if !e.Succeeded {
			outcome = "failed"
		}
		fmt.Printf("%-38s model=%-4d priority=%-8s %-6s %5dms  %s\n",
			e.TaskID, e.ModelID, e.Priority, outcome, e.DurationMS, e.CompletedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
