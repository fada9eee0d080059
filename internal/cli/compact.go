package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func init() {
	compactCmd := &cobra.Command{
		Use:   "compact",
		Short: "Delete raw inbox items older than the retention window",
		Run:   runCompact,
	}
	compactCmd.Flags().Int("retention-days", 0, "Retention window in days (default: memory.retention_days)")
	RootCmd.AddCommand(compactCmd)
}

func runCompact(cmd *cobra.Command, args []string) {
	retention, _ := cmd.Flags().GetInt("retention-days")

	cfg := loadConfig()
	if retention <= 0 {
		retention = cfg.Memory.RetentionDays
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	deleted, err := s.Compact(cmd.Context(), retention, time.Now().UTC())
	if err != nil {
		exitErr("compact", err)
	}
	printJSON(map[string]any{"deleted": deleted, "retention_days": retention})
}
