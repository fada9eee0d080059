package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent audit events, newest first",
		Run:   runEvents,
	}
	eventsCmd.Flags().IntP("limit", "n", 50, "Max events to return")
	RootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	events, err := s.RecentEvents(cmd.Context(), userFlag, limit)
	if err != nil {
		exitErr("events", err)
	}
	printJSON(events)
}
