package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsandoval/daybrief/internal/store"
)

func init() {
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Record or show memory summaries",
	}

	putCmd := &cobra.Command{
		Use:   "put [text]",
		Short: "Record a summary produced by the summarization job",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSummaryPut,
	}
	putCmd.Flags().String("type", "session", "Summary type: session|daily|weekly")
	putCmd.Flags().String("facts", "", "Facts payload as JSON")
	putCmd.Flags().StringSlice("sources", nil, "Source inbox item ids (provenance)")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the most recent summary for this user and chat",
		Run:   runSummaryShow,
	}

	summaryCmd.AddCommand(putCmd, showCmd)
	RootCmd.AddCommand(summaryCmd)
}

func runSummaryPut(cmd *cobra.Command, args []string) {
	summaryType, _ := cmd.Flags().GetString("type")
	facts, _ := cmd.Flags().GetString("facts")
	sources, _ := cmd.Flags().GetStringSlice("sources")

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sum, err := s.PutSummary(cmd.Context(), store.SummaryParams{
		UserID:      userFlag,
		ChatID:      chatFlag,
		SummaryType: summaryType,
		SummaryText: strings.Join(args, " "),
		FactsJSON:   facts,
		SourceIDs:   sources,
	})
	if err != nil {
		exitErr("put summary", err)
	}
	printJSON(sum)
}

func runSummaryShow(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sum, err := s.LatestSummary(cmd.Context(), userFlag, chatFlag)
	if err != nil {
		exitErr("show summary", err)
	}
	if sum == nil {
		printJSON(map[string]string{"summary": "none"})
		return
	}
	printJSON(sum)
}
