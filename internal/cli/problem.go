package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsandoval/daybrief/internal/model"
	"github.com/jsandoval/daybrief/internal/store"
)

func init() {
	problemCmd := &cobra.Command{
		Use:   "problem",
		Short: "Manage problems",
	}

	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Record an active problem",
		Args:  cobra.MinimumNArgs(1),
		Run:   runProblemAdd,
	}
	addCmd.Flags().Int("severity", 0, "Severity 1..5")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List problems",
		Run:   runProblemList,
	}

	problemStatus := func(use, short string, status model.ProblemStatus) *cobra.Command {
		return &cobra.Command{
			Use:   use + " [problem-id]",
			Short: short,
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				cfg := loadConfig()
				s, err := openStore(cfg)
				if err != nil {
					exitErr("open store", err)
				}
				defer s.Close()
				if err := s.SetProblemStatus(cmd.Context(), userFlag, args[0], status); err != nil {
					exitErr(use, err)
				}
				printJSON(map[string]string{"problem_id": args[0], "status": string(status)})
			},
		}
	}

	problemCmd.AddCommand(addCmd, listCmd,
		problemStatus("monitor", "Move a problem to monitoring", model.ProblemMonitoring),
		problemStatus("resolve", "Resolve a problem", model.ProblemResolved),
	)
	RootCmd.AddCommand(problemCmd)
}

func runProblemAdd(cmd *cobra.Command, args []string) {
	severity, _ := cmd.Flags().GetInt("severity")

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	problem, err := s.CreateProblem(cmd.Context(), store.ProblemParams{
		UserID:   userFlag,
		Title:    strings.Join(args, " "),
		Severity: severity,
	})
	if err != nil {
		exitErr("add problem", err)
	}
	printJSON(problem)
}

func runProblemList(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	problems, err := s.ListProblems(cmd.Context(), userFlag, 0)
	if err != nil {
		exitErr("list problems", err)
	}
	printJSON(problems)
}
