package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsandoval/daybrief/internal/model"
	"github.com/jsandoval/daybrief/internal/store"
)

func init() {
	goalCmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals",
	}

	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create an active goal",
		Args:  cobra.MinimumNArgs(1),
		Run:   runGoalAdd,
	}
	addCmd.Flags().String("horizon", "", "Horizon label (e.g. quarter, year)")
	addCmd.Flags().String("target", "", "Target date (YYYY-MM-DD)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		Run:   runGoalList,
	}
	listCmd.Flags().StringP("status", "s", "", "Filter by status: active|paused|done|archived")

	goalStatus := func(use, short string, status model.GoalStatus) *cobra.Command {
		return &cobra.Command{
			Use:   use + " [goal-id]",
			Short: short,
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				cfg := loadConfig()
				s, err := openStore(cfg)
				if err != nil {
					exitErr("open store", err)
				}
				defer s.Close()
				if err := s.SetGoalStatus(cmd.Context(), userFlag, args[0], status); err != nil {
					exitErr(use, err)
				}
				printJSON(map[string]string{"goal_id": args[0], "status": string(status)})
			},
		}
	}

	goalCmd.AddCommand(addCmd, listCmd,
		goalStatus("pause", "Pause a goal", model.GoalPaused),
		goalStatus("resume", "Resume a paused goal", model.GoalActive),
		goalStatus("done", "Mark a goal done", model.GoalDone),
	)
	RootCmd.AddCommand(goalCmd)
}

func runGoalAdd(cmd *cobra.Command, args []string) {
	horizon, _ := cmd.Flags().GetString("horizon")
	target, _ := cmd.Flags().GetString("target")

	var targetDate *time.Time
	if target != "" {
		d, err := time.Parse("2006-01-02", target)
		if err != nil {
			exitErr("parse target date", err)
		}
		targetDate = &d
	}

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	goal, err := s.CreateGoal(cmd.Context(), store.GoalParams{
		UserID:     userFlag,
		Title:      strings.Join(args, " "),
		Horizon:    horizon,
		TargetDate: targetDate,
	})
	if err != nil {
		exitErr("add goal", err)
	}
	printJSON(goal)
}

func runGoalList(cmd *cobra.Command, args []string) {
	status, _ := cmd.Flags().GetString("status")

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	goals, err := s.ListGoals(cmd.Context(), userFlag, model.GoalStatus(status), 0)
	if err != nil {
		exitErr("list goals", err)
	}
	printJSON(goals)
}
