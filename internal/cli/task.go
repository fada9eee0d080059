package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsandoval/daybrief/internal/model"
	"github.com/jsandoval/daybrief/internal/store"
)

func init() {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create an open task",
		Args:  cobra.MinimumNArgs(1),
		Run:   runTaskAdd,
	}
	addCmd.Flags().IntP("priority", "p", 0, "Priority 1..4 (1 = highest)")
	addCmd.Flags().Int("impact", 0, "Impact score 1..5")
	addCmd.Flags().Int("minutes", 0, "Estimated minutes")
	addCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().String("notes", "", "Free-form notes")
	addCmd.Flags().String("from-inbox", "", "Originating inbox item id")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, most recently updated first",
		Run:   runTaskList,
	}
	listCmd.Flags().StringP("status", "s", "", "Filter by status: open|blocked|done|archived")
	listCmd.Flags().IntP("limit", "n", 50, "Max tasks to return")

	taskCmd.AddCommand(addCmd, listCmd,
		statusCmd("done", "Mark a task done", model.TaskDone),
		statusCmd("block", "Mark a task blocked", model.TaskBlocked),
		statusCmd("reopen", "Reopen a task", model.TaskOpen),
		statusCmd("archive", "Archive a task", model.TaskArchived),
	)
	RootCmd.AddCommand(taskCmd)
}

func statusCmd(use, short string, status model.TaskStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [task-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			s, err := openStore(cfg)
			if err != nil {
				exitErr("open store", err)
			}
			defer s.Close()
			if err := s.SetTaskStatus(cmd.Context(), userFlag, args[0], status); err != nil {
				exitErr(use, err)
			}
			printJSON(map[string]string{"task_id": args[0], "status": string(status)})
		},
	}
}

func runTaskAdd(cmd *cobra.Command, args []string) {
	priority, _ := cmd.Flags().GetInt("priority")
	impact, _ := cmd.Flags().GetInt("impact")
	minutes, _ := cmd.Flags().GetInt("minutes")
	due, _ := cmd.Flags().GetString("due")
	notes, _ := cmd.Flags().GetString("notes")
	fromInbox, _ := cmd.Flags().GetString("from-inbox")

	var dueDate *time.Time
	if due != "" {
		d, err := time.Parse("2006-01-02", due)
		if err != nil {
			exitErr("parse due date", err)
		}
		dueDate = &d
	}

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	task, err := s.CreateTask(cmd.Context(), store.TaskParams{
		UserID:            userFlag,
		Title:             strings.Join(args, " "),
		Notes:             notes,
		Priority:          priority,
		ImpactScore:       impact,
		EstimatedMinutes:  minutes,
		DueDate:           dueDate,
		SourceInboxItemID: fromInbox,
	})
	if err != nil {
		exitErr("add task", err)
	}
	printJSON(task)
}

func runTaskList(cmd *cobra.Command, args []string) {
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	tasks, err := s.ListTasks(cmd.Context(), userFlag, model.TaskStatus(status), limit)
	if err != nil {
		exitErr("list tasks", err)
	}
	printJSON(tasks)
}
