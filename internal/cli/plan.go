package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsandoval/daybrief/internal/planner"
)

var errNoCachedPlan = errors.New("no cached plan (run without --cached first)")

func init() {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Build today's deterministic plan",
		Run:   runPlan,
	}
	planCmd.Flags().Bool("cached", false, "Print the cached plan instead of rebuilding")
	planCmd.Flags().Bool("save", false, "Cache the built plan")
	RootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) {
	cached, _ := cmd.Flags().GetBool("cached")
	save, _ := cmd.Flags().GetBool("save")

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if cached {
		p, err := s.CachedPlan(cmd.Context(), userFlag, planner.WindowToday)
		if err != nil {
			exitErr("read cached plan", err)
		}
		if p == nil {
			exitErr("read cached plan", errNoCachedPlan)
		}
		printJSON(p)
		return
	}

	state, err := s.PlanningState(cmd.Context(), userFlag)
	if err != nil {
		exitErr("load planning state", err)
	}
	p := planner.BuildPlan(state, time.Now().UTC(), cfg.Plan)
	if err := planner.Validate(p); err != nil {
		p = planner.Fallback(time.Now().UTC())
	}
	if save {
		if err := s.SavePlan(cmd.Context(), userFlag, p); err != nil {
			exitErr("save plan", err)
		}
	}
	printJSON(p)
}
