package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jsandoval/daybrief/internal/worker"
)

func init() {
	workerCmd := &cobra.Command{
		Use:   "worker",
		Short: "Run scheduled compaction and plan refresh until interrupted",
		Run:   runWorker,
	}
	workerCmd.Flags().StringSlice("users", []string{"default"}, "User ids to refresh plans for")
	RootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) {
	users, _ := cmd.Flags().GetStringSlice("users")

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	w := worker.New(s, cfg, users, logger)
	if err := w.Start(); err != nil {
		exitErr("start worker", err)
	}
	logger.Info("worker started",
		"compact_schedule", cfg.Worker.CompactSchedule,
		"plan_refresh_schedule", cfg.Worker.PlanRefreshSchedule)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")
	w.Stop()
}
