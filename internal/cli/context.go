package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsandoval/daybrief/internal/memory"
	"github.com/jsandoval/daybrief/internal/tokens"
)

func init() {
	contextCmd := &cobra.Command{
		Use:   "context [query]",
		Short: "Assemble a token-bounded context envelope for a query",
		Args:  cobra.MinimumNArgs(1),
		Run:   runContext,
	}
	contextCmd.Flags().Int("max-tokens", 0, "Token budget (default: memory.context_max_tokens)")
	RootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) {
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")

	cfg := loadConfig()
	if maxTokens <= 0 {
		maxTokens = cfg.Memory.ContextMaxTokens
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	snap, err := s.ContextSnapshot(cmd.Context(), userFlag, chatFlag, cfg.Memory)
	if err != nil {
		exitErr("load snapshot", err)
	}
	env := memory.Assemble(snap, strings.Join(args, " "), maxTokens, cfg.Memory, tokens.Estimate)
	printJSON(env)
}
