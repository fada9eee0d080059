// Package cli implements the daybrief CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jsandoval/daybrief/internal/config"
	"github.com/jsandoval/daybrief/internal/store"
)

var (
	dbPath     string
	configPath string
	userFlag   string
	chatFlag   string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "daybrief",
	Short: "Personal assistant memory and planning backend",
	Long: "Capture free-form messages, track tasks/goals/problems and their links,\n" +
		"assemble token-bounded LLM context, and build deterministic daily plans.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $DAYBRIEF_DB or ~/.daybrief/daybrief.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "daybrief.yaml", "Config file path")
	RootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "default", "User id scope")
	RootCmd.PersistentFlags().StringVar(&chatFlag, "chat", "default", "Chat id scope")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

func loadConfig() config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	return cfg
}

func getDBPath(cfg config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	if cfg.DBPath != "" {
		return cfg.DBPath
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".daybrief", "daybrief.db")
}

func openStore(cfg config.Config) (*store.Store, error) {
	return store.New(getDBPath(cfg))
}

func printJSON(v any) {
	if formatFlag == "text" {
		b, err := yaml.Marshal(v)
		if err == nil {
			fmt.Print(string(b))
			return
		}
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
