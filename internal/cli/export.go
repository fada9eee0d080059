package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsandoval/daybrief/internal/store"
)

func init() {
	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export tasks, goals, problems and links as JSON",
		Args:  cobra.MaximumNArgs(1),
		Run:   runExport,
	}
	importCmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a previously exported JSON snapshot",
		Args:  cobra.ExactArgs(1),
		Run:   runImport,
	}
	RootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ex, err := s.ExportAll(cmd.Context(), userFlag)
	if err != nil {
		exitErr("export", err)
	}
	if len(args) == 0 {
		printJSON(ex)
		return
	}
	b, err := json.MarshalIndent(ex, "", "  ")
	if err != nil {
		exitErr("export", err)
	}
	if err := os.WriteFile(args[0], b, 0o644); err != nil {
		exitErr("export", err)
	}
	fmt.Printf("exported to %s\n", args[0])
}

func runImport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	b, err := os.ReadFile(args[0])
	if err != nil {
		exitErr("import", err)
	}
	var ex store.Export
	if err := json.Unmarshal(b, &ex); err != nil {
		exitErr("import", err)
	}
	n, err := s.Import(cmd.Context(), userFlag, &ex)
	if err != nil {
		exitErr("import", err)
	}
	printJSON(map[string]int{"imported": n})
}
