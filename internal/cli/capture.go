package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsandoval/daybrief/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "capture [message]",
		Short: "Capture a free-form message into the inbox",
		Args:  cobra.MinimumNArgs(1),
		Run:   runCapture,
	}
	cmd.Flags().String("source", "cli", "Message source tag")
	cmd.Flags().String("client-msg-id", "", "Client message id for dedup")
	RootCmd.AddCommand(cmd)
}

func runCapture(cmd *cobra.Command, args []string) {
	source, _ := cmd.Flags().GetString("source")
	clientMsgID, _ := cmd.Flags().GetString("client-msg-id")

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	item, err := s.Capture(cmd.Context(), store.CaptureParams{
		UserID:      userFlag,
		ChatID:      chatFlag,
		Source:      source,
		ClientMsgID: clientMsgID,
		Message:     strings.Join(args, " "),
	})
	if err != nil {
		exitErr("capture", err)
	}
	printJSON(item)
}
