package cli

import (
	"github.com/spf13/cobra"

	"github.com/jsandoval/daybrief/internal/model"
	"github.com/jsandoval/daybrief/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "link [from-type] [from-id] [link-type] [to-type] [to-id]",
		Short: "Create or remove a typed link between entities",
		Long: "Link two entities, e.g.:\n" +
			"  daybrief link task task_01AB depends_on task task_02CD\n" +
			"  daybrief link task task_01AB supports_goal goal goal_03EF",
		Args: cobra.ExactArgs(5),
		Run:  runLink,
	}
	cmd.Flags().Bool("remove", false, "Remove the link instead of creating it")
	RootCmd.AddCommand(cmd)
}

func runLink(cmd *cobra.Command, args []string) {
	remove, _ := cmd.Flags().GetBool("remove")

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	link, err := s.Link(cmd.Context(), store.LinkParams{
		UserID:   userFlag,
		FromType: model.EntityType(args[0]),
		FromID:   args[1],
		LinkType: model.LinkType(args[2]),
		ToType:   model.EntityType(args[3]),
		ToID:     args[4],
		Remove:   remove,
	})
	if err != nil {
		exitErr("link", err)
	}
	printJSON(link)
}
