package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func closeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "close <list>",
		Short: "Close a mailing list (the manager keeps its data)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			name := args[0]
			if err := app.lists.CloseList(cmd.Context(), name); err != nil {
				return err
			}
			app.log.Info("list.closed", "list", name)
			fmt.Fprintf(cmd.OutOrStdout(), "%s closed %s\n", styles.OK.Render("OK"), app.cfg.ListKey(name))
			return nil
		},
	}
}
