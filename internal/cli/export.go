package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/sympactl/internal/usecase"
)

func exportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [*|list]",
		Short: "Print list,address rows for list members (all lists by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := usecase.AllListsTarget
			if len(args) == 1 {
				target = args[0]
			}

			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := usecase.NewExportMembers(app.lists, app.log).Execute(cmd.Context(), target, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if len(res.Skipped) > 0 {
				return fmt.Errorf("export failed for %d list(s): %s", len(res.Skipped), strings.Join(res.Skipped, ", "))
			}
			return nil
		},
	}
}
