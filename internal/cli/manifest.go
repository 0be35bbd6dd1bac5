package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/sympactl/internal/domain"
)

func manifestCmd(opts *rootOptions) *cobra.Command {
	var description string

	c := &cobra.Command{
		Use:   "manifest <list>",
		Short: "Print the creation manifest built from <list>.list (dry run)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := domain.ValidateListName(name); err != nil {
				return err
			}

			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			spec, err := app.defs.Load(name)
			if err != nil {
				return err
			}
			if description == "" {
				description = name
			}

			xml, err := app.manifests.Build(name, description, spec)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), xml)
			return nil
		},
	}

	c.Flags().StringVar(&description, "description", "", "List description (defaults to the list name)")
	return c
}
