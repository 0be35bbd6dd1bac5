package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func listsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "List every mailing list in the configured domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			names, err := app.lists.AllLists(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, styles.Faint.Render("(no lists found)"))
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			return nil
		},
	}
}
