package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/sympactl/internal/infra/csvbatch"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <csv>",
		Short: "Check a CSV batch file without touching any list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open batch file: %w", err)
			}
			defer f.Close()

			ops, err := csvbatch.Validate(f)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d row(s)\n", styles.OK.Render("OK"), len(ops))
			return nil
		},
	}
}
