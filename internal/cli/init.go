package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/sympactl/internal/infra/fsworkspace"
	"github.com/aalvaropc/sympactl/internal/usecase"
)

func initCmd() *cobra.Command {
	var mailDomain string
	var force bool

	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create sympactl.yaml and example list/batch files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			root, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("invalid directory: %w", err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(root, mailDomain, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s initialized %s\n", styles.OK.Render("OK"), root)
			return nil
		},
	}

	c.Flags().StringVar(&mailDomain, "domain", "", "Robot domain written to sympactl.yaml (default lists.example.org)")
	c.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return c
}
