package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/sympactl/internal/buildinfo"
)

// exitError carries a non-zero exit without an extra error line; the command
// has already reported the problem.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	var ee *exitError
	if !errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, styles.Error.Render("error: "+err.Error()))
	}
	stop()
	os.Exit(1)
}

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "sympactl",
		Short:         "sympactl: batch create/replace/remove of Sympa mailing lists",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate(buildinfo.String() + "\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to sympactl.yaml (default: searched upward from the working directory)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging to the log directory")

	cmd.AddCommand(
		initCmd(),
		batchCmd(opts),
		validateCmd(),
		exportCmd(opts),
		listsCmd(opts),
		manifestCmd(opts),
		closeCmd(opts),
		versionCmd(),
	)
	return cmd
}
