package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abemedia/webshell/internal/app"
)

// RunFunc executes the program once flags are parsed.
type RunFunc func(ctx context.Context, opts app.Options) error

// NewCommand builds the root command of a shell program. Unknown flags
// are rejected by cobra with usage output.
func NewCommand(v app.Variant, run RunFunc) *cobra.Command {
	var debug, dev bool

	cmd := &cobra.Command{
		Use:           v.Name,
		Short:         v.Description,
		Version:       v.Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Past flag parsing, failures are runtime errors, not usage errors.
			cmd.SilenceUsage = true
			return run(cmd.Context(), app.Options{
				Variant: v,
				Debug:   debug,
				Live:    dev,
				Stdout:  cmd.OutOrStdout(),
				Stderr:  cmd.ErrOrStderr(),
			})
		},
	}

	switch v.Flag {
	case app.FlagDev:
		cmd.Flags().BoolVar(&dev, "dev", false, "Launch application against the live development server")
	default:
		cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Launch application in debug mode")
	}
	return cmd
}
