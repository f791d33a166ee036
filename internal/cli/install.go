package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install [trigger-file|package-dir]",
	Short: "Install a package into site-packages if it changed",
	Long: `Install the package containing the given file (or the given package directory)
into site-packages. The destination is the innermost virtual environment
enclosing the package, or the system interpreter's site-packages otherwise.
Nothing is copied when the installed files are already identical.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	trigger, err := triggerFromArg(argOrDefault(args))
	if err != nil {
		return err
	}

	in, _, err := newInstaller(cmd)
	if err != nil {
		return err
	}

	res, err := in.Run(cmd.Context(), trigger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !res.Decision.NeedsInstall || res.Installed {
		fmt.Fprintf(out, "✓ %s\n", res.Summary())
	} else {
		fmt.Fprintf(out, "✗ %s\n", res.Summary())
	}

	if failures := res.Err(); failures != nil {
		fmt.Fprintf(out, "  ⚠️  %v\n", failures)
	}
	return nil
}
