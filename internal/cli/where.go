package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whereCmd = &cobra.Command{
	Use:   "where [trigger-file|package-dir]",
	Short: "Show where a package would be installed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trigger, err := triggerFromArg(argOrDefault(args))
		if err != nil {
			return err
		}
		in, _, err := newInstaller(cmd)
		if err != nil {
			return err
		}

		plan, err := in.Plan(cmd.Context(), trigger)
		if err != nil {
			return err
		}
		dest := plan.Destination

		out := cmd.OutOrStdout()
		if dest.InEnvironment {
			fmt.Fprintf(out, "Environment:   %s\n", dest.Environment)
		} else {
			fmt.Fprintln(out, "Environment:   (none, using system interpreter)")
		}
		if dest.PythonVersion != nil {
			fmt.Fprintf(out, "Python:        %s\n", dest.PythonVersion)
		}
		fmt.Fprintf(out, "Site-packages: %s\n", dest.SitePackages)
		fmt.Fprintf(out, "Package:       %s\n", plan.Target)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whereCmd)
}
