package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errNeedsInstall is returned by check --exit-code when files differ.
var errNeedsInstall = errors.New("installed copy is out of date")

var checkExitCode bool

var checkCmd = &cobra.Command{
	Use:   "check [trigger-file|package-dir]",
	Short: "Report whether a package needs installing, without writing anything",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkExitCode, "exit-code", false, "Exit non-zero when an install is needed")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
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
	diff, err := in.Diff(plan)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Source:      %s\n", plan.Source)
	fmt.Fprintf(out, "Destination: %s\n", plan.Target)

	if len(diff) == 0 {
		fmt.Fprintln(out, "✓ Up to date, no need to install.")
		return nil
	}

	fmt.Fprintf(out, "%d file(s) differ:\n", len(diff))
	for _, c := range diff {
		fmt.Fprintf(out, "  %-8s %s\n", c.Kind, c.Path)
	}
	if checkExitCode {
		return errNeedsInstall
	}
	return nil
}
