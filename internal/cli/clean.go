package cli

import (
	"fmt"

	"github.com/ezinstall-dev/ezinstall/internal/pathutil"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [dir]",
	Short: "Remove __pycache__ directories and compiled bytecode",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := pathutil.New(argOrDefault(args)).Absolute()

		in, s, err := newInstaller(cmd)
		if err != nil {
			return err
		}

		report, err := in.Clean(dir)
		out := cmd.OutOrStdout()
		if s.Verbose {
			for _, d := range report.CacheDirs {
				fmt.Fprintf(out, "  removed %s\n", d)
			}
			for _, f := range report.Files {
				fmt.Fprintf(out, "  removed %s\n", f)
			}
		}
		if err != nil {
			return fmt.Errorf("cleaning %s: %w", dir, err)
		}
		fmt.Fprintf(out, "✓ Removed %d compiled artifact(s) from %s\n", report.Removed(), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
