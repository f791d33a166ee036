package cli

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/ezinstall-dev/ezinstall/internal/config"
	"github.com/ezinstall-dev/ezinstall/internal/manifest"
	"github.com/ezinstall-dev/ezinstall/internal/platform"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var checkManifest string

func init() {
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate an "+manifest.FileName+" file at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the platform, layout and Python interpreter",
	Long:  `Run diagnostic checks on the platform and interpreter used to resolve install destinations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if checkManifest != "" {
			return runManifestCheck(out, checkManifest)
		}

		layout, err := runPlatformCheck(out)
		if err != nil {
			return err
		}
		runInterpreterCheck(cmd, out, layout)

		fmt.Fprintln(out, "Configuration:")
		fmt.Fprintf(out, "  [INFO] config file: %s\n", config.FilePath())
		return nil
	},
}

func runPlatformCheck(out io.Writer) (platform.Layout, error) {
	fmt.Fprintln(out, "Platform check:")
	layout, err := platform.CurrentLayout()
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return platform.Layout{}, err
	}
	fmt.Fprintf(out, "  [ OK ] family: %s\n", layout.Family)
	fmt.Fprintf(out, "  [INFO] environment markers: %v\n", layout.Markers())
	fmt.Fprintf(out, "  [INFO] site-packages template: %s\n", layout.SitePackages)
	return layout, nil
}

func runInterpreterCheck(cmd *cobra.Command, out io.Writer, layout platform.Layout) {
	fmt.Fprintln(out, "Interpreter check:")

	s := loadSettings(cmd)
	command := s.Python
	if command == "" {
		command = layout.DefaultInterpreter
	}
	path, err := exec.LookPath(command)
	if err != nil {
		fmt.Fprintf(out, "  [MISS] %s not found\n", command)
		return
	}
	fmt.Fprintf(out, "  [ OK ] %s found at %s\n", command, path)

	detector, err := newDetector(s)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return
	}
	info, err := detector.System.Probe(cmd.Context())
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return
	}
	fmt.Fprintf(out, "  [ OK ] version %s\n", info.Version)

	site, err := detector.SystemSitePackages(cmd.Context())
	if err != nil {
		fmt.Fprintf(out, "  [WARN] %v\n", err)
		return
	}
	fmt.Fprintf(out, "  [ OK ] system site-packages: %s\n", site)
}

func runManifestCheck(out io.Writer, path string) error {
	fmt.Fprintf(out, "Descriptor validation: %s\n", path)

	d, report, err := manifest.Inspect(afero.NewOsFs(), path)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return fmt.Errorf("descriptor validation failed: %w", err)
	}

	if !report.Valid() {
		fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(report.Problems))
		for _, p := range report.Problems {
			fmt.Fprintf(out, "    - %s\n", p)
		}
		return fmt.Errorf("descriptor %s has %d validation issue(s)", path, len(report.Problems))
	}

	if d.Name == "" {
		fmt.Fprintf(out, "  [ OK ] Valid descriptor\n")
	} else {
		fmt.Fprintf(out, "  [ OK ] Valid descriptor for package %s\n", d.Name)
	}
	return nil
}
