package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/ezinstall-dev/ezinstall/internal/branding"
	"github.com/ezinstall-dev/ezinstall/internal/config"
	"github.com/ezinstall-dev/ezinstall/internal/installer"
	"github.com/ezinstall-dev/ezinstall/internal/manifest"
	"github.com/ezinstall-dev/ezinstall/internal/pathutil"
	"github.com/ezinstall-dev/ezinstall/internal/platform"
	"github.com/ezinstall-dev/ezinstall/internal/venv"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagVerbose bool
	flagStrict  bool
	flagPython  string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` copies a package directory into the site-packages of the
virtual environment it lives in (or of the system interpreter), and skips
the copy when the installed files are already identical.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print a progress line for every step")
	rootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", false, "Fail on the first cleanup or copy error")
	rootCmd.PersistentFlags().StringVar(&flagPython, "python", "", "Interpreter queried for the system site-packages")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// settings merges persistent flags over config file and environment values.
type settings struct {
	Verbose bool
	Strict  bool
	Python  string
}

func loadSettings(cmd *cobra.Command) settings {
	s := settings{
		Verbose: config.GetBool(config.KeyVerbose),
		Strict:  config.GetBool(config.KeyStrict),
		Python:  config.Get(config.KeyPython),
	}
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		s.Verbose = flagVerbose
	}
	if flags.Changed("strict") {
		s.Strict = flagStrict
	}
	if flags.Changed("python") {
		s.Python = flagPython
	}
	return s
}

func newLogger(cmd *cobra.Command) *log.Logger {
	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: branding.CLIName()})
}

// newDetector builds an environment detector for the running platform.
func newDetector(s settings) (*venv.Detector, error) {
	layout, err := platform.CurrentLayout()
	if err != nil {
		return nil, err
	}
	return venv.NewDetector(layout, s.Python), nil
}

func newInstaller(cmd *cobra.Command) (*installer.Installer, settings, error) {
	s := loadSettings(cmd)
	detector, err := newDetector(s)
	if err != nil {
		return nil, s, err
	}
	policy := installer.BestEffort
	if s.Strict {
		policy = installer.Strict
	}
	in := installer.New(detector, installer.Options{
		Verbose: s.Verbose,
		Policy:  policy,
		Logger:  newLogger(cmd),
	})
	return in, s, nil
}

// triggerFromArg turns a command argument into a trigger path. A directory
// stands for the package root itself.
func triggerFromArg(arg string) (pathutil.Path, error) {
	if arg == "" {
		arg = "."
	}
	p := pathutil.New(arg).Absolute()
	info, err := os.Stat(p.String())
	if err != nil {
		return pathutil.Path{}, fmt.Errorf("resolving %s: %w", arg, err)
	}
	if info.IsDir() {
		return p.Join(manifest.FileName), nil
	}
	return p, nil
}

func argOrDefault(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return filepath.Clean(args[0])
}
