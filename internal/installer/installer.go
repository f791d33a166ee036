package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ezinstall-dev/ezinstall/internal/changes"
	"github.com/ezinstall-dev/ezinstall/internal/manifest"
	"github.com/ezinstall-dev/ezinstall/internal/pathutil"
	"github.com/ezinstall-dev/ezinstall/internal/venv"
	"github.com/spf13/afero"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Policy decides what happens when a cleanup or copy step fails.
type Policy int

const (
	// BestEffort records failures in the Result, logs them and finishes
	// the run without returning an error.
	BestEffort Policy = iota
	// Strict aborts at the first failing step and returns its error.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "best-effort"
}

// Resolver finds the site-packages directory for a trigger file.
type Resolver interface {
	Resolve(ctx context.Context, trigger pathutil.Path) (*venv.Destination, error)
}

// Options configures an Installer.
type Options struct {
	// Verbose enables a progress line per step. It never changes what a run
	// does.
	Verbose bool

	Policy Policy

	// Logger receives progress and failures. Defaults to stderr.
	Logger *log.Logger

	// Fs is the filesystem packages are read from and written to. Defaults
	// to the OS filesystem.
	Fs afero.Fs
}

// Installer syncs a package directory into site-packages.
type Installer struct {
	resolver Resolver
	fs       afero.Fs
	logger   *log.Logger
	verbose  bool
	policy   Policy
}

// New returns an Installer resolving destinations with resolver.
func New(resolver Resolver, opts Options) *Installer {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "ezinstall"})
	}
	return &Installer{
		resolver: resolver,
		fs:       fsys,
		logger:   logger,
		verbose:  opts.Verbose,
		policy:   opts.Policy,
	}
}

// Plan is the resolved source and destination of a run.
type Plan struct {
	Source      pathutil.Path
	PackageName string
	Destination *venv.Destination

	// Target is Destination.SitePackages joined with PackageName.
	Target pathutil.Path

	Descriptor *manifest.Descriptor
	Filter     changes.Filter
}

// Decision is the outcome of comparing source and installed copy.
type Decision struct {
	NeedsInstall bool
	Target       pathutil.Path
}

// StepResult records the outcome of one executed or skipped step.
type StepResult struct {
	Step    Step
	Err     error
	Skipped bool
}

// Result describes a finished run.
type Result struct {
	Plan     *Plan
	Decision Decision
	Steps    []StepResult

	// Installed is true when the source tree was copied successfully.
	Installed bool

	Files int
	Bytes int64
}

// Err returns the failures recorded by best-effort steps, joined, or nil.
func (r *Result) Err() error {
	var errs []error
	for _, s := range r.Steps {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errors.Join(errs...)
}

var summaryPrinter = message.NewPrinter(language.English)

// Summary returns a one-line description of the run.
func (r *Result) Summary() string {
	switch {
	case r.Plan == nil:
		return "nothing resolved"
	case !r.Decision.NeedsInstall:
		return summaryPrinter.Sprintf("%s is up-to-date at %s", r.Plan.PackageName, r.Decision.Target)
	case r.Installed:
		return summaryPrinter.Sprintf("installed %s to %s (%d files, %d bytes)",
			r.Plan.PackageName, r.Decision.Target, r.Files, r.Bytes)
	default:
		return summaryPrinter.Sprintf("failed to install %s to %s", r.Plan.PackageName, r.Decision.Target)
	}
}

func (in *Installer) progress(msg string, keyvals ...interface{}) {
	if in.verbose {
		in.logger.Info(msg, keyvals...)
	}
}

// Plan resolves the source directory (the parent of trigger), the package
// descriptor and the destination. A destination that cannot be resolved
// is an error.
func (in *Installer) Plan(ctx context.Context, trigger pathutil.Path) (*Plan, error) {
	source := trigger.Absolute().Parent()
	info, err := in.fs.Stat(source.String())
	if err != nil {
		return nil, &StepError{Step: StepResolveSource, Path: source.String(), Err: err}
	}
	if !info.IsDir() {
		return nil, &StepError{Step: StepResolveSource, Path: source.String(), Err: fmt.Errorf("not a directory")}
	}

	desc, err := manifest.Load(in.fs, source.String())
	if err != nil {
		return nil, &StepError{Step: StepResolveSource, Path: source.String(), Err: err}
	}
	name := desc.PackageName(source.Basename())

	dest, err := in.resolver.Resolve(ctx, trigger)
	if err != nil {
		return nil, &StepError{Step: StepResolveDestination, Err: err}
	}
	if err := desc.CheckPython(dest.PythonVersion); err != nil {
		return nil, &StepError{Step: StepResolveDestination, Path: dest.SitePackages.String(), Err: err}
	}

	target := dest.SitePackages.Join(name)
	if target.Equal(source) {
		return nil, &StepError{Step: StepResolveDestination, Path: target.String(), Err: ErrSameLocation}
	}

	return &Plan{
		Source:      source,
		PackageName: name,
		Destination: dest,
		Target:      target,
		Descriptor:  desc,
		Filter:      changes.Filter{Patterns: desc.ExcludePatterns()},
	}, nil
}

// Decide compares the planned source with its installed copy.
func (in *Installer) Decide(plan *Plan) (Decision, error) {
	detector := changes.New(in.fs, changes.WithFilter(plan.Filter))
	need, err := detector.NeedsInstall(plan.Source.String(), plan.Target.String())
	if err != nil {
		return Decision{}, &StepError{Step: StepDecide, Path: plan.Source.String(), Err: err}
	}
	return Decision{NeedsInstall: need, Target: plan.Target}, nil
}

// Diff lists the source files that differ from the installed copy.
func (in *Installer) Diff(plan *Plan) ([]changes.Change, error) {
	detector := changes.New(in.fs, changes.WithFilter(plan.Filter))
	diff, err := detector.Diff(plan.Source.String(), plan.Target.String())
	if err != nil {
		return nil, &StepError{Step: StepDecide, Path: plan.Source.String(), Err: err}
	}
	return diff, nil
}

// Clean removes compiled artifacts from dir.
func (in *Installer) Clean(dir pathutil.Path) (CleanReport, error) {
	return RemoveCompiledArtifacts(in.fs, dir.String())
}

// Run installs the package whose trigger file is trigger. Resolution and
// decision errors are always returned. Cleanup and copy failures are
// returned under Strict and recorded in the Result under BestEffort.
func (in *Installer) Run(ctx context.Context, trigger pathutil.Path) (*Result, error) {
	plan, err := in.Plan(ctx, trigger)
	if err != nil {
		return nil, err
	}
	res := &Result{Plan: plan}
	res.Steps = append(res.Steps,
		StepResult{Step: StepResolveSource},
		StepResult{Step: StepResolveDestination},
	)

	in.progress("Compare to installed copy ...", "dst", plan.Target)
	decision, err := in.Decide(plan)
	if err != nil {
		return res, err
	}
	res.Decision = decision
	res.Steps = append(res.Steps, StepResult{Step: StepDecide})

	if !decision.NeedsInstall {
		in.progress("package is up-to-date, no need to install.", "package", plan.PackageName)
		res.Steps = append(res.Steps,
			StepResult{Step: StepCleanSource, Skipped: true},
			StepResult{Step: StepRemoveStale, Skipped: true},
			StepResult{Step: StepCopy, Skipped: true},
		)
		return res, nil
	}
	in.progress("Difference found, start installing ...", "package", plan.PackageName)

	in.progress("Remove compiled bytecode ...", "src", plan.Source)
	report, err := in.Clean(plan.Source)
	if stepErr := in.record(res, StepCleanSource, plan.Source.String(), err, ErrCleanup); stepErr != nil {
		return res, stepErr
	}
	if err == nil {
		in.progress("all compiled bytecode removed.", "removed", report.Removed())
	}

	exists, err := afero.Exists(in.fs, plan.Target.String())
	switch {
	case err != nil:
		if stepErr := in.record(res, StepRemoveStale, plan.Target.String(), err, ErrCleanup); stepErr != nil {
			return res, stepErr
		}
	case exists:
		in.progress("Remove installed copy ...", "package", plan.PackageName, "dst", plan.Target)
		err := in.fs.RemoveAll(plan.Target.String())
		if stepErr := in.record(res, StepRemoveStale, plan.Target.String(), err, ErrCleanup); stepErr != nil {
			return res, stepErr
		}
		if err == nil {
			in.progress("installed copy removed.")
		}
	default:
		res.Steps = append(res.Steps, StepResult{Step: StepRemoveStale, Skipped: true})
	}

	in.progress("Install ...", "package", plan.PackageName, "dst", plan.Target)
	stats, err := copyTree(in.fs, plan.Source.String(), plan.Target.String(), plan.Filter)
	if stepErr := in.record(res, StepCopy, plan.Target.String(), err, ErrCopy); stepErr != nil {
		return res, stepErr
	}
	if err == nil {
		res.Installed = true
		res.Files = stats.Files
		res.Bytes = stats.Bytes
		in.progress("Complete!", "files", stats.Files, "bytes", stats.Bytes)
	}

	return res, nil
}

// record appends the outcome of a step. A failure is wrapped in a
// StepError marked with kind, logged, and returned only under Strict.
func (in *Installer) record(res *Result, step Step, path string, err, kind error) error {
	if err == nil {
		res.Steps = append(res.Steps, StepResult{Step: step})
		return nil
	}

	stepErr := &StepError{Step: step, Path: path, Err: fmt.Errorf("%w: %w", kind, err)}
	res.Steps = append(res.Steps, StepResult{Step: step, Err: stepErr})

	if in.policy == Strict {
		return stepErr
	}
	if step == StepCopy {
		in.logger.Error("install failed", "step", step, "err", err)
	} else {
		in.logger.Warn("cleanup failed, continuing", "step", step, "err", err)
	}
	return nil
}

// Discard returns a logger that drops everything; useful for callers that
// only want the Result.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
