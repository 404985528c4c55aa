// Package importer drives the vendor CMS CLI to provision a hub from an
// automation directory: settings, schemas, types, content, slots and events
// are imported in a fixed order, each as one blocking external call.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DefaultCLI is the vendor CLI binary invoked when Options.CLI is empty.
const DefaultCLI = "dc-cli"

// Options configures a hub import run.
type Options struct {
	// AutomationDir is the root of the exported automation assets. Each
	// import step reads its own subdirectory.
	AutomationDir string
	// HubID, ClientID and ClientSecret authenticate every vendor CLI call.
	HubID        string
	ClientID     string
	ClientSecret string
	// ContentRepoID and SlotsRepoID are the target repositories for the
	// content and slots steps.
	ContentRepoID string
	SlotsRepoID   string
	// CLI overrides the vendor CLI binary. Defaults to DefaultCLI.
	CLI string
	// Verbose echoes each command line (secret redacted) before running it.
	Verbose bool
}

// Validate checks that every required option is set and that the automation
// directory exists. All missing option names are reported in one error.
func (o *Options) Validate() error {
	var missing []string
	if o.AutomationDir == "" {
		missing = append(missing, "automation-dir")
	}
	if o.HubID == "" {
		missing = append(missing, "hub-id")
	}
	if o.ClientID == "" {
		missing = append(missing, "client-id")
	}
	if o.ClientSecret == "" {
		missing = append(missing, "client-secret")
	}
	if o.ContentRepoID == "" {
		missing = append(missing, "content-repo-id")
	}
	if o.SlotsRepoID == "" {
		missing = append(missing, "slots-repo-id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required options: %s", strings.Join(missing, ", "))
	}

	info, err := os.Stat(o.AutomationDir)
	if err != nil {
		return fmt.Errorf("automation directory %q is not accessible: %w", o.AutomationDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("automation directory %q is not a directory", o.AutomationDir)
	}
	return nil
}

type repoTarget int

const (
	repoNone repoTarget = iota
	repoContent
	repoSlots
)

// step is one import phase: the vendor subcommand, the subdirectory of the
// automation dir it reads, and which repository id it targets, if any.
type step struct {
	name    string
	command []string
	subdir  string
	repo    repoTarget
}

// The import order is fixed: later steps depend on the artifacts of earlier
// ones (content items reference types, types reference schemas).
var steps = []step{
	{name: "settings", command: []string{"settings", "import"}, subdir: "settings"},
	{name: "schemas", command: []string{"content-type-schema", "import"}, subdir: "content-type-schemas"},
	{name: "types", command: []string{"content-type", "import"}, subdir: "content-types"},
	{name: "content", command: []string{"content-item", "import"}, subdir: "content", repo: repoContent},
	{name: "slots", command: []string{"content-item", "import"}, subdir: "slots", repo: repoSlots},
	{name: "events", command: []string{"event", "import"}, subdir: "events"},
}

func (s step) args(opts Options) []string {
	args := append([]string{}, s.command...)
	args = append(args, filepath.Join(opts.AutomationDir, s.subdir))
	args = append(args,
		"--hubId", opts.HubID,
		"--clientId", opts.ClientID,
		"--clientSecret", opts.ClientSecret,
	)
	switch s.repo {
	case repoContent:
		args = append(args, "--baseRepo", opts.ContentRepoID)
	case repoSlots:
		args = append(args, "--baseRepo", opts.SlotsRepoID)
	}
	return args
}

// runFunc executes one external command; swapped out in tests.
type runFunc func(ctx context.Context, binary string, args []string, stdout, stderr io.Writer) error

func runExec(ctx context.Context, binary string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Importer runs the import sequence against a hub.
type Importer struct {
	opts   Options
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
	run    runFunc
}

// New validates the options and builds an importer. The child processes
// inherit the importer's stdout and stderr, so vendor CLI output streams
// through as the run progresses.
func New(opts Options, logger *zap.Logger) (*Importer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.CLI == "" {
		opts.CLI = DefaultCLI
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		opts:   opts,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: logger,
		run:    runExec,
	}, nil
}

// Run executes the six import steps in order, stopping at the first failure.
// There is no retry and no rollback: steps that completed before a failure
// stay applied, and the returned error names the step to re-run from.
func (i *Importer) Run(ctx context.Context) error {
	for n, s := range steps {
		fmt.Fprintf(i.stdout, "[%d/%d] importing %s ...\n", n+1, len(steps), s.name)

		args := s.args(i.opts)
		if i.opts.Verbose {
			fmt.Fprintf(i.stdout, "+ %s %s\n", i.opts.CLI, strings.Join(redactSecret(args), " "))
		}
		i.logger.Debug("running import step",
			zap.String("step", s.name),
			zap.String("binary", i.opts.CLI),
			zap.Strings("args", redactSecret(args)))

		if err := i.run(ctx, i.opts.CLI, args, i.stdout, i.stderr); err != nil {
			return fmt.Errorf("import halted at step %q (%d/%d); completed steps stay applied, re-run from this step: %w",
				s.name, n+1, len(steps), err)
		}
	}

	fmt.Fprintln(i.stdout, "import complete")
	return nil
}

// redactSecret masks the value following --clientSecret so command echoes
// and debug logs never carry the credential.
func redactSecret(args []string) []string {
	out := append([]string{}, args...)
	for n, arg := range out {
		if arg == "--clientSecret" && n+1 < len(out) {
			out[n+1] = "***"
		}
	}
	return out
}
