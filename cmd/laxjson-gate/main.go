// Command laxjson-gate runs the module's verification steps in order and
// stops at the first failure.
//
//	go run ./cmd/laxjson-gate [--list] [--skip-race] [--fuzztime D]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

type gateStep struct {
	label string
	args  []string
}

type commandRunner interface {
	Run(ctx context.Context, name string, args []string, stdout io.Writer, stderr io.Writer) error
}

type realRunner struct{}

type gateOptions struct {
	list     bool
	skipRace bool
	fuzzTime time.Duration
}

// fuzzTargets lists the package and target of every native fuzz test.
var fuzzTargets = [][2]string{
	{"./laxtoken", "FuzzTokenize"},
	{"./laxvalue", "FuzzParseStringifyRoundTrip"},
}

func gateSteps(opts gateOptions) []gateStep {
	steps := []gateStep{
		{label: "go vet", args: []string{"vet", "./..."}},
		{label: "unit tests", args: []string{"test", "./...", "-count=1", "-timeout=20m"}},
	}
	if !opts.skipRace {
		steps = append(steps, gateStep{label: "race tests", args: []string{"test", "./...", "-race", "-count=1", "-timeout=25m"}})
	}
	steps = append(steps, gateStep{label: "conformance", args: []string{"test", "./conformance", "-count=1", "-timeout=10m", "-v"}})
	if opts.fuzzTime > 0 {
		for _, ft := range fuzzTargets {
			steps = append(steps, gateStep{
				label: "fuzz " + ft[1],
				args:  []string{"test", ft[0], "-run=^$", "-fuzz=^" + ft[1] + "$", "-fuzztime=" + opts.fuzzTime.String()},
			})
		}
	}
	return steps
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, realRunner{}))
}

func parseArgs(args []string) (gateOptions, bool, error) {
	opts := gateOptions{}
	for i := 0; i < len(args); i++ {
		name, inline, hasInline := strings.Cut(args[i], "=")
		switch name {
		case "--help", "-h":
			return opts, true, nil
		case "--list":
			opts.list = true
		case "--skip-race":
			opts.skipRace = true
		case "--fuzztime":
			v := inline
			if !hasInline {
				if i+1 >= len(args) {
					return opts, false, fmt.Errorf("option --fuzztime requires a value")
				}
				i++
				v = args[i]
			}
			d, err := time.ParseDuration(v)
			if err != nil || d < 0 {
				return opts, false, fmt.Errorf("invalid --fuzztime %q", v)
			}
			opts.fuzzTime = d
		default:
			return opts, false, fmt.Errorf("unknown argument %q", args[i])
		}
	}
	return opts, false, nil
}

func run(args []string, stdout, stderr io.Writer, runner commandRunner) int {
	opts, help, err := parseArgs(args)
	if help {
		if err := writeUsage(stdout); err != nil {
			return 1
		}
		return 0
	}
	if err != nil {
		if err := writef(stderr, "error: %v\n", err); err != nil {
			return 1
		}
		if err := writeUsage(stderr); err != nil {
			return 1
		}
		return 2
	}

	steps := gateSteps(opts)
	if opts.list {
		for _, step := range steps {
			if err := writef(stdout, "%s: go %s\n", step.label, strings.Join(step.args, " ")); err != nil {
				return 1
			}
		}
		return 0
	}

	ctx := context.Background()
	for i, step := range steps {
		if err := writef(stdout, "[%d/%d] %s\n", i+1, len(steps), step.label); err != nil {
			return 1
		}
		if err := runner.Run(ctx, "go", step.args, stdout, stderr); err != nil {
			if writeErr := writef(stderr, "gate failed: %s: %v\n", step.label, err); writeErr != nil {
				return 1
			}
			return 1
		}
	}

	if err := writeLine(stdout, "all gates passed"); err != nil {
		return 1
	}
	return 0
}

func (realRunner) Run(ctx context.Context, name string, args []string, stdout io.Writer, stderr io.Writer) error {
	// #nosec G204 -- command and args come from the fixed step table.
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", name, args, err)
	}
	return nil
}

func writeUsage(w io.Writer) error {
	if err := writeLine(w, "usage: go run ./cmd/laxjson-gate [--list] [--skip-race] [--fuzztime D]"); err != nil {
		return err
	}
	return writeLine(w, "runs: vet, tests, race, conformance, and fuzz smoke runs when --fuzztime > 0")
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}
