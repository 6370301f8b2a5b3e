// Command laxjson parses JSON leniently and renders, canonicalizes,
// validates or converts it.
//
// Commands:
//
//	laxjson stringify [file|-]
//	laxjson canonicalize [--envelope] [--out FILE] [file|-]
//	laxjson verify [--quiet] [file|-]
//	laxjson validate --schema FILE [--quiet] [file|-]
//	laxjson tokens [file|-]
//	laxjson date TEXT...
//	laxjson bson [--out FILE] [file|-]
//
// Global flags: --verbose/-v logs progress to stderr; --max-depth N bounds
// nesting (default 1000).
//
// Exit codes:
//
//	0  success
//	2  invalid input, usage error, failed validation or non-canonical bytes
//	10 internal error
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lattice-substrate/json-lax/laxbson"
	"github.com/lattice-substrate/json-lax/laxdate"
	"github.com/lattice-substrate/json-lax/laxdoc"
	"github.com/lattice-substrate/json-lax/laxemit"
	"github.com/lattice-substrate/json-lax/laxerr"
	"github.com/lattice-substrate/json-lax/laxschema"
	"github.com/lattice-substrate/json-lax/laxtoken"
	"github.com/lattice-substrate/json-lax/laxvalue"
)

const (
	exitSuccess  = 0
	exitInvalid  = 2
	exitInternal = 10
)

const usage = "usage: laxjson <stringify|canonicalize|verify|validate|tokens|date|bson> [options] [file|-]"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type commandFunc func(e *env, positional []string) int

var commands = map[string]struct {
	run  commandFunc
	help []string
}{
	"stringify": {cmdStringify, []string{
		"usage: laxjson stringify [file|-]",
		"  Parse JSON leniently and print its compact form followed by LF.",
		"  Object member order is not stable between runs.",
	}},
	"canonicalize": {cmdCanonicalize, []string{
		"usage: laxjson canonicalize [--envelope] [--out FILE] [file|-]",
		"  Parse JSON leniently and emit RFC 8785 canonical bytes.",
		"  --envelope  Append the single trailing LF of a document file",
		"  --out FILE  Write atomically to FILE instead of stdout",
	}},
	"verify": {cmdVerify, []string{
		"usage: laxjson verify [--quiet] [file|-]",
		"  Check that the input is a canonical document file (canonical bytes + LF).",
		"  --quiet  Suppress success messages",
	}},
	"validate": {cmdValidate, []string{
		"usage: laxjson validate --schema FILE [--quiet] [file|-]",
		"  Check the input against a YAML or JSON schema document.",
		"  --quiet  Suppress success messages",
	}},
	"tokens": {cmdTokens, []string{
		"usage: laxjson tokens [file|-]",
		"  Print the token queue, one token per line.",
	}},
	"date": {cmdDate, []string{
		"usage: laxjson date TEXT...",
		"  Normalize each YYYY-MM-DD[THH[:mm[:ss]]] argument.",
	}},
	"bson": {cmdBSON, []string{
		"usage: laxjson bson [--out FILE] [file|-]",
		"  Convert a JSON object to a BSON document.",
		"  --out FILE  Write atomically to FILE instead of stdout",
	}},
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		if err := writeLine(stderr, usage); err != nil {
			return exitInternal
		}
		return exitInvalid
	}
	if args[0] == "--help" || args[0] == "-h" || args[0] == "help" {
		if err := writeLine(stderr, usage); err != nil {
			return exitInternal
		}
		return exitSuccess
	}

	cmd, ok := commands[args[0]]
	if !ok {
		if err := writef(stderr, "unknown command: %s\n", args[0]); err != nil {
			return exitInternal
		}
		if err := writeLine(stderr, usage); err != nil {
			return exitInternal
		}
		return exitInvalid
	}

	fl, positional, err := parseFlags(args[1:])
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	if fl.help {
		for _, line := range cmd.help {
			if err := writeLine(stderr, line); err != nil {
				return exitInternal
			}
		}
		return exitSuccess
	}

	e := &env{stdin: stdin, stdout: stdout, stderr: stderr, fl: fl}
	e.logf("%s: max depth %d", args[0], fl.maxDepth)
	return cmd.run(e, positional)
}

type flags struct {
	quiet    bool
	help     bool
	verbose  bool
	envelope bool
	schema   string
	out      string
	maxDepth int
}

//nolint:gocyclo,cyclop // Flag dispatch is intentionally explicit and linear.
func parseFlags(args []string) (flags, []string, error) {
	f := flags{maxDepth: laxvalue.DefaultMaxDepth}
	var positional []string
	consumeAsPositional := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if consumeAsPositional {
			positional = append(positional, arg)
			continue
		}

		name, inline, hasInline := strings.Cut(arg, "=")
		value := func() (string, error) {
			if hasInline {
				return inline, nil
			}
			if i+1 >= len(args) {
				return "", laxerr.Newf(laxerr.CLIUsage, "option %s requires a value", name)
			}
			i++
			return args[i], nil
		}

		switch name {
		case "--quiet", "-q", "--help", "-h", "--verbose", "-v", "--envelope":
			if hasInline {
				return flags{}, nil, laxerr.Newf(laxerr.CLIUsage, "option %s does not take a value", name)
			}
		}

		switch name {
		case "--quiet", "-q":
			f.quiet = true
		case "--help", "-h":
			f.help = true
		case "--verbose", "-v":
			f.verbose = true
		case "--envelope":
			f.envelope = true
		case "--schema":
			v, err := value()
			if err != nil {
				return flags{}, nil, err
			}
			f.schema = v
		case "--out", "-o":
			v, err := value()
			if err != nil {
				return flags{}, nil, err
			}
			f.out = v
		case "--max-depth":
			v, err := value()
			if err != nil {
				return flags{}, nil, err
			}
			n, convErr := strconv.Atoi(v)
			if convErr != nil || n <= 0 {
				return flags{}, nil, laxerr.Newf(laxerr.CLIUsage, "invalid --max-depth %q", v)
			}
			f.maxDepth = n
		case "--":
			consumeAsPositional = true
		case "-":
			positional = append(positional, arg)
		default:
			if strings.HasPrefix(arg, "-") {
				return flags{}, nil, laxerr.Newf(laxerr.CLIUsage, "unknown option: %s", arg)
			}
			positional = append(positional, arg)
		}
	}
	return f, positional, nil
}

// env carries the streams and parsed flags of one invocation.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	fl     flags
}

func (e *env) logf(format string, args ...any) {
	if e.fl.verbose {
		_ = writef(e.stderr, "laxjson: "+format+"\n", args...)
	}
}

func (e *env) options() *laxvalue.Options {
	return &laxvalue.Options{MaxDepth: e.fl.maxDepth}
}

// input reads the single input named by positional, or stdin.
func (e *env) input(positional []string) ([]byte, error) {
	if len(positional) > 1 {
		return nil, laxerr.New(laxerr.CLIUsage, "multiple input files specified")
	}
	if len(positional) == 0 || positional[0] == "-" {
		e.logf("reading stdin")
		return laxdoc.ReadBounded(e.stdin, laxvalue.DefaultMaxInputSize)
	}

	f, err := os.Open(positional[0])
	if err != nil {
		return nil, laxerr.Wrap(laxerr.CLIUsage, fmt.Sprintf("read file %q", positional[0]), err)
	}
	defer func() {
		_ = f.Close()
	}()

	e.logf("reading %s", positional[0])
	data, err := laxdoc.ReadBounded(f, laxvalue.DefaultMaxInputSize)
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", positional[0], err)
	}
	return data, nil
}

func (e *env) parse(positional []string) (laxvalue.Value, error) {
	data, err := e.input(positional)
	if err != nil {
		return laxvalue.Value{}, err
	}
	v, err := laxdoc.Parse(data, e.options())
	if err != nil {
		return laxvalue.Value{}, err
	}
	e.logf("parsed %d bytes into %s", len(data), v.Kind)
	return v, nil
}

// emit writes output to --out atomically when given, else to stdout.
func (e *env) emit(output []byte) int {
	if e.fl.out != "" {
		if err := laxdoc.WriteAtomic(e.fl.out, output); err != nil {
			return writeClassifiedError(e.stderr, err)
		}
		e.logf("wrote %d bytes to %s", len(output), e.fl.out)
		return exitSuccess
	}
	if _, err := e.stdout.Write(output); err != nil {
		return writeErrorAndReturn(e.stderr, exitInternal, "error: writing output: %v\n", err)
	}
	return exitSuccess
}

func cmdStringify(e *env, positional []string) int {
	v, err := e.parse(positional)
	if err != nil {
		return writeClassifiedError(e.stderr, err)
	}
	if err := writeLine(e.stdout, laxemit.Stringify(v)); err != nil {
		return exitInternal
	}
	return exitSuccess
}

func cmdCanonicalize(e *env, positional []string) int {
	v, err := e.parse(positional)
	if err != nil {
		return writeClassifiedError(e.stderr, err)
	}
	canonical, err := laxemit.Canonical(v)
	if err != nil {
		return writeClassifiedError(e.stderr, err)
	}
	if e.fl.envelope {
		canonical = laxdoc.Envelope(canonical)
	}
	return e.emit(canonical)
}

func cmdVerify(e *env, positional []string) int {
	data, err := e.input(positional)
	if err != nil {
		return writeClassifiedError(e.stderr, err)
	}
	if err := laxdoc.Verify(data, e.options()); err != nil {
		return writeClassifiedError(e.stderr, err)
	}
	if !e.fl.quiet {
		if err := writeLine(e.stderr, "ok"); err != nil {
			return exitInternal
		}
	}
	return exitSuccess
}

func cmdValidate(e *env, positional []string) int {
	if e.fl.schema == "" {
		return writeClassifiedError(e.stderr, laxerr.New(laxerr.CLIUsage, "validate requires --schema FILE"))
	}
	validator, err := laxschema.LoadFile(e.fl.schema)
	if err != nil {
		return writeClassifiedError(e.stderr, err)
	}
	e.logf("loaded schema %s", e.fl.schema)

	v, err := e.parse(positional)
	if err != nil {
		return writeClassifiedError(e.stderr, err)
	}
	if !validator.Validate(v) {
		return writeClassifiedError(e.stderr, laxerr.New(laxerr.ValidationFailed, "document does not match schema"))
	}
	if !e.fl.quiet {
		if err := writeLine(e.stderr, "valid"); err != nil {
			return exitInternal
		}
	}
	return exitSuccess
}

func cmdTokens(e *env, positional []string) int {
	data, err := e.input(positional)
	if err != nil {
		return writeClassifiedError(e.stderr, err)
	}
	toks := laxtoken.Tokenize(data)
	for _, tok := range toks {
		if err := writeLine(e.stdout, tok.String()); err != nil {
			return exitInternal
		}
	}
	e.logf("%d tokens from %d bytes", len(toks), len(data))
	if n := len(toks); n > 0 && toks[n-1].Kind == laxtoken.TerminalError {
		return writeClassifiedError(e.stderr, laxerr.New(laxerr.InvalidInput, "tokenization stopped at a malformed escape"))
	}
	return exitSuccess
}

func cmdDate(e *env, positional []string) int {
	if len(positional) == 0 {
		return writeClassifiedError(e.stderr, laxerr.New(laxerr.CLIUsage, "date requires at least one argument"))
	}
	code := exitSuccess
	for _, text := range positional {
		d, ok := laxdate.Parse(text)
		if !ok {
			code = writeClassifiedError(e.stderr, laxerr.Newf(laxerr.InvalidInput, "not a date: %q", text))
			continue
		}
		if err := writeLine(e.stdout, d.String()); err != nil {
			return exitInternal
		}
	}
	return code
}

func cmdBSON(e *env, positional []string) int {
	v, err := e.parse(positional)
	if err != nil {
		return writeClassifiedError(e.stderr, err)
	}
	doc, err := laxbson.Marshal(v)
	if err != nil {
		return writeClassifiedError(e.stderr, err)
	}
	return e.emit(doc)
}

// writeClassifiedError reports err and returns the exit code of its failure
// class. Unclassified errors are internal.
func writeClassifiedError(stderr io.Writer, err error) int {
	return writeErrorAndReturn(stderr, laxerr.ClassOf(err).ExitCode(), "error: %v\n", err)
}

func writeErrorAndReturn(stderr io.Writer, code int, format string, args ...any) int {
	if err := writef(stderr, format, args...); err != nil {
		return exitInternal
	}
	return code
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
