// anyskema inspects schema documents and derives JSON Schema from them.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"

	anyskema "github.com/reoring/anyskema"
	"github.com/reoring/anyskema/adapters/rawschema"
	"github.com/reoring/anyskema/jsonschema"
)

var (
	Version = "dev"
	Commit  = "unknown"
	URL     = "https://github.com/reoring/anyskema"
)

// cliOptions describes anyskema CLI flags and subcommands.
type cliOptions struct {
	Detect  detectCommand  `command:"detect" description:"Report the vendor and detection tier of a schema document"`
	Convert convertCommand `command:"convert" description:"Derive a JSON Schema from a schema document"`
	Version versionCommand `command:"version" description:"Print version information"`
}

// detectCommand reports how a document would be identified.
type detectCommand struct {
	runner *cliRunner
	Args   struct {
		Input string `positional-arg-name:"input" description:"Schema document path, .json or .yaml/.yml (stdin when omitted)"`
	} `positional-args:"yes"`
}

// Execute runs the detect subcommand.
func (command *detectCommand) Execute(_ []string) error {
	return command.runner.runDetect(command.Args.Input)
}

// convertCommand derives a JSON Schema from a document.
type convertCommand struct {
	runner *cliRunner
	Args   struct {
		Input  string `positional-arg-name:"input" description:"Schema document path, .json or .yaml/.yml (stdin when omitted)"`
		Output string `positional-arg-name:"output" description:"Output file path (stdout when omitted)"`
	} `positional-args:"yes"`
}

// Execute runs the convert subcommand.
func (command *convertCommand) Execute(_ []string) error {
	return command.runner.runConvert(command.Args.Input, command.Args.Output)
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs the version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	fmt.Fprintf(command.runner.stdout, "url:      %s\nversion:  %s\ncommit:   %s\n", URL, Version, Commit)
	return nil
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	programName string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// File documents carry no runtime library, so the raw-document adapter is
// the only one the CLI registers.
func init() {
	anyskema.Register(rawschema.New())
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "anyskema"
	}
	runner := &cliRunner{
		programName: filepath.Base(programName),
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
	}
	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			fmt.Fprintln(runner.stdout, err.Error())
			return 0
		}
		fmt.Fprintln(runner.stderr, err.Error())
		return 2
	}

	fmt.Fprintln(runner.stderr, err.Error())
	return 1
}

func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	options.Detect.runner = runner
	options.Convert.runner = runner
	options.Version.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName

	_, err := parser.ParseArgs(args)
	return err
}

// runDetect loads a document and reports its detection tier and vendor.
func (runner *cliRunner) runDetect(inputPath string) error {
	doc, err := runner.loadDocument(inputPath)
	if err != nil {
		return err
	}
	d, ok := anyskema.Detect(doc)
	if !ok {
		return fmt.Errorf("no adapter matched %q", displayPath(inputPath))
	}
	fmt.Fprintf(runner.stdout, "vendor: %s\ntier:   %s\n", d.Vendor, d.Type)
	return nil
}

// runConvert loads a document, derives its JSON Schema, and writes it as
// pretty-printed JSON.
func (runner *cliRunner) runConvert(inputPath, outputPath string) error {
	doc, err := runner.loadDocument(inputPath)
	if err != nil {
		return err
	}
	frag, err := anyskema.NewTransformer(rawschema.New()).Transform(doc)
	if err != nil {
		var unknown *anyskema.UnknownSchemaError
		if errors.As(err, &unknown) {
			return fmt.Errorf("no adapter matched %q", displayPath(inputPath))
		}
		return fmt.Errorf("convert %q: %w", displayPath(inputPath), err)
	}
	out, err := jsonschema.MarshalIndent(frag)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	out = append(out, '\n')

	if strings.TrimSpace(outputPath) == "" {
		_, err = runner.stdout.Write(out)
		return err
	}
	if err := os.WriteFile(outputPath, out, 0o600); err != nil {
		return fmt.Errorf("write schema file %q: %w", outputPath, err)
	}
	return nil
}

// loadDocument reads a schema document from a file or stdin. YAML is chosen
// by extension; everything else parses as JSON.
func (runner *cliRunner) loadDocument(inputPath string) (*rawschema.Document, error) {
	var (
		data []byte
		err  error
	)
	if strings.TrimSpace(inputPath) == "" {
		data, err = io.ReadAll(runner.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(inputPath)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", inputPath, err)
		}
	}

	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".yaml", ".yml":
		return rawschema.FromYAML(data)
	default:
		return rawschema.FromJSON(data)
	}
}

func displayPath(inputPath string) string {
	if strings.TrimSpace(inputPath) == "" {
		return "stdin"
	}
	return inputPath
}
