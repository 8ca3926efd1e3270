// Package main is the entry point for the quill command.
//
// quill loads a document, runs Lua scripts against it and writes the result:
//
//	quill -e 'buf.move("end") buf.insert("\n")' notes.txt
//	cat notes.txt | quill -s fix.lua -o fixed.txt
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/quill/internal/app"
	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/workspace"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options holds the parsed command line.
type options struct {
	configPath  string
	eval        string
	scriptPath  string
	outputPath  string
	logLevel    string
	showVersion bool
	input       string
}

var errUsage = errors.New("usage")

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("quill", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.eval, "eval", "", "Lua code to run against the document")
	fs.StringVar(&opts.eval, "e", "", "Lua code to run against the document (shorthand)")
	fs.StringVar(&opts.scriptPath, "script", "", "Lua file to run against the document")
	fs.StringVar(&opts.scriptPath, "s", "", "Lua file to run against the document (shorthand)")
	fs.StringVar(&opts.outputPath, "output", "", "Write the result here instead of stdout")
	fs.StringVar(&opts.outputPath, "o", "", "Write the result here instead of stdout (shorthand)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "quill - scriptable text editing engine\n\n")
		fmt.Fprintf(stderr, "Usage: quill [options] [file]\n\n")
		fmt.Fprintf(stderr, "Reads file, or stdin when file is missing or \"-\".\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nEnvironment overrides:\n")
		for _, name := range config.EnvNames() {
			fmt.Fprintf(stderr, "  %s\n", name)
		}
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.input = fs.Arg(0)
	default:
		fmt.Fprintf(stderr, "Error: expected at most one file, got %d\n", fs.NArg())
		return opts, errUsage
	}

	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 1
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "quill %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	if err := execute(ctx, opts, stdin, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func execute(ctx context.Context, opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(cfg.Log.Level),
		Output: stderr,
		Format: cfg.Log.Format,
		Prefix: "quill",
	})
	app.SetLogger(logger)

	// print output shares stderr so stdout carries only the document.
	a, err := app.New(cfg, app.WithLogger(logger), app.WithScriptOutput(stderr))
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := openInput(a, opts.input, stdin)
	if err != nil {
		return err
	}

	if opts.scriptPath != "" {
		if err := a.RunScriptFile(ctx, doc, opts.scriptPath); err != nil {
			return err
		}
	}
	if opts.eval != "" {
		if err := a.RunScript(ctx, doc, opts.eval); err != nil {
			return err
		}
	}

	if opts.outputPath != "" {
		return a.SaveAs(doc, opts.outputPath)
	}
	_, err = io.WriteString(stdout, doc.Engine.Export())
	return err
}

// loadConfig reads path, or the user config file when path is empty.
// An explicitly named file must exist.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return config.NewLoader().Load(path)
}

func openInput(a *app.App, path string, stdin io.Reader) (*workspace.Document, error) {
	if path != "" && path != "-" {
		return a.Open(path)
	}
	doc, err := a.Read(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return doc, nil
}
