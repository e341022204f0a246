// Command tradelog runs the trade-journal form in the terminal and manages
// the entries it records.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/odvcencio/tradelog/pkg/config"
	"github.com/odvcencio/tradelog/pkg/errors"
	"github.com/odvcencio/tradelog/pkg/terminal"
)

var version = "dev"

// globalOptions are the flags accepted before the subcommand.
type globalOptions struct {
	configPath  string
	metricsAddr string
	logLevel    string
	args        []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	out := terminal.NewWithOutput(stdout)
	errOut := terminal.NewWithOutput(stderr)

	opts, err := parseGlobalOptions(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			printHelp(stdout)
			return 0
		}
		return exitUsage
	}

	cmd := "run"
	rest := opts.args
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}

	switch cmd {
	case "help", "-h", "--help":
		printHelp(stdout)
		return 0
	case "version", "--version":
		fmt.Fprintf(stdout, "tradelog %s\n", version)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		reportError(errOut, err)
		return exitCodeForError(err)
	}

	var handler func(context.Context, *config.Config, *terminal.Writer, []string) error
	switch cmd {
	case "run":
		handler = runUI
	case "list":
		handler = runList
	case "show":
		handler = runShow
	case "export":
		handler = runExport
	case "form":
		handler = runForm
	case "log":
		handler = runLog
	default:
		if strings.HasPrefix(cmd, "-") {
			errOut.Error("unknown flag: %s", cmd)
		} else {
			errOut.Error("unknown command: %s", cmd)
		}
		errOut.Dim("Run 'tradelog help' for usage.")
		return exitUsage
	}

	if err := handler(ctx, cfg, out, rest); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		reportError(errOut, err)
		return exitCodeForError(err)
	}
	return 0
}

func parseGlobalOptions(args []string, stderr io.Writer) (*globalOptions, error) {
	opts := &globalOptions{}
	fs := flag.NewFlagSet("tradelog", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "config file (default: ~/.tradelog/config.yaml, ./.tradelog/config.yaml)")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while the form runs")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.args = fs.Args()
	return opts, nil
}

func loadConfig(opts *globalOptions) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.metricsAddr != "" || opts.logLevel != "" {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func reportError(w *terminal.Writer, err error) {
	if e, ok := errors.As(err); ok {
		w.Error("%s", e.Friendly())
		return
	}
	w.Error("%v", err)
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `tradelog - terminal trade journal

Usage:
  tradelog [flags] [command]

Commands:
  run                     open the entry form (default)
  list [-symbol S] [-portfolio P] [-n N]
                          list recorded entries, newest first
  show [-html] <id>       print one entry as markdown or HTML
  export <file.xlsx>      write all entries to a spreadsheet
  form [-toml]            print the active form definition
  log [-n N] [-errors]    print events from the last form session
  version                 print the version

Flags:
  -config path            config file
  -metrics-addr addr      serve /metrics while the form runs
  -log-level level        debug, info, warn or error

In the form: click or Tab between fields, Escape to leave a field,
Ctrl-C to quit.
`)
}
