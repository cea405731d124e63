// Package main is the entry point for the canvasedit command.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sanity-io/litter"

	"github.com/dshills/canvasedit/internal/app"
	"github.com/dshills/canvasedit/internal/input"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type flags struct {
	in          string
	out         string
	config      string
	selectIDs   string
	page        string
	scroll      string
	yes         bool
	interactive bool
	dump        bool
	logLevel    string
	version     bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, []string, error) {
	var f flags
	fs := flag.NewFlagSet("canvasedit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.in, "in", "", "Input HTML document (- for stdin)")
	fs.StringVar(&f.out, "out", "", "Output file (default stdout)")
	fs.StringVar(&f.config, "config", "", "Path to configuration file (.toml or .yaml)")
	fs.StringVar(&f.selectIDs, "select", "", "Comma-separated element ids to select")
	fs.StringVar(&f.page, "page", "", "Current page id")
	fs.StringVar(&f.scroll, "scroll", "", "Stage scroll offset as x,y")
	fs.BoolVar(&f.yes, "yes", false, "Accept every confirmation")
	fs.BoolVar(&f.interactive, "i", false, "Read commands from stdin")
	fs.BoolVar(&f.dump, "dump", false, "Print the editing state after running")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&f.version, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "canvasedit - edit the elements of an HTML page\n\n")
		fmt.Fprintf(stderr, "Usage: canvasedit -in page.html [options] [command[:count]...]\n\n")
		fmt.Fprintf(stderr, "Commands: %s\n\n", strings.Join(app.Commands(), " "))
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  canvasedit -in p.html -select a,b copy paste      Duplicate two elements\n")
		fmt.Fprintf(stderr, "  canvasedit -in p.html -select a -yes remove       Delete without asking\n")
		fmt.Fprintf(stderr, "  canvasedit -in p.html -out p.html -i              Edit interactively\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return &f, fs.Args(), nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, commands, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if f.version {
		fmt.Fprintf(stdout, "canvasedit %s (%s)\n", version, commit)
		return 0
	}
	if err := execute(ctx, f, commands, stdin, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func execute(ctx context.Context, f *flags, commands []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if f.in == "" {
		return errors.New("-in is required")
	}
	if f.in == "-" && f.interactive {
		return errors.New("-i reads commands from stdin; -in - is not allowed with it")
	}

	var doc io.Reader
	if f.in == "-" {
		doc = stdin
	} else {
		file, err := os.Open(f.in)
		if err != nil {
			return err
		}
		defer file.Close()
		doc = file
	}

	// The interactive loop and the confirmation prompt share one reader.
	var lines *bufio.Reader
	opts := app.Options{
		ConfigPath: f.config,
		Input:      doc,
		LogLevel:   f.logLevel,
		LogOutput:  stderr,
		AssumeYes:  f.yes,
		PromptOut:  stderr,
	}
	switch {
	case f.interactive:
		lines = bufio.NewReader(stdin)
		opts.PromptIn = lines
	case f.in != "-":
		opts.PromptIn = stdin
	}

	application, err := app.New(ctx, opts)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := applyState(application, f); err != nil {
		return err
	}

	for _, spec := range commands {
		res, err := application.Run(ctx, spec, input.SourceCommandLine)
		if err != nil {
			return fmt.Errorf("%s: %w", spec, err)
		}
		fmt.Fprintf(stderr, "%s: %s\n", spec, app.FormatResult(res))
	}

	if lines != nil {
		if application.Config().Watch().Enabled {
			stop, err := application.WatchFiles(ctx)
			if err != nil {
				application.Logger().Warn("live reload disabled: %v", err)
			} else {
				defer stop()
			}
		}
		if err := interact(ctx, application, lines, stderr); err != nil {
			return err
		}
	}

	if f.dump {
		fmt.Fprintln(stderr, litter.Options{StripPackageNames: true}.Sdump(application.State()))
	}

	if f.out != "" {
		return application.SaveFile(f.out)
	}
	return application.Save(stdout)
}

func applyState(application *app.Application, f *flags) error {
	if f.page != "" {
		application.SetPage(f.page)
	}
	if f.scroll != "" {
		xs, ys, ok := strings.Cut(f.scroll, ",")
		x, errX := strconv.Atoi(strings.TrimSpace(xs))
		y, errY := strconv.Atoi(strings.TrimSpace(ys))
		if !ok || errX != nil || errY != nil {
			return fmt.Errorf("-scroll: want x,y, got %q", f.scroll)
		}
		application.SetScroll(x, y)
	}
	if f.selectIDs != "" {
		var ids []string
		for _, id := range strings.Split(f.selectIDs, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if err := application.Select(ids...); err != nil {
			return err
		}
	}
	return nil
}

// interact runs commands line by line until quit or end of input. Command
// errors are reported and the loop continues.
func interact(ctx context.Context, application *app.Application, lines *bufio.Reader, out io.Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, "> ")
		line, err := lines.ReadString('\n')
		if line != "" {
			msg, execErr := application.ExecLine(ctx, line)
			switch {
			case errors.Is(execErr, app.ErrQuit):
				return nil
			case execErr != nil:
				fmt.Fprintf(out, "error: %v\n", execErr)
			case msg != "":
				fmt.Fprintln(out, msg)
			}
		}
		if err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}
	}
}
