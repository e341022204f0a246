package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/tradelog/pkg/config"
	"github.com/odvcencio/tradelog/pkg/errors"
	"github.com/odvcencio/tradelog/pkg/form"
	"github.com/odvcencio/tradelog/pkg/journal"
	"github.com/odvcencio/tradelog/pkg/logging"
	"github.com/odvcencio/tradelog/pkg/terminal"
)

func newFlagSet(name string, out *terminal.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func usageError(err error) error {
	if err == flag.ErrHelp {
		return err
	}
	return errors.Wrap(err, errors.ErrCodeInvalidInput, "bad arguments")
}

func runList(ctx context.Context, cfg *config.Config, out *terminal.Writer, args []string) error {
	fs := newFlagSet("list", out)
	var opts journal.ListOptions
	fs.StringVar(&opts.Symbol, "symbol", "", "only entries for this symbol")
	fs.StringVar(&opts.Portfolio, "portfolio", "", "only entries in this portfolio")
	fs.IntVar(&opts.Limit, "n", 20, "maximum entries to show (0 for all)")
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}

	store, err := journal.Open(cfg.Journal.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx, opts)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		out.Dim("No entries.")
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			e.Date.Local().Format("2006-01-02 15:04"),
			e.Symbol,
			e.Strategy,
			e.Portfolio,
		})
	}
	out.Table([]string{"ID", "Date", "Symbol", "Strategy", "Portfolio"}, rows)
	return nil
}

func runShow(ctx context.Context, cfg *config.Config, out *terminal.Writer, args []string) error {
	fs := newFlagSet("show", out)
	asHTML := fs.Bool("html", false, "print HTML instead of rendered markdown")
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}
	if fs.NArg() != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "show takes exactly one entry ID").
			WithRemediation("tradelog show [-html] <id>")
	}
	id := strings.ToUpper(strings.TrimSpace(fs.Arg(0)))

	store, err := journal.Open(cfg.Journal.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	page, err := journal.RenderMarkdown(entry.Document())
	if err != nil {
		return err
	}

	if *asHTML {
		html, err := journal.RenderHTML(page)
		if err != nil {
			return err
		}
		_, err = out.Write(html)
		return err
	}

	_, body, err := journal.SplitFrontMatter(page)
	if err != nil {
		return err
	}
	meta := fmt.Sprintf("%s  %s  portfolio %s", entry.ID, entry.Date.Local().Format("Jan 2, 2006 15:04"), entry.Portfolio)
	if entry.MarkdownPath != "" {
		meta += "\n" + entry.MarkdownPath
	}
	out.Box(entry.Title(), meta)
	return out.Markdown(string(body))
}

func runExport(ctx context.Context, cfg *config.Config, out *terminal.Writer, args []string) error {
	fs := newFlagSet("export", out)
	var opts journal.ListOptions
	fs.StringVar(&opts.Symbol, "symbol", "", "only entries for this symbol")
	fs.StringVar(&opts.Portfolio, "portfolio", "", "only entries in this portfolio")
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}
	if fs.NArg() != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "export takes exactly one output file").
			WithRemediation("tradelog export <file.xlsx>")
	}
	path := fs.Arg(0)
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return errors.Newf(errors.ErrCodeInvalidInput, "export file %s must end in .xlsx", path)
	}

	store, err := journal.Open(cfg.Journal.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx, opts)
	if err != nil {
		return err
	}
	if err := journal.ExportXLSX(entries, path); err != nil {
		return err
	}
	out.Success("exported %d entries to %s", len(entries), path)
	return nil
}

func runForm(_ context.Context, cfg *config.Config, out *terminal.Writer, args []string) error {
	fs := newFlagSet("form", out)
	asTOML := fs.Bool("toml", false, "print TOML instead of YAML")
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}

	def := form.Default()
	if cfg.Form.Path != "" {
		loaded, err := form.Load(cfg.Form.Path)
		if err != nil {
			return err
		}
		def = loaded
	}
	format := form.FormatYAML
	if *asTOML {
		format = form.FormatTOML
	}
	data, err := form.Marshal(def, format)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func runLog(_ context.Context, cfg *config.Config, out *terminal.Writer, args []string) error {
	fs := newFlagSet("log", out)
	count := fs.Int("n", 50, "number of events to show (0 for all)")
	errorsOnly := fs.Bool("errors", false, "show the error log across all sessions")
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}

	path := filepath.Join(cfg.Logging.Dir, "errors.jsonl")
	if !*errorsOnly {
		latest, err := logging.LatestSession(cfg.Logging.Dir)
		if err != nil {
			if os.IsNotExist(err) {
				out.Dim("No form sessions logged yet.")
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeStorageRead, "find latest session log").
				WithContext("dir", cfg.Logging.Dir)
		}
		path = latest
	}

	events, err := logging.ReadRecentEvents(path, *count)
	if err != nil {
		if os.IsNotExist(err) {
			out.Dim("No events.")
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeStorageRead, "read event log").WithContext("path", path)
	}
	if len(events) == 0 {
		out.Dim("No events.")
		return nil
	}

	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			ev.Timestamp.Local().Format("15:04:05"),
			string(ev.Level),
			string(ev.Category) + "/" + ev.EventType,
			ev.EntryID,
			ev.Message,
		})
	}
	out.Dim("%s", path)
	out.Table([]string{"Time", "Level", "Event", "Entry", "Message"}, rows)
	return nil
}
