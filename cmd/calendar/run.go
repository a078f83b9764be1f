package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nhle/calendar/internal/app"
	"github.com/nhle/calendar/internal/clock"
	"github.com/nhle/calendar/internal/command"
	"github.com/nhle/calendar/internal/logging"
	"github.com/nhle/calendar/internal/model"
	"github.com/nhle/calendar/internal/store"
	uicalendar "github.com/nhle/calendar/internal/ui/calendar"
)

type options struct {
	configPath  string
	plain       bool
	writeConfig bool
}

// flagKeys maps flags onto the config keys they override.
var flagKeys = map[string]string{
	"file":       "storage.path",
	"view":       "display.view",
	"week-start": "display.week_start",
	"log-level":  "log.level",
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("calendar", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", model.DefaultConfigPath(), "config file")
	fs.StringP("file", "f", "", "task file (default "+model.DefaultTaskFilePath()+")")
	fs.BoolVar(&opts.plain, "plain", false, "read commands line by line instead of the full-screen view")
	fs.String("view", "", "initial view: week or month")
	fs.String("week-start", "", "first day of the week: monday or sunday")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.BoolVar(&opts.writeConfig, "write-config", false, "write the effective config to --config and exit")
	return fs
}

// run parses args, opens the task file and hands control to the full-screen
// view, or to the line loop when --plain is set or stdout is not a terminal.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options
	fs := newFlagSet(&opts)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	v := viper.New()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	cfg, err := model.LoadConfig(v, opts.configPath)
	if err != nil {
		return err
	}

	if opts.writeConfig {
		if err := model.SaveConfig(opts.configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Config written to %s\n", opts.configPath)
		return nil
	}

	logFile, err := logging.OpenFile(cfg.Log.Path)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := logging.New(logFile, logging.OptionsFromConfig(cfg.Log))

	files, err := store.OpenFileStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := files.Close(); err != nil {
			logger.Error("closing task file", "err", err)
		}
	}()

	snap, err := files.Load()
	if err != nil {
		if !errors.Is(err, store.ErrMalformedLine) {
			return err
		}
		logger.Warn("skipped malformed lines", "file", files.Path(), "err", err)
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}
	tasks := store.New()
	if err := tasks.LoadFromSnapshot(snap); err != nil {
		logger.Warn("skipped invalid tasks", "file", files.Path(), "err", err)
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}

	cal := command.NewCalendar(model.Today(), cfg.FirstWeekday(), cfg.MonthView())
	d := command.New(tasks, cal, files, logger)
	logger.Info("calendar started",
		"file", files.Path(),
		"tasks", tasks.Len(),
		"view", cfg.Display.View,
		"plain", opts.plain)

	if opts.plain || !isTerminal(stdout) {
		render := func() string {
			return uicalendar.Render(cal.Active(), tasks, d.Today(), cfg.Display.CellWidth)
		}
		return app.RunREPL(ctx, stdin, stdout, d, render)
	}

	p := tea.NewProgram(
		app.New(d, clock.New(clock.DefaultInterval), logger, cfg.Display.CellWidth),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(stdin),
		tea.WithOutput(stdout),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running calendar: %w", err)
	}
	logger.Info("calendar stopped")
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
