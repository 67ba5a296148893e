package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"relcal/daterange"
	"relcal/internal/calendar"
	"relcal/internal/config"
	"relcal/internal/ics"
	appLog "relcal/internal/log"
	"relcal/internal/model"
	"relcal/internal/web"
)

const usage = `usage: relcal [-config path] [-env path] [-log-level level] <command> [flags]

commands:
  range [-offset o] [-at t] [-format f] [name...]   compute relative ranges
  week  -year y -week n | -at t                     bounds of one week
  weeks -year y                                     every week of a year
  reports [-n count] [-after t]                     upcoming report windows
  read  file.ics                                    windows from an exported calendar
  kinds                                             list range names
  serve [-listen addr]                              HTTP API
`

var errUsage = errors.New("invalid usage")

// globalFlags holds flags that precede the command.
type globalFlags struct {
	configPath string
	envPath    string
	logLevel   string
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout, daterange.Default); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		appLog.Error("relcal failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, calc *daterange.Calculator) error {
	gf, rest, err := parseGlobalFlags(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return errUsage
	}

	if err := config.LoadEnvFile(gf.envPath); err != nil {
		return err
	}
	conf, err := config.Load(gf.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", gf.configPath, err)
	}
	if gf.logLevel != "" {
		conf.LogLevel = gf.logLevel
	}
	if lvl, ok := appLog.ParseLevel(conf.LogLevel); ok {
		appLog.SetLevel(lvl)
	} else {
		appLog.Warn("unknown log level; keeping INFO", "log_level", conf.LogLevel)
	}

	appLog.Debug("effective config",
		"config_path", gf.configPath,
		"listen", conf.Listen,
		"offset", conf.Offset,
		"format", conf.Format,
		"reports", len(conf.Reports),
	)

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "range":
		return runRange(cmdArgs, stdout, conf, calc)
	case "week":
		return runWeek(cmdArgs, stdout, conf)
	case "weeks":
		return runWeeks(cmdArgs, stdout, conf)
	case "reports":
		return runReports(cmdArgs, stdout, conf, calc)
	case "read":
		return runRead(cmdArgs, stdout, conf)
	case "kinds":
		for _, k := range daterange.Kinds() {
			fmt.Fprintln(stdout, k)
		}
		return nil
	case "serve":
		return runServe(ctx, cmdArgs, conf, calc)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	var gf globalFlags
	fs := flag.NewFlagSet("relcal", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&gf.configPath, "config", "relcal.yaml", "Path to config file")
	fs.StringVar(&gf.envPath, "env", ".env", "Path to dotenv file with RELCAL_* overrides")
	fs.StringVar(&gf.logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR (overrides config)")
	if err := fs.Parse(args); err != nil {
		return gf, nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	return gf, fs.Args(), nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

func runRange(args []string, stdout io.Writer, conf *config.Config, calc *daterange.Calculator) error {
	fs := newFlagSet("range")
	offsetStr := fs.String("offset", conf.Offset, "Offset from UTC, e.g. -04:00")
	at := fs.String("at", "", "Reference instant (default now)")
	format := fs.String("format", conf.Format, "text, json or ics")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	offset, err := daterange.ParseOffset(*offsetStr)
	if err != nil {
		return err
	}
	var ref *time.Time
	if *at != "" {
		t, err := ics.ParseTime(*at)
		if err != nil {
			return err
		}
		ref = &t
	}

	names := fs.Args()
	if len(names) == 0 {
		names = []string{string(daterange.Yesterday)}
	}
	windows := make([]model.Window, 0, len(names))
	for _, name := range names {
		kind, err := daterange.ParseKind(name)
		if err != nil {
			return err
		}
		rng, err := calc.Compute(kind, offset, ref)
		if err != nil {
			return err
		}
		windows = append(windows, model.FromRange(string(kind), rng))
	}

	switch *format {
	case "text":
		return writeWindows(stdout, windows)
	case "json":
		return writeJSON(stdout, windows)
	case "ics":
		stamp := time.Now().UTC()
		if calc.Now != nil {
			stamp = calc.Now()
		}
		_, err := io.WriteString(stdout, ics.Export(windows, stamp))
		return err
	default:
		return fmt.Errorf("%w: unknown format %q", errUsage, *format)
	}
}

func runWeek(args []string, stdout io.Writer, conf *config.Config) error {
	fs := newFlagSet("week")
	year := fs.Int("year", 0, "Year")
	week := fs.Int("week", 0, "Week of year, from 1")
	at := fs.String("at", "", "Find the week containing this date instead")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *at != "" {
		t, err := ics.ParseTime(*at)
		if err != nil {
			return err
		}
		y, n, err := calendar.WeekOf(t)
		if err != nil {
			return err
		}
		*year, *week = y, n
	} else if *year == 0 || *week == 0 {
		return fmt.Errorf("%w: week needs -year and -week, or -at", errUsage)
	}

	wk, err := calendar.Week(*year, *week)
	if err != nil {
		return err
	}
	if conf.Format == "json" {
		return writeJSON(stdout, wk)
	}
	return writeWeeks(stdout, []model.Week{wk})
}

func runWeeks(args []string, stdout io.Writer, conf *config.Config) error {
	fs := newFlagSet("weeks")
	year := fs.Int("year", time.Now().Year(), "Year")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	weeks, err := calendar.WeeksOfYear(*year)
	if err != nil {
		return err
	}
	if conf.Format == "json" {
		return writeJSON(stdout, weeks)
	}
	return writeWeeks(stdout, weeks)
}

func runReports(args []string, stdout io.Writer, conf *config.Config, calc *daterange.Calculator) error {
	fs := newFlagSet("reports")
	n := fs.Int("n", 1, "Runs per report")
	afterStr := fs.String("after", "", "Plan runs after this instant (default now)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	offset, err := conf.OffsetDuration()
	if err != nil {
		return err
	}
	after := time.Now().UTC()
	if calc.Now != nil {
		after = calc.Now()
	}
	if *afterStr != "" {
		after, err = ics.ParseTime(*afterStr)
		if err != nil {
			return err
		}
	}

	reports, err := calendar.ReportsFromConfig(conf.Reports)
	if err != nil {
		return err
	}
	runs, err := calendar.Planner{Calc: calc, Offset: offset}.Plan(reports, after, *n)
	if err != nil {
		return err
	}
	if conf.Format == "json" {
		if runs == nil {
			runs = []model.Run{}
		}
		return writeJSON(stdout, runs)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REPORT\tKIND\tAT\tLOCAL BEGIN\tLOCAL END")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Report, r.Kind, r.At.Format(time.RFC3339), r.Window.LocalBegin, r.Window.LocalEnd)
	}
	return tw.Flush()
}

func runRead(args []string, stdout io.Writer, conf *config.Config) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: read needs exactly one file", errUsage)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	windows, err := ics.ReadWindows(f)
	if err != nil {
		return err
	}
	if conf.Format == "json" {
		return writeJSON(stdout, windows)
	}
	return writeWindows(stdout, windows)
}

func runServe(ctx context.Context, args []string, conf *config.Config, calc *daterange.Calculator) error {
	fs := newFlagSet("serve")
	listen := fs.String("listen", "", "HTTP listen address (overrides config if set)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *listen != "" {
		conf.Listen = *listen
	}

	srv, err := web.NewServer(conf, calc)
	if err != nil {
		return err
	}
	err = srv.Serve(ctx)
	appLog.Info("relcal exiting")
	return err
}

func writeWindows(w io.Writer, windows []model.Window) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBEGIN\tEND\tOFFSET")
	for _, win := range windows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			win.Name,
			win.Begin.Format("2006-01-02T15:04:05.000Z"),
			win.End.Format("2006-01-02T15:04:05.000Z"),
			win.Offset,
		)
	}
	return tw.Flush()
}

func writeWeeks(w io.Writer, weeks []model.Week) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tWEEK\tSTART\tEND")
	for _, wk := range weeks {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", wk.Year, wk.Number, wk.Start.Format("2006-01-02"), wk.End.Format("2006-01-02"))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
