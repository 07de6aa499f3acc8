package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vvheritagevv/Knee-Rehab/pkg/config"
	"github.com/vvheritagevv/Knee-Rehab/pkg/controller"
	"github.com/vvheritagevv/Knee-Rehab/pkg/db"
	"github.com/vvheritagevv/Knee-Rehab/pkg/logging"
	"github.com/vvheritagevv/Knee-Rehab/pkg/rehab"
	"github.com/vvheritagevv/Knee-Rehab/pkg/tracker"
)

const backupPerms = 0o600

type options struct {
	env        string
	configPath string
	dbPath     string
	logsPath   string
	exportPath string
	importPath string
	template   string
	reset      string
	stats      bool
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	flag.StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")
	flag.StringVar(&opts.dbPath, "db", "", "sqlite file, overrides the config")
	flag.StringVar(&opts.logsPath, "logs", "", "log file, overrides the config")
	flag.StringVar(&opts.exportPath, "export", "", "write a backup to this file ('-' for stdout, 'auto' for the dated name)")
	flag.StringVar(&opts.importPath, "import", "", "restore a backup from this file")
	flag.StringVar(&opts.template, "template", "", "replace the template with the JSON in this file")
	flag.StringVar(&opts.reset, "reset", "", "reset the template to a built-in procedure ["+
		strings.Join(rehab.Procedures(), " | ")+"]")
	flag.BoolVar(&opts.stats, "stats", false, "print the progress summary and exit")
	flag.Parse()

	return opts
}

func main() {
	ctx := context.Background()
	opts := parseFlags()

	cfg := loadConfig(opts)

	logCloser := logging.Setup(logging.SetupParams{
		LogFileName: cfg.LogsPath,
		LogToStdout: logToStdout(cfg, opts),
		LogLevel:    cfg.LogLevel,
	})
	defer logCloser.Close()

	log.Info().Str("env", opts.env).Str("db", cfg.DBPath).Msg("starting application...")

	database, err := db.NewDatabase(ctx, cfg.DBPath)
	if err != nil {
		panic(err)
	}
	defer database.Close()

	tr, err := tracker.New(ctx, database, tracker.WithProcedure(cfg.Procedure))
	if err != nil {
		panic(err)
	}

	if opts.oneShot() {
		if err := run(ctx, tr, opts, os.Stdout, os.Stderr); err != nil {
			log.Error().Err(err).Msg("command failed")
			fmt.Fprintln(os.Stderr, err)
			database.Close()
			os.Exit(1)
		}

		return
	}

	c, err := controller.NewController(ctx, tr)
	if err != nil {
		panic(err)
	}

	if err := c.Go(); err != nil {
		log.Error().Err(err).Msg("application stopped with an error")
	}
}

func loadConfig(opts options) *config.Config {
	tomlCfg, err := config.Load(opts.configPath)
	if err != nil {
		panic(err)
	}

	cfg, err := tomlCfg.Get(opts.env)
	if err != nil {
		panic(err)
	}

	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}

	if opts.logsPath != "" {
		cfg.LogsPath = opts.logsPath
	}

	return cfg
}

// logToStdout reports whether logs may share stdout. The TUI owns the terminal and an
// export to stdout must stay valid JSON, so both keep logs in the file only.
func logToStdout(cfg *config.Config, opts options) bool {
	return cfg.LogToStdout && opts.oneShot() && opts.exportPath != "-"
}

func (o options) oneShot() bool {
	return o.exportPath != "" || o.importPath != "" || o.template != "" || o.reset != "" || o.stats
}

// run applies the one-shot commands in a fixed order: changes first, then reports.
// When the backup goes to out, every other message goes to errOut.
func run(ctx context.Context, tr *tracker.Tracker, opts options, out, errOut io.Writer) error {
	notes := out
	if opts.exportPath == "-" {
		notes = errOut
	}

	if opts.importPath != "" {
		raw, err := os.ReadFile(opts.importPath)
		if err != nil {
			return fmt.Errorf("error reading backup: %w", err)
		}

		if err := tr.Import(ctx, raw); err != nil {
			return err
		}

		fmt.Fprintf(notes, "Imported %s.\n", opts.importPath)
	}

	if opts.reset != "" {
		if err := tr.ResetTemplate(ctx, opts.reset); err != nil {
			return err
		}

		fmt.Fprintf(notes, "Template reset to %s.\n", tr.Template().DisplayName())
	}

	if opts.template != "" {
		raw, err := os.ReadFile(opts.template)
		if err != nil {
			return fmt.Errorf("error reading template: %w", err)
		}

		if err := tr.ReplaceTemplate(ctx, raw); err != nil {
			return err
		}

		fmt.Fprintf(notes, "Template saved: %s.\n", tr.Template().DisplayName())
	}

	if opts.exportPath != "" {
		if err := export(ctx, tr, opts.exportPath, out); err != nil {
			return err
		}
	}

	if opts.stats {
		printStats(tr, notes)
	}

	return nil
}

func export(ctx context.Context, tr *tracker.Tracker, path string, out io.Writer) error {
	raw, err := tr.Export(ctx)
	if err != nil {
		return err
	}

	switch path {
	case "-":
		_, err = out.Write(append(raw, '\n'))

		return err
	case "auto":
		path = tracker.BackupFilename(tr.Today())
	}

	if err := os.WriteFile(path, raw, fs.FileMode(backupPerms)); err != nil {
		return fmt.Errorf("error writing backup: %w", err)
	}

	fmt.Fprintf(out, "Exported %s.\n", path)

	return nil
}

func printStats(tr *tracker.Tracker, out io.Writer) {
	stats := tr.Stats()

	fmt.Fprintf(out, "%s • %s\n", tr.Template().DisplayName(), tr.ActivePhase().Name)
	fmt.Fprintf(out, "Days logged:    %d\n", stats.DaysLogged)
	fmt.Fprintf(out, "This week:      %d\n", stats.ThisWeek)
	fmt.Fprintf(out, "Avg pain (14d): %s\n", stats.AvgPain)
	fmt.Fprintln(out, rehab.StreakLabel(stats.Streak))
}
