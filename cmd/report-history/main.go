package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"steamstats/internal/amqp"
	"steamstats/internal/cli"
	"steamstats/internal/config"
	"steamstats/internal/core"
	"steamstats/internal/log"
	"steamstats/internal/storage"
	"steamstats/internal/worker"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		dbPath = flag.String("db", "", "SQLite report history (overrides REPORT_DB_PATH)")
		limit  = flag.Int("limit", 0, "number of reports to list (overrides HISTORY_LIMIT)")
		listen = flag.Bool("listen", false, "consume report events from AMQP and store them")
	)
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(slog.LevelInfo, log.ComponentStorage)

	cfg := cli.LoadAndValidateConfig(logger, func(c *config.Config) {
		if *dbPath != "" {
			c.ReportDBPath = *dbPath
		}
		if *limit > 0 {
			c.HistoryLimit = *limit
		}
	})
	logger = cli.SetupLogger(cfg.SlogLevel(), log.ComponentStorage)

	if cfg.ReportDBPath == "" {
		logger.Error("Report history is disabled: set REPORT_DB_PATH or -db")
		return 1
	}

	repo := cli.InitSQLite(logger, cfg.ReportDBPath)
	defer repo.Close()

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	if *listen {
		return consume(ctx, logger, cfg, repo)
	}

	reports, err := repo.ListReports(ctx, cfg.HistoryLimit)
	if err != nil {
		logger.Error("Failed to list reports", log.FieldOperation, log.OpList, "error", err)
		return 1
	}
	if err := printReports(os.Stdout, reports); err != nil {
		logger.Error("Failed to print reports", "error", err)
		return 1
	}
	return 0
}

func consume(ctx context.Context, logger *log.Logger, cfg *config.Config, repo *storage.SQLiteRepository) int {
	if cfg.AMQPURL == "" {
		logger.Error("Listening requires AMQP_URL")
		return 1
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		return 1
	}
	defer client.Close()

	w := worker.NewHistoryWorker(repo)
	logger.Info("Listening for report events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	if err := client.ConsumeReports(ctx, w.HandleReportMessage); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		return 1
	}
	logger.Info("Stopped listening")
	return 0
}

func printReports(out io.Writer, reports []storage.StoredReport) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tGENERATED\tSOURCE\tROWS\tSKIPPED\tYEAR\tFREE%\tTOP GENRE (TARGET)\tFAILED")
	for _, r := range reports {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.GeneratedAt.Local().Format(time.DateTime),
			r.Source,
			r.Rows,
			r.Skipped,
			orDash(r.MostFrequentYear, r.Err(core.StatMostFrequentYear)),
			freeColumn(r.Report),
			fmt.Sprintf("%s (%s)", orDash(fmt.Sprintf("%q", r.TopGenre), r.Err(core.StatTopGenre)), r.TargetYear),
			failedStats(r.Report),
		)
	}
	return tw.Flush()
}

func orDash(v string, err error) string {
	if err != nil {
		return "-"
	}
	return v
}

func freeColumn(r core.Report) string {
	if r.Err(core.StatPriceSplit) != nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", r.FreePercentage)
}

func failedStats(r core.Report) string {
	if len(r.Errors) == 0 {
		return "-"
	}
	var names []string
	for _, stat := range []string{core.StatMostFrequentYear, core.StatPriceSplit, core.StatTopGenre} {
		if r.Err(stat) != nil {
			names = append(names, stat)
		}
	}
	return strings.Join(names, ",")
}
