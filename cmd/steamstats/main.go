package main

import (
	"flag"
	"log/slog"
	"os"

	"steamstats/internal/amqp"
	"steamstats/internal/cli"
	"steamstats/internal/config"
	"steamstats/internal/log"
	"steamstats/internal/services"
	"steamstats/internal/source"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		input    = flag.String("input", "", "catalog file (overrides INPUT_PATH)")
		kind     = flag.String("source", "", "source type: csv, xlsx, sheets or memory (overrides SOURCE_TYPE)")
		sheet    = flag.String("sheet", "", "worksheet name for xlsx sources (overrides XLSX_SHEET)")
		year     = flag.String("year", "", "target year for genre totals (overrides TARGET_YEAR)")
		dbPath   = flag.String("db", "", "SQLite report history (overrides REPORT_DB_PATH)")
		logLevel = flag.String("log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
		genres   = flag.Int("genres", 10, "number of genres to list in the printed report")
	)
	flag.Parse()

	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(slog.LevelInfo, log.ComponentApp)

	cfg := cli.LoadAndValidateConfig(logger, func(c *config.Config) {
		setIf(&c.InputPath, *input)
		setIf(&c.SourceType, *kind)
		setIf(&c.XLSXSheet, *sheet)
		setIf(&c.TargetYear, *year)
		setIf(&c.ReportDBPath, *dbPath)
		setIf(&c.LogLevel, *logLevel)
	})
	logger = cli.SetupLogger(cfg.SlogLevel(), log.ComponentApp)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	srcCfg, err := source.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid source configuration", "error", err)
		return 1
	}
	src, err := source.NewFactory(logger.WithComponent(log.ComponentCatalog).Logger).Open(ctx, srcCfg)
	if err != nil {
		logger.Error("Failed to open catalog source", "error", err, "type", srcCfg.Type)
		return 1
	}
	if src.Cleanup != nil {
		defer src.Cleanup()
	}

	printer := services.NewPrinter(os.Stdout)
	printer.Genres = *genres
	sinks := []services.ReportSink{printer}

	// Report history (optional)
	if cfg.ReportDBPath != "" {
		sinks = append(sinks, cli.InitSQLite(logger, cfg.ReportDBPath))
		logger.Info("Report history enabled", "db_path", cfg.ReportDBPath)
	}

	// Report events (optional)
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without report events", "error", err)
		} else {
			sinks = append(sinks, amqpClient)
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	svc := services.NewReportService(src.Reader, sinks, services.ReportServiceConfig{
		Source:      src.Name,
		TargetYear:  cfg.TargetYear,
		SinkTimeout: cfg.SinkTimeout,
	}, logger.WithComponent(log.ComponentPipeline))
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Failed to close sinks", "error", err)
		}
	}()

	if _, err := svc.Run(ctx); err != nil {
		logger.Error("Report run failed", "error", err)
		return 1
	}
	return 0
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
