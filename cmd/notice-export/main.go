// notice-export writes the demolition schedule to an XLSX workbook.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/Korixo/demolition-tracker/internal/common"
	"github.com/Korixo/demolition-tracker/internal/entity"
	"github.com/Korixo/demolition-tracker/internal/export"
	"github.com/Korixo/demolition-tracker/internal/repository"
	"github.com/Korixo/demolition-tracker/internal/urgency"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	out := flag.String("out", "schedule.xlsx", "output file path")
	query := flag.String("query", "", "narrow to records whose building or owner matches")
	flag.Parse()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	data, err := export.NewService(store, logger).ExportScheduleXLSX(ctx, *query)
	if err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("write workbook", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("schedule exported", "path", *out, "bytes", len(data))

	logReminders(ctx, store, logger)
}

// logReminders surfaces records inside the urgent window so an operator
// running the export sees what is due next.
func logReminders(ctx context.Context, store repository.RecordStore, logger *slog.Logger) {
	recs, err := store.List(ctx)
	if err != nil {
		logger.Warn("listing records for reminders", "error", err)
		return
	}
	rows := make([]*entity.DemolitionRecord, len(recs))
	for i := range recs {
		rows[i] = &recs[i]
	}
	now := time.Now().UTC()
	for _, r := range urgency.Reminders(rows, now) {
		logger.Warn("demolition due soon",
			"building", r.BuildingName,
			"date", r.DemolitionDate,
			"remaining", urgency.TimeRemaining(r.DemolitionDate, now),
		)
	}
}

func openStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.RecordStore, func(), error) {
	switch cfg.Store.Backend {
	case "sqlite":
		store, err := repository.NewSQLiteStore(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "postgres":
		pool, err := repository.OpenPostgres(ctx, repository.PoolConfig{
			DSN:             cfg.Store.DSN,
			MaxConns:        cfg.Store.MaxConns,
			MinConns:        cfg.Store.MinConns,
			MaxConnLifetime: cfg.Store.MaxConnLifetime,
			MaxConnIdleTime: cfg.Store.MaxConnIdleTime,
			DialTimeout:     cfg.Store.DialTimeout,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresStore(pool), pool.Close, nil
	default:
		return repository.NewMemoryStore(), func() {}, nil
	}
}
