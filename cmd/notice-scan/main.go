// notice-scan pushes a notice image through recognition and extraction,
// prints the candidate for review, and optionally confirms it into the
// record store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Korixo/demolition-tracker/constants"
	"github.com/Korixo/demolition-tracker/internal/common"
	"github.com/Korixo/demolition-tracker/internal/extract"
	"github.com/Korixo/demolition-tracker/internal/imagestore"
	"github.com/Korixo/demolition-tracker/internal/pipeline"
	"github.com/Korixo/demolition-tracker/internal/recognize"
	"github.com/Korixo/demolition-tracker/internal/reconcile"
	"github.com/Korixo/demolition-tracker/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	confirm := flag.Bool("confirm", false, "confirm the candidate into the store instead of just printing it")
	target := flag.String("update", "", "record id to update instead of creating a new record")
	flag.Parse()

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "notice-scan [-confirm] [-update <record-id>] <image-file>")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var targetID *uuid.UUID
	if *target != "" {
		id, err := uuid.Parse(*target)
		if err != nil {
			logger.Error("invalid record id (must be UUID)", "arg", *target, "error", err)
			os.Exit(2)
		}
		targetID = &id
	}

	if ext := filepath.Ext(flag.Arg(0)); !constants.IsAllowedImageExt(ext) {
		logger.Error("unsupported image extension", "ext", ext)
		os.Exit(2)
	}

	image, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		logger.Error("read image", "path", flag.Arg(0), "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	recognizer, err := buildRecognizer(cfg, logger)
	if err != nil {
		logger.Error("build recognizer", "error", err)
		os.Exit(1)
	}

	images, err := buildImageStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("build image store", "error", err)
		os.Exit(1)
	}

	proc := pipeline.NewProcessor(recognizer, extract.Options{DayFirst: cfg.Extract.DayFirst}, logger)
	wf := reconcile.NewWorkflow(proc, store, images, logger)

	session, err := wf.Begin(ctx, image, targetID)
	if err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(session, "", "  ")
	os.Stdout.Write(append(out, '\n'))

	if !*confirm {
		logger.Info("candidate not confirmed, discarding", "building", session.Candidate.BuildingName)
		wf.Cancel()
		return
	}

	rec, err := wf.Confirm(ctx)
	if err != nil {
		logger.Error("confirm failed", "error", err)
		os.Exit(1)
	}
	logger.Info("record saved", "record_id", rec.ID, "building", rec.BuildingName, "date", rec.DemolitionDate)
}

func buildStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.RecordStore, func(), error) {
	switch cfg.Store.Backend {
	case "sqlite":
		store, err := repository.NewSQLiteStore(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewCachedStore(store), func() { _ = store.Close() }, nil
	case "postgres":
		pool, err := repository.OpenPostgres(ctx, repository.PoolConfig{
			DSN:              cfg.Store.DSN,
			MaxConns:         cfg.Store.MaxConns,
			MinConns:         cfg.Store.MinConns,
			MaxConnLifetime:  cfg.Store.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Store.MaxConnIdleTime,
			DialTimeout:      cfg.Store.DialTimeout,
			StatementTimeout: cfg.Store.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewCachedStore(repository.NewPostgresStore(pool)), pool.Close, nil
	default:
		return repository.NewCachedStore(repository.NewMemoryStore()), func() {}, nil
	}
}

func buildRecognizer(cfg *common.Config, logger *slog.Logger) (recognize.Recognizer, error) {
	if cfg.Recognizer.Engine == "openai" {
		return recognize.NewOpenAIClient(recognize.OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
			Timeout: cfg.OpenAI.Timeout,
		}, logger)
	}
	return recognize.NewTesseract(recognize.TesseractConfig{
		Binary:      cfg.Recognizer.Tesseract,
		Language:    cfg.Recognizer.TesseractLang,
		TessdataDir: cfg.Recognizer.TessdataDir,
		PSM:         cfg.Recognizer.PSM,
		OEM:         cfg.Recognizer.OEM,
		WorkDir:     cfg.Recognizer.WorkDir,
	}, logger), nil
}

func buildImageStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (imagestore.ImageStore, error) {
	switch cfg.Images.Backend {
	case "local":
		return imagestore.NewLocalStore(cfg.Images.Dir, logger)
	case "s3":
		return imagestore.NewS3Store(ctx, imagestore.S3Config{
			Bucket:    cfg.Images.S3Bucket,
			Region:    cfg.Images.S3Region,
			Endpoint:  cfg.Images.S3Endpoint,
			AccessKey: cfg.Images.S3AccessKey,
			SecretKey: cfg.Images.S3SecretKey,
		}, logger)
	default:
		return nil, nil
	}
}
