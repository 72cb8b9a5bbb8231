// Package export produces XLSX schedules from the record store.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Korixo/demolition-tracker/internal/entity"
	"github.com/Korixo/demolition-tracker/internal/repository"
	"github.com/Korixo/demolition-tracker/internal/urgency"
)

// Service turns the stored schedule into XLSX bytes.
type Service struct {
	store  repository.RecordStore
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store repository.RecordStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// ExportScheduleXLSX returns a workbook of all records in schedule order,
// optionally narrowed by a building/owner search query.
func (s *Service) ExportScheduleXLSX(ctx context.Context, query string) ([]byte, error) {
	start := time.Now()

	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	rows := make([]*entity.DemolitionRecord, len(recs))
	for i := range recs {
		rows[i] = &recs[i]
	}
	if query != "" {
		rows = urgency.Filter(rows, query)
	}
	now := s.now().UTC()
	urgency.SortSchedule(rows, now)

	f := excelize.NewFile()
	const sheet = "Schedule"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Building",
		"Owner",
		"Location",
		"Demolition Date",
		"Urgency",
		"Time Remaining",
		"Notes",
		"Recorded",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range rows {
		rowNum := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowNum)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.BuildingName)
		write(2, deref(r.OwnerName))
		write(3, deref(r.Location))
		write(4, r.DemolitionDate.Format("2006-01-02 15:04"))
		write(5, string(urgency.Classify(r.DemolitionDate, now)))
		write(6, urgency.TimeRemaining(r.DemolitionDate, now))
		write(7, truncate(deref(r.Notes), 140))
		write(8, r.CreatedAt.Format("2006-01-02"))
	}

	_ = f.SetColWidth(sheet, "A", "A", 28) // building
	_ = f.SetColWidth(sheet, "B", "C", 22) // owner, location
	_ = f.SetColWidth(sheet, "D", "D", 18) // date
	_ = f.SetColWidth(sheet, "E", "F", 14) // urgency, countdown
	_ = f.SetColWidth(sheet, "G", "G", 48) // notes
	_ = f.SetColWidth(sheet, "H", "H", 12) // recorded

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return string(runes[:1])
	}
	return string(runes[:n-1]) + "…"
}
