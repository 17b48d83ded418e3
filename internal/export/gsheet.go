package export

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-co-op/gocron"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/classmood/backend/internal/app"
	"github.com/classmood/backend/internal/models"
	"github.com/classmood/backend/internal/store"
)

// Cell markers for the attendance grid. Verified check-ins get a
// different present marker so the sheet shows which days carried a
// location fix.
var statusMarks = map[models.AttendanceStatus]string{
	models.StatusPresent: "✓",
	models.StatusAbsent:  "✗",
	models.StatusLate:    "R",
	models.StatusExcused: "J",
}

const verifiedMark = "✓✓"

type GSheetExporter struct {
	config        *app.Config
	store         store.Store
	scheduler     *gocron.Scheduler
	sheetsService *sheets.Service
}

func NewGSheetExporter(config *app.Config, store store.Store) (*GSheetExporter, error) {
	ctx := context.Background()
	scheduler := gocron.NewScheduler(time.UTC)

	for i := range config.GSheet {
		cfg := config.GSheet[i]

		svc, err := sheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath))
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets service: %w", err)
		}

		exporter := &GSheetExporter{
			config:        config,
			store:         store,
			scheduler:     scheduler,
			sheetsService: svc,
		}

		_, err = scheduler.Cron(cfg.Schedule).Do(func() {
			if err := exporter.Export(&cfg); err != nil {
				logger.Error.Printf("Export failed: %v", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("failed to schedule export: %w", err)
		}
	}

	scheduler.StartAsync()
	return nil, nil
}

// Export rewrites the whole attendance grid: one row per student, one
// column per recorded day, newest day last, plus a timestamp row.
func (e *GSheetExporter) Export(cfg *app.GSheetConfig) error {
	students, err := e.store.ListStudents()
	if err != nil {
		return fmt.Errorf("failed to read students: %w", err)
	}

	records, err := e.store.ListAttendance()
	if err != nil {
		return fmt.Errorf("failed to read attendance: %w", err)
	}

	byStudent := make(map[string]map[string]string)
	dateSet := make(map[string]bool)
	for _, rec := range records {
		if byStudent[rec.StudentID] == nil {
			byStudent[rec.StudentID] = make(map[string]string)
		}
		mark := statusMarks[rec.Status]
		if rec.Status == models.StatusPresent && rec.Verified {
			mark = verifiedMark
		}
		byStudent[rec.StudentID][rec.Date] = mark
		dateSet[rec.Date] = true
	}

	dates := make([]string, 0, len(dateSet))
	for date := range dateSet {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	header := []interface{}{"Alumno", "Matrícula"}
	for _, date := range dates {
		header = append(header, date)
	}

	values := [][]interface{}{header}
	for _, student := range students {
		row := []interface{}{student.Name, student.Matricula}
		for _, date := range dates {
			row = append(row, byStudent[student.ID][date])
		}
		values = append(values, row)
	}

	timestamp := fmt.Sprintf("UPD: %s", time.Now().UTC().Format("2 January 15:04"))
	values = append(values, []interface{}{timestamp})

	updateRange := fmt.Sprintf("%s!A1", cfg.SheetName)
	_, err = e.sheetsService.Spreadsheets.Values.Update(cfg.SpreadsheetID, updateRange,
		&sheets.ValueRange{Values: values}).ValueInputOption("RAW").Do()
	if err != nil {
		return fmt.Errorf("failed to update sheet: %w", err)
	}

	return nil
}
