// Package export writes the booking schedule to an Excel workbook: one
// column per date, one row per court, one line per booking in each cell.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"courtdesk/internal/models"
	"courtdesk/internal/store"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Schedule"

type Exporter struct {
	store  *store.Store
	courts []int
	path   string
	logger *zerolog.Logger
}

func NewExporter(s *store.Store, courts []int, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{
		store:  s,
		courts: courts,
		path:   path,
		logger: logger,
	}
}

// ExportSchedule writes the grid for the inclusive date range and returns
// the file path.
func (e *Exporter) ExportSchedule(startDate, endDate time.Time) (string, error) {
	if endDate.Before(startDate) {
		return "", fmt.Errorf("end date %s before start date %s",
			endDate.Format(models.DateLayout), startDate.Format(models.DateLayout))
	}

	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Schedule: %s - %s",
		startDate.Format(models.DateLayout), endDate.Format(models.DateLayout)))

	dateCols := e.writeDateHeaders(f, startDate, endDate)
	e.writeCourtHeaders(f)
	e.writeBookingCells(f, dateCols)

	_ = f.SetColWidth(sheetName, "A", "A", 12)
	lastCol, _ := excelize.ColumnNumberToName(len(dateCols) + 1)
	_ = f.SetColWidth(sheetName, "B", lastCol, 28)
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("schedule_%s_to_%s.xlsx",
		startDate.Format(models.DateLayout),
		endDate.Format(models.DateLayout))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("schedule exported")
	return filePath, nil
}

func (e *Exporter) writeDateHeaders(f *excelize.File, startDate, endDate time.Time) map[string]int {
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	col := 2
	dateCols := make(map[string]int)
	for current := startDate; !current.After(endDate); current = current.AddDate(0, 0, 1) {
		cell, _ := excelize.CoordinatesToCellName(col, 2)
		_ = f.SetCellValue(sheetName, cell, current.Format("02.01"))
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
		dateCols[current.Format(models.DateLayout)] = col
		col++
	}
	return dateCols
}

func (e *Exporter) writeCourtHeaders(f *excelize.File) {
	courtStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	row := 3
	for _, court := range e.courts {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(sheetName, cell, fmt.Sprintf("Court %d", court))
		_ = f.SetCellStyle(sheetName, cell, cell, courtStyle)
		row++
	}
}

func (e *Exporter) writeBookingCells(f *excelize.File, dateCols map[string]int) {
	for date, col := range dateCols {
		byCourt := make(map[int][]models.Booking)
		for _, b := range e.store.FilterByDate(date) {
			byCourt[b.Court] = append(byCourt[b.Court], b)
		}

		row := 3
		for _, court := range e.courts {
			bookings := byCourt[court]
			sort.SliceStable(bookings, func(i, j int) bool {
				return bookings[i].StartTime < bookings[j].StartTime
			})

			lines := make([]string, 0, len(bookings))
			for _, b := range bookings {
				lines = append(lines, fmt.Sprintf("%s-%s %s (%s)", b.StartTime, b.EndTime, b.Customer, b.BookingStatus))
			}

			cell, _ := excelize.CoordinatesToCellName(col, row)
			if len(lines) > 0 {
				_ = f.SetCellValue(sheetName, cell, strings.Join(lines, "\n"))
			} else {
				_ = f.SetCellValue(sheetName, cell, "Free")
			}
			row++
		}
	}
}
