package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/core/clock"
	"github.com/frahmantamala/timesheet/internal/core/common/validation"
	"github.com/frahmantamala/timesheet/internal/report"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetName = "Отчёты"
)

var header = []string{"Дата", "Сотрудник", "Проект", "Часы", "Комментарий"}

// utf8BOM makes spreadsheet apps detect the encoding of the CSV.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Row struct {
	Date     string
	Employee string
	Project  string
	Hours    float64
	Comment  string
}

func (r Row) strings() []string {
	return []string{r.Date, r.Employee, r.Project, strconv.FormatFloat(r.Hours, 'f', -1, 64), r.Comment}
}

type File struct {
	Name        string
	ContentType string
	Data        []byte
	Rows        int
}

type ReportReader interface {
	GetAllReports(ctx context.Context, days int) []report.Report
}

type Service struct {
	reports ReportReader
	clock   clock.Clock
	logger  *slog.Logger
}

func NewService(reports ReportReader, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		reports: reports,
		clock:   clk,
		logger:  logger,
	}
}

// Rows returns every report ordered by date, ledger order within a day.
func (s *Service) Rows(ctx context.Context) []Row {
	reports := s.reports.GetAllReports(ctx, 0)
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Date < reports[j].Date
	})

	rows := make([]Row, len(reports))
	for i, r := range reports {
		rows[i] = Row{
			Date:     r.Date,
			Employee: r.Username,
			Project:  r.Project,
			Hours:    r.Hours,
			Comment:  r.Comments,
		}
	}
	return rows
}

func (s *Service) filename(ext string) string {
	return fmt.Sprintf("reports_%s.%s", s.clock.Now().Format("20060102"), ext)
}

// Export renders the ledger in the requested format.
func (s *Service) Export(ctx context.Context, format string) (*File, error) {
	switch format {
	case "", FormatCSV:
		return s.CSV(ctx)
	case FormatXLSX:
		return s.XLSX(ctx)
	default:
		return nil, validation.ValidateExportFormat(format, FormatCSV, FormatXLSX)
	}
}

func (s *Service) CSV(ctx context.Context) (*File, error) {
	rows := s.Rows(ctx)
	if len(rows) == 0 {
		return nil, internal.ErrNoReportData
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, internal.NewInternalError("failed to write csv header", err)
	}
	for _, row := range rows {
		if err := w.Write(row.strings()); err != nil {
			return nil, internal.NewInternalError("failed to write csv row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, internal.NewInternalError("failed to flush csv", err)
	}

	s.logger.Info("reports exported", "format", FormatCSV, "rows", len(rows))
	return &File{
		Name:        s.filename(FormatCSV),
		ContentType: ContentTypeCSV,
		Data:        buf.Bytes(),
		Rows:        len(rows),
	}, nil
}

func (s *Service) XLSX(ctx context.Context) (*File, error) {
	rows := s.Rows(ctx)
	if len(rows) == 0 {
		return nil, internal.ErrNoReportData
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, internal.NewInternalError("failed to name sheet", err)
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return nil, internal.NewInternalError("failed to write xlsx header", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, internal.NewInternalError("failed to address xlsx row", err)
		}
		values := []interface{}{row.Date, row.Employee, row.Project, row.Hours, row.Comment}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, internal.NewInternalError("failed to write xlsx row", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, internal.NewInternalError("failed to render xlsx", err)
	}

	s.logger.Info("reports exported", "format", FormatXLSX, "rows", len(rows))
	return &File{
		Name:        s.filename(FormatXLSX),
		ContentType: ContentTypeXLSX,
		Data:        buf.Bytes(),
		Rows:        len(rows),
	}, nil
}
