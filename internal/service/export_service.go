package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/martinstiben/SGH-portal/internal/models"
	appErrors "github.com/martinstiben/SGH-portal/pkg/errors"
	"github.com/martinstiben/SGH-portal/pkg/export"
)

type gridBuilder interface {
	BuildCourseGrid(ctx context.Context, courseID string) (*models.TimetableGrid, error)
	BuildTeacherGrid(ctx context.Context, teacherID string) (*models.TimetableGrid, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// Export formats offered on the download routes.
const (
	ExportFormatPDF = "pdf"
	ExportFormatCSV = "csv"
)

// ExportFile is a rendered timetable download.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExportService renders timetable grids into downloadable files.
type ExportService struct {
	grids  gridBuilder
	csv    tableRenderer
	pdf    tableRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back
// to the default exporters.
func NewExportService(grids gridBuilder, csv, pdf tableRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{grids: grids, csv: csv, pdf: pdf, logger: logger}
}

// CourseTimetable renders one course's weekly grid in the given format.
func (s *ExportService) CourseTimetable(ctx context.Context, courseID, format string) (*ExportFile, error) {
	grid, err := s.grids.BuildCourseGrid(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.render(grid, format)
}

// TeacherTimetable renders one teacher's weekly grid in the given format.
func (s *ExportService) TeacherTimetable(ctx context.Context, teacherID, format string) (*ExportFile, error) {
	grid, err := s.grids.BuildTeacherGrid(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return s.render(grid, format)
}

func (s *ExportService) render(grid *models.TimetableGrid, format string) (*ExportFile, error) {
	table := gridTable(grid)

	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case ExportFormatCSV:
		data, err = s.csv.Render(table)
		contentType = "text/csv"
	case ExportFormatPDF:
		data, err = s.pdf.Render(table)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable export")
	}

	s.logger.Info("timetable exported",
		zap.String("for", grid.For),
		zap.String("name", grid.Name),
		zap.String("format", format),
	)
	return &ExportFile{
		Name:        exportFilename(grid.Name, format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// gridTable flattens the grid into the export shape: one header per
// school day after the time column, cell texts in weekday order.
func gridTable(grid *models.TimetableGrid) export.Table {
	headers := make([]string, 0, 6)
	headers = append(headers, "Hora")
	for _, day := range models.Weekdays() {
		headers = append(headers, day.String())
	}

	rows := make([][]string, 0, len(grid.Rows))
	for _, row := range grid.Rows {
		record := make([]string, 0, len(headers))
		record = append(record, row.Label)
		for _, cell := range row.Cells {
			record = append(record, cell.Text)
		}
		rows = append(rows, record)
	}

	return export.Table{
		Title:   "Horario " + grid.Name,
		Headers: headers,
		Rows:    rows,
	}
}

func exportFilename(name, ext string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-").Replace(slug)
	if slug == "" {
		slug = "horario"
	}
	return fmt.Sprintf("horario_%s.%s", slug, ext)
}
