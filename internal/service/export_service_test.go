package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinstiben/SGH-portal/internal/models"
	appErrors "github.com/martinstiben/SGH-portal/pkg/errors"
)

type fakeGridBuilder struct {
	grid *models.TimetableGrid
	err  error
}

func (f *fakeGridBuilder) BuildCourseGrid(_ context.Context, _ string) (*models.TimetableGrid, error) {
	return f.grid, f.err
}

func (f *fakeGridBuilder) BuildTeacherGrid(_ context.Context, _ string) (*models.TimetableGrid, error) {
	return f.grid, f.err
}

func exportGridFixture() *models.TimetableGrid {
	cells := func(texts ...string) []models.TimetableCell {
		out := make([]models.TimetableCell, 0, len(texts))
		for i, text := range texts {
			out = append(out, models.TimetableCell{Day: models.Weekday(i), Text: text})
		}
		return out
	}
	return &models.TimetableGrid{
		For:  "course",
		Name: "Sexto A",
		Rows: []models.TimetableRow{
			{
				Label: "9:00 AM - 9:30 AM",
				Cells: cells("Descanso", "Descanso", "Descanso", "Descanso", "Descanso"),
			},
			{
				Label: "10:00 AM - 11:00 AM",
				Cells: cells("Laura Pérez/Matemáticas", "", "", "", ""),
			},
		},
	}
}

func TestExportServiceCourseTimetableCSV(t *testing.T) {
	svc := NewExportService(&fakeGridBuilder{grid: exportGridFixture()}, nil, nil, nil)

	file, err := svc.CourseTimetable(context.Background(), "course-1", ExportFormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "horario_sexto_a.csv", file.Name)
	assert.Equal(t, "text/csv", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Hora,Lunes,Martes,Miércoles,Jueves,Viernes", lines[0])
	assert.Equal(t, "9:00 AM - 9:30 AM,Descanso,Descanso,Descanso,Descanso,Descanso", lines[1])
	assert.Equal(t, "10:00 AM - 11:00 AM,Laura Pérez/Matemáticas,,,,", lines[2])
}

func TestExportServiceTeacherTimetablePDF(t *testing.T) {
	grid := exportGridFixture()
	grid.For = "teacher"
	grid.Name = "Laura Pérez"
	svc := NewExportService(&fakeGridBuilder{grid: grid}, nil, nil, nil)

	file, err := svc.TeacherTimetable(context.Background(), "teacher-1", ExportFormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "horario_laura_pérez.pdf", file.Name)
	assert.Equal(t, "application/pdf", file.ContentType)
	require.NotEmpty(t, file.Data)
	assert.Equal(t, "%PDF", string(file.Data[:4]))
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	svc := NewExportService(&fakeGridBuilder{grid: exportGridFixture()}, nil, nil, nil)

	_, err := svc.CourseTimetable(context.Background(), "course-1", "xlsx")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportServiceGridErrorPassthrough(t *testing.T) {
	svc := NewExportService(&fakeGridBuilder{err: appErrors.Clone(appErrors.ErrNotFound, "course not found")}, nil, nil, nil)

	_, err := svc.CourseTimetable(context.Background(), "ghost", ExportFormatCSV)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
