package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	table := Table{
		Title:   "Horario Sexto A",
		Headers: []string{"Hora", "Lunes", "Martes"},
		Rows: [][]string{
			{"9:00 AM - 9:30 AM", "Descanso", "Descanso"},
			{"10:00 AM - 11:00 AM", "Laura Pérez/Matemáticas"},
		},
	}

	data, err := NewCSVExporter().Render(table)
	require.NoError(t, err)

	want := "Hora,Lunes,Martes\n" +
		"9:00 AM - 9:30 AM,Descanso,Descanso\n" +
		"10:00 AM - 11:00 AM,Laura Pérez/Matemáticas,\n"
	assert.Equal(t, want, string(data))
}

func TestCSVExporterRenderNoHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	table := Table{
		Title:   "Horario Laura Pérez",
		Headers: []string{"Hora", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes"},
		Rows: [][]string{
			{"12:00 PM - 1:00 PM", "Almuerzo", "Almuerzo", "Almuerzo", "Almuerzo", "Almuerzo"},
		},
	}

	data, err := NewPDFExporter().Render(table)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPDFExporterRenderNoHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Table{})
	require.Error(t, err)
}

func TestColumnWidths(t *testing.T) {
	widths := columnWidths(6)
	require.Len(t, widths, 6)
	assert.Less(t, widths[0], widths[1])

	var total float64
	for _, w := range widths {
		total += w
	}
	assert.InDelta(t, 277.0, total, 0.01)
}
