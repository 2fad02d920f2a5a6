package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	cases := []struct {
		raw     string
		want    Weekday
		wantErr bool
	}{
		{raw: "Lunes", want: Monday},
		{raw: "martes", want: Tuesday},
		{raw: "Miércoles", want: Wednesday},
		{raw: "miercoles", want: Wednesday},
		{raw: "MIÉRCOLES", want: Wednesday},
		{raw: "  Jueves ", want: Thursday},
		{raw: "viernes", want: Friday},
		{raw: "Sábado", wantErr: true},
		{raw: "Domingo", wantErr: true},
		{raw: "Monday", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseWeekday(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWeekdayString(t *testing.T) {
	assert.Equal(t, "Lunes", Monday.String())
	assert.Equal(t, "Miércoles", Wednesday.String())
	assert.Equal(t, "Viernes", Friday.String())
}

func TestWeekdayJSON(t *testing.T) {
	raw, err := json.Marshal(Wednesday)
	require.NoError(t, err)
	assert.Equal(t, `"Miércoles"`, string(raw))

	var d Weekday
	require.NoError(t, json.Unmarshal([]byte(`"jueves"`), &d))
	assert.Equal(t, Thursday, d)

	require.Error(t, json.Unmarshal([]byte(`"Sunday"`), &d))

	_, err = json.Marshal(Weekday(9))
	require.Error(t, err)
}

func TestWeekdaysOrder(t *testing.T) {
	days := Weekdays()
	require.Len(t, days, 5)
	assert.Equal(t, Monday, days[0])
	assert.Equal(t, Friday, days[4])
}
