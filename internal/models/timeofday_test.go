package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		raw     string
		want    TimeOfDay
		wantErr bool
	}{
		{raw: "08:00", want: TimeOfDay{Hour: 8}},
		{raw: "9:30", want: TimeOfDay{Hour: 9, Minute: 30}},
		{raw: "23:59", want: TimeOfDay{Hour: 23, Minute: 59}},
		{raw: "00:00", want: TimeOfDay{}},
		{raw: "24:00", wantErr: true},
		{raw: "12:60", wantErr: true},
		{raw: "noon", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "10:00junk", wantErr: true},
		{raw: "10:00:00", wantErr: true},
		{raw: "10:5", wantErr: true},
		{raw: " 10:00", wantErr: true},
		{raw: "-1:30", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseTimeOfDay(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTimeOfDayMinutes(t *testing.T) {
	assert.Equal(t, 0, TimeOfDay{}.Minutes())
	assert.Equal(t, 540, TimeOfDay{Hour: 9}.Minutes())
	assert.Equal(t, 755, TimeOfDay{Hour: 12, Minute: 35}.Minutes())
}

func TestTimeOfDayAddHour(t *testing.T) {
	got, err := TimeOfDay{Hour: 10, Minute: 15}.AddHour()
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 11, Minute: 15}, got)

	_, err = TimeOfDay{Hour: 23}.AddHour()
	require.Error(t, err, "a class starting at 23:00 would cross midnight")

	_, err = TimeOfDay{Hour: 23, Minute: 30}.AddHour()
	require.Error(t, err)
}

func TestTimeOfDayAddMinutes(t *testing.T) {
	got, err := TimeOfDay{Hour: 9}.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 30}, got)

	got, err = TimeOfDay{Hour: 9, Minute: 45}.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 10, Minute: 15}, got)

	_, err = TimeOfDay{Hour: 23, Minute: 45}.AddMinutes(30)
	require.Error(t, err)
}

func TestTimeOfDayFormat12h(t *testing.T) {
	cases := map[string]string{
		"08:00": "8:00 AM",
		"09:30": "9:30 AM",
		"12:00": "12:00 PM",
		"13:00": "1:00 PM",
		"00:15": "12:15 AM",
		"17:45": "5:45 PM",
	}
	for raw, want := range cases {
		tod, err := ParseTimeOfDay(raw)
		require.NoError(t, err)
		assert.Equal(t, want, tod.Format12h())
	}
}

func TestTimeOfDayJSONRoundTrip(t *testing.T) {
	tod := TimeOfDay{Hour: 7, Minute: 5}

	raw, err := json.Marshal(tod)
	require.NoError(t, err)
	assert.Equal(t, `"07:05"`, string(raw))

	var back TimeOfDay
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, tod, back)

	require.Error(t, json.Unmarshal([]byte(`"25:00"`), &back))
}

func TestTimeOfDayScan(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, tod.Scan("10:00:00"))
	assert.Equal(t, TimeOfDay{Hour: 10}, tod)

	require.NoError(t, tod.Scan([]byte("14:30")))
	assert.Equal(t, TimeOfDay{Hour: 14, Minute: 30}, tod)

	require.Error(t, tod.Scan("10:00junk"))
	require.Error(t, tod.Scan("10:00:30junk"))
	require.Error(t, tod.Scan(42))
}
