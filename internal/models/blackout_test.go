package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) TimeOfDay { return TimeOfDay{Hour: h, Minute: m} }

func TestBlackoutOverlaps(t *testing.T) {
	cases := []struct {
		name       string
		start, end TimeOfDay
		want       bool
	}{
		{name: "class ending exactly at break start", start: at(8, 0), end: at(9, 0), want: false},
		{name: "class starting inside break", start: at(9, 15), end: at(10, 15), want: true},
		{name: "class straddling break start", start: at(8, 45), end: at(9, 45), want: true},
		{name: "class starting at break end", start: at(9, 30), end: at(10, 30), want: false},
		{name: "class covering the whole break", start: at(8, 30), end: at(10, 0), want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BreakBlackout.Overlaps(tc.start, tc.end))
		})
	}
}

func TestInBlackout(t *testing.T) {
	b, hit := InBlackout(at(12, 30), at(13, 30))
	require.True(t, hit)
	assert.Equal(t, "Almuerzo", b.Name)

	b, hit = InBlackout(at(8, 45), at(9, 45))
	require.True(t, hit, "break wins when the interval touches it")
	assert.Equal(t, "Descanso", b.Name)

	_, hit = InBlackout(at(10, 0), at(11, 0))
	assert.False(t, hit)

	_, hit = InBlackout(at(13, 0), at(14, 0))
	assert.False(t, hit, "lunch ends at 13:00, half-open")
}
