package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarDate_KeepsCallerZoneDay(t *testing.T) {
	dhaka := time.FixedZone("UTC+6", 6*60*60)
	midnight := time.Date(2026, 11, 3, 0, 0, 0, 0, dhaka)

	assert.Equal(t, time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC), CalendarDate(midnight))
	assert.Equal(t, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), DateOf(midnight))
}

func TestTimeOfDay_Normalize(t *testing.T) {
	cases := []struct {
		in   TimeOfDay
		want TimeOfDay
	}{
		{NewTimeOfDay(9, 30), NewTimeOfDay(9, 30)},
		{NewTimeOfDay(27, 0), NewTimeOfDay(3, 0)},
		{NewTimeOfDay(24, 0), 0},
		{-NewTimeOfDay(1, 0), NewTimeOfDay(23, 0)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.in.Normalize(), tc.in.Duration().String())
	}
}

func TestTimeOfDay_JSON(t *testing.T) {
	data, err := json.Marshal(NewTimeOfDay(7, 5))
	require.NoError(t, err)
	assert.JSONEq(t, `"07:05"`, string(data))

	var parsed TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"21:40"`), &parsed))
	assert.Equal(t, NewTimeOfDay(21, 40), parsed)

	assert.Error(t, json.Unmarshal([]byte(`"25h"`), &parsed))
}
