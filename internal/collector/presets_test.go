package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRange_Presets(t *testing.T) {
	now := time.Date(2024, time.March, 31, 15, 4, 5, 0, time.UTC)
	// end is exclusive, so the day after today keeps today's bar
	end := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		preset string
		start  time.Time
	}{
		{Preset1Month, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{Preset6Months, time.Date(2023, time.September, 30, 0, 0, 0, 0, time.UTC)},
		{Preset1Year, time.Date(2023, time.March, 31, 0, 0, 0, 0, time.UTC)},
		{Preset5Years, time.Date(2019, time.March, 31, 0, 0, 0, 0, time.UTC)},
		{PresetMax, time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			start, gotEnd, err := ResolveRange(tt.preset, time.Time{}, time.Time{}, now)
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, end, gotEnd)
		})
	}
}

func TestResolveRange_Manual(t *testing.T) {
	now := time.Date(2024, time.March, 31, 15, 0, 0, 0, time.UTC)

	start, end, err := ResolveRange(PresetNone, time.Time{}, time.Time{}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), end)

	s := time.Date(2023, time.June, 1, 9, 30, 0, 0, time.UTC)
	e := time.Date(2023, time.July, 1, 16, 0, 0, 0, time.UTC)
	start, end, err = ResolveRange("", s, e, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC), end)

	_, _, err = ResolveRange(PresetNone, e, s, now)
	assert.Error(t, err)
}

func TestResolveRange_Unknown(t *testing.T) {
	_, _, err := ResolveRange("2-Weeks", time.Time{}, time.Time{}, time.Now())
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestResolveRange_PresetIncludesTodaysBar(t *testing.T) {
	now := time.Date(2024, time.March, 29, 16, 30, 0, 0, time.UTC)
	start, end, err := ResolveRange(Preset1Month, time.Time{}, time.Time{}, now)
	require.NoError(t, err)

	bars := GenerateMockBars(100, start, end)
	require.NotEmpty(t, bars)
	assert.Equal(t, time.Date(2024, time.March, 29, 0, 0, 0, 0, time.UTC), bars[len(bars)-1].Time)
}
