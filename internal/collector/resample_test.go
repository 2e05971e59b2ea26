package collector

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockDash/internal/model"
)

func bar(d time.Time, o, h, l, c, v float64) model.OHLCV {
	return model.OHLCV{Time: d, Open: o, High: h, Low: l, Close: c, Volume: v}
}

func TestResampleWeekly(t *testing.T) {
	daily := []model.OHLCV{
		// week ending Sun 2024-03-10
		bar(march(4), 10, 12, 9, 11, 100),
		bar(march(6), 11, 15, 10, 14, 200),
		bar(march(8), 14, 14.5, 8, 9, 300),
		// week ending Sun 2024-03-17: first open is NaN
		bar(march(11), math.NaN(), 10, 9, 9.5, 50),
		bar(march(12), 9.6, 11, 9.1, math.NaN(), math.NaN()),
		// a Sunday bar belongs to the week it closes
		bar(march(17), 10, 10.5, 9.9, 10.2, 10),
		// no bars in the week ending 2024-03-24
		bar(march(26), 12, 13, 11, 12.5, 70),
	}

	weekly := ResampleWeekly(daily)
	require.Len(t, weekly, 4)

	assert.Equal(t, march(10), weekly[0].Time)
	assert.Equal(t, bar(march(10), 10, 15, 8, 9, 600), weekly[0])

	w := weekly[1]
	assert.Equal(t, march(17), w.Time)
	assert.Equal(t, 9.6, w.Open, "first valid open")
	assert.Equal(t, 11.0, w.High)
	assert.Equal(t, 9.0, w.Low)
	assert.Equal(t, 10.2, w.Close)
	assert.Equal(t, 60.0, w.Volume)

	gap := weekly[2]
	assert.Equal(t, march(24), gap.Time)
	assert.True(t, math.IsNaN(gap.Close))
	assert.Equal(t, 0.0, gap.Volume)

	assert.Equal(t, march(31), weekly[3].Time)
	assert.Equal(t, 12.5, weekly[3].Close)
}

func TestResampleWeekly_Empty(t *testing.T) {
	assert.Nil(t, ResampleWeekly(nil))
}
