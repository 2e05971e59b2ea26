package collector

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartJSON = `{"chart":{"result":[{
  "meta":{"exchangeTimezoneName":"America/New_York"},
  "timestamp":[1709649000,1709562600,1709735400,1709821800],
  "indicators":{
    "quote":[{
      "open":[171.0,170.0,null,169.5],
      "high":[172.0,171.5,null,170.9],
      "low":[170.2,169.1,null,168.8],
      "close":[170.1,171.0,null,"bad"],
      "volume":[1000,2000,null,1500]
    }],
    "adjclose":[{"adjclose":[85.05,85.5,null,84.0]}]
  }}],"error":null}}`

func newTestYahoo(t *testing.T, status int, body string) (*YahooFetcher, *string) {
	t.Helper()
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	return f, &gotPath
}

func TestYahooFetcher_ParsesAndSorts(t *testing.T) {
	f, path := newTestYahoo(t, http.StatusOK, chartJSON)
	q := Query{Symbol: "AAPL",
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)}

	bars, err := f.FetchBars(context.Background(), q)
	require.NoError(t, err)
	assert.Contains(t, *path, "/v8/finance/chart/AAPL?period1=1709251200&period2=1709856000&interval=1d")

	require.Len(t, bars, 3, "all-null row dropped")
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), bars[1].Time)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), bars[2].Time)
	assert.Equal(t, 171.0, bars[0].Close)
	assert.Equal(t, 170.1, bars[1].Close)
	assert.True(t, math.IsNaN(bars[2].Close), "non-numeric close becomes NaN")
	assert.Equal(t, 169.5, bars[2].Open)
}

func TestYahooFetcher_Adjusted(t *testing.T) {
	f, _ := newTestYahoo(t, http.StatusOK, chartJSON)
	q := Query{Symbol: "AAPL", Adjusted: true,
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)}

	bars, err := f.FetchBars(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, 85.5, bars[0].Close)
	assert.InDelta(t, 85.0, bars[0].Open, 1e-9)
	// close is NaN: the ratio is unknown so prices stay raw
	assert.Equal(t, 169.5, bars[2].Open)
}

func TestYahooFetcher_SymbolMap(t *testing.T) {
	f, path := newTestYahoo(t, http.StatusOK, chartJSON)
	_, err := f.FetchBars(context.Background(), Query{Symbol: "SPX500", Start: time.Unix(0, 0), End: time.Unix(86400, 0)})
	require.NoError(t, err)
	assert.Contains(t, *path, "/chart/%5EGSPC?")
}

func TestYahooFetcher_Errors(t *testing.T) {
	q := Query{Symbol: "NOPE", Start: time.Unix(0, 0), End: time.Unix(86400, 0)}

	f, _ := newTestYahoo(t, http.StatusNotFound, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	_, err := f.FetchBars(context.Background(), q)
	assert.ErrorIs(t, err, ErrNoData)

	f, _ = newTestYahoo(t, http.StatusOK, `{"chart":{"result":[{"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`)
	_, err = f.FetchBars(context.Background(), q)
	assert.ErrorIs(t, err, ErrNoData)

	f, _ = newTestYahoo(t, http.StatusInternalServerError, "oops")
	_, err = f.FetchBars(context.Background(), q)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)

	f, _ = newTestYahoo(t, http.StatusOK, `{"chart":{"result":null,"error":{"code":"x","description":"Invalid input"}}}`)
	_, err = f.FetchBars(context.Background(), q)
	assert.ErrorContains(t, err, "Invalid input")
}

func TestRESTFetcher(t *testing.T) {
	var gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[
			{"timestamp":1709683200,"open":2,"high":3,"low":1,"close":2.5,"volume":10},
			{"timestamp":1709596800,"open":1,"high":2,"low":0.5,"close":1.5}
		]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL+"/", "secret", "")
	bars, err := f.FetchBars(context.Background(), Query{Symbol: "IBM", Adjusted: true,
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Contains(t, gotQuery, "symbol=IBM")
	assert.Contains(t, gotQuery, "start=2024-03-01")
	assert.Contains(t, gotQuery, "adjusted=true")
	require.Len(t, bars, 2)
	assert.Equal(t, 1.5, bars[0].Close)
	assert.True(t, math.IsNaN(bars[0].Volume), "missing volume is NaN")
	assert.Equal(t, 2.5, bars[1].Close)
}
