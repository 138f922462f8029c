package weather

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"rainier-guide-be/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const currentPayload = `{
  "main": {"temp": 54.4, "feels_like": 51.6, "temp_min": 50.1, "temp_max": 58.7, "humidity": 81},
  "weather": [{"main": "Rain", "description": "light rain"}],
  "wind": {"speed": 7.8, "deg": 225},
  "visibility": 9000,
  "name": "Paradise",
  "dt": 1719824400
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := log.New(io.Discard, "", 0)
	loader := cache.NewLoader(cache.NewMemoryStore(time.Hour), logger)
	return NewClient(Config{
		APIKey:    "test-key",
		BaseURL:   srv.URL,
		Latitude:  46.8523,
		Longitude: -121.7603,
	}, loader, logger)
}

func TestClient_CurrentConditions(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "imperial", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "46.8523", r.URL.Query().Get("lat"))
		_, _ = io.WriteString(w, currentPayload)
	})

	cond, err := c.CurrentConditions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 54.0, cond.Temperature)
	assert.Equal(t, 52.0, cond.FeelsLike)
	assert.Equal(t, "Light Rain", cond.Description)
	assert.Equal(t, 9.0, cond.VisibilityKm)
	assert.Equal(t, "Paradise", cond.Location)

	_, err = c.CurrentConditions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second call is served from cache")
}

func TestClient_CurrentConditions_Errors(t *testing.T) {
	t.Run("upstream failure", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"cod":401}`, http.StatusUnauthorized)
		})
		_, err := c.CurrentConditions(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("missing key", func(t *testing.T) {
		logger := log.New(io.Discard, "", 0)
		c := NewClient(Config{}, cache.NewLoader(cache.NewMemoryStore(time.Hour), logger), logger)
		_, err := c.CurrentConditions(context.Background())
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestClient_Forecast(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		// 2024-07-01 09:00, 12:00 and 2024-07-02 12:00 UTC
		_, _ = io.WriteString(w, `{"list": [
		  {"dt": 1719824400, "main": {"temp_min": 48, "temp_max": 55}, "weather": [{"description": "fog"}], "wind": {"speed": 3}, "pop": 0.1},
		  {"dt": 1719835200, "main": {"temp_min": 50, "temp_max": 61.6}, "weather": [{"description": "clear sky"}], "wind": {"speed": 5}, "pop": 0},
		  {"dt": 1719921600, "main": {"temp_min": 47, "temp_max": 57}, "weather": [{"description": "light rain"}], "wind": {"speed": 9}, "pop": 0.65}
		]}`)
	})

	days, err := c.Forecast(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, days, 2)

	assert.Equal(t, "2024-07-01", days[0].Date)
	assert.Equal(t, "Clear Sky", days[0].Description)
	assert.Equal(t, 62.0, days[0].High)
	assert.Equal(t, "2024-07-02", days[1].Date)
	assert.Equal(t, 65.0, days[1].PrecipitationChance)
}

func TestConditions_Auxiliary(t *testing.T) {
	cond := &Conditions{
		Temperature:   54,
		FeelsLike:     52,
		Description:   "Light Rain",
		WindSpeed:     8,
		WindDirection: 225,
		Humidity:      81,
		VisibilityKm:  9,
		Location:      "Paradise",
		ObservedAt:    time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
	}

	aux := cond.Auxiliary()
	assert.Equal(t, "54°F (feels like 52°F)", aux["Temperature"])
	assert.Equal(t, "8 mph from SW", aux["Wind"])
	assert.Equal(t, "81%", aux["Humidity"])
}

func TestCompassPoint(t *testing.T) {
	cases := map[int]string{0: "N", 44: "NE", 90: "E", 200: "S", 225: "SW", 350: "N", -90: "W"}
	for deg, want := range cases {
		assert.Equal(t, want, CompassPoint(deg), "deg %d", deg)
	}
}
