package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rainier-guide-be/pkg/cache"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("weather api key not configured")

// ElevationNotes is appended to weather answers; conditions change sharply with elevation on the mountain.
const ElevationNotes = "Base elevation (2000-3000 ft): milder, rain more likely than snow. " +
	"Mid-elevation (5000-8000 ft): 10-20°F cooler, snow possible year-round. " +
	"High elevation (8000+ ft): 20-30°F cooler, snow likely, strong winds common. " +
	"Summit (14,411 ft): temperatures can be 40-50°F below base."

// Conditions is a snapshot of current weather at the park coordinates (imperial units).
type Conditions struct {
	Temperature   float64   `json:"temperature"`
	FeelsLike     float64   `json:"feels_like"`
	TempMin       float64   `json:"temp_min"`
	TempMax       float64   `json:"temp_max"`
	Description   string    `json:"description"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDirection int       `json:"wind_direction"`
	Humidity      int       `json:"humidity"`
	VisibilityKm  float64   `json:"visibility_km"`
	Location      string    `json:"location"`
	ObservedAt    time.Time `json:"observed_at"`
}

// DayForecast is the midday forecast of one day.
type DayForecast struct {
	Date                string  `json:"date"`
	High                float64 `json:"high"`
	Low                 float64 `json:"low"`
	Description         string  `json:"description"`
	WindSpeed           float64 `json:"wind_speed"`
	PrecipitationChance float64 `json:"precipitation_chance"`
}

type Config struct {
	APIKey    string
	BaseURL   string
	Latitude  float64
	Longitude float64
	TTL       time.Duration
}

// Client reads OpenWeatherMap through a shared cache loader.
type Client struct {
	cfg    Config
	http   *http.Client
	loader *cache.Loader
	logger *log.Logger
}

func NewClient(cfg Config, loader *cache.Loader, logger *log.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 10 * time.Second},
		loader: loader,
		logger: logger,
	}
}

type owmCurrent struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Visibility float64 `json:"visibility"`
	Name       string  `json:"name"`
	Dt         int64   `json:"dt"`
}

type owmForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			TempMin float64 `json:"temp_min"`
			TempMax float64 `json:"temp_max"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Pop float64 `json:"pop"`
	} `json:"list"`
}

// CurrentConditions returns cached conditions, refreshing after the TTL.
func (c *Client) CurrentConditions(ctx context.Context) (*Conditions, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	key := fmt.Sprintf("weather:current:%.4f,%.4f", c.cfg.Latitude, c.cfg.Longitude)
	cond, err := cache.FetchJSON(ctx, c.loader, key, c.cfg.TTL, c.fetchCurrent)
	if err != nil {
		c.logger.Printf("[WEATHER] current conditions unavailable: %v", err)
		return nil, err
	}
	return &cond, nil
}

// Forecast returns up to days midday forecasts.
func (c *Client) Forecast(ctx context.Context, days int) ([]DayForecast, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if days <= 0 || days > 5 {
		days = 5
	}

	key := fmt.Sprintf("weather:forecast:%d:%.4f,%.4f", days, c.cfg.Latitude, c.cfg.Longitude)
	return cache.FetchJSON(ctx, c.loader, key, c.cfg.TTL, func(ctx context.Context) ([]DayForecast, error) {
		return c.fetchForecast(ctx, days)
	})
}

func (c *Client) fetchCurrent(ctx context.Context) (Conditions, error) {
	var raw owmCurrent
	if err := c.get(ctx, "/weather", &raw); err != nil {
		return Conditions{}, err
	}

	cond := Conditions{
		Temperature:   math.Round(raw.Main.Temp),
		FeelsLike:     math.Round(raw.Main.FeelsLike),
		TempMin:       math.Round(raw.Main.TempMin),
		TempMax:       math.Round(raw.Main.TempMax),
		WindSpeed:     math.Round(raw.Wind.Speed),
		WindDirection: raw.Wind.Deg,
		Humidity:      raw.Main.Humidity,
		VisibilityKm:  raw.Visibility / 1000,
		Location:      raw.Name,
		ObservedAt:    time.Unix(raw.Dt, 0).UTC(),
	}
	if len(raw.Weather) > 0 {
		cond.Description = titleCase(raw.Weather[0].Description)
	}
	if cond.Location == "" {
		cond.Location = "Mount Rainier Area"
	}

	c.logger.Printf("[WEATHER] fetched current conditions: %.0f°F, %s", cond.Temperature, cond.Description)
	return cond, nil
}

func (c *Client) fetchForecast(ctx context.Context, days int) ([]DayForecast, error) {
	var raw owmForecast
	if err := c.get(ctx, "/forecast", &raw); err != nil {
		return nil, err
	}

	// 3-hour slots; keep the slot closest to noon for each date
	type pick struct {
		idx  int
		dist int
	}
	picks := map[string]pick{}
	order := []string{}
	for i, item := range raw.List {
		ts := time.Unix(item.Dt, 0).UTC()
		date := ts.Format("2006-01-02")
		dist := ts.Hour() - 12
		if dist < 0 {
			dist = -dist
		}
		p, ok := picks[date]
		if !ok {
			order = append(order, date)
		}
		if !ok || dist < p.dist {
			picks[date] = pick{idx: i, dist: dist}
		}
	}

	out := make([]DayForecast, 0, days)
	for _, date := range order {
		if len(out) == days {
			break
		}
		item := raw.List[picks[date].idx]
		fc := DayForecast{
			Date:                date,
			High:                math.Round(item.Main.TempMax),
			Low:                 math.Round(item.Main.TempMin),
			WindSpeed:           math.Round(item.Wind.Speed),
			PrecipitationChance: math.Round(item.Pop * 100),
		}
		if len(item.Weather) > 0 {
			fc.Description = titleCase(item.Weather[0].Description)
		}
		out = append(out, fc)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.cfg.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.cfg.Longitude, 'f', -1, 64))
	q.Set("appid", c.cfg.APIKey)
	q.Set("units", "imperial")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read weather response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather api status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode weather response: %w", err)
	}
	return nil
}

// Auxiliary renders the conditions as labelled values for the answer prompt.
func (c *Conditions) Auxiliary() map[string]string {
	return map[string]string{
		"Location":    c.Location,
		"Temperature": fmt.Sprintf("%.0f°F (feels like %.0f°F)", c.Temperature, c.FeelsLike),
		"Conditions":  c.Description,
		"Wind":        fmt.Sprintf("%.0f mph from %s", c.WindSpeed, CompassPoint(c.WindDirection)),
		"Humidity":    fmt.Sprintf("%d%%", c.Humidity),
		"Visibility":  fmt.Sprintf("%.1f km", c.VisibilityKm),
		"Observed At": c.ObservedAt.Format("2006-01-02 15:04 MST"),
	}
}

var compass = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassPoint converts wind degrees to one of eight compass points.
func CompassPoint(deg int) string {
	deg = ((deg % 360) + 360) % 360
	return compass[((deg*2+45)/90)%8]
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
