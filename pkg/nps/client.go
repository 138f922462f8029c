package nps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rainier-guide-be/pkg/cache"
)

var ErrNotConfigured = errors.New("nps api key not configured")

// Alert is a park alert (closure, caution, danger, information).
type Alert struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	URL             string `json:"url"`
	LastIndexedDate string `json:"lastIndexedDate"`
}

type Config struct {
	APIKey   string
	BaseURL  string
	ParkCode string
	TTL      time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	loader *cache.Loader
	logger *log.Logger
}

func NewClient(cfg Config, loader *cache.Loader, logger *log.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://developer.nps.gov/api/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ParkCode == "" {
		cfg.ParkCode = "mora"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 6 * time.Hour
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 10 * time.Second},
		loader: loader,
		logger: logger,
	}
}

type alertsResponse struct {
	Total string  `json:"total"`
	Data  []Alert `json:"data"`
}

// Alerts returns the current alerts for the configured park.
func (c *Client) Alerts(ctx context.Context) ([]Alert, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	alerts, err := cache.FetchJSON(ctx, c.loader, "alerts:"+c.cfg.ParkCode, c.cfg.TTL, c.fetchAlerts)
	if err != nil {
		c.logger.Printf("[NPS] alerts unavailable: %v", err)
		return nil, err
	}
	return alerts, nil
}

func (c *Client) fetchAlerts(ctx context.Context) ([]Alert, error) {
	q := url.Values{}
	q.Set("parkCode", c.cfg.ParkCode)
	q.Set("api_key", c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/alerts?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create alerts request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alerts request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read alerts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nps api status %d: %s", resp.StatusCode, string(body))
	}

	var out alertsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode alerts response: %w", err)
	}

	c.logger.Printf("[NPS] fetched %d alerts for %s", len(out.Data), c.cfg.ParkCode)
	return out.Data, nil
}

// Auxiliary renders alerts as labelled prompt lines, at most max of them.
func Auxiliary(alerts []Alert, max int) map[string]string {
	out := make(map[string]string, len(alerts))
	for i, a := range alerts {
		if max > 0 && i >= max {
			break
		}
		category := a.Category
		if category == "" {
			category = "General"
		}
		out[fmt.Sprintf("Park Alert %d", i+1)] = fmt.Sprintf("%s: %s", strings.ToUpper(category), a.Title)
	}
	return out
}

// Document renders an alert as passage text for ingestion.
func (a Alert) Document() string {
	category := a.Category
	if category == "" {
		category = "General"
	}
	updated := a.LastIndexedDate
	if updated == "" {
		updated = "Unknown"
	}

	var sb strings.Builder
	sb.WriteString("PARK ALERT - " + strings.ToUpper(category) + "\n\n")
	sb.WriteString("Title: " + a.Title + "\n\n")
	sb.WriteString("Description: " + a.Description + "\n\n")
	sb.WriteString("Last Updated: " + updated)
	return sb.String()
}
