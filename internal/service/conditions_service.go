package service

import (
	"context"
	"encoding/json"
	"errors"

	"rainier-guide-be/internal/dto"
	"rainier-guide-be/internal/pkg/logger"
	"rainier-guide-be/pkg/nps"
	"rainier-guide-be/pkg/weather"

	"github.com/gofiber/fiber/v2"
)

const conditionsModule = "CONDITIONS"

type WeatherClient interface {
	CurrentConditions(ctx context.Context) (*weather.Conditions, error)
	Forecast(ctx context.Context, days int) ([]weather.DayForecast, error)
}

type AlertsClient interface {
	Alerts(ctx context.Context) ([]nps.Alert, error)
}

type IConditionsService interface {
	Current(ctx context.Context) (*dto.CurrentWeatherResponse, error)
	Forecast(ctx context.Context, days int) (*dto.ForecastResponse, error)
	Alerts(ctx context.Context) (*dto.AlertsResponse, error)
	// IndexAlerts queues every current alert for ingestion so retrieval can ground on it.
	IndexAlerts(ctx context.Context) (*dto.IndexAlertsResponse, error)
}

type conditionsService struct {
	weather          WeatherClient
	alerts           AlertsClient
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewConditionsService(w WeatherClient, a AlertsClient, publisherService IPublisherService, log logger.ILogger) IConditionsService {
	return &conditionsService{
		weather:          w,
		alerts:           a,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *conditionsService) Current(ctx context.Context) (*dto.CurrentWeatherResponse, error) {
	c, err := s.weather.CurrentConditions(ctx)
	if err != nil {
		return nil, s.upstreamError("weather", err, weather.ErrNotConfigured)
	}
	return &dto.CurrentWeatherResponse{Conditions: c, ElevationNotes: weather.ElevationNotes}, nil
}

func (s *conditionsService) Forecast(ctx context.Context, days int) (*dto.ForecastResponse, error) {
	if days <= 0 || days > 5 {
		days = 5
	}
	f, err := s.weather.Forecast(ctx, days)
	if err != nil {
		return nil, s.upstreamError("forecast", err, weather.ErrNotConfigured)
	}
	return &dto.ForecastResponse{Days: f}, nil
}

func (s *conditionsService) Alerts(ctx context.Context) (*dto.AlertsResponse, error) {
	alerts, err := s.alerts.Alerts(ctx)
	if err != nil {
		return nil, s.upstreamError("alerts", err, nps.ErrNotConfigured)
	}
	if alerts == nil {
		alerts = []nps.Alert{}
	}
	return &dto.AlertsResponse{Count: len(alerts), Alerts: alerts}, nil
}

func (s *conditionsService) IndexAlerts(ctx context.Context) (*dto.IndexAlertsResponse, error) {
	alerts, err := s.alerts.Alerts(ctx)
	if err != nil {
		return nil, s.upstreamError("alerts", err, nps.ErrNotConfigured)
	}

	queued := 0
	for _, a := range alerts {
		doc := dto.IngestPassageRequest{
			Source:   "NPS Alert: " + a.Title,
			Title:    a.Title,
			URL:      a.URL,
			Content:  a.Document(),
			Metadata: map[string]interface{}{"kind": "park_alert", "alert_id": a.ID, "category": a.Category},
		}
		payload, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			return nil, err
		}
		queued++
	}
	s.logger.Info(conditionsModule, "Park alerts queued for indexing", map[string]interface{}{"count": queued})
	return &dto.IndexAlertsResponse{Queued: queued}, nil
}

func (s *conditionsService) upstreamError(what string, err, notConfigured error) error {
	s.logger.Warn(conditionsModule, what+" lookup failed", map[string]interface{}{"error": err.Error()})
	if errors.Is(err, notConfigured) {
		return fiber.NewError(fiber.StatusServiceUnavailable, what+" service is not configured")
	}
	return fiber.NewError(fiber.StatusBadGateway, what+" service is unavailable")
}
