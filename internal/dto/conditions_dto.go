package dto

import (
	"rainier-guide-be/pkg/nps"
	"rainier-guide-be/pkg/weather"
)

type CurrentWeatherResponse struct {
	Conditions     *weather.Conditions `json:"conditions"`
	ElevationNotes string              `json:"elevation_notes"`
}

type ForecastResponse struct {
	Days []weather.DayForecast `json:"days"`
}

type AlertsResponse struct {
	Count  int         `json:"count"`
	Alerts []nps.Alert `json:"alerts"`
}

type IndexAlertsResponse struct {
	Queued int `json:"queued"`
}
