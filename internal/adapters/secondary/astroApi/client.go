package astroApi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/go-resty/resty/v2"
)

// endpoints путь на стороне API для каждой части карты
var endpoints = map[domain.ChartPartKind]string{
	domain.ChartPartRasi:            "/planets",
	domain.ChartPartNavamsa:         "/navamsa-chart-info",
	domain.ChartPartD10:             "/d10-chart-info",
	domain.ChartPartChandra:         "/chandra-kundali-info",
	domain.ChartPartShadbala:        "/shadbala/shadbala-summary",
	domain.ChartPartPlanetsExtended: "/planets/extended",
	domain.ChartPartVimsottari:      "/vimsottari/maha-dasas-and-antar-dasas",
}

// truncateString обрезает строку до указанной длины
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Client клиент внешнего API ведической астрологии
type Client struct {
	cfg  *Config
	http *resty.Client
	Log  *slog.Logger
}

// NewClient создаёт клиент; повторов нет, их политика на стороне вызывающего
func NewClient(cfg *Config, log *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if cfg.ApiKey != "" {
		httpClient.SetHeader("x-api-key", cfg.ApiKey)
	}

	if cfg.ShouldSkipSSL() {
		httpClient.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	return &Client{
		cfg:  cfg,
		http: httpClient,
		Log:  log,
	}
}

// FetchChartPart запрашивает одну часть карты.
// Не-200 ответ возвращается как *domain.UpstreamError.
func (c *Client) FetchChartPart(ctx context.Context, kind domain.ChartPartKind, details domain.BirthDetails) (domain.Payload, error) {
	endpoint, ok := endpoints[kind]
	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, domain.ErrInvalidChartType)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(details).
		Post(endpoint)
	if err != nil {
		c.Log.Debug("astro API request failed",
			"error", err,
			"chart_type", kind,
		)
		return nil, fmt.Errorf("astro API request failed [chart_type=%s]: %w", kind, err)
	}

	body := resp.String()

	if resp.StatusCode() != http.StatusOK {
		c.Log.Debug("astro API returned non-200 status",
			"status_code", resp.StatusCode(),
			"chart_type", kind,
			"body_preview", truncateString(body, 200),
		)
		return nil, domain.NewUpstreamError(resp.StatusCode(), truncateString(body, 500))
	}

	var payload domain.Payload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		c.Log.Debug("failed to unmarshal astro API response",
			"error", err,
			"chart_type", kind,
			"body_preview", truncateString(body, 200),
		)
		return nil, fmt.Errorf("astro API unmarshal failed [chart_type=%s]: %w", kind, err)
	}
	if payload == nil {
		payload = domain.Payload{}
	}

	return payload, nil
}
