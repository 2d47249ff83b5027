package astroApi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/admin/zodira/astro-api/internal/ports/cache"
	"github.com/admin/zodira/astro-api/internal/ports/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astro_chart_part_cache_lookups_total",
		Help: "Chart part cache lookups by result (hit, miss).",
	}, []string{"chart_type", "result"})

	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astro_upstream_requests_total",
		Help: "Requests to the astrology API by status class.",
	}, []string{"chart_type", "status"})
)

// Service части карты через кэш: сначала кэш по дате рождения, потом внешний API
type Service struct {
	client  service.IAstroAPIClient
	cache   cache.Cache
	limiter *rate.Limiter
	Log     *slog.Logger
}

// New создаёт сервис. delay минимальный интервал между запросами к API, 0 без ограничения.
func New(client service.IAstroAPIClient, c cache.Cache, delay time.Duration, log *slog.Logger) service.IChartPartFetcher {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Service{
		client:  client,
		cache:   c,
		limiter: rate.NewLimiter(limit, 1),
		Log:     log,
	}
}

// CacheKey {kind}_{year}_{month}_{day}. Время, место и часовой пояс в ключ не входят.
func CacheKey(kind domain.ChartPartKind, details domain.BirthDetails) string {
	return string(kind) + "_" + details.DateKey()
}

// FetchPart одна часть карты: из кэша, а при промахе из API с записью в кэш
func (s *Service) FetchPart(ctx context.Context, kind domain.ChartPartKind, details domain.BirthDetails) (domain.Payload, error) {
	key := CacheKey(kind, details)

	if payload, ok := s.fromCache(ctx, key); ok {
		cacheLookups.WithLabelValues(string(kind), "hit").Inc()
		return payload, nil
	}
	cacheLookups.WithLabelValues(string(kind), "miss").Inc()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	payload, err := s.client.FetchChartPart(ctx, kind, details)
	if err != nil {
		upstreamRequests.WithLabelValues(string(kind), statusLabel(err)).Inc()
		return nil, err
	}
	upstreamRequests.WithLabelValues(string(kind), "ok").Inc()

	data, err := json.Marshal(payload)
	if err != nil {
		s.Log.Warn("failed to encode chart part for cache", "error", err, "key", key)
		return payload, nil
	}
	if err := s.cache.Set(ctx, key, string(data), 0); err != nil {
		s.Log.Warn("failed to write chart part cache", "error", err, "key", key)
	}

	return payload, nil
}

func (s *Service) fromCache(ctx context.Context, key string) (domain.Payload, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.Log.Warn("chart part cache read failed", "error", err, "key", key)
		}
		return nil, false
	}

	var payload domain.Payload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil || payload == nil {
		s.Log.Warn("unreadable chart part cache entry", "error", err, "key", key)
		return nil, false
	}
	return payload, true
}

// FetchAllParts пять частей карты по очереди; ошибка части логируется и даёт пустой payload
func (s *Service) FetchAllParts(ctx context.Context, details domain.BirthDetails) map[domain.ChartPartKind]domain.Payload {
	parts := make(map[domain.ChartPartKind]domain.Payload, len(domain.ChartPartKinds))

	for _, kind := range domain.ChartPartKinds {
		payload, err := s.FetchPart(ctx, kind, details)
		if err != nil {
			s.Log.Warn("chart part fetch failed, using empty payload",
				"error", err,
				"chart_type", kind,
			)
			payload = domain.Payload{}
		}
		parts[kind] = payload
	}

	return parts
}

func statusLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrUpstreamRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrUpstreamAuthFailed):
		return "auth_failed"
	case errors.Is(err, domain.ErrUpstreamNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUpstreamGeneric):
		return "api_error"
	}
	return "transport_error"
}
