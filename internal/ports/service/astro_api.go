package service

import (
	"context"

	"github.com/admin/zodira/astro-api/internal/domain"
)

// IAstroAPIClient запрос одной части карты у внешнего API, без кэша
type IAstroAPIClient interface {
	FetchChartPart(ctx context.Context, kind domain.ChartPartKind, details domain.BirthDetails) (domain.Payload, error)
}

// IChartPartFetcher части карты с кэшем по дате рождения
type IChartPartFetcher interface {
	FetchPart(ctx context.Context, kind domain.ChartPartKind, details domain.BirthDetails) (domain.Payload, error)
	// FetchAllParts пять частей карты; упавшая часть заменяется пустым payload
	FetchAllParts(ctx context.Context, details domain.BirthDetails) map[domain.ChartPartKind]domain.Payload
}
