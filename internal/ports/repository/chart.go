package repository

import (
	"context"

	"github.com/admin/zodira/astro-api/internal/domain"
)

// IChartRepo карты, сырые части и данные дашборда в хранилище документов
type IChartRepo interface {
	GetChart(ctx context.Context, key domain.ChartKey) (*domain.StructuredChart, error)
	SaveChart(ctx context.Context, chart *domain.StructuredChart) error
	DeleteChart(ctx context.Context, key domain.ChartKey) (bool, error)

	GetChartParts(ctx context.Context, key domain.ChartKey) (*domain.RawChartParts, error)
	SaveChartParts(ctx context.Context, key domain.ChartKey, parts map[domain.ChartPartKind]domain.Payload) error
	SaveChartPart(ctx context.Context, key domain.ChartKey, kind domain.ChartPartKind, payload domain.Payload) error

	GetDashboardExtras(ctx context.Context, key domain.ChartKey) (*domain.DashboardExtras, error)
	SaveDashboardExtras(ctx context.Context, key domain.ChartKey, extras map[domain.ChartPartKind]domain.Payload) error
}
