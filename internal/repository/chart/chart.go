package chartRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/admin/zodira/astro-api/internal/ports/persistence"
	ports "github.com/admin/zodira/astro-api/internal/ports/repository"
)

type collections struct {
	Charts          string
	ChartParts      string
	DashboardExtras string
}

type Repository struct {
	store       persistence.DocumentStore
	Log         *slog.Logger
	collections collections
	now         func() time.Time
}

// New репозиторий карт поверх хранилища документов
func New(store persistence.DocumentStore, log *slog.Logger) ports.IChartRepo {
	return &Repository{
		store: store,
		Log:   log,
		collections: collections{
			Charts:          "astrology_charts",
			ChartParts:      "astrology_chart_parts",
			DashboardExtras: "astrology_dashboard_extras",
		},
		now: time.Now,
	}
}

// GetChart структурированная карта; domain.ErrNotFound, если её нет
func (r *Repository) GetChart(ctx context.Context, key domain.ChartKey) (*domain.StructuredChart, error) {
	doc, err := r.store.Get(ctx, r.collections.Charts, key.String())
	if err != nil {
		return nil, err
	}

	var chart domain.StructuredChart
	if err := fromDocument(doc, &chart); err != nil {
		r.Log.Error("failed to decode chart", "error", err, "chart_id", key.String())
		return nil, fmt.Errorf("failed to decode chart %s: %w", key, err)
	}
	return &chart, nil
}

func (r *Repository) SaveChart(ctx context.Context, chart *domain.StructuredChart) error {
	key := chart.Key()
	doc, err := toDocument(chart)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistenceWriteFailed, err)
	}

	if err := r.store.Put(ctx, r.collections.Charts, key.String(), doc); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistenceWriteFailed, err)
	}
	r.Log.Debug("chart saved", "chart_id", key.String())
	return nil
}

// DeleteChart удаляет карту; false, если её не было
func (r *Repository) DeleteChart(ctx context.Context, key domain.ChartKey) (bool, error) {
	deleted, err := r.store.Delete(ctx, r.collections.Charts, key.String())
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *Repository) GetChartParts(ctx context.Context, key domain.ChartKey) (*domain.RawChartParts, error) {
	doc, err := r.store.Get(ctx, r.collections.ChartParts, key.String())
	if err != nil {
		return nil, err
	}

	parts := &domain.RawChartParts{
		UserID:    stringField(doc, "user_id"),
		ProfileID: stringField(doc, "profile_id"),
		Parts:     make(map[domain.ChartPartKind]domain.Payload, len(domain.ChartPartKinds)),
		CreatedAt: timeField(doc, "created_at"),
		UpdatedAt: timeField(doc, "updated_at"),
	}
	for _, kind := range domain.ChartPartKinds {
		if payload, ok := doc[string(kind)].(map[string]any); ok {
			parts.Parts[kind] = payload
		}
	}
	return parts, nil
}

// SaveChartParts дописывает части к документу, created_at первой записи сохраняется
func (r *Repository) SaveChartParts(ctx context.Context, key domain.ChartKey, parts map[domain.ChartPartKind]domain.Payload) error {
	doc := r.partsDocument(key)
	for kind, payload := range parts {
		doc[string(kind)] = payloadOrEmpty(payload)
	}
	return r.merge(ctx, r.collections.ChartParts, key, doc)
}

func (r *Repository) SaveChartPart(ctx context.Context, key domain.ChartKey, kind domain.ChartPartKind, payload domain.Payload) error {
	doc := r.partsDocument(key)
	doc[string(kind)] = payloadOrEmpty(payload)
	return r.merge(ctx, r.collections.ChartParts, key, doc)
}

func (r *Repository) GetDashboardExtras(ctx context.Context, key domain.ChartKey) (*domain.DashboardExtras, error) {
	doc, err := r.store.Get(ctx, r.collections.DashboardExtras, key.String())
	if err != nil {
		return nil, err
	}

	var extras domain.DashboardExtras
	if err := fromDocument(doc, &extras); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard extras %s: %w", key, err)
	}
	return &extras, nil
}

func (r *Repository) SaveDashboardExtras(ctx context.Context, key domain.ChartKey, extras map[domain.ChartPartKind]domain.Payload) error {
	doc := r.partsDocument(key)
	for kind, payload := range extras {
		if !kind.IsDashboardExtra() {
			continue
		}
		doc[string(kind)] = payloadOrEmpty(payload)
	}
	return r.merge(ctx, r.collections.DashboardExtras, key, doc)
}

func (r *Repository) partsDocument(key domain.ChartKey) persistence.Document {
	now := r.now().UTC().Format(time.RFC3339Nano)
	return persistence.Document{
		"user_id":    key.UserID,
		"profile_id": key.ProfileID,
		"created_at": now,
		"updated_at": now,
	}
}

func (r *Repository) merge(ctx context.Context, collection string, key domain.ChartKey, doc persistence.Document) error {
	if err := r.store.PutMerge(ctx, collection, key.String(), doc); err != nil {
		r.Log.Error("failed to merge document",
			"error", err,
			"collection", collection,
			"chart_id", key.String())
		return fmt.Errorf("%w: %w", domain.ErrPersistenceWriteFailed, err)
	}
	return nil
}

// toDocument переводит значение в JSON-карту; время становится строкой RFC 3339
func toDocument(v any) (persistence.Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := persistence.Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDocument(doc persistence.Document, dest any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func payloadOrEmpty(p domain.Payload) map[string]any {
	if p == nil {
		return map[string]any{}
	}
	return p
}

func stringField(doc persistence.Document, field string) string {
	s, _ := doc[field].(string)
	return s
}

func timeField(doc persistence.Document, field string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, stringField(doc, field))
	if err != nil {
		return time.Time{}
	}
	return t
}
