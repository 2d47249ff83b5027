package vimshottari

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/admin/zodira/astro-api/internal/ports/persistence"
	"github.com/admin/zodira/astro-api/internal/ports/service"
)

const (
	configCollection = "astrology_config"
	orderDocumentID  = "vimshottari_order"
)

// Service порядок даш из astrology_config/vimshottari_order.
// Документ читается один раз; если его нет, он создаётся с каноническим порядком.
type Service struct {
	store persistence.DocumentStore
	Log   *slog.Logger
	now   func() time.Time

	mu    sync.Mutex
	order []domain.VimshottariEntry
}

func New(store persistence.DocumentStore, log *slog.Logger) *Service {
	return &Service{
		store: store,
		Log:   log,
		now:   time.Now,
	}
}

var _ service.IVimshottariOrder = (*Service)(nil)

// Order никогда не возвращает пустой список. Ошибка хранилища даёт канонический
// порядок без запоминания, следующий вызов снова пойдёт в хранилище.
func (s *Service) Order(ctx context.Context) []domain.VimshottariEntry {
	s.mu.Lock()
	cached := s.order
	s.mu.Unlock()
	if cached != nil {
		return cached
	}

	order, err := s.load(ctx)
	if err != nil {
		s.Log.Error("failed to load vimshottari order, using default", "error", err)
		return domain.DefaultVimshottariOrder()
	}

	s.mu.Lock()
	s.order = order
	s.mu.Unlock()
	return order
}

func (s *Service) load(ctx context.Context) ([]domain.VimshottariEntry, error) {
	doc, err := s.store.Get(ctx, configCollection, orderDocumentID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.init(ctx)
	}
	if err != nil {
		return nil, err
	}

	if order := parseOrder(doc["order"]); len(order) > 0 {
		return order, nil
	}
	s.Log.Warn("stored vimshottari order is invalid, using default")
	return domain.DefaultVimshottariOrder(), nil
}

func (s *Service) init(ctx context.Context) ([]domain.VimshottariEntry, error) {
	order := domain.DefaultVimshottariOrder()

	items := make([]any, 0, len(order))
	for _, e := range order {
		items = append(items, map[string]any{"planet": e.Planet, "years": e.Years})
	}
	now := s.now().UTC().Format(time.RFC3339Nano)

	if err := s.store.Put(ctx, configCollection, orderDocumentID, persistence.Document{
		"order":      items,
		"created_at": now,
		"updated_at": now,
	}); err != nil {
		return nil, err
	}

	s.Log.Info("vimshottari order initialized")
	return order, nil
}

const (
	orderLength = 9
	cycleYears  = 120
)

// parseOrder принимает [{planet, years}] и старый формат [[planet, years]].
// Порядок валиден только из 9 планет с суммой 120 лет.
func parseOrder(raw any) []domain.VimshottariEntry {
	list, ok := raw.([]any)
	if !ok || len(list) != orderLength {
		return nil
	}

	order := make([]domain.VimshottariEntry, 0, len(list))
	total := 0
	for _, item := range list {
		var (
			planet any
			years  any
		)
		switch v := item.(type) {
		case map[string]any:
			planet, years = v["planet"], v["years"]
		case []any:
			if len(v) != 2 {
				return nil
			}
			planet, years = v[0], v[1]
		default:
			return nil
		}

		name, ok := planet.(string)
		n, okYears := years.(float64)
		if !ok || name == "" || !okYears || n <= 0 {
			return nil
		}
		order = append(order, domain.VimshottariEntry{Planet: name, Years: int(n)})
		total += int(n)
	}
	if total != cycleYears {
		return nil
	}
	return order
}
