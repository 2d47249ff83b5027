package astro

import (
	"log/slog"
	"time"

	"github.com/admin/zodira/astro-api/internal/ports/repository"
	"github.com/admin/zodira/astro-api/internal/ports/service"
)

// Service генерация, хранение и выдача астрологических карт
type Service struct {
	ChartRepo   repository.IChartRepo
	ProfileRepo repository.IProfileRepo
	Fetcher     service.IChartPartFetcher
	Vimshottari service.IVimshottariOrder
	Log         *slog.Logger
	now         func() time.Time
}

// New создаёт сервис карт
func New(
	chartRepo repository.IChartRepo,
	profileRepo repository.IProfileRepo,
	fetcher service.IChartPartFetcher,
	vimshottari service.IVimshottariOrder,
	log *slog.Logger,
) *Service {
	return &Service{
		ChartRepo:   chartRepo,
		ProfileRepo: profileRepo,
		Fetcher:     fetcher,
		Vimshottari: vimshottari,
		Log:         log,
		now:         time.Now,
	}
}
