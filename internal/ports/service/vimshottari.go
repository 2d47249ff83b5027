package service

import (
	"context"

	"github.com/admin/zodira/astro-api/internal/domain"
)

// IVimshottariOrder порядок планет и длительности махадаш
type IVimshottariOrder interface {
	Order(ctx context.Context) []domain.VimshottariEntry
}
