package kafka

import (
	"context"

	"github.com/admin/zodira/astro-api/internal/domain"
)

// IPredictionProducer отправляет запросы текстовому сервису
type IPredictionProducer interface {
	SendPredictionRequest(ctx context.Context, req domain.PredictionRequest) error
}
