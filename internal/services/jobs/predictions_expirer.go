package jobs

import (
	"context"
	"log/slog"
	"time"
)

const predictionsExpirerName = "predictions-expirer"

// PredictionsExpirerService снимает активность с истёкших прогнозов
type PredictionsExpirerService interface {
	ExpirePredictions(ctx context.Context) (int64, error)
}

// PredictionsExpirer джоба деактивации истёкших прогнозов, в начале каждого часа
type PredictionsExpirer struct {
	predictions PredictionsExpirerService
	log         *slog.Logger
}

func NewPredictionsExpirer(predictions PredictionsExpirerService, log *slog.Logger) *PredictionsExpirer {
	return &PredictionsExpirer{
		predictions: predictions,
		log:         log,
	}
}

func (j *PredictionsExpirer) Name() string {
	return predictionsExpirerName
}

// NextRun начало следующего часа
func (j *PredictionsExpirer) NextRun(now time.Time) time.Time {
	return now.Truncate(time.Hour).Add(time.Hour)
}

func (j *PredictionsExpirer) Run(ctx context.Context) error {
	n, err := j.predictions.ExpirePredictions(ctx)
	if err != nil {
		return err
	}
	j.log.Debug("predictions expirer finished", "deactivated", n)
	return nil
}
