package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"log/slog"

	"github.com/IBM/sarama"
	"github.com/admin/zodira/astro-api/internal/domain"
)

const (
	actionPrediction    = "prediction"
	actionCompatibility = "marriage_compatibility"
)

// Producer отправляет запросы прогнозов в Kafka
type Producer struct {
	producer sarama.SyncProducer
	cfg      *Config
	log      *slog.Logger
}

// NewProducer создаёт новый Kafka producer
func NewProducer(cfg *Config, log *slog.Logger) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(cfg.GetBrokers(), cfg.SaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
	)

	return NewProducerWith(producer, cfg, log), nil
}

// NewProducerWith оборачивает готовый sarama.SyncProducer
func NewProducerWith(producer sarama.SyncProducer, cfg *Config, log *slog.Logger) *Producer {
	return &Producer{
		producer: producer,
		cfg:      cfg,
		log:      log,
	}
}

// SendPredictionRequest профиль и карта уходят в value, идентификаторы в headers
func (p *Producer) SendPredictionRequest(ctx context.Context, req domain.PredictionRequest) error {
	valueBytes, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction request: %w", err)
	}

	action := actionPrediction
	if req.PredictionType == domain.PredictionMarriageCompatibility {
		action = actionCompatibility
	}

	headers := []sarama.RecordHeader{
		{Key: []byte("request_id"), Value: []byte(req.RequestID.String())},
		{Key: []byte("user_id"), Value: []byte(req.UserID)},
		{Key: []byte("profile_id"), Value: []byte(req.ProfileID.String())},
		{Key: []byte("action"), Value: []byte(action)},
	}

	msg := &sarama.ProducerMessage{
		Topic:   p.cfg.Topic,
		Key:     sarama.StringEncoder(req.RequestID.String()),
		Value:   sarama.ByteEncoder(valueBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Debug("kafka send failed",
			"error", err,
			"topic", p.cfg.Topic,
			"key", req.RequestID.String(),
		)
		return fmt.Errorf("kafka send failed [topic=%s, key=%s]: %w",
			p.cfg.Topic, req.RequestID.String(), err)
	}

	p.log.Debug("prediction request sent to kafka",
		"topic", p.cfg.Topic,
		"partition", partition,
		"offset", offset,
		"key", req.RequestID.String(),
		"prediction_type", req.PredictionType,
	)

	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	p.log.Info("kafka producer closed")
	return nil
}
