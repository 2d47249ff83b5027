package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

type PredictionType string

const (
	PredictionDaily                 PredictionType = "daily"
	PredictionWeekly                PredictionType = "weekly"
	PredictionMonthly               PredictionType = "monthly"
	PredictionCareer                PredictionType = "career"
	PredictionHealth                PredictionType = "health"
	PredictionFinance               PredictionType = "finance"
	PredictionRelationship          PredictionType = "relationship"
	PredictionMarriageCompatibility PredictionType = "marriage_compatibility"
)

func (t PredictionType) IsValid() bool {
	switch t {
	case PredictionDaily, PredictionWeekly, PredictionMonthly, PredictionCareer,
		PredictionHealth, PredictionFinance, PredictionRelationship, PredictionMarriageCompatibility:
		return true
	}
	return false
}

// ExpiresAt срок жизни прогноза; nil, если прогноз бессрочный
func (t PredictionType) ExpiresAt(from time.Time) *time.Time {
	var exp time.Time
	switch t {
	case PredictionDaily:
		exp = from.AddDate(0, 0, 1)
	case PredictionWeekly:
		exp = from.AddDate(0, 0, 7)
	case PredictionMonthly:
		exp = from.AddDate(0, 1, 0)
	default:
		return nil
	}
	return &exp
}

// Prediction прогноз, сгенерированный текстовым сервисом
type Prediction struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	ProfileID       uuid.UUID      `json:"profile_id" db:"profile_id"`
	UserID          string         `json:"user_id" db:"user_id"`
	PredictionType  PredictionType `json:"prediction_type" db:"prediction_type"`
	PredictionText  string         `json:"prediction_text" db:"prediction_text"`
	ConfidenceScore *float64       `json:"confidence_score,omitempty" db:"confidence_score"`
	GeneratedBy     string         `json:"generated_by" db:"generated_by"`
	IsActive        bool           `json:"is_active" db:"is_active"`
	Metadata        types.JSONText `json:"metadata" db:"metadata"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
	ExpiresAt       *time.Time     `json:"expires_at,omitempty" db:"expires_at"`
}

// PredictionRequest запрос к текстовому сервису, уходит в Kafka
type PredictionRequest struct {
	RequestID      uuid.UUID        `json:"request_id"`
	UserID         string           `json:"user_id"`
	ProfileID      uuid.UUID        `json:"profile_id"`
	PredictionType PredictionType   `json:"prediction_type"`
	Profile        *Profile         `json:"profile"`
	Chart          *StructuredChart `json:"chart"`
	Partner        *Profile         `json:"partner_profile,omitempty"`
	PartnerChart   *StructuredChart `json:"partner_chart,omitempty"`
}
