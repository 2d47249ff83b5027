package predictionsController

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/admin/zodira/astro-api/internal/adapters/primary/http/controllers/respond"
	"github.com/admin/zodira/astro-api/internal/adapters/primary/http/middlewares"
	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PredictionService interface {
	RequestPrediction(ctx context.Context, userID string, profileID uuid.UUID, predictionType domain.PredictionType) (uuid.UUID, error)
	RequestCompatibility(ctx context.Context, userID string, profileID, partnerID uuid.UUID) (uuid.UUID, error)
	ListPredictions(ctx context.Context, userID string, profileID uuid.UUID) ([]domain.Prediction, error)
}

type Controller struct {
	Predictions PredictionService
	auth        gin.HandlerFunc
	Log         *slog.Logger
}

func New(predictions PredictionService, auth gin.HandlerFunc, log *slog.Logger) *Controller {
	return &Controller{
		Predictions: predictions,
		auth:        auth,
		Log:         log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	astrology := router.Group("/api/v1/astrology", c.auth)
	{
		astrology.GET("/profiles/:profile_id/predictions", c.list)
		astrology.POST("/profiles/:profile_id/predictions/:type", c.request)
		astrology.POST("/marriage-matching/generate", c.compatibility)
	}
}

// request прогноз генерируется асинхронно, ответ 202 с request_id
func (c *Controller) request(ctx *gin.Context) {
	profileID, ok := respond.ProfileID(ctx, "profile_id")
	if !ok {
		return
	}
	predictionType := domain.PredictionType(ctx.Param("type"))

	requestID, err := c.Predictions.RequestPrediction(ctx.Request.Context(), middlewares.UserID(ctx), profileID, predictionType)
	if err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{
		"request_id":      requestID,
		"profile_id":      profileID,
		"prediction_type": predictionType,
		"status":          "processing",
	})
}

type compatibilityRequest struct {
	ProfileID        string `json:"profile_id" binding:"required"`
	PartnerProfileID string `json:"partner_profile_id" binding:"required"`
}

func (c *Controller) compatibility(ctx *gin.Context) {
	var req compatibilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "profile_id and partner_profile_id are required"})
		return
	}
	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile_id"})
		return
	}
	partnerID, err := uuid.Parse(req.PartnerProfileID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid partner_profile_id"})
		return
	}

	requestID, err := c.Predictions.RequestCompatibility(ctx.Request.Context(), middlewares.UserID(ctx), profileID, partnerID)
	if err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{
		"request_id":      requestID,
		"prediction_type": domain.PredictionMarriageCompatibility,
		"status":          "processing",
	})
}

func (c *Controller) list(ctx *gin.Context) {
	profileID, ok := respond.ProfileID(ctx, "profile_id")
	if !ok {
		return
	}

	predictions, err := c.Predictions.ListPredictions(ctx.Request.Context(), middlewares.UserID(ctx), profileID)
	if err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"predictions": predictions, "total": len(predictions)})
}
