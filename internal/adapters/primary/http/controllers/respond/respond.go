package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/admin/zodira/astro-api/internal/usecases/prediction"
	profileUsecase "github.com/admin/zodira/astro-api/internal/usecases/profile"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Status HTTP-статус и сообщение для ошибки usecase
func Status(err error) (int, string) {
	var validationErr *profileUsecase.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, domain.ErrInvalidChartType):
		return http.StatusBadRequest, domain.ErrInvalidChartType.Error()
	case errors.Is(err, domain.ErrInvalidPredictionType):
		return http.StatusBadRequest, domain.ErrInvalidPredictionType.Error()
	case errors.Is(err, prediction.ErrChartMissing):
		return http.StatusConflict, prediction.ErrChartMissing.Error()
	case errors.Is(err, domain.ErrUpstreamRateLimited):
		return http.StatusTooManyRequests, domain.ErrUpstreamRateLimited.Error()
	case errors.Is(err, domain.ErrUpstreamAuthFailed),
		errors.Is(err, domain.ErrUpstreamNotFound),
		errors.Is(err, domain.ErrUpstreamGeneric):
		return http.StatusBadGateway, "astrology provider unavailable"
	}
	return http.StatusInternalServerError, "internal server error"
}

// Error пишет JSON-ошибку; 5xx логируются как Error, остальные как Debug
func Error(c *gin.Context, log *slog.Logger, err error) {
	status, msg := Status(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
	} else {
		log.Debug("request rejected", "error", err, "status", status, "path", c.FullPath())
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// ProfileID разбирает параметр пути; при ошибке отвечает 400 и возвращает false
func ProfileID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}
