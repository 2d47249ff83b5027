package profilesController

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/admin/zodira/astro-api/internal/adapters/primary/http/controllers/respond"
	"github.com/admin/zodira/astro-api/internal/adapters/primary/http/middlewares"
	"github.com/admin/zodira/astro-api/internal/domain"
	profileUsecase "github.com/admin/zodira/astro-api/internal/usecases/profile"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfileService interface {
	Create(ctx context.Context, userID string, in profileUsecase.CreateInput) (*domain.Profile, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (*domain.Profile, error)
	List(ctx context.Context, userID string) ([]domain.Profile, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

type Controller struct {
	Profiles ProfileService
	auth     gin.HandlerFunc
	Log      *slog.Logger
}

func New(profiles ProfileService, auth gin.HandlerFunc, log *slog.Logger) *Controller {
	return &Controller{
		Profiles: profiles,
		auth:     auth,
		Log:      log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	profiles := router.Group("/api/v1/auth/profiles", c.auth)
	{
		profiles.GET("", c.list)
		profiles.POST("", c.create)
		profiles.GET("/:profile_id", c.get)
		profiles.DELETE("/:profile_id", c.delete)
	}
}

// CreateProfileRequest дата рождения в формате YYYY-MM-DD
type CreateProfileRequest struct {
	Name         string   `json:"name" binding:"required"`
	BirthDate    string   `json:"birth_date" binding:"required"`
	BirthTime    string   `json:"birth_time" binding:"required"`
	BirthPlace   string   `json:"birth_place" binding:"required"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Timezone     string   `json:"timezone"`
	Gender       *string  `json:"gender"`
	Relationship string   `json:"relationship"`
}

func (c *Controller) create(ctx *gin.Context) {
	var req CreateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	birthDate, err := time.Parse(time.DateOnly, req.BirthDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid birth_date: expected YYYY-MM-DD"})
		return
	}

	profile, err := c.Profiles.Create(ctx.Request.Context(), middlewares.UserID(ctx), profileUsecase.CreateInput{
		Name:         req.Name,
		BirthDate:    birthDate,
		BirthTime:    req.BirthTime,
		BirthPlace:   req.BirthPlace,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Timezone:     req.Timezone,
		Gender:       req.Gender,
		Relationship: req.Relationship,
	})
	if err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}

	ctx.JSON(http.StatusCreated, profile)
}

func (c *Controller) list(ctx *gin.Context) {
	profiles, err := c.Profiles.List(ctx.Request.Context(), middlewares.UserID(ctx))
	if err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, profiles)
}

func (c *Controller) get(ctx *gin.Context) {
	id, ok := respond.ProfileID(ctx, "profile_id")
	if !ok {
		return
	}

	profile, err := c.Profiles.Get(ctx.Request.Context(), middlewares.UserID(ctx), id)
	if err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

func (c *Controller) delete(ctx *gin.Context) {
	id, ok := respond.ProfileID(ctx, "profile_id")
	if !ok {
		return
	}

	if err := c.Profiles.Delete(ctx.Request.Context(), middlewares.UserID(ctx), id); err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Profile deleted successfully", "profile_id": id})
}
