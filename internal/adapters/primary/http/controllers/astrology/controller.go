package astrologyController

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/admin/zodira/astro-api/internal/adapters/primary/http/controllers/respond"
	"github.com/admin/zodira/astro-api/internal/adapters/primary/http/middlewares"
	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const combinedChartType = "combined"

// ChartService операции с картами профиля
type ChartService interface {
	GenerateChartForProfile(ctx context.Context, userID string, profileID uuid.UUID, force bool) (*domain.StructuredChart, bool, error)
	GetChart(ctx context.Context, userID string, profileID uuid.UUID) (*domain.StructuredChart, error)
	ChartStatus(ctx context.Context, userID string, profileID uuid.UUID) (string, error)
	DeleteChart(ctx context.Context, userID string, profileID uuid.UUID) (bool, error)
	GetChartPart(ctx context.Context, userID string, profileID uuid.UUID, kind domain.ChartPartKind) (domain.Payload, error)
	GenerateChartPart(ctx context.Context, userID string, profileID uuid.UUID, kind domain.ChartPartKind) (domain.Payload, error)
	RefreshDashboardExtras(ctx context.Context, userID string, profileID uuid.UUID) (*domain.DashboardExtras, error)
	GetDashboardExtras(ctx context.Context, userID string, profileID uuid.UUID) (*domain.DashboardExtras, error)
}

type Controller struct {
	Charts ChartService
	auth   gin.HandlerFunc
	Log    *slog.Logger
}

func New(charts ChartService, auth gin.HandlerFunc, log *slog.Logger) *Controller {
	return &Controller{
		Charts: charts,
		auth:   auth,
		Log:    log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	astrology := router.Group("/api/v1/astrology", c.auth)
	{
		astrology.POST("/generate-chart", c.generateChartByBody)
		astrology.POST("/profiles/:profile_id/generate-chart", c.generateChart)

		astrology.GET("/chart/:profile_id", c.getChart)
		astrology.GET("/chart/:profile_id/status", c.chartStatus)
		astrology.DELETE("/chart/:profile_id", c.deleteChart)

		astrology.GET("/profiles/:profile_id/charts/:chart_type", c.getChartPart)
		astrology.POST("/profiles/:profile_id/charts/:chart_type", c.generateChartPart)

		astrology.GET("/profiles/:profile_id/dashboard-extras", c.getDashboardExtras)
		astrology.POST("/profiles/:profile_id/dashboard-extras", c.refreshDashboardExtras)
	}
}

func chartID(userID string, profileID uuid.UUID) string {
	return domain.ChartKey{UserID: userID, ProfileID: profileID.String()}.String()
}

type generateChartRequest struct {
	ProfileID string `json:"profile_id" binding:"required"`
	Force     bool   `json:"force"`
}

// generateChartByBody POST /generate-chart {profile_id}
func (c *Controller) generateChartByBody(ctx *gin.Context) {
	var req generateChartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "profile_id is required"})
		return
	}
	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile_id"})
		return
	}
	c.generate(ctx, profileID, req.Force)
}

func (c *Controller) generateChart(ctx *gin.Context) {
	profileID, ok := respond.ProfileID(ctx, "profile_id")
	if !ok {
		return
	}
	force, _ := strconv.ParseBool(ctx.Query("force"))
	c.generate(ctx, profileID, force)
}

func (c *Controller) generate(ctx *gin.Context, profileID uuid.UUID, force bool) {
	userID := middlewares.UserID(ctx)

	chart, existed, err := c.Charts.GenerateChartForProfile(ctx.Request.Context(), userID, profileID, force)
	if err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}

	if existed {
		ctx.JSON(http.StatusOK, gin.H{
			"message":  "Chart already exists",
			"chart_id": chartID(userID, profileID),
			"status":   "exists",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Chart generated",
		"chart_id": chartID(userID, profileID),
		"status":   "completed",
		"chart":    chart,
	})
}

func (c *Controller) getChart(ctx *gin.Context) {
	profileID, ok := respond.ProfileID(ctx, "profile_id")
	if !ok {
		return
	}
	userID := middlewares.UserID(ctx)

	chart, err := c.Charts.GetChart(ctx.Request.Context(), userID, profileID)
	if err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"chart":  chartResponse(userID, profileID, chart),
		"status": "success",
	})
}

func (c *Controller) chartStatus(ctx *gin.Context) {
	profileID, ok := respond.ProfileID(ctx, "profile_id")
	if !ok {
		return
	}
	userID := middlewares.UserID(ctx)

	status, err := c.Charts.ChartStatus(ctx.Request.Context(), userID, profileID)
	if err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":   status,
		"chart_id": chartID(userID, profileID),
	})
}

func (c *Controller) deleteChart(ctx *gin.Context) {
	profileID, ok := respond.ProfileID(ctx, "profile_id")
	if !ok {
		return
	}
	userID := middlewares.UserID(ctx)

	deleted, err := c.Charts.DeleteChart(ctx.Request.Context(), userID, profileID)
	if err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Chart deleted successfully",
		"chart_id": chartID(userID, profileID),
		"existed":  deleted,
	})
}

// getChartPart одна сырая часть или combined для структурированной карты
func (c *Controller) getChartPart(ctx *gin.Context) {
	profileID, ok := respond.ProfileID(ctx, "profile_id")
	if !ok {
		return
	}
	userID := middlewares.UserID(ctx)
	chartType := ctx.Param("chart_type")

	if chartType == combinedChartType {
		chart, err := c.Charts.GetChart(ctx.Request.Context(), userID, profileID)
		if err != nil {
			respond.Error(ctx, c.Log, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{
			"chart":  chartResponse(userID, profileID, chart),
			"status": "success",
		})
		return
	}

	part, err := c.Charts.GetChartPart(ctx.Request.Context(), userID, profileID, domain.ChartPartKind(chartType))
	if err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"profile_id": profileID,
		"chart_type": chartType,
		"data":       part,
		"status":     "success",
	})
}

func (c *Controller) generateChartPart(ctx *gin.Context) {
	profileID, ok := respond.ProfileID(ctx, "profile_id")
	if !ok {
		return
	}
	chartType := ctx.Param("chart_type")

	part, err := c.Charts.GenerateChartPart(ctx.Request.Context(), middlewares.UserID(ctx), profileID, domain.ChartPartKind(chartType))
	if err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"profile_id": profileID,
		"chart_type": chartType,
		"data":       part,
		"status":     "success",
	})
}

func (c *Controller) getDashboardExtras(ctx *gin.Context) {
	profileID, ok := respond.ProfileID(ctx, "profile_id")
	if !ok {
		return
	}

	extras, err := c.Charts.GetDashboardExtras(ctx.Request.Context(), middlewares.UserID(ctx), profileID)
	if err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": extras, "status": "success"})
}

func (c *Controller) refreshDashboardExtras(ctx *gin.Context) {
	profileID, ok := respond.ProfileID(ctx, "profile_id")
	if !ok {
		return
	}

	extras, err := c.Charts.RefreshDashboardExtras(ctx.Request.Context(), middlewares.UserID(ctx), profileID)
	if err != nil {
		respond.Error(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": extras, "status": "success"})
}

type chartBody struct {
	ID string `json:"id"`
	*domain.StructuredChart
}

func chartResponse(userID string, profileID uuid.UUID, chart *domain.StructuredChart) chartBody {
	return chartBody{ID: chartID(userID, profileID), StructuredChart: chart}
}
