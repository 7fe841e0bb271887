package rest

import (
	"context"
	"net/http"
	"time"

	"gachaVault/business/gacha"
	"gachaVault/domain"
	"gachaVault/pkg/logger"
	"gachaVault/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PullHandler struct {
		validate    *validator.Validate
		pullService PullService
		timeout     time.Duration
	}

	PullService interface {
		ImportPulls(ctx context.Context, userID uint, batch []gacha.PullInput) (int64, error)
		RecordPull(ctx context.Context, userID uint, in gacha.PullInput) (domain.PullEvent, error)
		ListPulls(ctx context.Context, userID uint) ([]domain.PullEvent, error)
	}

	PullRequest struct {
		ExternalID     string         `json:"external_id" validate:"required"`
		BannerCategory string         `json:"banner_category" validate:"required,oneof=character chronicled weapon standard"`
		ItemType       string         `json:"item_type" validate:"required,oneof=character equipment"`
		ItemKey        string         `json:"item_key" validate:"required"`
		Rarity         string         `json:"rarity" validate:"required,oneof=common uncommon rare"`
		IsFeatured     *bool          `json:"is_featured,omitempty"`
		TrackedTarget  string         `json:"tracked_target,omitempty"`
		OccurredAt     time.Time      `json:"occurred_at" validate:"required"`
		Raw            map[string]any `json:"raw,omitempty"`
	}

	ImportRequest struct {
		Pulls []PullRequest `json:"pulls" validate:"required,min=1,dive"`
	}

	ImportResponse struct {
		LogSize int64 `json:"log_size"`
	}
)

func NewPullHandler(svc PullService) *PullHandler {
	return &PullHandler{
		validate:    validator.New(),
		pullService: svc,
		timeout:     30 * time.Second,
	}
}

func toPullInput(req PullRequest) gacha.PullInput {
	return gacha.PullInput{
		ExternalID:     req.ExternalID,
		BannerCategory: domain.BannerCategory(req.BannerCategory),
		ItemType:       domain.ItemType(req.ItemType),
		ItemKey:        req.ItemKey,
		Rarity:         domain.Rarity(req.Rarity),
		IsFeatured:     req.IsFeatured,
		TrackedTarget:  req.TrackedTarget,
		OccurredAt:     req.OccurredAt,
		Raw:            req.Raw,
	}
}

// POST /api/v1/pulls/import
func (h *PullHandler) ImportPulls(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req ImportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	metrics.ImportRequests.Inc()

	batch := make([]gacha.PullInput, 0, len(req.Pulls))
	for _, p := range req.Pulls {
		batch = append(batch, toPullInput(p))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	logSize, err := h.pullService.ImportPulls(ctx, userID, batch)
	if err != nil {
		logger.Error("Failed to import pulls", err)
		return c.JSON(gachaErrorStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(ImportResponse{LogSize: logSize}))
}

// POST /api/v1/pulls
func (h *PullHandler) RecordPull(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req PullRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	event, err := h.pullService.RecordPull(ctx, userID, toPullInput(req))
	if err != nil {
		logger.Error("Failed to record pull", err)
		return c.JSON(gachaErrorStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(event))
}

// GET /api/v1/pulls
func (h *PullHandler) ListPulls(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	events, err := h.pullService.ListPulls(ctx, userID)
	if err != nil {
		logger.Error("Failed to list pulls", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(events))
}
