package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gachaVault/business/gacha"
	"gachaVault/domain"
	"gachaVault/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	GachaHandler struct {
		validate     *validator.Validate
		gachaService GachaService
		timeout      time.Duration
	}

	GachaService interface {
		BannerStates(ctx context.Context, userID uint, ov gacha.Overrides) (map[domain.BannerCategory]domain.BannerSnapshot, error)
		BannerStateFor(ctx context.Context, userID uint, category domain.BannerCategory, ov gacha.Overrides) (domain.BannerSnapshot, error)
		BannerStatistics(ctx context.Context, userID uint, category domain.BannerCategory, ov gacha.Overrides) (domain.BannerStats, error)
		RarePullHistory(ctx context.Context, userID uint, category domain.BannerCategory, ov gacha.Overrides) ([]domain.AnnotatedPull, error)
	}

	// ReplayQuery carries optional what-if knobs. Absent values fall back to
	// the deployment defaults; history in storage is never touched.
	ReplayQuery struct {
		Target              *string `query:"target"`
		EscalationThreshold *int    `query:"escalation_threshold" validate:"omitempty,min=1"`
		BonusCap            *int    `query:"bonus_cap" validate:"omitempty,min=1"`
	}
)

func NewGachaHandler(svc GachaService) *GachaHandler {
	return &GachaHandler{
		validate:     validator.New(),
		gachaService: svc,
		timeout:      30 * time.Second,
	}
}

func (q ReplayQuery) overrides() gacha.Overrides {
	return gacha.Overrides{
		TrackedTarget:       q.Target,
		EscalationThreshold: q.EscalationThreshold,
		BonusPointsCap:      q.BonusCap,
	}
}

func gachaErrorStatus(err error) int {
	switch {
	case errors.Is(err, gacha.ErrUnknownCategory),
		errors.Is(err, gacha.ErrUnknownRarity),
		errors.Is(err, gacha.ErrUnknownItemType),
		errors.Is(err, gacha.ErrMissingEventID),
		errors.Is(err, gacha.ErrMissingExternalID),
		errors.Is(err, gacha.ErrMissingItemKey),
		errors.Is(err, gacha.ErrMissingOccurredAt),
		errors.Is(err, gacha.ErrDuplicateExternal):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *GachaHandler) bindQuery(c echo.Context) (ReplayQuery, error) {
	var q ReplayQuery
	if err := c.Bind(&q); err != nil {
		return ReplayQuery{}, err
	}
	if err := h.validate.Struct(&q); err != nil {
		return ReplayQuery{}, err
	}
	return q, nil
}

// GET /api/v1/gacha/state
func (h *GachaHandler) States(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	q, err := h.bindQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	start := time.Now()
	states, err := h.gachaService.BannerStates(ctx, userID, q.overrides())
	metrics.ReplayLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return c.JSON(gachaErrorStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(states))
}

// GET /api/v1/gacha/state/:category
func (h *GachaHandler) StateFor(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	q, err := h.bindQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	start := time.Now()
	state, err := h.gachaService.BannerStateFor(ctx, userID, domain.BannerCategory(c.Param("category")), q.overrides())
	metrics.ReplayLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return c.JSON(gachaErrorStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(state))
}

// GET /api/v1/gacha/stats/:category
func (h *GachaHandler) Statistics(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	q, err := h.bindQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	start := time.Now()
	stats, err := h.gachaService.BannerStatistics(ctx, userID, domain.BannerCategory(c.Param("category")), q.overrides())
	metrics.ReplayLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return c.JSON(gachaErrorStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(stats))
}

// GET /api/v1/gacha/history/:category
func (h *GachaHandler) RareHistory(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	q, err := h.bindQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	start := time.Now()
	history, err := h.gachaService.RarePullHistory(ctx, userID, domain.BannerCategory(c.Param("category")), q.overrides())
	metrics.ReplayLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return c.JSON(gachaErrorStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(history))
}
