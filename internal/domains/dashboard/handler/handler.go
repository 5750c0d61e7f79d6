package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-checkout/internal/domains/dashboard/model"
	"storefront-checkout/internal/domains/dashboard/service"
	"storefront-checkout/internal/shared"
	"storefront-checkout/internal/shared/response"
	"storefront-checkout/pkg/logger"
)

const dateLayout = "2006-01-02"

// StatsService - *service.DashboardService
type StatsService interface {
	Stats(ctx context.Context, q service.StatsQuery) (*model.Stats, bool, error)
}

type DashboardHandler struct {
	stats StatsService
	loc   *time.Location
}

func NewDashboardHandler(stats StatsService, loc *time.Location) *DashboardHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardHandler{stats: stats, loc: loc}
}

// GetStats godoc
// @Summary Dashboard statistics (admin)
// @Tags Admin
// @Produce json
// @Param period query string false "day | week | month | year (default month)"
// @Param from query string false "Chart range start, YYYY-MM-DD"
// @Param to query string false "Chart range end (inclusive), YYYY-MM-DD"
// @Success 200 {object} response.Response{data=model.Stats}
// @Router /api/v1/admin/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	period, err := model.ParsePeriod(strings.TrimSpace(c.Query("period")))
	if err != nil {
		response.BadRequest(c, "period phải là day, week, month hoặc year")
		return
	}

	q := service.StatsQuery{Period: period}
	if q.From, err = h.parseDate(c.Query("from")); err != nil {
		response.BadRequest(c, "from phải có dạng YYYY-MM-DD")
		return
	}
	if q.To, err = h.parseDate(c.Query("to")); err != nil {
		response.BadRequest(c, "to phải có dạng YYYY-MM-DD")
		return
	}

	stats, hit, err := h.stats.Stats(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, model.ErrInvalidRange) || errors.Is(err, model.ErrInvalidPeriod) {
			response.ErrorResponse(c, http.StatusBadRequest, "INVALID_RANGE", err.Error())
			return
		}
		logger.Error("dashboard stats failed", err)
		response.ErrorResponse(c, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "Không tải được dữ liệu thống kê")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, stats, &response.Meta{
		RequestID: c.GetString(shared.CtxKeyRequestID),
		CacheHit:  &hit,
	})
}

func (h *DashboardHandler) parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dateLayout, s, h.loc)
}
