package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/apierror"
	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/model"
	"github.com/asif1001/wareopes1-sub002/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const dashboardCacheTTL = time.Minute

// DashboardHandler serves the landing page tiles. The stats aggregate five
// tables, so they are cached in Redis briefly rather than computed per hit.
type DashboardHandler struct {
	tasks     repository.TaskRepository
	shipments repository.ShipmentRepository
	cases     repository.CaseRepository
	summaries repository.SummaryRepository
	licenses  repository.LicenseRepository
	rdb       *redis.Client
}

func NewDashboardHandler(
	tasks repository.TaskRepository,
	shipments repository.ShipmentRepository,
	cases repository.CaseRepository,
	summaries repository.SummaryRepository,
	licenses repository.LicenseRepository,
	rdb *redis.Client,
) *DashboardHandler {
	return &DashboardHandler{
		tasks:     tasks,
		shipments: shipments,
		cases:     cases,
		summaries: summaries,
		licenses:  licenses,
		rdb:       rdb,
	}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	const cacheKey = "dashboard:stats"

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var stats dto.DashboardStats
		if jsonErr := json.Unmarshal(cached, &stats); jsonErr == nil {
			c.JSON(http.StatusOK, stats)
			return
		}
	}

	stats, err := h.computeStats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError,
			apierror.WithCode(apierror.CodeServerError, "failed to compute dashboard stats"))
		return
	}

	// Populate cache: best effort, ignore errors
	if b, jsonErr := json.Marshal(stats); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, dashboardCacheTTL).Err()
	}

	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) computeStats(ctx context.Context) (*dto.DashboardStats, error) {
	stats := &dto.DashboardStats{}

	var err error
	if stats.OpenTasks, err = h.tasks.CountByStatus(ctx, model.TaskOpen); err != nil {
		return nil, err
	}
	if stats.ShipmentsInTransit, err = h.shipments.CountByStatus(ctx, model.ShipmentExpected); err != nil {
		return nil, err
	}
	if stats.ShipmentsArrived, err = h.shipments.CountByStatus(ctx, model.ShipmentArrived); err != nil {
		return nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	if stats.CasesSortedToday, err = h.cases.CountFullySortedSince(ctx, today); err != nil {
		return nil, err
	}

	totals, err := h.summaries.TotalsForDate(ctx, today)
	if err != nil {
		return nil, err
	}
	stats.LinesSortedToday = totals.SortingLines
	stats.LinesPackedToday = totals.PackingLines

	expiring, err := h.licenses.ListExpiringBefore(ctx, time.Now().AddDate(0, 0, 30))
	if err != nil {
		return nil, err
	}
	stats.ExpiringLicenses = len(expiring)

	return stats, nil
}
