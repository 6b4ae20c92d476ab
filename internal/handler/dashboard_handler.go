package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ledger-service/pkg/logger"
)

// GetSummary returns the dashboard headline figures from the live view
func (h *Handler) GetSummary(c echo.Context) error {
	log := logger.FromContext(c)

	summary := h.view.Summary()
	log.Info("Dashboard summary served",
		zap.Float64("total_turnover", summary.TotalTurnover),
		zap.Float64("total_profit", summary.TotalProfit),
		zap.Int("customer_count", summary.CustomerCount))
	return c.JSON(http.StatusOK, summary)
}

// GetTrend returns the sparse monthly profit/count series
func (h *Handler) GetTrend(c echo.Context) error {
	trend := h.view.Trend()
	return c.JSON(http.StatusOK, trend)
}

// GetDistribution returns the per-model sales distribution
func (h *Handler) GetDistribution(c echo.Context) error {
	distribution := h.view.Distribution()
	return c.JSON(http.StatusOK, distribution)
}
