package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ledger-service/internal/model"
	"ledger-service/pkg/logger"
	"ledger-service/prometheus"
)

// ModelRequest defines the structure for model creation/update requests
type ModelRequest struct {
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	DirectPrice float64 `json:"direct_price"`
	DealerPrice float64 `json:"dealer_price"`
}

// ListModels handles retrieving all models in stored order
func (h *Handler) ListModels(c echo.Context) error {
	log := logger.FromContext(c)

	models := h.store.LoadModels(c.Request().Context())

	log.Info("Models retrieved successfully", zap.Int("count", len(models)))
	return c.JSON(http.StatusOK, models)
}

// CreateModel handles creating a new model
func (h *Handler) CreateModel(c echo.Context) error {
	log := logger.FromContext(c)

	var req ModelRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	m := model.Model{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Cost:        req.Cost,
		DirectPrice: req.DirectPrice,
		DealerPrice: req.DealerPrice,
		CreatedAt:   time.Now(),
	}
	if err := m.Validate(); err != nil {
		log.Warn("Model validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()

	// Newest first
	models := append([]model.Model{m}, h.store.LoadModels(ctx)...)
	if err := h.store.SaveModels(ctx, models); err != nil {
		log.Error("Failed to save models", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save model"})
	}

	prometheus.RecordLedgerOperation("models", "create")
	log.Info("Model created successfully",
		zap.String("model_id", m.ID),
		zap.String("name", m.Name),
		zap.Float64("cost", m.Cost),
		zap.Float64("direct_price", m.DirectPrice),
		zap.Float64("dealer_price", m.DealerPrice))
	return c.JSON(http.StatusCreated, m)
}

// UpdateModel handles editing a model; all price fields are replaced.
// Already-recorded customer snapshots are left untouched.
func (h *Handler) UpdateModel(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req ModelRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("model_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	ctx := c.Request().Context()
	models := h.store.LoadModels(ctx)

	existing := model.FindModel(models, id)
	if existing == nil {
		log.Warn("Model not found for update", zap.String("model_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "model not found"})
	}

	updated := *existing
	updated.Name = strings.TrimSpace(req.Name)
	updated.Cost = req.Cost
	updated.DirectPrice = req.DirectPrice
	updated.DealerPrice = req.DealerPrice
	updated.UpdatedAt = time.Now()
	if err := updated.Validate(); err != nil {
		log.Warn("Model validation failed", zap.String("model_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	*existing = updated
	if err := h.store.SaveModels(ctx, models); err != nil {
		log.Error("Failed to save models", zap.String("model_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save model"})
	}

	prometheus.RecordLedgerOperation("models", "update")
	log.Info("Model updated successfully",
		zap.String("model_id", id),
		zap.String("name", updated.Name))
	return c.JSON(http.StatusOK, updated)
}

// DeleteModel handles deleting a model. Customers and dealer overrides that
// reference it are left dangling; lookups degrade to "Unknown"/zero.
func (h *Handler) DeleteModel(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	ctx := c.Request().Context()
	models := h.store.LoadModels(ctx)

	remaining := make([]model.Model, 0, len(models))
	for i := range models {
		if models[i].ID != id {
			remaining = append(remaining, models[i])
		}
	}
	if len(remaining) == len(models) {
		log.Warn("Model not found for deletion", zap.String("model_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "model not found"})
	}

	if err := h.store.SaveModels(ctx, remaining); err != nil {
		log.Error("Failed to save models", zap.String("model_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete model"})
	}

	prometheus.RecordLedgerOperation("models", "delete")
	log.Info("Model deleted successfully", zap.String("model_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "model deleted successfully"})
}
