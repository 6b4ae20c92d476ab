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

// DealerRequest defines the structure for dealer creation/update requests.
// Prices maps model ID to an optional override of that model's default
// dealer price.
type DealerRequest struct {
	Name     string             `json:"name"`
	Mobile   string             `json:"mobile"`
	Address  string             `json:"address"`
	District string             `json:"district"`
	State    string             `json:"state"`
	Prices   map[string]float64 `json:"prices"`
}

// DealerPriceEntry is the effective price a dealer pays for one model
type DealerPriceEntry struct {
	ModelID    string  `json:"model_id"`
	ModelName  string  `json:"model_name"`
	Price      float64 `json:"price"`
	Overridden bool    `json:"overridden"`
}

// DealerResponse annotates a dealer with the effective per-model prices
type DealerResponse struct {
	model.Dealer
	EffectivePrices []DealerPriceEntry `json:"effective_prices"`
}

func dealerResponse(d model.Dealer, models []model.Model) DealerResponse {
	entries := make([]DealerPriceEntry, 0, len(models))
	for i := range models {
		m := &models[i]
		entry := DealerPriceEntry{ModelID: m.ID, ModelName: m.Name, Price: m.DealerPrice}
		if override, ok := d.Prices[m.ID]; ok {
			entry.Price = override
			entry.Overridden = true
		}
		entries = append(entries, entry)
	}
	return DealerResponse{Dealer: d, EffectivePrices: entries}
}

// ListDealers handles retrieving all dealers with their effective prices
func (h *Handler) ListDealers(c echo.Context) error {
	log := logger.FromContext(c)

	ctx := c.Request().Context()
	dealers := h.store.LoadDealers(ctx)
	models := h.store.LoadModels(ctx)

	responses := make([]DealerResponse, 0, len(dealers))
	for _, d := range dealers {
		responses = append(responses, dealerResponse(d, models))
	}

	log.Info("Dealers retrieved successfully", zap.Int("count", len(responses)))
	return c.JSON(http.StatusOK, responses)
}

// CreateDealer handles creating a new dealer
func (h *Handler) CreateDealer(c echo.Context) error {
	log := logger.FromContext(c)

	var req DealerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	d := model.Dealer{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Mobile:    strings.TrimSpace(req.Mobile),
		Address:   strings.TrimSpace(req.Address),
		District:  strings.TrimSpace(req.District),
		State:     strings.TrimSpace(req.State),
		Prices:    req.Prices,
		CreatedAt: time.Now(),
	}
	if err := d.Validate(); err != nil {
		log.Warn("Dealer validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()

	// Newest first
	dealers := append([]model.Dealer{d}, h.store.LoadDealers(ctx)...)
	if err := h.store.SaveDealers(ctx, dealers); err != nil {
		log.Error("Failed to save dealers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save dealer"})
	}

	prometheus.RecordLedgerOperation("dealers", "create")
	log.Info("Dealer created successfully",
		zap.String("dealer_id", d.ID),
		zap.String("name", d.Name),
		zap.Int("override_count", len(d.Prices)))
	return c.JSON(http.StatusCreated, dealerResponse(d, h.store.LoadModels(ctx)))
}

// UpdateDealer handles editing a dealer; the override map is replaced
// alongside the contact fields.
func (h *Handler) UpdateDealer(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req DealerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("dealer_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	ctx := c.Request().Context()
	dealers := h.store.LoadDealers(ctx)

	existing := model.FindDealer(dealers, id)
	if existing == nil {
		log.Warn("Dealer not found for update", zap.String("dealer_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "dealer not found"})
	}

	updated := *existing
	updated.Name = strings.TrimSpace(req.Name)
	updated.Mobile = strings.TrimSpace(req.Mobile)
	updated.Address = strings.TrimSpace(req.Address)
	updated.District = strings.TrimSpace(req.District)
	updated.State = strings.TrimSpace(req.State)
	updated.Prices = req.Prices
	updated.UpdatedAt = time.Now()
	if err := updated.Validate(); err != nil {
		log.Warn("Dealer validation failed", zap.String("dealer_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	*existing = updated
	if err := h.store.SaveDealers(ctx, dealers); err != nil {
		log.Error("Failed to save dealers", zap.String("dealer_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save dealer"})
	}

	prometheus.RecordLedgerOperation("dealers", "update")
	log.Info("Dealer updated successfully",
		zap.String("dealer_id", id),
		zap.String("name", updated.Name))
	return c.JSON(http.StatusOK, dealerResponse(updated, h.store.LoadModels(ctx)))
}

// DeleteDealer handles deleting a dealer. Customers referencing it keep
// their stored snapshots and show a dangling dealer.
func (h *Handler) DeleteDealer(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	ctx := c.Request().Context()
	dealers := h.store.LoadDealers(ctx)

	remaining := make([]model.Dealer, 0, len(dealers))
	for i := range dealers {
		if dealers[i].ID != id {
			remaining = append(remaining, dealers[i])
		}
	}
	if len(remaining) == len(dealers) {
		log.Warn("Dealer not found for deletion", zap.String("dealer_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "dealer not found"})
	}

	if err := h.store.SaveDealers(ctx, remaining); err != nil {
		log.Error("Failed to save dealers", zap.String("dealer_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete dealer"})
	}

	prometheus.RecordLedgerOperation("dealers", "delete")
	log.Info("Dealer deleted successfully", zap.String("dealer_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "dealer deleted successfully"})
}
