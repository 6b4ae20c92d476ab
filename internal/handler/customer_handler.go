package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ledger-service/internal/model"
	"ledger-service/internal/pricing"
	"ledger-service/pkg/logger"
	"ledger-service/prometheus"
)

// CustomerRequest defines the structure for customer creation/update
// requests. An empty dealer_id means a direct sale.
type CustomerRequest struct {
	Name      string `json:"name"`
	Mobile    string `json:"mobile"`
	City      string `json:"city"`
	District  string `json:"district"`
	State     string `json:"state"`
	ModelID   string `json:"model_id"`
	DealerID  string `json:"dealer_id"`
	Reference bool   `json:"reference"`
}

// CustomerResponse annotates a customer row with display-time lookups.
// ModelName falls back to the "Unknown" sentinel when the referenced model
// was deleted after the sale.
type CustomerResponse struct {
	model.Customer
	Channel    string `json:"channel"`
	ModelName  string `json:"model_name"`
	DealerName string `json:"dealer_name,omitempty"`
}

func customerResponse(cust model.Customer, models []model.Model, dealers []model.Dealer) CustomerResponse {
	resp := CustomerResponse{
		Customer:  cust,
		Channel:   cust.Channel(),
		ModelName: model.UnknownModelName,
	}
	if m := model.FindModel(models, cust.ModelID); m != nil {
		resp.ModelName = m.Name
	}
	if cust.DealerID != "" {
		if d := model.FindDealer(dealers, cust.DealerID); d != nil {
			resp.DealerName = d.Name
		} else {
			resp.DealerName = "-"
		}
	}
	return resp
}

// ListCustomers handles retrieving all customers in stored order, each
// annotated with resolved model and dealer names
func (h *Handler) ListCustomers(c echo.Context) error {
	log := logger.FromContext(c)

	ctx := c.Request().Context()
	customers := h.store.LoadCustomers(ctx)
	models := h.store.LoadModels(ctx)
	dealers := h.store.LoadDealers(ctx)

	responses := make([]CustomerResponse, 0, len(customers))
	for _, cust := range customers {
		responses = append(responses, customerResponse(cust, models, dealers))
	}

	log.Info("Customers retrieved successfully", zap.Int("count", len(responses)))
	return c.JSON(http.StatusOK, responses)
}

// QuoteSale previews the selling price and profit for a prospective sale
// without recording anything. Mirrors what the customer form shows before
// the operator commits.
func (h *Handler) QuoteSale(c echo.Context) error {
	log := logger.FromContext(c)

	modelID := c.QueryParam("model_id")
	dealerID := c.QueryParam("dealer_id")
	reference, _ := strconv.ParseBool(c.QueryParam("reference"))

	ctx := c.Request().Context()
	m := model.FindModel(h.store.LoadModels(ctx), modelID)
	var d *model.Dealer
	if dealerID != "" {
		d = model.FindDealer(h.store.LoadDealers(ctx), dealerID)
	}

	quote := pricing.Resolve(m, d, reference, h.policy)
	log.Info("Sale quoted",
		zap.String("model_id", modelID),
		zap.String("dealer_id", dealerID),
		zap.Bool("reference", reference),
		zap.Float64("selling_price", quote.SellingPrice),
		zap.Float64("profit", quote.Profit))
	return c.JSON(http.StatusOK, quote)
}

// CreateCustomer records a sale. The pricing resolver runs exactly once
// here and the resulting quote is stored on the record as a snapshot.
func (h *Handler) CreateCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	cust := model.Customer{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Mobile:    strings.TrimSpace(req.Mobile),
		City:      strings.TrimSpace(req.City),
		District:  strings.TrimSpace(req.District),
		State:     strings.TrimSpace(req.State),
		ModelID:   req.ModelID,
		DealerID:  req.DealerID,
		Reference: req.Reference,
		CreatedAt: time.Now(),
	}
	if err := cust.Validate(); err != nil {
		log.Warn("Customer validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	models := h.store.LoadModels(ctx)
	dealers := h.store.LoadDealers(ctx)

	m := model.FindModel(models, cust.ModelID)
	if m == nil {
		log.Warn("Customer references unknown model", zap.String("model_id", cust.ModelID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "model_id: model does not exist"})
	}
	var d *model.Dealer
	if cust.DealerID != "" {
		d = model.FindDealer(dealers, cust.DealerID)
		if d == nil {
			log.Warn("Customer references unknown dealer", zap.String("dealer_id", cust.DealerID))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dealer_id: dealer does not exist"})
		}
	}

	// Snapshot the quote; later price edits will not touch this record
	quote := pricing.Resolve(m, d, cust.Reference, h.policy)
	cust.SellingPrice = quote.SellingPrice
	cust.Profit = quote.Profit

	// Newest first
	customers := append([]model.Customer{cust}, h.store.LoadCustomers(ctx)...)
	if err := h.store.SaveCustomers(ctx, customers); err != nil {
		log.Error("Failed to save customers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save customer"})
	}

	prometheus.RecordLedgerOperation("customers", "create")
	log.Info("Customer created successfully",
		zap.String("customer_id", cust.ID),
		zap.String("name", cust.Name),
		zap.String("channel", cust.Channel()),
		zap.Float64("selling_price", cust.SellingPrice),
		zap.Float64("profit", cust.Profit))
	return c.JSON(http.StatusCreated, customerResponse(cust, models, dealers))
}

// UpdateCustomer re-saves a sale record. This is the one moment a stored
// snapshot may change: the resolver runs again against the current prices.
func (h *Handler) UpdateCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("customer_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	ctx := c.Request().Context()
	customers := h.store.LoadCustomers(ctx)

	var existing *model.Customer
	for i := range customers {
		if customers[i].ID == id {
			existing = &customers[i]
			break
		}
	}
	if existing == nil {
		log.Warn("Customer not found for update", zap.String("customer_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	}

	updated := *existing
	updated.Name = strings.TrimSpace(req.Name)
	updated.Mobile = strings.TrimSpace(req.Mobile)
	updated.City = strings.TrimSpace(req.City)
	updated.District = strings.TrimSpace(req.District)
	updated.State = strings.TrimSpace(req.State)
	updated.ModelID = req.ModelID
	updated.DealerID = req.DealerID
	updated.Reference = req.Reference
	updated.UpdatedAt = time.Now()
	if err := updated.Validate(); err != nil {
		log.Warn("Customer validation failed", zap.String("customer_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	models := h.store.LoadModels(ctx)
	dealers := h.store.LoadDealers(ctx)

	m := model.FindModel(models, updated.ModelID)
	if m == nil {
		log.Warn("Customer references unknown model", zap.String("model_id", updated.ModelID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "model_id: model does not exist"})
	}
	var d *model.Dealer
	if updated.DealerID != "" {
		d = model.FindDealer(dealers, updated.DealerID)
		if d == nil {
			log.Warn("Customer references unknown dealer", zap.String("dealer_id", updated.DealerID))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dealer_id: dealer does not exist"})
		}
	}

	quote := pricing.Resolve(m, d, updated.Reference, h.policy)
	updated.SellingPrice = quote.SellingPrice
	updated.Profit = quote.Profit

	*existing = updated
	if err := h.store.SaveCustomers(ctx, customers); err != nil {
		log.Error("Failed to save customers", zap.String("customer_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save customer"})
	}

	prometheus.RecordLedgerOperation("customers", "update")
	log.Info("Customer updated successfully",
		zap.String("customer_id", id),
		zap.String("name", updated.Name),
		zap.Float64("selling_price", updated.SellingPrice),
		zap.Float64("profit", updated.Profit))
	return c.JSON(http.StatusOK, customerResponse(updated, models, dealers))
}

// DeleteCustomer removes a sale record
func (h *Handler) DeleteCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	ctx := c.Request().Context()
	customers := h.store.LoadCustomers(ctx)

	remaining := make([]model.Customer, 0, len(customers))
	for i := range customers {
		if customers[i].ID != id {
			remaining = append(remaining, customers[i])
		}
	}
	if len(remaining) == len(customers) {
		log.Warn("Customer not found for deletion", zap.String("customer_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	}

	if err := h.store.SaveCustomers(ctx, remaining); err != nil {
		log.Error("Failed to save customers", zap.String("customer_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete customer"})
	}

	prometheus.RecordLedgerOperation("customers", "delete")
	log.Info("Customer deleted successfully", zap.String("customer_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "customer deleted successfully"})
}
