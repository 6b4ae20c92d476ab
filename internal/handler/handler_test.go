package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger-service/internal/analytics"
	"ledger-service/internal/model"
	"ledger-service/internal/pricing"
	"ledger-service/internal/store"
	"ledger-service/pkg/bus"
	"ledger-service/pkg/kv"
)

func newTestHandler() *Handler {
	changeBus := bus.New()
	entityStore := store.New(kv.NewMemoryStore(), changeBus, "", nil)
	view := analytics.NewSummaryView(entityStore, changeBus, nil)
	return New(entityStore, view, pricing.Policy{ReferenceBonus: 20000})
}

func doJSON(h echo.HandlerFunc, method, target, body string, params ...string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	return rec, h(c)
}

func createModel(t *testing.T, h *Handler, name string, cost, direct, dealer float64) model.Model {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"cost":%v,"direct_price":%v,"dealer_price":%v}`, name, cost, direct, dealer)
	rec, err := doJSON(h.CreateModel, http.MethodPost, "/api/models", body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)

	var m model.Model
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func createDealer(t *testing.T, h *Handler, name string, prices map[string]float64) DealerResponse {
	t.Helper()
	payload := map[string]interface{}{"name": name, "mobile": "9876543210", "prices": prices}
	raw, _ := json.Marshal(payload)
	rec, err := doJSON(h.CreateDealer, http.MethodPost, "/api/dealers", string(raw))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)

	var d DealerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	return d
}

func createCustomer(t *testing.T, h *Handler, name, modelID, dealerID string, reference bool) CustomerResponse {
	t.Helper()
	payload := map[string]interface{}{
		"name": name, "mobile": "9876543210",
		"model_id": modelID, "dealer_id": dealerID, "reference": reference,
	}
	raw, _ := json.Marshal(payload)
	rec, err := doJSON(h.CreateCustomer, http.MethodPost, "/api/customers", string(raw))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)

	var cust CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cust))
	return cust
}

func TestCreateModelValidation(t *testing.T) {
	h := newTestHandler()

	rec, err := doJSON(h.CreateModel, http.MethodPost, "/api/models",
		`{"name":"F","cost":1,"direct_price":1,"dealer_price":1}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, err = doJSON(h.CreateModel, http.MethodPost, "/api/models",
		`{"name":"FK-200","cost":-5,"direct_price":1,"dealer_price":1}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateModelPrependsNewest(t *testing.T) {
	h := newTestHandler()
	createModel(t, h, "FK-100", 1000, 2000, 1500)
	createModel(t, h, "FK-200", 1000, 2000, 1500)

	rec, err := doJSON(h.ListModels, http.MethodGet, "/api/models", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var models []model.Model
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &models))
	require.Len(t, models, 2)
	assert.Equal(t, "FK-200", models[0].Name)
	assert.Equal(t, "FK-100", models[1].Name)
}

func TestCustomerValidationRejectedBeforeWrite(t *testing.T) {
	h := newTestHandler()
	m := createModel(t, h, "FK-200", 50000, 70000, 65000)

	// Short mobile
	rec, err := doJSON(h.CreateCustomer, http.MethodPost, "/api/customers",
		fmt.Sprintf(`{"name":"Asha Patel","mobile":"12345","model_id":%q}`, m.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown model
	rec, err = doJSON(h.CreateCustomer, http.MethodPost, "/api/customers",
		`{"name":"Asha Patel","mobile":"9876543210","model_id":"nope"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown dealer
	rec, err = doJSON(h.CreateCustomer, http.MethodPost, "/api/customers",
		fmt.Sprintf(`{"name":"Asha Patel","mobile":"9876543210","model_id":%q,"dealer_id":"nope"}`, m.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No partial writes happened
	rec, err = doJSON(h.ListCustomers, http.MethodGet, "/api/customers", "")
	require.NoError(t, err)
	var customers []CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
	assert.Empty(t, customers)
}

func TestPricingScenarioAcrossChannels(t *testing.T) {
	h := newTestHandler()
	m := createModel(t, h, "FK-200", 50000, 70000, 65000)
	d := createDealer(t, h, "Dealer D", nil)

	direct := createCustomer(t, h, "Direct Buyer", m.ID, "", false)
	assert.Equal(t, 70000.0, direct.SellingPrice)
	assert.Equal(t, 20000.0, direct.Profit)
	assert.Equal(t, model.ChannelDirect, direct.Channel)

	viaDealer := createCustomer(t, h, "Dealer Buyer", m.ID, d.ID, false)
	assert.Equal(t, 65000.0, viaDealer.SellingPrice)
	assert.Equal(t, 15000.0, viaDealer.Profit)
	assert.Equal(t, model.ChannelDealer, viaDealer.Channel)
	assert.Equal(t, "Dealer D", viaDealer.DealerName)

	// Give the dealer an override; the next dealer-channel sale uses it
	payload := map[string]interface{}{
		"name": "Dealer D", "mobile": "9876543210",
		"prices": map[string]float64{m.ID: 60000},
	}
	raw, _ := json.Marshal(payload)
	rec, err := doJSON(h.UpdateDealer, http.MethodPut, "/api/dealers/"+d.ID, string(raw), "id", d.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	overridden := createCustomer(t, h, "Override Buyer", m.ID, d.ID, false)
	assert.Equal(t, 60000.0, overridden.SellingPrice)
	assert.Equal(t, 10000.0, overridden.Profit)

	// The earlier dealer-channel sale keeps its stored snapshot
	rec, err = doJSON(h.ListCustomers, http.MethodGet, "/api/customers", "")
	require.NoError(t, err)
	var customers []CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
	for _, cust := range customers {
		if cust.ID == viaDealer.ID {
			assert.Equal(t, 15000.0, cust.Profit)
		}
	}
}

func TestReferenceBonusAddedOnTop(t *testing.T) {
	h := newTestHandler()
	m := createModel(t, h, "FK-200", 50000, 70000, 65000)

	cust := createCustomer(t, h, "Referred Buyer", m.ID, "", true)

	assert.Equal(t, 90000.0, cust.SellingPrice)
	assert.Equal(t, 40000.0, cust.Profit)
}

func TestSnapshotFrozenAcrossModelEdit(t *testing.T) {
	h := newTestHandler()
	m := createModel(t, h, "FK-200", 50000, 70000, 65000)
	cust := createCustomer(t, h, "Early Buyer", m.ID, "", false)
	require.Equal(t, 70000.0, cust.SellingPrice)

	// Raise every price on the model
	rec, err := doJSON(h.UpdateModel, http.MethodPut, "/api/models/"+m.ID,
		`{"name":"FK-200","cost":55000,"direct_price":90000,"dealer_price":85000}`, "id", m.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	// The recorded sale still shows the old snapshot
	rec, err = doJSON(h.ListCustomers, http.MethodGet, "/api/customers", "")
	require.NoError(t, err)
	var customers []CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
	require.Len(t, customers, 1)
	assert.Equal(t, 70000.0, customers[0].SellingPrice)
	assert.Equal(t, 20000.0, customers[0].Profit)

	// Until the record itself is re-saved, which re-resolves
	payload := fmt.Sprintf(`{"name":"Early Buyer","mobile":"9876543210","model_id":%q}`, m.ID)
	rec, err = doJSON(h.UpdateCustomer, http.MethodPut, "/api/customers/"+cust.ID, payload, "id", cust.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 90000.0, updated.SellingPrice)
	assert.Equal(t, 35000.0, updated.Profit)
}

func TestDeleteModelLeavesDanglingCustomer(t *testing.T) {
	h := newTestHandler()
	m := createModel(t, h, "FK-200", 50000, 70000, 65000)
	createCustomer(t, h, "Orphaned Buyer", m.ID, "", false)

	rec, err := doJSON(h.DeleteModel, http.MethodDelete, "/api/models/"+m.ID, "", "id", m.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, err = doJSON(h.ListCustomers, http.MethodGet, "/api/customers", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var customers []CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
	require.Len(t, customers, 1)
	assert.Equal(t, model.UnknownModelName, customers[0].ModelName)
	// Stored snapshot survives the deletion
	assert.Equal(t, 70000.0, customers[0].SellingPrice)
}

func TestQuoteSalePreviewsWithoutRecording(t *testing.T) {
	h := newTestHandler()
	m := createModel(t, h, "FK-200", 50000, 70000, 65000)

	rec, err := doJSON(h.QuoteSale, http.MethodGet,
		"/api/customers/quote?model_id="+m.ID+"&reference=true", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var quote pricing.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, 90000.0, quote.SellingPrice)
	assert.Equal(t, 40000.0, quote.Profit)

	// Quoting a deleted model degrades to zero, not an error
	rec, err = doJSON(h.QuoteSale, http.MethodGet, "/api/customers/quote?model_id=gone", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, 0.0, quote.SellingPrice)

	rec, err = doJSON(h.ListCustomers, http.MethodGet, "/api/customers", "")
	require.NoError(t, err)
	var customers []CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
	assert.Empty(t, customers)
}

func TestDashboardSummaryTracksMutations(t *testing.T) {
	h := newTestHandler()
	m := createModel(t, h, "FK-200", 50000, 70000, 65000)
	createCustomer(t, h, "Buyer One", m.ID, "", false)
	createCustomer(t, h, "Buyer Two", m.ID, "", false)

	rec, err := doJSON(h.GetSummary, http.MethodGet, "/api/dashboard/summary", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary analytics.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 140000.0, summary.TotalTurnover)
	assert.Equal(t, 40000.0, summary.TotalProfit)
	assert.Equal(t, 2, summary.CustomerCount)
	assert.Equal(t, 1, summary.ModelCount)

	rec, err = doJSON(h.GetTrend, http.MethodGet, "/api/dashboard/trend", "")
	require.NoError(t, err)
	var trend []analytics.TrendPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trend))
	require.Len(t, trend, 1)
	assert.Equal(t, 2, trend[0].Count)

	rec, err = doJSON(h.GetDistribution, http.MethodGet, "/api/dashboard/distribution", "")
	require.NoError(t, err)
	var distribution []analytics.ModelCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &distribution))
	require.Len(t, distribution, 1)
	assert.Equal(t, "FK-200", distribution[0].ModelName)
	assert.Equal(t, 2, distribution[0].Count)
}

func TestDeleteDealerKeepsCustomerSnapshot(t *testing.T) {
	h := newTestHandler()
	m := createModel(t, h, "FK-200", 50000, 70000, 65000)
	d := createDealer(t, h, "Dealer D", map[string]float64{m.ID: 60000})
	cust := createCustomer(t, h, "Dealer Buyer", m.ID, d.ID, false)
	require.Equal(t, 60000.0, cust.SellingPrice)

	rec, err := doJSON(h.DeleteDealer, http.MethodDelete, "/api/dealers/"+d.ID, "", "id", d.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, err = doJSON(h.ListCustomers, http.MethodGet, "/api/customers", "")
	require.NoError(t, err)
	var customers []CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
	require.Len(t, customers, 1)
	assert.Equal(t, 60000.0, customers[0].SellingPrice)
	assert.Equal(t, "-", customers[0].DealerName)
}
