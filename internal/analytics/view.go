package analytics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"ledger-service/internal/store"
	"ledger-service/pkg/bus"
	"ledger-service/prometheus"
)

// Summary is the dashboard headline block.
type Summary struct {
	TotalTurnover float64   `json:"total_turnover"`
	TotalProfit   float64   `json:"total_profit"`
	MonthProfit   float64   `json:"month_profit"`
	ModelCount    int       `json:"model_count"`
	DealerCount   int       `json:"dealer_count"`
	CustomerCount int       `json:"customer_count"`
	RefreshedAt   time.Time `json:"refreshed_at"`
}

// SummaryView is a live view over the persisted collections. It subscribes
// to the change bus and re-reads everything on every signal; reads are
// served from the last computed state. It never mutates the collections.
type SummaryView struct {
	store *store.EntityStore
	log   *zap.Logger

	mu           sync.RWMutex
	summary      Summary
	trend        []TrendPoint
	distribution []ModelCount
}

// NewSummaryView creates the view, computes its first snapshot and
// subscribes it to the bus
func NewSummaryView(s *store.EntityStore, b *bus.Bus, log *zap.Logger) *SummaryView {
	if log == nil {
		log = zap.NewNop()
	}
	v := &SummaryView{store: s, log: log}
	v.Refresh(context.Background())
	b.Subscribe(func(e bus.Event) {
		v.log.Debug("Data changed, refreshing dashboard view",
			zap.String("collection", e.Collection))
		v.Refresh(context.Background())
	})
	return v
}

// Refresh re-reads all collections and recomputes the derived state
func (v *SummaryView) Refresh(ctx context.Context) {
	models := v.store.LoadModels(ctx)
	dealers := v.store.LoadDealers(ctx)
	customers := v.store.LoadCustomers(ctx)

	now := time.Now()
	summary := Summary{
		TotalTurnover: TotalTurnover(customers),
		TotalProfit:   TotalProfit(customers),
		MonthProfit:   MonthlyProfit(customers, now.Year(), now.Month()),
		ModelCount:    len(models),
		DealerCount:   len(dealers),
		CustomerCount: len(customers),
		RefreshedAt:   now,
	}
	trend := MonthlyTrend(customers)
	distribution := DistributionByModel(customers, models)

	v.mu.Lock()
	v.summary = summary
	v.trend = trend
	v.distribution = distribution
	v.mu.Unlock()

	prometheus.UpdateDashboardGauges(summary.TotalTurnover, summary.TotalProfit, summary.CustomerCount)
}

// Summary returns the last computed headline block
func (v *SummaryView) Summary() Summary {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.summary
}

// Trend returns the last computed monthly trend series
func (v *SummaryView) Trend() []TrendPoint {
	v.mu.RLock()
	defer v.mu.RUnlock()
	trend := make([]TrendPoint, len(v.trend))
	copy(trend, v.trend)
	return trend
}

// Distribution returns the last computed per-model distribution
func (v *SummaryView) Distribution() []ModelCount {
	v.mu.RLock()
	defer v.mu.RUnlock()
	distribution := make([]ModelCount, len(v.distribution))
	copy(distribution, v.distribution)
	return distribution
}
