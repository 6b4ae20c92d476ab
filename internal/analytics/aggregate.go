// Package analytics folds the customer collection into the dashboard
// figures. Every function is pure: same input, same output, no caching.
// Cost is linear in customer count, which stays in the hundreds here.
package analytics

import (
	"sort"
	"time"

	"ledger-service/internal/model"
)

// TrendPoint is one month of the trend series. Month is a "YYYY-MM" key in
// local time; months with no customers produce no point at all.
type TrendPoint struct {
	Month  string  `json:"month"`
	Profit float64 `json:"profit"`
	Count  int     `json:"count"`
}

// ModelCount is one slice of the per-model sales distribution.
type ModelCount struct {
	ModelName string `json:"model_name"`
	Count     int    `json:"count"`
}

// TotalTurnover sums the stored selling price over all customers
func TotalTurnover(customers []model.Customer) float64 {
	var total float64
	for i := range customers {
		total += customers[i].SellingPrice
	}
	return total
}

// TotalProfit sums the stored profit over all customers
func TotalProfit(customers []model.Customer) float64 {
	var total float64
	for i := range customers {
		total += customers[i].Profit
	}
	return total
}

// MonthlyProfit sums profit over customers recorded in the given calendar
// month, local time zone.
func MonthlyProfit(customers []model.Customer, year int, month time.Month) float64 {
	var total float64
	for i := range customers {
		created := customers[i].CreatedAt.Local()
		if created.Year() == year && created.Month() == month {
			total += customers[i].Profit
		}
	}
	return total
}

// MonthlyTrend groups customers by creation month and returns profit and
// count per month, sorted ascending by month key. The series is sparse.
func MonthlyTrend(customers []model.Customer) []TrendPoint {
	byMonth := make(map[string]*TrendPoint)
	for i := range customers {
		key := customers[i].CreatedAt.Local().Format("2006-01")
		point, ok := byMonth[key]
		if !ok {
			point = &TrendPoint{Month: key}
			byMonth[key] = point
		}
		point.Profit += customers[i].Profit
		point.Count++
	}

	trend := make([]TrendPoint, 0, len(byMonth))
	for _, point := range byMonth {
		trend = append(trend, *point)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Month < trend[j].Month })
	return trend
}

// DistributionByModel counts customers per resolved model name. Customers
// whose model no longer exists are grouped under the "Unknown" sentinel.
// Groups are sorted by descending count, then name for a stable order.
func DistributionByModel(customers []model.Customer, models []model.Model) []ModelCount {
	counts := make(map[string]int)
	for i := range customers {
		name := model.UnknownModelName
		if m := model.FindModel(models, customers[i].ModelID); m != nil {
			name = m.Name
		}
		counts[name]++
	}

	distribution := make([]ModelCount, 0, len(counts))
	for name, count := range counts {
		distribution = append(distribution, ModelCount{ModelName: name, Count: count})
	}
	sort.Slice(distribution, func(i, j int) bool {
		if distribution[i].Count != distribution[j].Count {
			return distribution[i].Count > distribution[j].Count
		}
		return distribution[i].ModelName < distribution[j].ModelName
	})
	return distribution
}
