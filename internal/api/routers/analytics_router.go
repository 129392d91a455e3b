package routers

import (
	"net/http"

	"pocketsplit/internal/api/handlers/analytics"
)

func analyticsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/analytics/summary", analytics.SummaryHandler)
	mux.HandleFunc("/analytics/trends", analytics.TrendsHandler)
	mux.HandleFunc("/analytics/budget-comparison", analytics.BudgetComparisonHandler)

	return mux
}
