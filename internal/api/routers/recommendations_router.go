package routers

import (
	"net/http"

	"pocketsplit/internal/api/handlers/recommendations"
)

func recommendationsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/recommendations/list", recommendations.GetRecommendationsHandler)
	mux.HandleFunc("/recommendations/{id}/dismiss", recommendations.DismissRecommendationHandler)

	return mux
}
