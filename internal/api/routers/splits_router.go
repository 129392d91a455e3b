package routers

import (
	"net/http"

	"pocketsplit/internal/api/handlers/splits"
)

func splitsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/splits/create", splits.CreateSplitHandler)
	mux.HandleFunc("/splits/list", splits.ListSplitsHandler)

	mux.HandleFunc("/splits/{id}/details", splits.GetSplitHandler)
	mux.HandleFunc("/splits/{id}/settle", splits.SettleSplitHandler)
	mux.HandleFunc("/splits/{id}/cancel", splits.CancelSplitHandler)

	return mux
}
