package routers

import (
	"net/http"

	"pocketsplit/internal/api/handlers/debts"
)

func debtsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/debts/create", debts.CreateDebtHandler)
	mux.HandleFunc("/debts/list", debts.ListDebtsHandler)

	mux.HandleFunc("/debts/{id}/update", debts.UpdateDebtHandler)
	mux.HandleFunc("/debts/{id}/paid", debts.MarkPaidHandler)
	mux.HandleFunc("/debts/{id}/confirm", debts.ConfirmReceivedHandler)
	mux.HandleFunc("/debts/{id}/cancel", debts.CancelDebtHandler)
	mux.HandleFunc("/debts/{id}/dispute", debts.DisputeDebtHandler)

	return mux
}
