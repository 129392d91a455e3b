package routers

import (
	"net/http"

	"pocketsplit/internal/api/handlers/budgets"
)

func budgetsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/budgets/create", budgets.CreateBudgetHandler)
	mux.HandleFunc("/budgets/list", budgets.ListBudgetsHandler)

	mux.HandleFunc("/budgets/{id}/details", budgets.GetBudgetHandler)
	mux.HandleFunc("/budgets/{id}/update", budgets.UpdateBudgetHandler)
	mux.HandleFunc("/budgets/{id}/delete", budgets.DeleteBudgetHandler)

	return mux
}
