package routers

import (
	"net/http"

	"pocketsplit/internal/api/handlers/expenses"
)

func expensesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/expenses/add", expenses.AddExpenseHandler)
	mux.HandleFunc("/expenses/bulk", expenses.BulkAddExpensesHandler)
	mux.HandleFunc("/expenses/list", expenses.ListExpensesHandler)
	mux.HandleFunc("/expenses/categories", expenses.ListCategoriesHandler)
	mux.HandleFunc("/expenses/export", expenses.ExportExpensesHandler)

	mux.HandleFunc("/expenses/{id}/details", expenses.GetExpenseHandler)
	mux.HandleFunc("/expenses/{id}/update", expenses.UpdateExpenseHandler)
	mux.HandleFunc("/expenses/{id}/delete", expenses.DeleteExpenseHandler)

	return mux
}
