package routers

import (
	"net/http"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	uRouter := usersRouter()
	mux.Handle("/users/", uRouter)

	fRouter := friendsRouter()
	mux.Handle("/friends/", fRouter)

	sRouter := splitsRouter()
	mux.Handle("/splits/", sRouter)

	dRouter := debtsRouter()
	mux.Handle("/debts/", dRouter)

	eRouter := expensesRouter()
	mux.Handle("/expenses/", eRouter)

	bRouter := budgetsRouter()
	mux.Handle("/budgets/", bRouter)

	aRouter := analyticsRouter()
	mux.Handle("/analytics/", aRouter)

	nRouter := notificationsRouter()
	mux.Handle("/notifications/", nRouter)

	rRouter := recommendationsRouter()
	mux.Handle("/recommendations/", rRouter)

	return mux
}
