package routers

import (
	"net/http"

	"pocketsplit/internal/api/handlers/notifications"
)

func notificationsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/notifications/list", notifications.ListNotificationsHandler)
	mux.HandleFunc("/notifications/readall", notifications.MarkAllReadHandler)
	mux.HandleFunc("/notifications/{id}/read", notifications.MarkReadHandler)

	return mux
}
