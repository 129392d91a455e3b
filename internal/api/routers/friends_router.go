package routers

import (
	"net/http"

	"pocketsplit/internal/api/handlers/friends"
)

func friendsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/friends/request", friends.RequestFriendHandler)
	mux.HandleFunc("/friends/accept/{token}", friends.AcceptFriendHandler)

	mux.HandleFunc("/friends/list", friends.ListFriendsHandler)
	mux.HandleFunc("/friends/{id}/remove", friends.RemoveFriendHandler)

	return mux
}
