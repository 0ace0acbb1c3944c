package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ag3-team/ag3-api/internal/http/handler"
	"github.com/ag3-team/ag3-api/internal/middleware"
)

type Handlers struct {
	Posts     *handler.PostHandler
	Users     *handler.UserHandler
	Bookmarks *handler.BookmarkHandler
	Auth      *handler.AuthHandler
}

// NewRouter wires the API routes. Routes that act on behalf of a user go
// through auth; the login and sign-up routes go through limiter when it is
// not nil.
func NewRouter(h Handlers, auth *middleware.Auth, limiter *middleware.RateLimiter) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	protect := func(fn http.HandlerFunc) http.Handler { return auth.Require(fn) }
	throttle := func(fn http.HandlerFunc) http.Handler {
		if limiter == nil {
			return fn
		}
		return limiter.Middleware(fn)
	}

	// Health check stays unauthenticated for load balancer probes
	r.Handle("/health", handler.NewHealthHandler()).Methods(http.MethodGet)

	r.HandleFunc("/posts", h.Posts.List).Methods(http.MethodGet)
	r.Handle("/posts", protect(h.Posts.Create)).Methods(http.MethodPost)
	r.HandleFunc("/posts/{postId}", h.Posts.Detail).Methods(http.MethodGet)
	r.Handle("/posts/{postId}", protect(h.Posts.Update)).Methods(http.MethodPut)
	r.Handle("/posts/{postId}", protect(h.Posts.Delete)).Methods(http.MethodDelete)

	r.Handle("/auth/logout", throttle(h.Auth.Logout)).Methods(http.MethodPost)
	r.Handle("/auth/{provider}", throttle(h.Auth.Login)).Methods(http.MethodGet)
	r.Handle("/auth/{provider}/callback", throttle(h.Auth.Callback)).Methods(http.MethodGet)

	r.Handle("/users", throttle(h.Auth.Register)).Methods(http.MethodPost)
	r.Handle("/users/me", protect(h.Users.Me)).Methods(http.MethodGet)
	r.Handle("/users/me", protect(h.Users.UpdateMe)).Methods(http.MethodPut)
	r.HandleFunc("/users/nickname/{nickname}", h.Users.CheckNickname).Methods(http.MethodGet)
	r.Handle("/users/bookmarks", protect(h.Bookmarks.List)).Methods(http.MethodGet)
	r.Handle("/users/bookmarks/{postId}", protect(h.Bookmarks.Add)).Methods(http.MethodPost)
	r.Handle("/users/bookmarks/{postId}", protect(h.Bookmarks.Remove)).Methods(http.MethodDelete)

	return r
}
