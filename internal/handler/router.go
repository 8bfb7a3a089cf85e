package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(todos *TodoHandler, auth *AuthHandler) http.Handler {
	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Post("/api/auth/signin", auth.SignIn)
	r.Post("/api/auth/signout", auth.SignOut)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Get("/api/me", auth.Me)
		r.Route("/api/todos", func(r chi.Router) {
			r.Get("/", todos.List)
			r.Post("/", todos.Create)
			r.Get("/completed", todos.Completed)
			r.Patch("/{id}/toggle", todos.Toggle)
			r.Delete("/{id}", todos.Delete)
		})
		r.Get("/api/stats", todos.Stats)
	})

	return r
}
