package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-app/internal/session"
	"github.com/BuzzLyutic/todo-app/pkg/respond"
)

type ctxKey struct{}

// ClaimsFrom достает claims, положенные middleware'ом RequireAuth
func ClaimsFrom(ctx context.Context) (*session.Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*session.Claims)
	if !ok {
		return &session.Claims{}, false
	}
	return c, true
}

type AuthHandler struct {
	tokens *session.Tokens
	logger *zap.Logger
	now    func() time.Time
}

func NewAuthHandler(tokens *session.Tokens, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, logger: logger, now: time.Now}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	u, err := session.Authenticate(req.Email, req.Password, h.now())
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.tokens.Issue(u)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	h.logger.Info("signed in", zap.String("user_id", u.ID))
	respond.JSON(w, r, http.StatusOK, signInResponse{Token: token, User: u})
}

// SignOut ничего не хранит: токены stateless, клиент просто его забывает
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	respond.JSON(w, r, http.StatusOK, claims.User())
}

// RequireAuth проверяет Bearer-токен и кладет claims в контекст
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respond.Error(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := h.tokens.Verify(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, session.ErrExpiredToken) {
				msg = "token has expired"
			}
			respond.Error(w, r, http.StatusUnauthorized, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
	})
}
