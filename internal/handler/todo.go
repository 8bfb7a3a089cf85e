package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-app/internal/model"
	"github.com/BuzzLyutic/todo-app/internal/repo"
	"github.com/BuzzLyutic/todo-app/internal/service"
	"github.com/BuzzLyutic/todo-app/internal/session"
	"github.com/BuzzLyutic/todo-app/internal/view"
	"github.com/BuzzLyutic/todo-app/pkg/respond"
)

type TodoHandler struct {
	service *service.TaskService
	logger  *zap.Logger
	now     func() time.Time
}

func NewTodoHandler(srv *service.TaskService, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{
		service: srv,
		logger:  logger,
		now:     time.Now,
	}
}

type listResponse struct {
	Todos    model.Collection `json:"todos"`
	Progress view.Summary     `json:"progress"`
	Warning  string           `json:"warning,omitempty"`
}

type statsResponse struct {
	Statistics view.Statistics `json:"statistics"`
	Progress   view.Summary    `json:"progress"`
	Warning    string          `json:"warning,omitempty"`
}

// todoList строит список намерений для пользователя из токена и загружает коллекцию
func (h *TodoHandler) todoList(r *http.Request) (*service.TodoList, model.Collection, error) {
	claims, _ := ClaimsFrom(r.Context())
	list := service.NewTodoList(h.service, session.Static{UserID: claims.UserID})
	c, err := list.Refresh(r.Context())
	return list, c, err
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	_, c, err := h.todoList(r)

	resp := listResponse{Todos: view.SortedActive(c), Progress: view.Summarize(c)}
	if err != nil { // Деградация: пустой список + предупреждение
		resp.Warning = err.Error()
	}
	respond.JSON(w, r, http.StatusOK, resp)
}

func (h *TodoHandler) Completed(w http.ResponseWriter, r *http.Request) {
	_, c, err := h.todoList(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, view.SortedCompleted(c))
}

func (h *TodoHandler) Stats(w http.ResponseWriter, r *http.Request) {
	_, c, err := h.todoList(r)

	resp := statsResponse{
		Statistics: view.ComputeStatistics(c, h.now()),
		Progress:   view.Summarize(c),
	}
	if err != nil {
		resp.Warning = err.Error()
	}
	respond.JSON(w, r, http.StatusOK, resp)
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var draft model.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	// Мутация поверх неудачной загрузки перезаписала бы данные
	list, _, err := h.todoList(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	c, err := list.AddTodo(r.Context(), draft)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/todos/%s", c[0].ID))
	respond.JSON(w, r, http.StatusCreated, view.SortedActive(c))
}

func (h *TodoHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	list, _, err := h.todoList(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	c, err := list.ToggleTodo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, view.SortedActive(c))
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	list, _, err := h.todoList(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	c, err := list.DeleteTodo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, view.SortedActive(c))
}

func (h *TodoHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		respond.Error(w, r, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, service.ErrNoSession), errors.Is(err, service.ErrSessionLoading):
		respond.Error(w, r, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, repo.ErrDecode):
		h.logger.Error("stored todos are corrupt", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "stored todos are corrupt")
	case errors.Is(err, repo.ErrStorage):
		h.logger.Error("storage error", zap.Error(err))
		respond.Error(w, r, http.StatusServiceUnavailable, "storage unavailable")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
