package service

import (
	"context"

	"github.com/BuzzLyutic/todo-app/internal/model"
	"github.com/BuzzLyutic/todo-app/internal/session"
)

// TodoList - намерения пользователя (add/toggle/delete/refresh) для одной сессии.
// Хранит текущую коллекцию; после неудачной записи состояние в памяти остается обновленным.
type TodoList struct {
	store   *TaskService
	session session.Provider
	todos   model.Collection
}

func NewTodoList(store *TaskService, sess session.Provider) *TodoList {
	return &TodoList{
		store:   store,
		session: sess,
		todos:   model.Collection{},
	}
}

func (l *TodoList) Todos() model.Collection {
	return l.todos
}

func (l *TodoList) userID() (string, error) {
	if l.session.IsSessionLoading() {
		return "", ErrSessionLoading
	}
	id, ok := l.session.CurrentUserID()
	if !ok || id == "" {
		return "", ErrNoSession
	}
	return id, nil
}

func (l *TodoList) Refresh(ctx context.Context) (model.Collection, error) {
	userID, err := l.userID()
	if err != nil {
		return l.todos, err
	}

	c, err := l.store.Load(ctx, userID)
	l.todos = c
	return c, err
}

func (l *TodoList) AddTodo(ctx context.Context, d model.Draft) (model.Collection, error) {
	userID, err := l.userID()
	if err != nil {
		return l.todos, err
	}

	c, err := l.store.Add(ctx, userID, l.todos, d)
	l.todos = c
	return c, err
}

func (l *TodoList) ToggleTodo(ctx context.Context, id string) (model.Collection, error) {
	userID, err := l.userID()
	if err != nil {
		return l.todos, err
	}

	c, err := l.store.Toggle(ctx, userID, l.todos, id)
	l.todos = c
	return c, err
}

func (l *TodoList) DeleteTodo(ctx context.Context, id string) (model.Collection, error) {
	userID, err := l.userID()
	if err != nil {
		return l.todos, err
	}

	c, err := l.store.Remove(ctx, userID, l.todos, id)
	l.todos = c
	return c, err
}
