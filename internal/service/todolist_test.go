package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-app/internal/model"
	"github.com/BuzzLyutic/todo-app/internal/repo"
	"github.com/BuzzLyutic/todo-app/internal/session"
)

type loadingSession struct{}

func (loadingSession) CurrentUserID() (string, bool) { return "u1", true }
func (loadingSession) IsSessionLoading() bool       { return true }

// flakyKV позволяет включать отказ записи
type flakyKV struct {
	*repo.MemoryKV
	failSet bool
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.MemoryKV.Set(ctx, key, value)
}

func TestTodoList_Workflow(t *testing.T) {
	kv := repo.NewMemoryKV()
	store := NewTaskService(repo.NewTaskRepo(kv), zap.NewNop())
	list := NewTodoList(store, session.Static{UserID: "u1"})
	ctx := context.Background()

	c, err := list.Refresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, c)

	c, err = list.AddTodo(ctx, model.Draft{Text: "First"})
	require.NoError(t, err)
	c, err = list.AddTodo(ctx, model.Draft{Text: "Second", Priority: model.PriorityHigh})
	require.NoError(t, err)
	require.Len(t, c, 2)
	assert.Equal(t, "Second", c[0].Text, "newest first")

	c, err = list.ToggleTodo(ctx, c[1].ID)
	require.NoError(t, err)
	assert.True(t, c[1].Completed)

	// Другой клиент той же сессии видит сохраненное состояние
	other := NewTodoList(store, session.Static{UserID: "u1"})
	reloaded, err := other.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids(c), ids(reloaded))
	assert.True(t, reloaded[1].Completed)

	c, err = list.DeleteTodo(ctx, c[0].ID)
	require.NoError(t, err)
	assert.Len(t, c, 1)
	assert.Equal(t, c, list.Todos())
}

func TestTodoList_SessionRequired(t *testing.T) {
	store := NewTaskService(repo.NewTaskRepo(repo.NewMemoryKV()), zap.NewNop())
	ctx := context.Background()

	_, err := NewTodoList(store, session.Static{}).AddTodo(ctx, model.Draft{Text: "x"})
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = NewTodoList(store, loadingSession{}).Refresh(ctx)
	assert.ErrorIs(t, err, ErrSessionLoading)
}

func TestTodoList_OptimisticOnPersistFailure(t *testing.T) {
	kv := &flakyKV{MemoryKV: repo.NewMemoryKV()}
	store := NewTaskService(repo.NewTaskRepo(kv), zap.NewNop())
	list := NewTodoList(store, session.Static{UserID: "u1"})
	ctx := context.Background()

	kv.failSet = true
	c, err := list.AddTodo(ctx, model.Draft{Text: "Unsaved"})

	assert.ErrorIs(t, err, repo.ErrStorage)
	assert.Len(t, c, 1)
	assert.Len(t, list.Todos(), 1, "in-memory state stays updated")

	kv.failSet = false
	c, err = list.Refresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, c, "nothing reached storage")
}

func TestTodoList_RefreshCorrupt(t *testing.T) {
	kv := repo.NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), repo.Key("u1"), []byte("garbage")))
	store := NewTaskService(repo.NewTaskRepo(kv), zap.NewNop())
	list := NewTodoList(store, session.Static{UserID: "u1"})

	c, err := list.Refresh(context.Background())
	assert.ErrorIs(t, err, repo.ErrDecode)
	assert.NotNil(t, c)
	assert.Empty(t, c)
}
