package repo

import (
	"context"

	"github.com/BuzzLyutic/todo-app/internal/model"
)

// TaskRepository загружает и сохраняет коллекцию задач пользователя целиком
type TaskRepository interface {
	Load(ctx context.Context, userID string) (model.Collection, error)
	Save(ctx context.Context, userID string, c model.Collection) error
}

// KVStore - байтовое key-value хранилище, на котором живут коллекции и сессия.
// Get возвращает found=false, если ключа нет.
type KVStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
