package repo

import (
	"context"
	"fmt"

	"github.com/BuzzLyutic/todo-app/internal/model"
)

const keyPrefix = "todos_"

// Key возвращает ключ хранилища для коллекции пользователя
func Key(userID string) string {
	return keyPrefix + userID
}

type TaskRepo struct { // Репозиторий коллекций поверх KV-хранилища
	kv KVStore
}

func NewTaskRepo(kv KVStore) *TaskRepo { // Конструктор
	return &TaskRepo{
		kv: kv,
	}
}

// Load возвращает пустую коллекцию, если для пользователя еще ничего не сохранено.
func (r *TaskRepo) Load(ctx context.Context, userID string) (model.Collection, error) {
	data, found, err := r.kv.Get(ctx, Key(userID))
	if err != nil {
		return model.Collection{}, fmt.Errorf("%w: get %s: %w", ErrStorage, Key(userID), err)
	}
	if !found {
		return model.Collection{}, nil
	}

	c, err := Decode(data)
	if err != nil {
		return model.Collection{}, fmt.Errorf("load %s: %w", Key(userID), err)
	}
	return c, nil
}

// Save перезаписывает коллекцию целиком
func (r *TaskRepo) Save(ctx context.Context, userID string, c model.Collection) error {
	data, err := Encode(c)
	if err != nil {
		return fmt.Errorf("encode %s: %w", Key(userID), err)
	}
	if err := r.kv.Set(ctx, Key(userID), data); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrStorage, Key(userID), err)
	}
	return nil
}
