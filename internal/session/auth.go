package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-app/internal/repo"
)

const (
	MinPasswordLength = 6
	placeholderPhoto  = "https://via.placeholder.com/150"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
}

// Authenticate - локальная mock-проверка учетных данных: реального backend'а нет,
// пользователь создается из email.
func Authenticate(email, password string, now time.Time) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return User{}, fmt.Errorf("%w: email and password are required", ErrInvalidCredentials)
	}
	if len(password) < MinPasswordLength {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidCredentials, MinPasswordLength)
	}

	name, _, _ := strings.Cut(email, "@")
	return User{
		ID:    fmt.Sprintf("user-%d", now.UnixMilli()),
		Name:  name,
		Email: email,
		Photo: placeholderPhoto,
	}, nil
}

// MockAuth - сессия одного устройства. Текущий пользователь хранится
// в том же KV-хранилище, что и задачи.
type MockAuth struct {
	kv      repo.KVStore
	key     string
	logger  *zap.Logger
	now     func() time.Time
	user    *User
	loading bool
}

func NewMockAuth(kv repo.KVStore, key string, logger *zap.Logger) *MockAuth {
	return &MockAuth{
		kv:      kv,
		key:     key,
		logger:  logger,
		now:     time.Now,
		loading: true,
	}
}

// Restore поднимает сохраненного пользователя. Ошибка логируется и возвращается,
// сессия при этом остается пустой, но перестает быть "loading".
func (a *MockAuth) Restore(ctx context.Context) error {
	defer func() { a.loading = false }()

	data, found, err := a.kv.Get(ctx, a.key)
	if err != nil {
		a.logger.Error("failed to restore session", zap.Error(err))
		return fmt.Errorf("%w: %w", repo.ErrStorage, err)
	}
	if !found {
		return nil
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil || u.ID == "" {
		a.logger.Error("stored session is malformed", zap.Error(err))
		return fmt.Errorf("%w: stored user", repo.ErrDecode)
	}
	a.user = &u
	return nil
}

func (a *MockAuth) SignIn(ctx context.Context, email, password string) (User, error) {
	a.loading = true
	defer func() { a.loading = false }()

	u, err := Authenticate(email, password, a.now())
	if err != nil {
		return User{}, err
	}

	data, err := json.Marshal(u)
	if err != nil {
		return User{}, err
	}
	a.user = &u
	if err := a.kv.Set(ctx, a.key, data); err != nil {
		a.logger.Error("failed to persist session", zap.String("user_id", u.ID), zap.Error(err))
		return u, fmt.Errorf("%w: %w", repo.ErrStorage, err)
	}

	a.logger.Info("signed in", zap.String("user_id", u.ID))
	return u, nil
}

func (a *MockAuth) SignOut(ctx context.Context) error {
	a.loading = true
	defer func() { a.loading = false }()

	a.user = nil
	if err := a.kv.Delete(ctx, a.key); err != nil {
		a.logger.Error("failed to clear session", zap.Error(err))
		return fmt.Errorf("%w: %w", repo.ErrStorage, err)
	}
	return nil
}

func (a *MockAuth) CurrentUser() (User, bool) {
	if a.user == nil {
		return User{}, false
	}
	return *a.user, true
}

func (a *MockAuth) CurrentUserID() (string, bool) {
	if a.user == nil {
		return "", false
	}
	return a.user.ID, true
}

func (a *MockAuth) IsSessionLoading() bool {
	return a.loading
}
