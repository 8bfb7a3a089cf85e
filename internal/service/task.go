package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-app/internal/model"
	"github.com/BuzzLyutic/todo-app/internal/repo"
)

// TaskService владеет коллекцией задач активного пользователя и держит
// хранилище в соответствии с памятью после каждой мутации.
// Входная коллекция никогда не изменяется: методы возвращают новую.
type TaskService struct {
	repo   repo.TaskRepository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewTaskService(repo repo.TaskRepository, logger *zap.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Load при ошибке хранилища или формата возвращает пустую коллекцию вместе с ошибкой.
func (s *TaskService) Load(ctx context.Context, userID string) (model.Collection, error) {
	if userID == "" {
		return model.Collection{}, ErrNoSession
	}

	c, err := s.repo.Load(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load todos", zap.String("user_id", userID), zap.Error(err))
		return model.Collection{}, err
	}
	if c == nil {
		c = model.Collection{}
	}
	return c, nil
}

// Add валидирует черновик до любых изменений. Новая задача добавляется в начало.
func (s *TaskService) Add(ctx context.Context, userID string, c model.Collection, d model.Draft) (model.Collection, error) {
	if userID == "" {
		return c, ErrNoSession
	}

	d, err := normalize(d) // Валидация до мутации
	if err != nil {
		return c, err
	}

	task := model.Task{
		ID:        s.newID(),
		Text:      d.Text,
		Completed: false,
		Priority:  d.Priority,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	updated := make(model.Collection, 0, len(c)+1)
	updated = append(updated, task)
	updated = append(updated, c...)

	return updated, s.Persist(ctx, userID, updated)
}

// Toggle с неизвестным id ничего не делает и ничего не пишет.
func (s *TaskService) Toggle(ctx context.Context, userID string, c model.Collection, id string) (model.Collection, error) {
	if userID == "" {
		return c, ErrNoSession
	}

	i := c.Index(id)
	if i < 0 {
		return c, nil
	}

	updated := c.Clone()
	updated[i].Completed = !updated[i].Completed

	return updated, s.Persist(ctx, userID, updated)
}

// Remove с неизвестным id ничего не делает и ничего не пишет.
func (s *TaskService) Remove(ctx context.Context, userID string, c model.Collection, id string) (model.Collection, error) {
	if userID == "" {
		return c, ErrNoSession
	}

	i := c.Index(id)
	if i < 0 {
		return c, nil
	}

	updated := make(model.Collection, 0, len(c)-1)
	updated = append(updated, c[:i]...)
	updated = append(updated, c[i+1:]...)

	return updated, s.Persist(ctx, userID, updated)
}

// Persist перезаписывает всю коллекцию пользователя
func (s *TaskService) Persist(ctx context.Context, userID string, c model.Collection) error {
	if userID == "" {
		return ErrNoSession
	}

	if err := s.repo.Save(ctx, userID, c); err != nil {
		s.logger.Error("failed to save todos",
			zap.String("user_id", userID),
			zap.Int("count", len(c)),
			zap.Error(err),
		)
		return err
	}
	return nil
}
