package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-app/internal/config"
	"github.com/BuzzLyutic/todo-app/internal/handler"
	"github.com/BuzzLyutic/todo-app/internal/repo"
	"github.com/BuzzLyutic/todo-app/internal/service"
	"github.com/BuzzLyutic/todo-app/internal/session"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключаем хранилище
	kv, closeKV, err := repo.OpenKV(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.String("backend", cfg.StorageBackend), zap.Error(err)) // Fatal потому что дальнейшая работа теряет смысл
	}
	defer closeKV()
	logger.Info("Storage is ready", zap.String("backend", cfg.StorageBackend))

	taskService := service.NewTaskService(repo.NewTaskRepo(kv), logger)
	todoHandler := handler.NewTodoHandler(taskService, logger)
	authHandler := handler.NewAuthHandler(session.NewTokens(cfg.JWTSecret, cfg.TokenTTL), logger)

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(todoHandler, authHandler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped successfully")
}
