// Package cli is the terminal client: a single signed-in user whose session
// and tasks live in an on-device store.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-app/internal/config"
	"github.com/BuzzLyutic/todo-app/internal/repo"
	"github.com/BuzzLyutic/todo-app/internal/service"
	"github.com/BuzzLyutic/todo-app/internal/session"
)

type options struct {
	storage string
	dbPath  string
	verbose bool
}

// app holds everything a command needs once the session is restored.
type app struct {
	logger  *zap.Logger
	auth    *session.MockAuth
	todos   *service.TodoList
	closeFn func()
}

// NewRootCommand builds the todo command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	a := &app{}

	root := &cobra.Command{
		Use:           "todo",
		Short:         "Personal to-do list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd, opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVar(&opts.storage, "storage", "", "storage backend: sqlite, memory, redis, postgres (default $STORAGE_BACKEND or sqlite)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "sqlite database path (default $SQLITE_PATH)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSignInCommand(a),
		newSignOutCommand(a),
		newWhoAmICommand(a),
		newAddCommand(a),
		newListCommand(a),
		newCompletedCommand(a),
		newToggleCommand(a),
		newRemoveCommand(a),
		newStatsCommand(a),
	)
	return root
}

func (a *app) open(cmd *cobra.Command, opts *options) error {
	cfg := config.Load()
	switch {
	case opts.storage != "":
		cfg.StorageBackend = opts.storage
	case os.Getenv("STORAGE_BACKEND") == "":
		cfg.StorageBackend = "sqlite"
	}
	if opts.dbPath != "" {
		cfg.SQLitePath = opts.dbPath
	}

	a.logger = zap.NewNop()
	if opts.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		a.logger = logger
	}

	kv, closeFn, err := repo.OpenKV(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.closeFn = closeFn

	a.auth = session.NewMockAuth(kv, cfg.SessionKey, a.logger)
	if err := a.auth.Restore(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not restore session: %v\n", err)
	}

	store := service.NewTaskService(repo.NewTaskRepo(kv), a.logger)
	a.todos = service.NewTodoList(store, a.auth)
	return nil
}

func (a *app) close() {
	if a.closeFn != nil {
		a.closeFn()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
