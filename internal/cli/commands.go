package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/todo-app/internal/model"
	"github.com/BuzzLyutic/todo-app/internal/service"
	"github.com/BuzzLyutic/todo-app/internal/view"
)

var errNotSignedIn = errors.New("not signed in: run `todo signin` first")

func newSignInCommand(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.auth.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Hello, %s\n", u.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func newSignOutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.auth.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoAmICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, ok := a.auth.CurrentUser()
			if !ok {
				return errNotSignedIn
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", u.Name, u.Email, u.ID)
			return nil
		},
	}
}

func newAddCommand(a *app) *cobra.Command {
	var priority string

	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.refresh(cmd); err != nil {
				return err
			}
			draft := model.Draft{Text: strings.Join(args, " "), Priority: model.Priority(priority)}
			c, err := a.todos.AddTodo(cmd.Context(), draft)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", c[0].ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", string(model.PriorityMedium), "low, medium or high")
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks, open first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.refresh(cmd); err != nil {
				return err
			}
			c := a.todos.Todos()
			out := cmd.OutOrStdout()
			if len(c) == 0 {
				fmt.Fprintln(out, "No todos yet")
				return nil
			}
			for _, t := range view.SortedActive(c) {
				printTask(out, t)
			}
			s := view.Summarize(c)
			fmt.Fprintf(out, "%d of %d completed (%d%%)\n", s.Completed, s.Total, s.Rounded)
			return nil
		},
	}
}

func newCompletedCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "completed",
		Short: "List completed tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.refresh(cmd); err != nil {
				return err
			}
			done := view.SortedCompleted(a.todos.Todos())
			out := cmd.OutOrStdout()
			if len(done) == 0 {
				fmt.Fprintln(out, "No completed tasks")
				return nil
			}
			for _, t := range done {
				printTask(out, t)
			}
			return nil
		},
	}
}

func newToggleCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Mark a task done or not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.refresh(cmd); err != nil {
				return err
			}
			c, err := a.todos.ToggleTodo(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			if i := c.Index(args[0]); i >= 0 {
				printTask(cmd.OutOrStdout(), c[i])
			}
			return nil
		},
	}
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.refresh(cmd); err != nil {
				return err
			}
			if _, err := a.todos.DeleteTodo(cmd.Context(), args[0]); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.refresh(cmd); err != nil {
				return err
			}
			s := view.ComputeStatistics(a.todos.Todos(), time.Now())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Today:      %d\n", s.CompletedToday)
			fmt.Fprintf(out, "This week:  %d\n", s.CompletedThisWeek)
			fmt.Fprintf(out, "This month: %d\n", s.CompletedThisMonth)
			fmt.Fprintf(out, "Total:      %d\n", s.CompletedTotal)
			return nil
		},
	}
}

// refresh загружает коллекцию. Ошибка формата/хранилища печатается как
// предупреждение, но только для чтения: мутации поверх нее запрещены.
func (a *app) refresh(cmd *cobra.Command) error {
	_, err := a.todos.Refresh(cmd.Context())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrNoSession), errors.Is(err, service.ErrSessionLoading):
		return errNotSignedIn
	case cmd.Name() == "list" || cmd.Name() == "completed" || cmd.Name() == "stats":
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		return nil
	}
	return err
}

func explain(err error) error {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		switch vErr.Rule {
		case service.RuleTextRequired:
			return errors.New("task text is required")
		case service.RuleTextTooLong:
			return fmt.Errorf("task text must be at most %d characters", service.MaxTextLength)
		case service.RulePriorityInvalid:
			return errors.New("priority must be low, medium or high")
		}
	}
	return err
}

func printTask(w io.Writer, t model.Task) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "[%s] %s  %-6s  %s  %s\n", mark, t.ID, t.Priority, t.CreatedAt.Local().Format("2006-01-02"), t.Text)
}
