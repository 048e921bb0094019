package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/khrees2412/jobportal/internal/app"
	"github.com/khrees2412/jobportal/internal/dashboard"
	"github.com/khrees2412/jobportal/internal/session"
	"github.com/khrees2412/jobportal/pkg/models"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobportal",
	Short: "Terminal client for the academic job portal",
	Long: `jobportal is a terminal client for the academic job portal.
Candidates browse jobs matched to their qualification and apply; administrators
post jobs, review applications and manage admin accounts.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize app with all dependencies
		application, err := app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		// Store app in command context
		cmd.SetContext(app.SetAppInContext(cmd.Context(), application))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if a := app.GetAppFromContext(cmd.Context()); a != nil {
			return a.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetOut(os.Stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		stop()
		os.Exit(1)
	}
}

func appFrom(cmd *cobra.Command) (*app.App, error) {
	a := app.GetAppFromContext(cmd.Context())
	if a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return a, nil
}

// requireSession restores the stored session and checks it holds role.
// An empty role accepts either.
func requireSession(cmd *cobra.Command, role models.Role) (*app.App, session.Session, error) {
	a, err := appFrom(cmd)
	if err != nil {
		return nil, session.Session{}, err
	}
	sess, ok, err := a.Sessions.Load(cmd.Context())
	if err != nil {
		return nil, session.Session{}, fmt.Errorf("failed to restore session: %w", err)
	}
	if !ok {
		return nil, session.Session{}, fmt.Errorf("%w: run 'jobportal login' first", app.ErrNoSession)
	}
	if role != "" && sess.Role != role {
		return nil, session.Session{}, fmt.Errorf("%w: this command needs a %s login", app.ErrForbidden, role)
	}
	return a, sess, nil
}

func controllerOptions(a *app.App) dashboard.Options {
	return dashboard.Options{
		Interval: a.Config.PollInterval,
		Recorder: a.Repo,
		Logger:   a.Logger,
	}
}

// loadDashboard builds the role's controller and runs one fetch so one-shot
// commands can read a complete view.
func loadDashboard(cmd *cobra.Command, role models.Role) (*app.App, *dashboard.Controller, error) {
	a, sess, err := requireSession(cmd, role)
	if err != nil {
		return nil, nil, err
	}
	c := dashboard.New(sess, a.Gateway, controllerOptions(a))
	if err := c.Refresh(cmd.Context()); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%s (%w)", dashboard.ConnectivityMessage, err)
	}
	return a, c, nil
}
