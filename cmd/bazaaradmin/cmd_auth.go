package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"bazaaradmin/internal/api"
)

// loginCmd authenticates against the backend and stores the session
// token in the config file.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store the session token",
	RunE:  runLogin,
}

// logoutCmd drops the stored session token.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE:  runLogout,
}

// whoamiCmd shows the authenticated admin and session expiry.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated admin account",
	RunE:  runWhoami,
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := cfg.Auth.Email
	var password string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("admin@example.com").
				Value(&email).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("email is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	client := newClient()
	token, user, err := client.Login(cmd.Context(), email, password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("invalid email or password")
		}
		return err
	}

	cfg.Auth.Email = email
	cfg.Auth.Token = token
	path, err := configSavePath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	name := user.Str("name")
	if name == "" {
		name = email
	}
	fmt.Printf("Logged in as %s\n", name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if cfg.Auth.Token == "" {
		fmt.Println("Not logged in.")
		return nil
	}
	cfg.Auth.Token = ""
	path, err := configSavePath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	if cfg.Auth.Token == "" {
		return fmt.Errorf("not logged in, run 'bazaaradmin login' first")
	}
	if cfg.SessionExpired() {
		return fmt.Errorf("session expired, run 'bazaaradmin login' again")
	}

	client := newClient()
	user, err := client.Me(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Name:  %s\n", user.Str("name"))
	fmt.Printf("Email: %s\n", user.Str("email"))
	if role := user.Str("role"); role != "" {
		fmt.Printf("Role:  %s\n", role)
	}
	if exp, ok := cfg.SessionExpiry(); ok {
		fmt.Printf("Session expires %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
