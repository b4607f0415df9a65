package cmd

import (
	"errors"
	"fmt"

	"github.com/abhisek/trailhead/internal/api"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and print a token for TRAILHEAD_TOKEN",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		token, err := rt.client.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		rt.log.Info("logged in", "email", email)

		fmt.Println("Login successful.")
		fmt.Println()
		fmt.Println("Add this to your shell or .env file:")
		fmt.Printf("  export TRAILHEAD_TOKEN=%s\n", token)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account behind the configured token",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		p, err := rt.client.Profile(cmd.Context())
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("not signed in: run `trailhead login` and set TRAILHEAD_TOKEN")
		}
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}

		fmt.Printf("Name:   %s\n", p.User.Name)
		fmt.Printf("Email:  %s\n", p.User.Email)
		fmt.Printf("ID:     %s\n", p.User.ID)
		fmt.Printf("Server: %s\n", rt.cfg.APIURL)
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and print a token for TRAILHEAD_TOKEN",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		token, err := rt.client.Signup(cmd.Context(), name, email, password)
		if err != nil {
			return err
		}
		rt.log.Info("signed up", "email", email)

		fmt.Println("Account created.")
		fmt.Println()
		fmt.Println("Add this to your shell or .env file:")
		fmt.Printf("  export TRAILHEAD_TOKEN=%s\n", token)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the configured token",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.cfg.Token == "" {
			return errors.New("no token configured")
		}
		if err := rt.client.Logout(cmd.Context()); err != nil {
			return err
		}
		rt.log.Info("logged out")
		fmt.Println("Logged out. Remove TRAILHEAD_TOKEN from your environment.")
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show your dashboard greeting",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		msg, err := rt.client.Dashboard(cmd.Context())
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("not signed in: run `trailhead login` and set TRAILHEAD_TOKEN")
		}
		if err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		fmt.Println(msg)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	signupCmd.Flags().String("name", "", "Display name")
	signupCmd.Flags().String("email", "", "Account email")
	signupCmd.Flags().String("password", "", "Account password (at least 6 characters)")
	_ = signupCmd.MarkFlagRequired("name")
	_ = signupCmd.MarkFlagRequired("email")
	_ = signupCmd.MarkFlagRequired("password")
}
