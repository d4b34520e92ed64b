package cmd

import (
	"fmt"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/dialforge/dialtone/client"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		username := loginUsername
		if username == "" {
			if username, err = prompt("Username"); err != nil {
				return err
			}
		}
		password := loginPassword
		if password == "" {
			if password, err = prompt("Password"); err != nil {
				return err
			}
		}
		// Keep the password in locked memory for the duration of the
		// request and wipe it afterwards.
		buf := memguard.NewBufferFromBytes([]byte(password))
		defer buf.Destroy()

		err = a.client.Login(cmd.Context(), client.LoginRequest{
			Username: username,
			Password: buf.String(),
		})
		if err != nil {
			return fmt.Errorf("%s", client.UserMessage(err, "login failed"))
		}

		// The session cookie is in the jar; mark the local session
		// authenticated without another round trip.
		a.session.Login(nil)
		fmt.Printf("Logged in as %s\n", username)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account (log in afterwards)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		username, err := prompt("Username")
		if err != nil {
			return err
		}
		email, err := prompt("Email")
		if err != nil {
			return err
		}
		phoneNumber, err := prompt("Phone number")
		if err != nil {
			return err
		}
		password, err := prompt("Password")
		if err != nil {
			return err
		}
		buf := memguard.NewBufferFromBytes([]byte(password))
		defer buf.Destroy()

		err = a.client.Register(cmd.Context(), client.RegisterRequest{
			Username:    username,
			Email:       email,
			Password:    buf.String(),
			PhoneNumber: phoneNumber,
		})
		if err != nil {
			return fmt.Errorf("%s", client.UserMessage(err, "registration failed"))
		}
		fmt.Println("Registered. Run 'dialtone login' to sign in.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear local session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		// Best effort against the backend; local state clears regardless.
		_ = a.session.Logout(cmd.Context())
		fmt.Println("Logged out")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session state after checking with the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		_ = a.session.Initialize(cmd.Context())
		if !a.session.Authenticated() {
			fmt.Println("Not logged in")
			return nil
		}
		if u := a.session.User(); u != nil {
			fmt.Printf("Logged in as %s\n", u.Username)
		} else {
			fmt.Println("Logged in")
		}
		fmt.Printf("Last checked: %s\n", a.session.LastCheckedAt().Format("2006-01-02 15:04:05"))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
}
