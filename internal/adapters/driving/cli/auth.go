package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the Corpora API",
	Long: `Authenticate with your email and password.

The session is stored under ~/.corpora/ and reused by subsequent
commands until you log out or it expires.

Examples:
  corpora login
  corpora login --email you@example.com`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE:  runLogout,
}

var whoamiRefresh bool

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (prompted if omitted)")
	whoamiCmd.Flags().BoolVar(&whoamiRefresh, "refresh", false, "refetch the profile from the server")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	email := loginEmail
	if email == "" {
		cmd.Print("Email: ")
		email = readLine(reader)
	}

	cmd.Print("Password: ")
	password := readPassword(reader)
	cmd.Println()

	if err := sessionService.Login(cmd.Context(), email, password); err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return errors.New("login failed: invalid email or password")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if identity := sessionService.CurrentIdentity(); identity != nil {
		cmd.Printf("Logged in as %s\n", identity.DisplayName())
	} else {
		cmd.Println("Logged in.")
	}
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if err := sessionService.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	cmd.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if !sessionService.IsAuthenticated() {
		return errors.New("not logged in; run 'corpora login' first")
	}

	identity := sessionService.CurrentIdentity()
	if identity == nil || whoamiRefresh {
		refreshed, err := sessionService.RefreshIdentity(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching profile: %w", err)
		}
		identity = refreshed
	}

	cmd.Printf("%s <%s>\n", identity.DisplayName(), identity.Email)
	if identity.Role != "" {
		cmd.Printf("Role: %s\n", identity.Role)
	}
	if identity.Company != "" {
		cmd.Printf("Company: %s\n", identity.Company)
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(reader *bufio.Reader) string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
