package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hewnlabs/corpora-cli/internal/core/domain"
)

func TestLoginCmd_Use(t *testing.T) {
	assert.Equal(t, "login", loginCmd.Use)
}

func TestLoginCmd_Executes(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()
	svcs.session.identity = &domain.Identity{FirstName: "Ada", Email: "ada@example.com"}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("secret\n"))
	rootCmd.SetArgs([]string{"login", "--email", "ada@example.com"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		loginEmail = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, "ada@example.com", svcs.session.lastEmail)
	assert.Equal(t, "secret", svcs.session.lastPass)
	assert.Contains(t, buf.String(), "Logged in as Ada")
}

func TestLoginCmd_InvalidCredentials(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()
	svcs.session.loginErr = domain.ErrNotAuthenticated

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader("wrong\n"))
	rootCmd.SetArgs([]string{"login", "--email", "ada@example.com"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		loginEmail = ""
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or password")
}

func TestLoginCmd_ErrorsWithoutService(t *testing.T) {
	oldService := sessionService
	sessionService = nil
	defer func() { sessionService = oldService }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"login"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestLogoutCmd_Executes(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"logout"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 1, svcs.session.logoutCalls)
	assert.Contains(t, buf.String(), "Logged out")
}

func TestWhoamiCmd_NotLoggedIn(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"whoami"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestWhoamiCmd_PrintsIdentity(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()
	svcs.session.identity = &domain.Identity{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Role:      "admin",
		Company:   "Analytical Engines",
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"whoami"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Ada Lovelace <ada@example.com>")
	assert.Contains(t, buf.String(), "Role: admin")
	assert.Contains(t, buf.String(), "Company: Analytical Engines")
}
