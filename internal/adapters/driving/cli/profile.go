package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	profileFirstName string
	profileLastName  string
	profileCompany   string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the account profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	Long: `Update profile fields on the server. The cached identity is
refreshed from the updated profile.

Example:
  corpora profile update --first-name Ada --last-name Lovelace`,
	RunE: runProfileUpdate,
}

func init() {
	profileUpdateCmd.Flags().StringVar(&profileFirstName, "first-name", "", "first name")
	profileUpdateCmd.Flags().StringVar(&profileLastName, "last-name", "", "last name")
	profileUpdateCmd.Flags().StringVar(&profileCompany, "company", "", "company name")

	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileUpdate(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if !sessionService.IsAuthenticated() {
		return errors.New("not logged in; run 'corpora login' first")
	}

	fields := make(map[string]string)
	if cmd.Flags().Changed("first-name") {
		fields["first_name"] = profileFirstName
	}
	if cmd.Flags().Changed("last-name") {
		fields["last_name"] = profileLastName
	}
	if cmd.Flags().Changed("company") {
		fields["company"] = profileCompany
	}
	if len(fields) == 0 {
		return errors.New("nothing to update; pass at least one field flag")
	}

	identity, err := sessionService.UpdateProfile(cmd.Context(), fields)
	if err != nil {
		return fmt.Errorf("profile update failed: %w", err)
	}

	cmd.Printf("Profile updated for %s\n", identity.DisplayName())
	return nil
}
