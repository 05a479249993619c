package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write client configuration",
	Long: `Read and write settings stored in ~/.corpora/config.toml.

Recognised keys include api.base_url, api.timeout_seconds and
api.ingest_token.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configStore == nil {
			return errors.New("config store not configured")
		}
		cmd.Println(configStore.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	value, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key not set: %s", args[0])
	}
	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]

	// Store numbers and booleans typed so GetInt/GetBool round-trip.
	var value any = raw
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		value = n
	} else if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}
