package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogo/codexside/internal/config"
)

// newConfigCmd creates the config command and its subcommands.
func newConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open configuration menu",
		Long: `Interactive menu to configure codexside settings.

Use the subcommands to read or change settings from scripts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := openProvider(deps)
			if err != nil {
				return err
			}
			return deps.RunConfig(provider)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := openProvider(deps)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(provider.Settings(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode settings: %w", err)
			}
			fmt.Fprintln(deps.Stdout, string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: fmt.Sprintf("Change one setting and save the file.\n\nKeys: %s",
			strings.Join(config.SettableKeys(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := openProvider(deps)
			if err != nil {
				return err
			}

			check := provider.Settings()
			if err := check.Set(args[0], args[1]); err != nil {
				return err
			}
			err = provider.Update(func(s *config.Settings) {
				_ = s.Set(args[0], args[1])
			})
			if err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}
			fmt.Fprintf(deps.Stdout, "%s = %s\n", args[0], args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := deps.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	})

	return cmd
}

// openProvider loads the settings file without flag overrides. A malformed
// file is an error here so it is never silently overwritten.
func openProvider(deps *Dependencies) (*config.Provider, error) {
	path, err := deps.ConfigPath()
	if err != nil {
		return nil, err
	}
	return config.NewProvider(path, zerolog.Nop())
}
