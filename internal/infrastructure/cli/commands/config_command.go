package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/readerstate/internal/app"
	configapp "github.com/doeshing/readerstate/internal/application/config"
	"github.com/doeshing/readerstate/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/readerstate/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(container *app.Container) *cobra.Command {
	var format string

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage reader settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.OutOrStdout(), container, format)
		},
	}
	configCmd.Flags().StringVar(&format, "format", FormatJSON, "Output format (json|yaml)")

	configCmd.AddCommand(
		newConfigShowCommand(container),
		newConfigGetCommand(container),
		newConfigPathCommand(container),
		newConfigExistsCommand(container),
		newConfigInitCommand(container),
		newConfigSetCommand(container),
		newConfigImportCommand(container),
		newConfigExportCommand(container),
		newConfigValidateCommand(container),
		newConfigResetCommand(container),
		newConfigDiffCommand(container),
		NewModelsCommand(container),
	)

	return configCmd
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand(container *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show full configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.OutOrStdout(), container, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", FormatJSON, "Output format (json|yaml)")
	return cmd
}

// newConfigGetCommand creates the 'config get' subcommand
func newConfigGetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific configuration value (e.g. aiModels.0.name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getConfigurationValue(cmd.OutOrStdout(), container, args[0])
		},
	}
}

// newConfigPathCommand creates the 'config path' subcommand
func newConfigPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the location of config.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := helpers.GetConfigStore(container)
			if err != nil {
				return err
			}
			path := store.Path()
			if path == "" {
				return fmt.Errorf("config location cannot be determined in %s mode", container.Resolver.Mode())
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// newConfigExistsCommand creates the 'config exists' subcommand
func newConfigExistsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "exists",
		Short: "Report whether config.json exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := helpers.GetStateService(container)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), svc.ConfigExists())
			return nil
		},
	}
}

// newConfigInitCommand creates the 'config init' subcommand
func newConfigInitCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create config.json with defaults if it is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := helpers.GetStateService(container)
			if err != nil {
				return err
			}
			existed := svc.ConfigExists()
			svc.InitConfig()
			if existed {
				fmt.Fprintf(cmd.OutOrStdout(), "Configuration already present at %s\n", container.ConfigStore.Path())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", container.ConfigStore.Path())
			}
			return nil
		},
	}
}

// newConfigSetCommand creates the 'config set' subcommand
func newConfigSetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value (value accepts YAML syntax)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := strings.Join(args[1:], " ")
			return setConfigurationValue(container, key, value)
		},
	}
}

// newConfigImportCommand creates the 'config import' subcommand
func newConfigImportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Replace the configuration with a settings file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := helpers.GetStateService(container)
			if err != nil {
				return err
			}
			cfg, err := svc.ImportConfig(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%d model(s))\n", args[0], len(cfg.AIModels))
			return nil
		},
	}
}

// newConfigExportCommand creates the 'config export' subcommand
func newConfigExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Write the current configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := helpers.GetStateService(container)
			if err != nil {
				return err
			}
			if err := svc.ExportConfig(args[0], svc.GetConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported configuration to %s\n", args[0])
			return nil
		},
	}
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := helpers.GetConfigStore(container)
			if err != nil {
				return err
			}
			res := store.Inspect()
			if res.Reason != nil {
				return fmt.Errorf("configuration unreadable, defaults would be used: %w", res.Reason)
			}
			if err := configapp.Validate(res.Value); err != nil {
				return fmt.Errorf("configuration validation failed: %w", configapp.AsConfigError("validate", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
			return nil
		},
	}
}

// newConfigResetCommand creates the 'config reset' subcommand
func newConfigResetCommand(container *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !helpers.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Reset configuration to defaults?", yes) {
				fmt.Fprintln(cmd.OutOrStdout(), MsgCancelled)
				return nil
			}
			return resetConfigurationToDefaults(cmd.OutOrStdout(), container)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// newConfigDiffCommand creates the 'config diff' subcommand
func newConfigDiffCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show diff versus default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigurationDiff(cmd.OutOrStdout(), container)
		},
	}
}

// showConfiguration displays the full configuration
func showConfiguration(out io.Writer, container *app.Container, format string) error {
	svc, err := helpers.GetStateService(container)
	if err != nil {
		return err
	}
	return writeFormatted(out, svc.GetConfig(), format)
}

// getConfigurationValue retrieves a specific configuration value by key path
func getConfigurationValue(out io.Writer, container *app.Container, keyPath string) error {
	svc, err := helpers.GetStateService(container)
	if err != nil {
		return err
	}

	cfgMap, err := helpers.ConfigToMap(svc.GetConfig())
	if err != nil {
		return err
	}

	value, found := helpers.TraverseNestedMap(cfgMap, strings.Split(keyPath, "."))
	if !found {
		return fmt.Errorf("key %s not found in configuration", keyPath)
	}

	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// setConfigurationValue updates a top-level configuration value
func setConfigurationValue(container *app.Container, keyPath string, value string) error {
	svc, err := helpers.GetStateService(container)
	if err != nil {
		return err
	}

	cfgMap, err := helpers.ConfigToMap(svc.GetConfig())
	if err != nil {
		return err
	}
	if _, known := cfgMap[strings.Split(keyPath, ".")[0]]; !known {
		return fmt.Errorf("unknown configuration key %s", keyPath)
	}

	parsedValue, err := helpers.ParseYAMLValue(value)
	if err != nil {
		return fmt.Errorf("failed to parse value: %w", err)
	}

	if !helpers.SetNestedMapValue(cfgMap, strings.Split(keyPath, "."), parsedValue) {
		return fmt.Errorf("cannot set %s: no such list element", keyPath)
	}

	updated, err := helpers.MapToConfig(cfgMap)
	if err != nil {
		return err
	}

	return helpers.SaveConfigWithValidation(container, updated)
}

// resetConfigurationToDefaults resets the configuration to default values
func resetConfigurationToDefaults(out io.Writer, container *app.Container) error {
	store, err := helpers.GetConfigStore(container)
	if err != nil {
		return err
	}

	if _, err := store.Backup(); err != nil {
		return fmt.Errorf("failed to create configuration backup: %w", err)
	}
	if _, err := store.Reset(); err != nil {
		return fmt.Errorf("failed to reset configuration: %w", err)
	}

	fmt.Fprintf(out, "Configuration reset at %s\n", store.Path())
	return nil
}

// showConfigurationDiff shows the difference between current and default configuration
func showConfigurationDiff(out io.Writer, container *app.Container) error {
	svc, err := helpers.GetStateService(container)
	if err != nil {
		return err
	}

	diff := cmp.Diff(configinfra.DefaultConfig(), svc.GetConfig())
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}

// writeFormatted renders v as JSON (the on-disk form) or YAML
func writeFormatted(out io.Writer, v interface{}, format string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(format) {
	case "", FormatJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(v)
	default:
		return fmt.Errorf(ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = out.Write(data)
	return err
}
