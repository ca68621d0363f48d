package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/pdftextfmt/internal/config"
)

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Settings are stored in ~/.config/pdftextfmt/settings.toml (or under
$XDG_CONFIG_HOME). The file is created with defaults on first run.

Top-level settings:
  output_dir    Default directory for output files (env: PDFTEXTFMT_OUTPUT_DIR)
  log_dir       Directory for daily run logs (env: PDFTEXTFMT_LOG_DIR)
  split_mode    full, half or third
  parallel      Files processed at once by batch

Formatting settings are addressed as formatting.<name>, for example
formatting.break_at_dot. Character sets are comma-separated.`,
		Example: `  pdftextfmt config set output_dir ~/Documents/formatted
  pdftextfmt config set formatting.break_at_dot true
  pdftextfmt config set formatting.custom_bullets "★,☆"
  pdftextfmt config get split_mode
  pdftextfmt config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))
	cmd.AddCommand(configPathCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

The output directory is created if it doesn't exist.`,
		Example: `  pdftextfmt config set output_dir ~/Documents/formatted
  pdftextfmt config set parallel 8`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the effective value to stdout, including environment and default fallbacks.`,
		Example: `  pdftextfmt config get output_dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List all configuration values",
		Example: `  pdftextfmt config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// configPathCmd creates the "config path" subcommand.
func configPathCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "path",
		Short:   "Print the settings file path",
		Example: `  pdftextfmt config path`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigPath(env)
		},
	}
}

// unknownKeyError lists the accepted keys.
func unknownKeyError(key string) error {
	return fmt.Errorf("%w %q (valid keys: %s)", config.ErrUnknownKey, key, strings.Join(config.Keys(), ", "))
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if !config.IsValidKey(key) {
		return unknownKeyError(key)
	}

	switch key {
	case config.KeyOutputDir:
		expanded := config.ExpandPath(value)
		if err := config.EnsureOutputDir(expanded); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		value = expanded
	case config.KeyLogDir:
		value = config.ExpandPath(value)
	}

	if err := settingsStore(env).Set(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if !config.IsValidKey(key) {
		return unknownKeyError(key)
	}

	value, err := settingsStore(env).Get(key)
	if err != nil {
		return err
	}
	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}
	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := settingsStore(env).List()
	if err != nil {
		return err
	}

	for _, key := range config.Keys() {
		fmt.Fprintf(env.Stdout, "%s=%s\n", key, data[key])
	}
	return nil
}

// runConfigPath handles the "config path" command.
func runConfigPath(env *Env) error {
	p, err := settingsStore(env).Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, p)
	return nil
}
