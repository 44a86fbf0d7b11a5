// Package cmd implements the zoomify command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yacchi/zoomify"
	"github.com/yacchi/zoomify/internal/log"
	"github.com/yacchi/zoomify/migrator"
	"github.com/yacchi/zoomify/migrator/okzoomer"
)

// SettingsFile is the settings file name inside the config directory.
const SettingsFile = "zoomify.json"

// app holds what every subcommand shares.
type app struct {
	v       *viper.Viper
	cfgFile string
	log     zerolog.Logger
}

// NewRootCommand builds the zoomify command tree. Each call gets its own
// viper instance.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "zoomify",
		Short:         "Manage zoomify settings and migrate other zoom mods' configs",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Loads config and env before any subcommand runs.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "CLI config file (default: ./zoomify-cli.{yaml,toml,json})")
	root.PersistentFlags().String("config-dir", okzoomer.DefaultConfigDir, "game config directory")
	root.PersistentFlags().String("settings", "", "settings file (default: <config-dir>/"+SettingsFile+")")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "log JSON lines instead of console output")

	for _, name := range []string{"config-dir", "settings", "log-level", "log-json"} {
		_ = a.v.BindPFlag(name, root.PersistentFlags().Lookup(name))
	}

	root.AddCommand(
		a.migrationsCommand(),
		a.migrateCommand(),
		a.getCommand(),
		a.setCommand(),
		a.presetCommand(),
		a.unbindCommand(),
		a.watchCommand(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func (a *app) init(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("zoomify-cli")
	}

	// ZOOMIFY_CONFIG_DIR, ZOOMIFY_SETTINGS, ...
	a.v.SetEnvPrefix("ZOOMIFY")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cfgErr := a.v.ReadInConfig()
	if cfgErr != nil && a.cfgFile != "" {
		return fmt.Errorf("failed to read config %s: %w", a.cfgFile, cfgErr)
	}

	a.log = log.Configure(log.Config{
		Level:  a.v.GetString("log-level"),
		Output: cmd.ErrOrStderr(),
		JSON:   a.v.GetBool("log-json"),
	})
	if cfgErr == nil {
		a.log.Debug().Str("file", a.v.ConfigFileUsed()).Msg("using config file")
	}
	return nil
}

func (a *app) configDir() string {
	return a.v.GetString("config-dir")
}

func (a *app) settingsPath() string {
	if p := a.v.GetString("settings"); p != "" {
		return p
	}
	return filepath.Join(a.configDir(), SettingsFile)
}

func (a *app) openStore(ctx context.Context) (*zoomify.Store, error) {
	path := a.settingsPath()
	store, err := zoomify.Open(ctx, path, zoomify.WithEnvOverrides(zoomify.EnvOverridePrefix))
	if err != nil {
		return nil, err
	}
	a.log.Debug().Str("path", path).Msg("opened settings")
	return store, nil
}

// registry lists every migration the CLI knows about.
func (a *app) registry(store migrator.SettingsStore) (*migrator.Registry, error) {
	return migrator.NewRegistry(
		okzoomer.New(store,
			okzoomer.WithConfigDir(a.configDir()),
			okzoomer.WithLogger(log.WithComponent("migrate")),
			okzoomer.WithUnbindConflicting(a.unbindConflicting),
		),
	)
}

// unbindConflicting stands in for the game's key binding screen, which the
// CLI cannot reach.
func (a *app) unbindConflicting() {
	a.log.Warn().Msg("unbind the key conflicting with zoom in the game's controls screen")
}

func (a *app) unbindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unbind-conflicting",
		Short: "Unbind the vanilla key that conflicts with the zoom key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.unbindConflicting()
			return nil
		},
	}
}

func printNotification(w io.Writer, n migrator.Notification) {
	fmt.Fprintln(w, n.Title)
	fmt.Fprintln(w, n.Body)
}
