package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yacchi/zoomify"
	"github.com/yacchi/zoomify/layer"
)

// keyPointer accepts "initialZoom" as well as "/initialZoom".
func keyPointer(name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	return "/" + name
}

func keyName(pointer string) string {
	return strings.TrimPrefix(pointer, "/")
}

type getter interface {
	GetAt(key string) (any, bool)
}

func printSettings(w io.Writer, s getter) {
	for _, e := range zoomify.Entries() {
		v, _ := s.GetAt(e.Key)
		fmt.Fprintf(w, "%s = %v\n", keyName(e.Key), v)
	}
}

func (a *app) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print one setting, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				printSettings(out, store)
				return nil
			}

			e, err := store.Entry(keyPointer(args[0]))
			if err != nil {
				return err
			}
			v, _ := store.GetAt(e.Key)
			origin, _ := store.Origin(e.Key)
			fmt.Fprintf(out, "%v\n", v)
			a.log.Debug().Str("key", e.Key).Str("layer", string(origin)).Msg("resolved setting")
			return nil
		},
	}
}

func (a *app) setCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			e, err := store.Entry(keyPointer(args[0]))
			if err != nil {
				return err
			}
			v, err := e.Parse(args[1])
			if err != nil {
				return err
			}
			if err := e.CheckRange(v); err != nil {
				a.log.Warn().Err(err).Msg("value outside the recommended range")
			}
			if err := store.Set(e.Key, v); err != nil {
				return err
			}
			if err := store.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", keyName(e.Key), v)
			if e.RestartRequired {
				fmt.Fprintln(cmd.OutOrStdout(), "Restart the game to apply this change.")
			}
			return nil
		},
	}
}

func (a *app) presetCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "preset <name>",
		Short:     "Reset every setting to a preset and save",
		Args:      cobra.ExactArgs(1),
		ValidArgs: presetNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := zoomify.ParsePreset(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if err := zoomify.ApplyPreset(store, p); err != nil {
				return err
			}
			if err := store.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied preset %s.\n", p)
			return nil
		},
	}
}

func presetNames() []string {
	names := make([]string, 0, len(zoomify.Presets))
	for _, p := range zoomify.Presets {
		names = append(names, strings.ToLower(string(p)))
	}
	return names
}

func (a *app) watchCommand() *cobra.Command {
	var debounce time.Duration
	c := &cobra.Command{
		Use:   "watch",
		Short: "Print the settings whenever the settings file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSettings(out, store)

			cfg := zoomify.DefaultWatchConfig()
			cfg.DebounceDelay = debounce
			cfg.OnError = func(name layer.Name, err error) {
				a.log.Error().Err(err).Str("layer", string(name)).Msg("reload failed")
			}
			cfg.OnReload = func() {
				fmt.Fprintln(out, "---")
				printSettings(out, store)
			}

			stop, err := store.Watch(ctx, zoomify.LayerUser, cfg)
			if err != nil {
				return err
			}
			a.log.Info().Str("path", a.settingsPath()).Msg("watching settings")
			<-ctx.Done()
			return stop()
		},
	}
	c.Flags().DurationVar(&debounce, "debounce", zoomify.DefaultWatchConfig().DebounceDelay, "delay before reloading after a change")
	return c
}
