package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yacchi/zoomify/migrator"
)

// planner is implemented by migrators that support dry runs.
type planner interface {
	Plan(ctx context.Context, report *migrator.Report) ([]migrator.Write, error)
}

type pathProvider interface {
	Path() string
}

func (a *app) migrationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrations",
		Short: "List known migrations and whether their configs exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry(nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range reg.All() {
				status := "not found"
				if m.IsMigrationAvailable() {
					status = "available"
				}
				path := ""
				if p, ok := m.(pathProvider); ok {
					path = p.Path()
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", m.Name(), status, path)
			}
			return nil
		},
	}
}

func (a *app) migrateCommand() *cobra.Command {
	var dryRun bool
	c := &cobra.Command{
		Use:   "migrate [name]",
		Short: "Migrate another zoom mod's config into the zoomify settings",
		Long: `Runs the named migration, or every migration whose config exists,
saves the settings file and prints a summary of what could not be carried over.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			reg, err := a.registry(store)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				m, ok := reg.Lookup(args[0])
				if !ok {
					return fmt.Errorf("unknown migration %q", args[0])
				}
				if reg, err = migrator.NewRegistry(m); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if dryRun {
				return a.plan(ctx, out, reg)
			}

			results, ok := reg.CheckMigrations(ctx)
			if !ok {
				printNotification(out, migrator.NoMigrations())
				return nil
			}

			var errs []error
			for _, r := range results {
				printNotification(out, r.Report.Notification(r.Name))
				if r.Err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", r.Name, r.Err))
				}
			}
			if store.IsDirty() {
				if err := store.Save(ctx); err != nil {
					errs = append(errs, err)
				} else {
					a.log.Info().Str("path", a.settingsPath()).Msg("saved settings")
				}
			}
			return errors.Join(errs...)
		},
	}
	c.Flags().BoolVar(&dryRun, "dry-run", false, "print the settings that would change without writing them")
	return c
}

func (a *app) plan(ctx context.Context, out io.Writer, reg *migrator.Registry) error {
	available := reg.Available()
	if len(available) == 0 {
		printNotification(out, migrator.NoMigrations())
		return nil
	}

	var errs []error
	for _, m := range available {
		p, ok := m.(planner)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: dry run not supported", m.Name()))
			continue
		}
		report := &migrator.Report{}
		writes, err := p.Plan(ctx, report)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m.Name(), err))
		}
		for _, w := range writes {
			fmt.Fprintf(out, "%s = %v\n", keyName(w.Key), w.Value)
		}
		printNotification(out, report.Notification(m.Name()))
	}
	return errors.Join(errs...)
}
