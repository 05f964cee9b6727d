package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ivoronin/saltmatch/internal/output"
	"github.com/ivoronin/saltmatch/internal/roster"
)

func (a *app) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the SQLite target cache",
		Long: `Copy roster documents into a SQLite cache that match and eval can read
with --roster <file>.db.`,
		Args: cobra.NoArgs,
	}
	cmd.AddCommand(a.newCacheImportCmd())
	cmd.AddCommand(a.newCacheListCmd())
	return cmd
}

func (a *app) newCacheImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "import <roster> <cache.db>",
		Short:   "Import roster targets into a cache",
		Args:    cobra.ExactArgs(2),
		Example: `  saltmatch cache import roster.yaml targets.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]

			r, err := roster.LoadFile(src)
			if err != nil {
				return inputError(err)
			}

			store, err := roster.OpenSQLite(dst)
			if err != nil {
				return inputError(err)
			}
			defer store.Close()

			for _, t := range r.Targets {
				if err := store.Save(t); err != nil {
					return err
				}
				a.logger.Debug("target cached", slog.String("target", t.ID))
			}

			a.logger.Info("cache updated",
				slog.String("path", dst),
				slog.Int("targets", len(r.Targets)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d targets into %s\n", len(r.Targets), dst)
			return nil
		},
	}
}

func (a *app) newCacheListCmd() *cobra.Command {
	var listJSON bool

	cmd := &cobra.Command{
		Use:     "list <cache.db>",
		Short:   "List cached targets",
		Args:    cobra.ExactArgs(1),
		Example: `  saltmatch cache list targets.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := roster.LoadFile(args[0])
			if err != nil {
				return inputError(err)
			}

			if err := output.Print(cmd.OutOrStdout(), output.NewTargetList(r.Targets), output.FormatFor(listJSON)); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&listJSON, "json", "j", false, "Output in JSON format")
	return cmd
}
