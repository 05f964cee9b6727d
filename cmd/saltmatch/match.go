package main

import (
	"github.com/spf13/cobra"

	"github.com/ivoronin/saltmatch/internal/filter"
	"github.com/ivoronin/saltmatch/internal/output"
	"github.com/ivoronin/saltmatch/internal/targeting"
)

func (a *app) newMatchCmd() *cobra.Command {
	var (
		matchJSON bool
		matchAll  bool
		osFilter  string
	)

	cmd := &cobra.Command{
		Use:   "match <expression>",
		Short: "List roster targets an expression selects",
		Long: `Evaluate a compound expression against every roster target in parallel.
Exits 0 when at least one target matches.`,
		Args: cobra.ExactArgs(1),
		Example: `  saltmatch match -r roster.yaml "grains['os'] == 'Ubuntu'"
  saltmatch match -r roster.yaml --all "(pillar['role'] == 'web') or (pillar['role'] == 'db')"
  saltmatch match -j -r targets.db "grains['num_cpus'] >= 8"
  saltmatch match -r roster.yaml --os "Ubuntu>=22.04,Debian" "pillar['role'] == 'web'"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMatch(cmd, args[0], osFilter, matchAll, matchJSON)
		},
	}

	cmd.Flags().BoolVarP(&matchJSON, "json", "j", false, "Output in JSON format")
	cmd.Flags().BoolVarP(&matchAll, "all", "a", false, "Also list targets that did not match")
	cmd.Flags().StringVarP(&osFilter, "os", "o", "", `Only evaluate targets whose os/osrelease grains match (e.g. "Ubuntu>=20.04,CentOS")`)
	return cmd
}

func (a *app) runMatch(cmd *cobra.Command, expression, osFilter string, all, asJSON bool) error {
	r, err := a.loadRoster()
	if err != nil {
		return inputError(err)
	}

	targets := r.Targets
	if osFilter != "" {
		f, err := filter.Parse(osFilter)
		if err != nil {
			return inputError(err)
		}
		targets = filter.FilterTargets(targets, f)
	}

	results, err := targeting.MatchTargets(cmd.Context(), expression, targets, a.matchOptions()...)
	if err != nil {
		return inputError(err)
	}

	list := output.NewMatchList(results, all)
	if err := output.Print(cmd.OutOrStdout(), list, output.FormatFor(asJSON)); err != nil {
		return err
	}

	if len(targeting.Matched(results)) > 0 {
		return nil
	}
	if err := targeting.FirstError(results); err != nil {
		return evalError(err)
	}
	return &exitError{code: ExitFalse}
}
