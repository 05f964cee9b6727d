package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivoronin/saltmatch/internal/output"
	"github.com/ivoronin/saltmatch/internal/roster"
	"github.com/ivoronin/saltmatch/internal/targeting"
)

func (a *app) newEvalCmd() *cobra.Command {
	var (
		evalJSON   bool
		evalTarget string
	)

	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression for one target",
		Long: `Evaluate a compound expression against one target and print the value.
Exits 0 when the value is truthy and 1 when it is not.`,
		Args: cobra.ExactArgs(1),
		Example: `  saltmatch eval "1 < 2"
  saltmatch eval -r roster.yaml -t web01 "grains['num_cpus'] >= 4"
  saltmatch eval -j -r host.yaml "salt[test.ping]"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEval(cmd, args[0], evalTarget, evalJSON)
		},
	}

	cmd.Flags().BoolVarP(&evalJSON, "json", "j", false, "Output in JSON format")
	cmd.Flags().StringVarP(&evalTarget, "target", "t", "", "Target ID in the roster")
	return cmd
}

func (a *app) runEval(cmd *cobra.Command, expression, targetID string, asJSON bool) error {
	target, err := a.selectTarget(targetID)
	if err != nil {
		return inputError(err)
	}

	results, err := targeting.MatchTargets(cmd.Context(), expression, []roster.Target{target}, a.matchOptions()...)
	if err != nil {
		return inputError(err)
	}
	r := results[0]
	if r.Err != nil {
		return evalError(r.Err)
	}

	eo := &output.EvalOutput{Expression: expression, Target: target.ID, Value: r.Value}
	result, err := output.FormatOutput(eo, output.FormatFor(asJSON))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result)

	if !r.Matched {
		return &exitError{code: ExitFalse}
	}
	return nil
}

// selectTarget picks the target eval runs against. Without a roster it is an
// empty local target, so only literal expressions succeed.
func (a *app) selectTarget(id string) (roster.Target, error) {
	if a.rosterPath == "" {
		if id != "" {
			return roster.Target{}, fmt.Errorf("--target requires --roster")
		}
		return roster.Target{ID: roster.LocalTarget}, nil
	}

	r, err := a.loadRoster()
	if err != nil {
		return roster.Target{}, err
	}
	if id != "" {
		return r.Find(id)
	}
	if len(r.Targets) != 1 {
		return roster.Target{}, fmt.Errorf("roster has %d targets, choose one with --target", len(r.Targets))
	}
	return r.Targets[0], nil
}
