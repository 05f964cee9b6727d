package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivoronin/saltmatch/internal/compound"
	"github.com/ivoronin/saltmatch/internal/output"
)

func newTokensCmd() *cobra.Command {
	var tokensJSON bool

	cmd := &cobra.Command{
		Use:   "tokens <expression>",
		Short: "Show the token stream of an expression",
		Args:  cobra.ExactArgs(1),
		Example: `  saltmatch tokens "grains['os'] == 'Ubuntu'"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := compound.Tokenize(compound.DefaultRules(), args[0])
			if err != nil {
				return inputError(fmt.Errorf("tokenize %q: %w", args[0], err))
			}

			if err := output.Print(cmd.OutOrStdout(), &output.TokenList{Tokens: tokens}, output.FormatFor(tokensJSON)); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&tokensJSON, "json", "j", false, "Output in JSON format")
	return cmd
}
