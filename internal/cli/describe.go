package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) describeCmd() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the structure of the validator tree built from a schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.compile(cmd.Context(), schemaPath, a.cfg.Title)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "%s: %s\n", s.Title(), s)
			return err
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema file (.json, .yaml, .yml, .hcl)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(a.out, "valtree", Version)
			return err
		},
	}
}
