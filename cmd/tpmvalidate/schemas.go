package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tpm-common-validation/pkg/validator/schema"
)

func newSchemasCmd(current func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "List the schemas in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListSchemas(current(), cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Print a schema as YAML descriptors",
		Long:  `Prints the field rules of a schema in the same YAML form accepted by schema files. Custom validators are not shown.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowSchema(current(), cmd.OutOrStdout(), args[0])
		},
	})

	return cmd
}

func runListSchemas(a *app, out io.Writer) error {
	c := a.validator.Catalog()
	for _, name := range c.Names() {
		if _, err := fmt.Fprintf(out, "%s\t%d fields\n", name, len(c.Lookup(name))); err != nil {
			return err
		}
	}
	return nil
}

func runShowSchema(a *app, out io.Writer, name string) error {
	s, err := a.validator.Catalog().Get(name)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(map[string]any{name: schema.Describe(s)})
}
