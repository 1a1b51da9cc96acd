// Command toscaschema generates a JSON Schema (Draft 7) describing the
// shape of node templates instantiating a given TOSCA type, after
// parsing the type's defining service template.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/onecommons/tosca-parser-go/errcol"
	"github.com/onecommons/tosca-parser-go/resolver"
	"github.com/onecommons/tosca-parser-go/schemagen"
	"github.com/onecommons/tosca-parser-go/tosca"
)

func main() {
	cfg := schemagen.NewConfig()

	rootCmd := &cobra.Command{
		Use:   "toscaschema [flags] <service_template.yaml> <type_name>",
		Short: "Generate JSON Schema for a TOSCA type's node templates",
		Long: `toscaschema parses a TOSCA service template and generates a JSON Schema
(Draft 7) describing the properties, capabilities, and requirements a node
template instantiating the named type is expected to have, folding in every
ancestor in its derived_from chain.`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(cfg, args[0], args[1])
		},
	}

	cfg.RegisterFlags(rootCmd.Flags())

	if err := cfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg *schemagen.Config, path, typeName string) error {
	res := resolver.NewFileResolver(filepath.Dir(path))

	model, err := tosca.Parse(filepath.Base(path), tosca.Options{Resolver: res, Verify: false})

	var aggErr *errcol.AggregateError
	if err != nil && !errors.As(err, &aggErr) {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if model == nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	sch, err := schemagen.Generate(model.Registry, typeName, cfg.Options())
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(sch, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling schema: %w", err)
	}

	out = append(out, '\n')

	if _, err := os.Stdout.Write(out); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}
