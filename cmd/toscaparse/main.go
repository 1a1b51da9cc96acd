// Command toscaparse parses a TOSCA Simple YAML service template and
// reports its resolved topology as JSON, along with any accumulated
// diagnostics.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/onecommons/tosca-parser-go/errcol"
	"github.com/onecommons/tosca-parser-go/log"
	"github.com/onecommons/tosca-parser-go/profile"
	"github.com/onecommons/tosca-parser-go/resolver"
	"github.com/onecommons/tosca-parser-go/template"
	"github.com/onecommons/tosca-parser-go/tosca"
)

func main() {
	logCfg := log.NewConfig()
	profileCfg := profile.NewConfig()

	var verify bool

	rootCmd := &cobra.Command{
		Use:           "toscaparse [flags] <service_template.yaml>",
		Short:         "Parse and validate a TOSCA Simple YAML service template",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(logCfg, profileCfg, verify, args[0])
		},
	}

	rootCmd.Flags().BoolVar(&verify, "verify", true,
		"raise an aggregate error on accumulated diagnostics instead of returning a partial model")

	logCfg.RegisterFlags(rootCmd.Flags())
	profileCfg.RegisterFlags(rootCmd.Flags())

	if err := logCfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(logCfg *log.Config, profileCfg *profile.Config, verify bool, path string) error {
	handler, err := logCfg.NewHandler(os.Stderr)
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}

	slogger := slog.New(handler)

	profiler := profileCfg.NewProfiler()
	if err := profiler.Start(); err != nil {
		return fmt.Errorf("starting profiler: %w", err)
	}
	defer profiler.Stop()

	res := resolver.NewFileResolver(filepath.Dir(path))

	model, parseErr := tosca.Parse(filepath.Base(path), tosca.Options{
		Resolver: res,
		Verify:   verify,
		Logger:   slogger,
	})

	var aggErr *errcol.AggregateError
	if parseErr != nil && !errors.As(parseErr, &aggErr) {
		return parseErr
	}

	if model == nil {
		return parseErr
	}

	report := summarize(model)

	if aggErr != nil {
		for _, d := range aggErr.Diagnostics {
			report.Diagnostics = append(report.Diagnostics, d.Error())
		}
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	out = append(out, '\n')

	if _, err := os.Stdout.Write(out); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if parseErr != nil {
		return parseErr
	}

	return nil
}

// summary is the JSON-serializable report toscaparse prints: enough of
// the resolved [tosca.Model] to confirm what was parsed, not a full
// dump of every property/capability value.
type summary struct {
	Version       string        `json:"tosca_definitions_version"`
	Description   string        `json:"description,omitempty"`
	NodeTemplates []nodeSummary `json:"node_templates"`
	Groups        []string      `json:"groups,omitempty"`
	Policies      []string      `json:"policies,omitempty"`
	Workflows     []string      `json:"workflows,omitempty"`
	Diagnostics   []string      `json:"diagnostics,omitempty"`
}

type nodeSummary struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Requirements []string `json:"requirements,omitempty"`
}

func summarize(model *tosca.Model) summary {
	s := summary{
		Version:     model.Version,
		Description: model.Description,
	}

	for name, nt := range model.NodeTemplates {
		ns := nodeSummary{Name: name, Type: nt.TypeName}
		for _, req := range nt.Requirements {
			ns.Requirements = append(ns.Requirements, requirementLabel(req))
		}

		s.NodeTemplates = append(s.NodeTemplates, ns)
	}

	for name := range model.Groups {
		s.Groups = append(s.Groups, name)
	}

	for name := range model.Policies {
		s.Policies = append(s.Policies, name)
	}

	for name := range model.Workflows {
		s.Workflows = append(s.Workflows, name)
	}

	sort.Slice(s.NodeTemplates, func(i, j int) bool { return s.NodeTemplates[i].Name < s.NodeTemplates[j].Name })
	sort.Strings(s.Groups)
	sort.Strings(s.Policies)
	sort.Strings(s.Workflows)

	return s
}

func requirementLabel(req *template.Requirement) string {
	if req == nil {
		return ""
	}

	return req.Def.Name
}
