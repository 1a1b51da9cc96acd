package schemagen

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for schema generation.
type Flags struct {
	Title       string
	Description string
	ID          string
	Strict      string
}

// Config holds CLI flag values for [Generate].
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Flags       Flags
	Title       string
	Description string
	ID          string
	Strict      bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			Title:       "title",
			Description: "description",
			ID:          "id",
			Strict:      "strict",
		},
	}
}

// RegisterFlags adds schema generation flags to the given
// [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Title, c.Flags.Title, "", "schema title field")
	flags.StringVar(&c.Description, c.Flags.Description, "", "schema description field")
	flags.StringVar(&c.ID, c.Flags.ID, "", "schema $id field")
	flags.BoolVar(&c.Strict, c.Flags.Strict, false, "set additionalProperties: false on the generated root object")
}

// RegisterCompletions registers shell completions for schema generation
// flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.Title, c.Flags.Description, c.Flags.ID} {
		if err := cmd.RegisterFlagCompletionFunc(flag, noFileComp); err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// Options returns the [Options] this Config describes.
func (c *Config) Options() Options {
	return Options{Title: c.Title, Description: c.Description, ID: c.ID, Strict: c.Strict}
}
