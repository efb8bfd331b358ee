package cli

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"verigraph/internal/ontology"
)

func newOntologyCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ontology",
		Short: "Inspect the verification ontology",
		Args:  invocationArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invalidInvocationf("an ontology subcommand is required (show|validate|hash)")
		},
	}
	cmd.AddCommand(newOntologyShowCommand(a), newOntologyValidateCommand(a), newOntologyHashCommand(a))
	return cmd
}

func newOntologyShowCommand(a *app) *cobra.Command {
	var (
		match     string
		dimension string
		format    string
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the ontology, optionally filtered by task id glob or dimension",
		Args:  invocationArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "yaml", formatJSON); err != nil {
				return err
			}
			if match != "" && !doublestar.ValidatePattern(match) {
				return invalidInvocationf("invalid --match pattern %q", match)
			}

			doc := a.ontology.Document()
			doc.Tasks = filterTasks(doc.Tasks, match, dimension)

			if format == formatJSON {
				return writeJSON(a.stdout, []ontology.File{doc})
			}
			enc := yaml.NewEncoder(a.stdout)
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("encode ontology: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&match, "match", "", "only tasks whose id matches this glob (e.g. '*_test')")
	cmd.Flags().StringVar(&dimension, "dimension", "", "only tasks covering this dimension")
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml|json")
	return cmd
}

func filterTasks(tasks []ontology.TaskNode, match, dimension string) []ontology.TaskNode {
	out := make([]ontology.TaskNode, 0, len(tasks))
	for _, t := range tasks {
		if match != "" {
			// The pattern was validated up front, so the error is always nil.
			if ok, _ := doublestar.Match(match, t.ID); !ok {
				continue
			}
		}
		if dimension != "" && !t.HasDimension(dimension) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func newOntologyValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the ontology for unknown dependency references and cycles",
		Args:  invocationArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ontology.Validate(); err != nil {
				return err
			}
			_, err := fmt.Fprintf(a.stdout, "ok %s (%d tasks)\n", a.ontology.Version(), a.ontology.Len())
			return err
		},
	}
}

func newOntologyHashCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Print the ontology version and content hash",
		Args:  invocationArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(a.stdout, "%s %s\n", a.ontology.Version(), a.ontology.Hash())
			return err
		},
	}
}
