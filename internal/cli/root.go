package cli

import (
	"github.com/spf13/cobra"
)

// newRootCommand assembles the verigraph command tree around a.
func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "verigraph",
		Short: "Deterministic verification task selection",
		Long: `verigraph selects, from a versioned ontology of verification checks, the
dependency-complete and deterministically ordered set of checks required for a
claim, given the claim's weighted classification.

The same ontology, settings and classification always produce the same task
list, and every selection can be explained and replayed from its trace.`,
		Args:          invocationArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return invalidInvocationf("a command is required (see --help)")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return invalidInvocationf("%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.flags.envFile, "env-file", ".env", "dotenv file loaded before VERIGRAPH_* overrides")
	pf.StringVar(&a.flags.ontologyPath, "ontology", "", "ontology file (YAML or JSON); defaults to the builtin ontology")
	pf.Float64Var(&a.flags.threshold, "threshold", 0.2, "minimum weight for a dimension to be active (inclusive)")
	pf.IntVar(&a.flags.maxTasks, "max-tasks", 20, "maximum number of selected tasks")
	pf.BoolVar(&a.flags.noMandatory, "no-mandatory", false, "do not seed mandatory tasks")
	pf.BoolVar(&a.flags.strictRefs, "strict-refs", false, "fail on dependency references missing from the ontology")
	pf.StringVar(&a.flags.truncation, "truncation", "priority", "truncation mode: priority|topological")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&a.flags.metrics, "metrics", false, "print Prometheus metrics to stderr on exit")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := a.loadConfig(func(name string) bool { return cmd.Flags().Changed(name) }); err != nil {
			return err
		}
		if err := a.initLogger(); err != nil {
			return err
		}
		if err := a.loadOntology(); err != nil {
			return err
		}
		return a.initEngine()
	}

	root.AddCommand(
		newSelectCommand(a),
		newExplainCommand(a),
		newCoverageCommand(a),
		newOntologyCommand(a),
		newReplayCommand(a),
	)
	return root
}

// invocationArgs maps cobra's positional argument errors to invalid
// invocations.
func invocationArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return invalidInvocationf("%v", err)
		}
		return nil
	}
}
