package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"verigraph/internal/classification"
	"verigraph/internal/selection"
	"verigraph/internal/trace"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatPlan = "plan"
)

func newSelectCommand(a *app) *cobra.Command {
	var (
		input     string
		format    string
		tracePath string
	)
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Select the ordered verification tasks for a classification",
		Long: `Reads classifier output (one JSON object, or an array of them for a batch)
and prints the ordered task list for each classification.

Formats: text (one id per line), json (ids, reasons and trace hash), plan
(the expansion-facing plan with validator and time estimates).`,
		Args: invocationArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatJSON, formatPlan); err != nil {
				return err
			}
			cs, err := a.readClassifications(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			if tracePath != "" && len(cs) != 1 {
				return invalidInvocationf("--trace needs a single classification (got %d)", len(cs))
			}

			sels, err := selection.SelectBatch(cmd.Context(), a.selector, cs, a.cfg.Batch.Concurrency)
			if err != nil {
				return err
			}

			for _, sel := range sels {
				if err := a.persistTrace(sel.Trace); err != nil {
					return err
				}
			}
			if tracePath != "" {
				if err := trace.WriteFile(tracePath, sels[0].Trace); err != nil {
					return fmt.Errorf("write trace: %w", err)
				}
			}
			return a.renderSelections(format, sels)
		},
	}
	cmd.Flags().StringVarP(&input, "classification", "c", "", "classifier output JSON file (- for stdin)")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text|json|plan")
	cmd.Flags().StringVar(&tracePath, "trace", "", "write the canonical selection trace to this file")
	return cmd
}

func newExplainCommand(a *app) *cobra.Command {
	var (
		input  string
		format string
	)
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain why each task was selected",
		Args:  invocationArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatJSON); err != nil {
				return err
			}
			cs, err := a.readClassifications(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			sels, err := selection.SelectBatch(cmd.Context(), a.selector, cs, a.cfg.Batch.Concurrency)
			if err != nil {
				return err
			}
			return a.renderExplanations(format, sels)
		},
	}
	cmd.Flags().StringVarP(&input, "classification", "c", "", "classifier output JSON file (- for stdin)")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text|json")
	return cmd
}

func newCoverageCommand(a *app) *cobra.Command {
	var (
		executed []string
		required []string
		input    string
	)
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Score executed tasks against required tasks, weighted by risk",
		Long: `Prints the risk-weighted fraction of required tasks that were executed.

Required tasks come from --required, or from the selection for the
classification given with -c.`,
		Args: invocationArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if input != "" && cmd.Flags().Changed("required") {
				return invalidInvocationf("--required and --classification are mutually exclusive")
			}
			if input != "" {
				cs, err := a.readClassifications(cmd.InOrStdin(), input)
				if err != nil {
					return err
				}
				if len(cs) != 1 {
					return invalidInvocationf("coverage needs a single classification (got %d)", len(cs))
				}
				sel, err := a.selector.SelectAndExplain(cs[0])
				if err != nil {
					return err
				}
				required = sel.IDs
			}
			score := a.engine.Coverage(executed, required)
			a.logger.Debug("coverage",
				zap.Strings("executed", executed),
				zap.Strings("required", required),
				zap.Float64("score", score),
			)
			_, err := fmt.Fprintf(a.stdout, "%.4f\n", score)
			return err
		},
	}
	cmd.Flags().StringSliceVar(&executed, "executed", nil, "executed task ids (comma separated)")
	cmd.Flags().StringSliceVar(&required, "required", nil, "required task ids (comma separated)")
	cmd.Flags().StringVarP(&input, "classification", "c", "", "derive required tasks from this classification")
	return cmd
}

// readClassifications decodes classifier output and range-checks it. The
// engine itself never validates weights; this is the upstream adapter role.
func (a *app) readClassifications(stdin io.Reader, path string) ([]classification.Classification, error) {
	if path == "" {
		return nil, invalidInvocationf("--classification is required")
	}
	var (
		results []classification.Result
		err     error
	)
	if path == "-" {
		b, rerr := io.ReadAll(stdin)
		if rerr != nil {
			return nil, fmt.Errorf("read stdin: %w", rerr)
		}
		results, err = classification.Decode(b)
	} else {
		results, err = classification.DecodeFile(path)
	}
	if err != nil {
		if errors.Is(err, classification.ErrInvalidClassification) {
			return nil, &InvocationError{ExitCode: ExitInvalidInvocation, Message: err.Error(), Err: err}
		}
		return nil, invalidInvocationf("%v", err)
	}

	out := make([]classification.Classification, 0, len(results))
	for i, r := range results {
		if err := r.Validate(); err != nil {
			return nil, &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf("classification %d: %v", i, err), Err: err}
		}
		if len(r.RedFlags) > 0 || r.HasAmbiguities() {
			a.logger.Info("classification carries caveats",
				zap.Int("index", i),
				zap.Strings("red_flags", r.RedFlags),
				zap.Strings("ambiguities", r.Ambiguities),
			)
		}
		out = append(out, r.Dimensions)
	}
	return out, nil
}

// persistTrace saves tr into the configured trace store, if any.
func (a *app) persistTrace(tr trace.SelectionTrace) error {
	if a.store == nil {
		return nil
	}
	hash, err := a.store.Save(tr)
	if err != nil {
		return fmt.Errorf("save trace: %w", err)
	}
	a.logger.Debug("trace saved", zap.String("trace_hash", hash))
	return nil
}

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return invalidInvocationf("invalid --format %q (expected %s)", format, strings.Join(allowed, "|"))
}
