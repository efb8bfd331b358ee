package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"verigraph/internal/trace"
)

func newReplayCommand(a *app) *cobra.Command {
	var (
		tracePath string
		hash      string
	)
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-derive a recorded selection and verify it reproduces exactly",
		Long: `Loads a selection trace, re-runs the selection with the recorded settings and
classification, and compares trace hashes. A trace can be read from a file
(--trace) or from the configured trace store by hash (--hash).`,
		Args: invocationArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				recorded trace.SelectionTrace
				err      error
			)
			switch {
			case tracePath != "" && hash != "":
				return invalidInvocationf("--trace and --hash are mutually exclusive")
			case tracePath != "":
				recorded, err = trace.ReadFile(tracePath)
				if err != nil {
					return invalidInvocationf("read trace: %v", err)
				}
			case hash != "":
				if a.store == nil {
					return configErrorf(nil, "--hash needs a trace store (trace.dir or VERIGRAPH_TRACE_DIR)")
				}
				recorded, err = a.store.Load(hash)
				if err != nil {
					return invalidInvocationf("load trace %s: %v", hash, err)
				}
			default:
				return invalidInvocationf("one of --trace or --hash is required")
			}

			sel, err := a.engine.Replay(recorded)
			if err != nil {
				return err
			}
			got, err := sel.Trace.Hash()
			if err != nil {
				return fmt.Errorf("hash trace: %w", err)
			}
			a.logger.Info("replay verified",
				zap.String("trace_hash", got),
				zap.Int("tasks", len(sel.IDs)),
			)
			_, err = fmt.Fprintf(a.stdout, "ok %s\n", got)
			return err
		},
	}
	cmd.Flags().StringVar(&tracePath, "trace", "", "trace file written by select --trace")
	cmd.Flags().StringVar(&hash, "hash", "", "trace hash in the configured trace store")
	return cmd
}
