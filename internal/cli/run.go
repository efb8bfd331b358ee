package cli

import (
	"context"
	"io"

	"go.uber.org/zap"
)

// Run is a high-level CLI entrypoint suitable for black-box tests.
// It accepts the argument slice (excluding argv[0]) and returns the semantic
// exit code plus any error.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) (CLIResult, error) {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	a := newApp(stdout, stderr)
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if args == nil {
		root.SetArgs([]string{})
	}

	err := root.ExecuteContext(ctx)
	a.dumpMetrics()
	if err != nil {
		code := ExitCode(err)
		if code == ExitSelectionFailure || code == ExitInternalError {
			a.logger.Error("command failed", zap.Error(err), zap.Int("exit_code", code))
		}
		_ = a.logger.Sync()
		return CLIResult{ExitCode: code}, err
	}
	_ = a.logger.Sync()
	return CLIResult{ExitCode: ExitSuccess}, nil
}
