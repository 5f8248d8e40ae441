package platform

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"codeberg.org/mutker/hostctl/internal/errors"
	"codeberg.org/mutker/hostctl/internal/logger"
)

// ExecRunner runs commands as child processes and waits for them to exit.
type ExecRunner struct {
	log logger.Logger
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{log: logger.Default()}
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) (CommandResult, error) {
	errFactory := errors.New()

	r.log.Debug().Str("command", cmd.String()).Msg("Running command")

	out, err := exec.CommandContext(ctx, cmd.Name, cmd.Args...).CombinedOutput()
	result := CommandResult{Output: strings.TrimSpace(string(out))}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		msg := fmt.Sprintf("%s exited with status %d", cmd.Name, result.ExitCode)
		if result.Output != "" {
			msg += ": " + firstLine(result.Output)
		}

		return result, errFactory.Wrap(ErrCommandFailed, err).WithMessage(msg)
	}

	if errors.Is(err, exec.ErrNotFound) {
		result.ExitCode = -1
		return result, errFactory.Wrap(ErrCommandNotFound, err).WithMessage(cmd.Name + " not found")
	}

	result.ExitCode = -1
	return result, errFactory.Wrap(ErrCommandFailed, err).WithMessage("failed to start " + cmd.Name)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}

	return s
}

// run executes a command built from name and args and discards the output.
func run(ctx context.Context, r Runner, name string, args ...string) error {
	_, err := r.Run(ctx, Command{Name: name, Args: args})
	return err
}

// output executes a command and returns its trimmed output.
func output(ctx context.Context, r Runner, name string, args ...string) (string, error) {
	res, err := r.Run(ctx, Command{Name: name, Args: args})
	return res.Output, err
}
