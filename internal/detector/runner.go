package detector

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// Runner runs the detection model over a local image. A run must write the
// annotated image to <outDir>/<filename> and the label file to
// <outDir>/labels/<stem>.txt; producing no label file means nothing was
// detected.
type Runner interface {
	Run(ctx context.Context, imagePath, outDir string) error
}

// ExecRunner invokes an external model process. The image path and output
// directory are appended to the configured arguments.
type ExecRunner struct {
	command string
	args    []string
	logger  *slog.Logger
}

// NewExecRunner creates an ExecRunner for the given command line.
func NewExecRunner(log *slog.Logger, command string, args []string) *ExecRunner {
	if log == nil {
		log = slog.Default()
	}
	return &ExecRunner{
		command: command,
		args:    args,
		logger:  log.With(slog.String("runner", "exec")),
	}
}

// Run executes the model command.
func (r *ExecRunner) Run(ctx context.Context, imagePath, outDir string) error {
	args := append(append([]string{}, r.args...), imagePath, outDir)
	cmd := exec.CommandContext(ctx, r.command, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.logger.Error("model run failed",
			slog.String("image", imagePath),
			slog.String("output", string(out)),
			slog.Any("error", err))
		return fmt.Errorf("run model: %w", err)
	}
	r.logger.Debug("model run completed", slog.String("image", imagePath))
	return nil
}
