// Package executor runs menu commands out of process for test runs. The
// structure model never imports this package; output text passes through
// opaque and unmodified, and nothing here feeds back into tree state.
package executor

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// Runner executes a command in its language and returns the combined
// output text.
type Runner interface {
	Run(ctx context.Context, language menu.Language, code string) (string, error)
}

// ExecRunner runs commands through local interpreter processes.
type ExecRunner struct {
	// Interpreters maps a language to the argv the command text is
	// appended to, such as {"python3", "-c"}.
	Interpreters map[menu.Language][]string
}

// NewExecRunner returns a runner with the default interpreter set:
// python3 -c for Python. MEL has no standalone interpreter, so MEL runs
// stay unsupported until one is configured (for example
// maya -batch -command).
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Interpreters: map[menu.Language][]string{
			menu.LangPython: {"python3", "-c"},
		},
	}
}

// Run launches the language's interpreter with code as its final argument
// and returns everything the process printed, stdout and stderr combined.
// A failed run returns the captured output alongside the error so callers
// can show the interpreter's own message verbatim.
func (r *ExecRunner) Run(ctx context.Context, language menu.Language, code string) (string, error) {
	argv, ok := r.Interpreters[language]
	if !ok || len(argv) == 0 {
		return "", errors.New(errors.ErrCodeUnsupported, "no interpreter configured for %s", language)
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return "", errors.Wrap(errors.ErrCodeExecFailed, err, "interpreter %s not found", argv[0])
	}

	args := append(append([]string{}, argv[1:]...), code)
	cmd := exec.CommandContext(ctx, argv[0], args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	output := out.String()
	if err != nil {
		if ctx.Err() != nil {
			return output, errors.Wrap(errors.ErrCodeExecFailed, ctx.Err(), "run canceled")
		}
		return output, errors.Wrap(errors.ErrCodeExecFailed, err, "%s run failed", language)
	}
	return output, nil
}
