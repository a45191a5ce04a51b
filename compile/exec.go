package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// passResult captures the outcome of a single external-tool invocation.
// A non-zero exit status is a result, not an error; errors are reserved
// for environment problems (missing binary, timeout, failure to start).
type passResult struct {
	exitCode int
	stdout   []byte
	stderr   []byte
}

func (r *passResult) combined() []byte {
	out := make([]byte, 0, len(r.stdout)+len(r.stderr))
	out = append(out, r.stdout...)
	out = append(out, r.stderr...)
	return out
}

type commandRunner interface {
	run(ctx context.Context, name string, args []string, timeout time.Duration) (*passResult, error)
}

// execRunner invokes real processes in the current working directory.
type execRunner struct{}

func (execRunner) run(ctx context.Context, name string, args []string, timeout time.Duration) (*passResult, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// run the tool in its own process group; a helper it spawned
	// (shell-escape hooks and the like) inherits the output pipes and
	// would otherwise keep Wait blocked past the deadline
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", name, ErrToolMissing)
		}
		return nil, fmt.Errorf("running %s: %w", name, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var err error
	select {
	case <-tctx.Done():
		// kill the whole process group, then let Wait release the pipes
		syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		<-done
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("%s took longer than %s: %w", name, timeout, ErrTimeout)
	case err = <-done:
	}

	if err != nil {
		var xe *exec.ExitError
		if errors.As(err, &xe) {
			return &passResult{
				exitCode: xe.ExitCode(),
				stdout:   stdout.Bytes(),
				stderr:   stderr.Bytes(),
			}, nil
		}
		return nil, fmt.Errorf("running %s: %w", name, err)
	}
	return &passResult{stdout: stdout.Bytes(), stderr: stderr.Bytes()}, nil
}
