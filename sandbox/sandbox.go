// Package sandbox delegates code execution to a remote sandbox provisioning
// service. One request provisions one ephemeral session: write a file, run a
// command, collect output, release. The release step runs on every exit path.
package sandbox

import (
	"context"
	"fmt"
	"strings"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// DefaultRuntime is used when a request does not name a runtime.
const DefaultRuntime = "node22"

// DefaultTimeoutMS is forwarded to the provisioner when unset.
const DefaultTimeoutMS = 30000

// Client provisions sandbox sessions.
type Client interface {
	Create(ctx context.Context, req CreateRequest) (Session, error)
	Close() error
}

// Session is one provisioned sandbox. It is owned by a single request and
// must be stopped before the request completes.
type Session interface {
	ID() string
	WriteFile(ctx context.Context, path string, content []byte) error
	Run(ctx context.Context, command string, args ...string) (*RunResult, error)
	Stop(ctx context.Context) error
}

// CreateRequest describes the session to provision. The timeout is enforced
// by the external service, not locally.
type CreateRequest struct {
	Runtime   string `json:"runtime"`
	TimeoutMS int    `json:"timeout_ms,omitempty"`
}

// RunResult is the captured outcome of one command. A non-zero exit code is
// a result, not an error.
type RunResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// CommandFor picks the interpreter for a runtime tag: any tag starting with
// "node" runs under node, everything else under python3.
func CommandFor(runtime string) string {
	if strings.HasPrefix(runtime, "node") {
		return "node"
	}
	return "python3"
}

// Exec provisions a session, runs fn against it, and stops the session
// exactly once regardless of how fn concluded. Teardown uses a context that
// survives cancellation of the request so the remote resource never leaks.
func Exec(ctx context.Context, c Client, req CreateRequest, fn func(ctx context.Context, sess Session) error) (err error) {
	if req.Runtime == "" {
		req.Runtime = DefaultRuntime
	}
	if req.TimeoutMS <= 0 {
		req.TimeoutMS = DefaultTimeoutMS
	}

	sess, err := c.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("sandbox create: %w", err)
	}
	defer func() {
		if stopErr := sess.Stop(context.WithoutCancel(ctx)); stopErr != nil && err == nil {
			err = fmt.Errorf("sandbox stop: %w", stopErr)
		}
	}()

	return fn(ctx, sess)
}
