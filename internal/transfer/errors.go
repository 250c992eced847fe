package transfer

import (
	"context"
	"errors"
	"fmt"
)

// Agents recorded on a CancelError.
const (
	AgentUser    = "user"
	AgentTimeout = "timeout"
)

// DownloadError wraps a failed object download with the context needed to
// diagnose it: bucket, key, and the local destination when there was one.
type DownloadError struct {
	Bucket string
	Key    string
	Path   string
	Err    error
}

func (e *DownloadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("download %s/%s to %s: %v", e.Bucket, e.Key, e.Path, e.Err)
	}
	return fmt.Sprintf("download %s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// CancelError reports a cooperative abort. Agent identifies who initiated
// it: "user" for caller cancellation, "timeout" for an expired deadline.
// It is always distinguishable from a DownloadError.
type CancelError struct {
	Agent string
	Err   error
}

func (e *CancelError) Error() string {
	return fmt.Sprintf("cancelled by %s: %v", e.Agent, e.Err)
}

func (e *CancelError) Unwrap() error {
	return e.Err
}

// IsCancelled reports whether err is (or wraps) a CancelError.
func IsCancelled(err error) bool {
	var cancelErr *CancelError
	return errors.As(err, &cancelErr)
}

// cancelled converts the context's error into a CancelError tagged with
// the agent that fired it.
func cancelled(ctx context.Context) *CancelError {
	err := context.Cause(ctx)
	if err == nil {
		err = ctx.Err()
	}

	agent := AgentUser
	if errors.Is(err, context.DeadlineExceeded) {
		agent = AgentTimeout
	}

	return &CancelError{Agent: agent, Err: err}
}
