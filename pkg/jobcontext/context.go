package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

type KeyContext string

var (
	keyRunID        KeyContext = "job_run_id"
	keyJobName      KeyContext = "job_name"
	keyRetryAttempt KeyContext = "retry_attempt"
	keyJobStartTime KeyContext = "job_start_time"
	keyMaxRetries   KeyContext = "max_retries"
)

// DefaultTimeout bounds a single scheduled run.
const DefaultTimeout = 2 * time.Minute

// JobMetadata holds metadata for one run of a scheduled job
type JobMetadata struct {
	RunID        uuid.UUID
	JobName      string
	RetryAttempt int
	MaxRetries   int
	StartTime    time.Time
}

// JobBegin derives a run context carrying job metadata and a timeout
func JobBegin(parentCtx context.Context, jobName string, timeout time.Duration, maxRetries int) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	ctx, cancel := context.WithTimeout(parentCtx, timeout)

	ctx = context.WithValue(ctx, keyRunID, uuid.New())
	ctx = context.WithValue(ctx, keyJobName, jobName)
	ctx = context.WithValue(ctx, keyRetryAttempt, 0)
	ctx = context.WithValue(ctx, keyMaxRetries, maxRetries)
	ctx = context.WithValue(ctx, keyJobStartTime, time.Now())

	return ctx, cancel
}

// JobEnd runs jobFunc with panic recovery, retrying retryable errors with
// exponential backoff until the run's retries or context are exhausted
func JobEnd(ctx context.Context, jobFunc func(context.Context) error) error {
	return JobEndWithBackOff(ctx, backoff.NewExponentialBackOff(), jobFunc)
}

// JobEndWithBackOff is JobEnd with an explicit backoff policy
func JobEndWithBackOff(ctx context.Context, bo backoff.BackOff, jobFunc func(context.Context) error) error {
	maxRetries := GetMaxRetries(ctx)
	attempt := 0

	op := func() error {
		runCtx := SetRetryAttempt(ctx, attempt)
		attempt++

		var err error
		func() {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("panic recovered: %v", p)
				}
			}()
			if runCtx.Err() != nil {
				err = fmt.Errorf("context cancelled before job execution: %w", runCtx.Err())
				return
			}
			err = jobFunc(runCtx)
		}()

		if err == nil {
			return nil
		}
		if !IsRetryableError(err) {
			return backoff.Permanent(fmt.Errorf("non-retryable error: %w", err))
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxRetries-1)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		if attempt >= maxRetries {
			return fmt.Errorf("max retries (%d) exceeded: %w", maxRetries, err)
		}
		return err
	}
	return nil
}

// GetRunID extracts the run ID from context
func GetRunID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyRunID).(uuid.UUID)
	return id, ok
}

// GetJobName extracts the job name from context
func GetJobName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(keyJobName).(string)
	return name, ok
}

// GetRetryAttempt extracts current retry attempt from context
func GetRetryAttempt(ctx context.Context) int {
	attempt, ok := ctx.Value(keyRetryAttempt).(int)
	if !ok {
		return 0
	}
	return attempt
}

// SetRetryAttempt updates retry attempt in context
func SetRetryAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, keyRetryAttempt, attempt)
}

// GetMaxRetries extracts max retries from context
func GetMaxRetries(ctx context.Context) int {
	maxRetries, ok := ctx.Value(keyMaxRetries).(int)
	if !ok {
		return 3 // default
	}
	return maxRetries
}

// GetJobStartTime extracts job start time from context
func GetJobStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyJobStartTime).(time.Time)
	return startTime, ok
}

// GetJobMetadata extracts all job metadata from context
func GetJobMetadata(ctx context.Context) *JobMetadata {
	runID, _ := GetRunID(ctx)
	name, _ := GetJobName(ctx)
	startTime, _ := GetJobStartTime(ctx)

	return &JobMetadata{
		RunID:        runID,
		JobName:      name,
		RetryAttempt: GetRetryAttempt(ctx),
		MaxRetries:   GetMaxRetries(ctx),
		StartTime:    startTime,
	}
}

// IsRetryableError checks if an error should trigger a retry.
// Network errors, database lock conflicts and temporary failures are retried.
// Context expiry is not: the run's own deadline has passed.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") {
		return true
	}

	// Postgres serialization_failure / deadlock_detected
	if strings.Contains(errStr, "deadlock") ||
		strings.Contains(errStr, "40001") ||
		strings.Contains(errStr, "40p01") {
		return true
	}

	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}
