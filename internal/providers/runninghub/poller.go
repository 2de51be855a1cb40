package runninghub

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"imageforge/internal/infra"
)

// State is the lifecycle state of a remote job as seen by the poller.
type State int

const (
	StateCreated State = iota
	StateRunning
	StateSucceeded
	StateFailed
	StateTimedOut
	// StateUnknown means the backend returned a status string this client
	// does not recognize. It is terminal: aborting immediately avoids an
	// infinite loop on protocol drift.
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Backend status strings.
const (
	statusRunning = "RUNNING"
	statusSuccess = "SUCCESS"
	statusFailed  = "FAILED"
)

type statusClient interface {
	PollStatus(ctx context.Context, taskID, clientID string) (string, error)
}

// PollerOptions tunes the polling schedule.
type PollerOptions struct {
	Interval    time.Duration
	MaxAttempts int
	Logger      *infra.Logger
}

// Poller drives a submitted job to a terminal state. It performs synchronous
// sleep-based waits between polls and owns the job for its lifetime; the job
// is never persisted and is discarded once a terminal state is reached.
type Poller struct {
	client      statusClient
	interval    time.Duration
	maxAttempts int
	logger      *infra.Logger
}

// NewPoller wires a poller against a status client.
func NewPoller(client statusClient, opts PollerOptions) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 60
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Poller{client: client, interval: interval, maxAttempts: attempts, logger: logger}
}

// Wait polls the job at a fixed interval until it reaches a terminal state
// or the attempt budget is exhausted. Transient status-call failures are
// swallowed and retried; they still consume an attempt. The whole job is
// never resubmitted here — resubmission is a caller decision.
func (p *Poller) Wait(ctx context.Context, job *Job) (State, error) {
	state := job.State
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		status, err := p.client.PollStatus(ctx, job.TaskID, job.ClientID)
		if err != nil {
			p.logger.Warn().Err(err).
				Str("task_id", job.TaskID).
				Int("attempt", attempt).
				Msg("poll: status check failed, retrying")
			if attempt < p.maxAttempts {
				if err := p.sleep(ctx); err != nil {
					return state, err
				}
			}
			continue
		}
		switch status {
		case statusRunning:
			if state != StateRunning {
				state = StateRunning
				job.State = state
				p.logger.Info().Str("task_id", job.TaskID).Msg("poll: job running")
			}
			p.logger.Debug().
				Str("task_id", job.TaskID).
				Int("attempt", attempt).
				Int("max_attempts", p.maxAttempts).
				Msg("poll: still running")
			if attempt < p.maxAttempts {
				if err := p.sleep(ctx); err != nil {
					return state, err
				}
			}
		case statusSuccess:
			job.State = StateSucceeded
			p.logger.Info().Str("task_id", job.TaskID).Int("attempts", attempt).Msg("poll: job succeeded")
			return StateSucceeded, nil
		case statusFailed:
			job.State = StateFailed
			p.logger.Error().Str("task_id", job.TaskID).Int("attempts", attempt).Msg("poll: job failed")
			return StateFailed, fmt.Errorf("%w: backend reported failure", ErrProtocol)
		default:
			job.State = StateUnknown
			p.logger.Error().Str("task_id", job.TaskID).Str("status", status).Msg("poll: unrecognized status, aborting")
			return StateUnknown, fmt.Errorf("%w: unrecognized status %q", ErrProtocol, status)
		}
	}
	job.State = StateTimedOut
	p.logger.Error().Str("task_id", job.TaskID).Int("attempts", p.maxAttempts).Msg("poll: attempt budget exhausted")
	return StateTimedOut, fmt.Errorf("%w: no terminal state after %d attempts", ErrTimeout, p.maxAttempts)
}

// sleep blocks for one interval, honoring cancellation.
func (p *Poller) sleep(ctx context.Context) error {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
