package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sideby/teachconnect/internal/domain/repositories"
	"github.com/sideby/teachconnect/internal/usecase/session"
	"github.com/sideby/teachconnect/pkg/jobcontext"
)

const (
	ExpireSessionsSpec        = "0 * * * * *"
	CompleteConversationsSpec = "0 */10 * * * *"
	PruneSessionsSpec         = "0 30 3 * * *"

	expireBatchSize = 200

	// Revoked and expired rows are kept this long for auditing.
	sessionRetention = 30 * 24 * time.Hour
)

// SignalHandler ends sessions. Implemented by session.Manager.
type SignalHandler interface {
	Handle(ctx context.Context, sig session.Signal) (bool, error)
}

// Job is one named periodic task.
type Job struct {
	Name       string
	Spec       string
	Timeout    time.Duration
	MaxRetries int
	Run        func(ctx context.Context) error
}

// Scheduler runs maintenance jobs on cron schedules.
type Scheduler struct {
	mu     sync.Mutex
	cron   *rcron.Cron
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   rcron.New(rcron.WithSeconds()),
		logger: logger,
	}
}

// Add registers a job. Jobs added after Start are scheduled immediately.
func (s *Scheduler) Add(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.cron.AddFunc(job.Spec, func() { s.execute(job) }); err != nil {
		return fmt.Errorf("failed to register job %s (%s): %w", job.Name, job.Spec, err)
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Start begins scheduling. Running jobs get a context derived from ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	count := len(s.jobs)
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("✅ Scheduler started", zap.Int("jobs", count))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// RunNow executes the named job once, outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	var (
		job   Job
		found bool
	)
	for _, j := range s.jobs {
		if j.Name == name {
			job, found = j, true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.run(ctx, job)
}

func (s *Scheduler) execute(job Job) {
	s.mu.Lock()
	parent := s.ctx
	s.mu.Unlock()
	if parent == nil {
		parent = context.Background()
	}

	if err := s.run(parent, job); err != nil {
		s.logger.Error("❌ Scheduled job failed", zap.String("job", job.Name), zap.Error(err))
	}
}

func (s *Scheduler) run(parent context.Context, job Job) error {
	ctx, cancel := jobcontext.JobBegin(parent, job.Name, job.Timeout, job.MaxRetries)
	defer cancel()

	meta := jobcontext.GetJobMetadata(ctx)
	err := jobcontext.JobEnd(ctx, job.Run)
	s.logger.Debug("Scheduled job finished",
		zap.String("job", job.Name),
		zap.String("run_id", meta.RunID.String()),
		zap.Duration("took", time.Since(meta.StartTime)),
		zap.Bool("ok", err == nil),
	)
	return err
}

// ExpireSessionsJob ends sessions whose refresh window has passed so that
// connected devices are told and pending state is cleaned up.
func ExpireSessionsJob(sessions repositories.SessionRepository, handler SignalHandler, logger *zap.Logger) Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Job{
		Name:       "expire-sessions",
		Spec:       ExpireSessionsSpec,
		Timeout:    time.Minute,
		MaxRetries: 3,
		Run: func(ctx context.Context) error {
			expired, err := sessions.FindExpired(ctx, time.Now(), expireBatchSize)
			if err != nil {
				return fmt.Errorf("failed to list expired sessions: %w", err)
			}

			ended := 0
			for _, sess := range expired {
				applied, err := handler.Handle(ctx, session.Signal{
					ID:        "expired:" + sess.ID.String(),
					UserID:    sess.UserID,
					SessionID: sess.ID,
					Reason:    session.ReasonExpired,
				})
				if err != nil {
					return fmt.Errorf("failed to end session %s: %w", sess.ID, err)
				}
				if applied {
					ended++
				}
			}
			if ended > 0 {
				logger.Info("Expired sessions ended", zap.Int("count", ended))
			}
			return nil
		},
	}
}

// CompleteConversationsJob marks chats whose slot has passed as completed.
func CompleteConversationsJob(conversations repositories.ConversationRepository, logger *zap.Logger) Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Job{
		Name:       "complete-conversations",
		Spec:       CompleteConversationsSpec,
		Timeout:    time.Minute,
		MaxRetries: 3,
		Run: func(ctx context.Context) error {
			n, err := conversations.CompleteEndedBefore(ctx, time.Now())
			if err != nil {
				return fmt.Errorf("failed to complete conversations: %w", err)
			}
			if n > 0 {
				logger.Info("Conversations completed", zap.Int64("count", n))
			}
			return nil
		},
	}
}

// PruneSessionsJob deletes session rows that ended more than a retention
// window ago.
func PruneSessionsJob(sessions repositories.SessionRepository, logger *zap.Logger) Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Job{
		Name:       "prune-sessions",
		Spec:       PruneSessionsSpec,
		Timeout:    5 * time.Minute,
		MaxRetries: 1,
		Run: func(ctx context.Context) error {
			n, err := sessions.CleanupOldSessions(ctx, time.Now().Add(-sessionRetention))
			if err != nil {
				return fmt.Errorf("failed to prune sessions: %w", err)
			}
			if n > 0 {
				logger.Info("Old sessions pruned", zap.Int64("count", n))
			}
			return nil
		},
	}
}
