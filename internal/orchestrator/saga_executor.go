package orchestrator

import (
	"context"
	"fmt"

	"github.com/ejfitzgerald/accoutrements/internal/domain"
	"github.com/ejfitzgerald/accoutrements/internal/repository"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// SagaStep is one reversible step of the release workflow.
type SagaStep struct {
	Name       string
	Type       domain.OperationType
	Execute    func(ctx context.Context) (rollbackData map[string]any, err error)
	Compensate func(ctx context.Context, rollbackData map[string]any) error
	// Retry marks steps that talk to the network and may be repeated.
	Retry bool
}

// SagaExecutor runs steps in order and, when one fails, runs the
// compensations of the completed steps in reverse.
type SagaExecutor struct {
	sessionID string
	stateRepo repository.StateRepository
	state     *domain.RollbackState
	steps     []SagaStep
	persist   bool
	resumed   bool
	logger    *zap.Logger
}

// NewSagaExecutor creates an executor with a fresh session id. State is only
// written when persist is set.
func NewSagaExecutor(stateRepo repository.StateRepository, persist bool, logger *zap.Logger) *SagaExecutor {
	sessionID := uuid.New().String()
	return &SagaExecutor{
		sessionID: sessionID,
		stateRepo: stateRepo,
		state:     domain.NewRollbackState(sessionID),
		persist:   persist,
		logger:    logger,
	}
}

// LoadExistingSaga restores a stored session so it can be rolled back.
// Steps added afterwards only provide compensations.
func LoadExistingSaga(
	ctx context.Context,
	stateRepo repository.StateRepository,
	sessionID string,
	logger *zap.Logger,
) (*SagaExecutor, error) {
	var (
		state *domain.RollbackState
		err   error
	)
	if sessionID == "" {
		state, err = stateRepo.LoadLatest(ctx)
	} else {
		state, err = stateRepo.Load(ctx, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load saga state: %w", err)
	}
	return &SagaExecutor{
		sessionID: state.SessionID,
		stateRepo: stateRepo,
		state:     state,
		persist:   true,
		resumed:   true,
		logger:    logger,
	}, nil
}

// SessionID identifies the run for a later rollback.
func (s *SagaExecutor) SessionID() string {
	return s.sessionID
}

// State returns the live state.
func (s *SagaExecutor) State() *domain.RollbackState {
	return s.state
}

// SetRelease records what the session is releasing.
func (s *SagaExecutor) SetRelease(release *domain.Release) {
	s.state.Tag = release.Tag
	s.state.Previous = release.Current
	s.state.Remote = release.Remote
}

// AddStep appends a step. A restored session only keeps steps it recorded an
// operation for.
func (s *SagaExecutor) AddStep(step SagaStep) {
	if s.resumed {
		if s.state.FindOperation(step.Type) == nil {
			s.logger.Debug("session has no such operation, skipping step",
				zap.String("session", s.sessionID), zap.String("step", step.Name))
			return
		}
		s.steps = append(s.steps, step)
		return
	}
	s.steps = append(s.steps, step)
	s.state.AddOperation(step.Type)
}

// Execute runs every step. On failure completed steps are compensated under
// a context that survives cancellation of ctx.
func (s *SagaExecutor) Execute(ctx context.Context) error {
	if s.resumed {
		return fmt.Errorf("session %s was restored for rollback and cannot be executed", s.sessionID)
	}
	s.state.Status = domain.WorkflowStatusRunning
	if err := s.save(ctx); err != nil {
		return fmt.Errorf("failed to save initial state: %w", err)
	}
	for _, step := range s.steps {
		if err := s.executeStep(ctx, step); err != nil {
			s.state.MarkOperationFailed(step.Type, err)
			s.saveBestEffort(ctx, "step failed")
			rollbackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), RollbackTimeout)
			rollbackErr := s.rollback(rollbackCtx)
			cancel()
			if rollbackErr != nil {
				return fmt.Errorf("step '%s' failed: %w, rollback also failed: %v", step.Name, err, rollbackErr)
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name, err)
		}
	}
	s.state.Status = domain.WorkflowStatusCompleted
	s.saveBestEffort(ctx, "completed")
	return nil
}

func (s *SagaExecutor) executeStep(ctx context.Context, step SagaStep) error {
	s.state.MarkOperationStarted(step.Type)
	s.saveBestEffort(ctx, "step started")
	s.logger.Debug("executing step", zap.String("session", s.sessionID), zap.String("step", step.Name))
	var rollbackData map[string]any
	run := func(ctx context.Context) error {
		data, err := step.Execute(ctx)
		if err != nil {
			return err
		}
		rollbackData = data
		return nil
	}
	var err error
	if step.Retry {
		err = withRetry(ctx, s.logger, step.Name, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return err
	}
	s.state.MarkOperationCompleted(step.Type, rollbackData)
	s.saveBestEffort(ctx, "step completed")
	return nil
}

// Rollback compensates every completed operation of the session.
func (s *SagaExecutor) Rollback(ctx context.Context) error {
	return s.rollback(ctx)
}

func (s *SagaExecutor) rollback(ctx context.Context) error {
	completed := s.state.GetCompletedOperations()
	s.logger.Info("rolling back", zap.String("session", s.sessionID), zap.Int("operations", len(completed)))
	for _, op := range completed {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("rollback canceled: %w", err)
		}
		step := s.findStep(op.Type)
		if step == nil || step.Compensate == nil {
			continue
		}
		err := withRetry(ctx, s.logger, "compensate "+step.Name, func(ctx context.Context) error {
			return step.Compensate(ctx, op.RollbackData)
		})
		if err != nil {
			return fmt.Errorf("rollback failed for %s: %w", step.Name, err)
		}
		s.markRolledBack(op.ID)
		s.saveBestEffort(ctx, "operation rolled back")
	}
	s.state.Status = domain.WorkflowStatusRolledBack
	s.saveBestEffort(ctx, "rolled back")
	return nil
}

func (s *SagaExecutor) markRolledBack(id string) {
	for i := range s.state.Operations {
		if s.state.Operations[i].ID == id {
			s.state.Operations[i].Status = domain.OperationStatusRolledBack
		}
	}
}

func (s *SagaExecutor) findStep(opType domain.OperationType) *SagaStep {
	for i := range s.steps {
		if s.steps[i].Type == opType {
			return &s.steps[i]
		}
	}
	return nil
}

func (s *SagaExecutor) save(ctx context.Context) error {
	if !s.persist {
		return nil
	}
	return s.stateRepo.Save(ctx, s.state)
}

func (s *SagaExecutor) saveBestEffort(ctx context.Context, event string) {
	if err := s.save(ctx); err != nil {
		s.logger.Warn("failed to save release state",
			zap.String("session", s.sessionID),
			zap.String("event", event),
			zap.Error(err))
	}
}

// withRetry retries fn with exponential backoff.
func withRetry(ctx context.Context, logger *zap.Logger, name string, fn func(context.Context) error) error {
	attempt := 0
	backoff := retry.WithMaxRetries(DefaultRetryCount, retry.NewExponential(DefaultRetryDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := fn(ctx); err != nil {
			logger.Debug("attempt failed", zap.String("operation", name), zap.Int("attempt", attempt), zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
}
