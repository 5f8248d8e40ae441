package audit

import (
	"context"
	"time"

	"codeberg.org/mutker/hostctl/internal/action"
	"codeberg.org/mutker/hostctl/internal/errors"
	"codeberg.org/mutker/hostctl/internal/logger"
)

type service struct {
	repo Repository
	cfg  Config
	log  logger.Logger
}

// No-op implementation
type noopJournal struct{}

// NewService returns a sqlite-backed journal, or a no-op journal when the
// journal is disabled.
func NewService(cfg Config) (Journal, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		logger.Debug().Msg("Audit journal disabled, using no-op journal")
		return &noopJournal{}, nil
	}

	repo, err := NewRepository(cfg, logger.Default())
	if err != nil {
		logger.Debug().Err(err).Msg("Failed to create audit repository")
		return nil, err
	}

	return newService(repo, cfg), nil
}

func newService(repo Repository, cfg Config) *service {
	return &service{repo: repo, cfg: cfg, log: logger.Default()}
}

func (s *service) Record(ctx context.Context, entry *Entry) error {
	errFactory := errors.New()

	if entry == nil || entry.Action == "" {
		return errFactory.New(ErrInvalidEntry)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Record(entry); err != nil {
			return errFactory.Wrap(ErrRecordFailed, err)
		}
	}

	return nil
}

// Observe journals a completed dispatch. The request context may already be
// cancelled, so recording does not depend on it.
func (s *service) Observe(ctx context.Context, req action.Request, res action.Result, elapsed time.Duration) {
	entry := &Entry{
		Timestamp: time.Now(),
		Action:    req.Name,
		Params:    req.Params,
		Kind:      string(res.Kind),
		Status:    res.Status(),
		Message:   res.Message,
		Duration:  elapsed,
	}

	if err := s.Record(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Warn().Err(err).Str("action", req.Name).Msg("Failed to journal action")
	}
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}

	return nil
}

func (*noopJournal) Record(context.Context, *Entry) error {
	return nil
}

func (*noopJournal) Observe(context.Context, action.Request, action.Result, time.Duration) {}

func (*noopJournal) Close() error {
	return nil
}
