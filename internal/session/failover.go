package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// recoveryInterval is how long the failover waits before probing the primary
// again after marking it down.
const recoveryInterval = time.Minute

// FailoverRepository serves from the primary store until it errors, then
// falls back to the secondary and probes the primary periodically.
type FailoverRepository struct {
	primary   Repository
	fallback  Repository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverRepository(primary, fallback Repository, logger *zerolog.Logger) *FailoverRepository {
	return &FailoverRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverRepository) shouldProbe() bool {
	return time.Since(time.Unix(0, r.lastCheck.Load())) > recoveryInterval
}

func (r *FailoverRepository) Get(ctx context.Context, id string) (*Record, error) {
	if !r.isDown.Load() {
		record, err := r.primary.Get(ctx, id)
		if err == nil {
			return record, nil
		}
		r.markDown(err)
	} else if r.shouldProbe() {
		record, err := r.primary.Get(ctx, id)
		if err == nil {
			r.isDown.Store(false)
			return record, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}
	return r.fallback.Get(ctx, id)
}

func (r *FailoverRepository) Set(ctx context.Context, record *Record) error {
	if !r.isDown.Load() {
		err := r.primary.Set(ctx, record)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.Set(ctx, record)
}

func (r *FailoverRepository) Delete(ctx context.Context, id string) error {
	if !r.isDown.Load() {
		err := r.primary.Delete(ctx, id)
		if err == nil {
			// Delete from the fallback too so a stale copy cannot resurface.
			_ = r.fallback.Delete(ctx, id)
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.Delete(ctx, id)
}
