// Package scheduler provides background sync scheduling for the Diiwaan
// sync core: periodic passes while online, manual triggers, graceful stop.
package scheduler

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/logging"
	syncpkg "github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/sync"
)

// Engine is the sync pass the scheduler drives. Satisfied by *sync.Engine.
type Engine interface {
	Sync(ctx context.Context, sess syncpkg.Session) (*syncpkg.Result, error)
}

// Config holds scheduler configuration.
type Config struct {
	Interval    time.Duration // how often to sync when online
	PassTimeout time.Duration // per-pass deadline
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		Interval:    15 * time.Minute,
		PassTimeout: 5 * time.Minute,
	}
}

// Scheduler runs periodic sync passes for one owner session. It guarantees
// at most one pass in flight, which keeps the no-overlapping-sync contract
// the store layer relies on.
type Scheduler struct {
	engine      Engine
	session     syncpkg.Session
	interval    time.Duration
	passTimeout time.Duration

	stopCh chan struct{}
	wg     stdsync.WaitGroup
	mu     stdsync.RWMutex

	isRunning      bool
	isOnline       bool
	syncInProgress bool
	lastSyncTime   time.Time

	log zerolog.Logger
}

// New creates a Scheduler for the given engine and session.
func New(engine Engine, sess syncpkg.Session, cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.PassTimeout <= 0 {
		cfg.PassTimeout = DefaultConfig().PassTimeout
	}
	return &Scheduler{
		engine:      engine,
		session:     sess,
		interval:    cfg.Interval,
		passTimeout: cfg.PassTimeout,
		stopCh:      make(chan struct{}),
		isOnline:    true, // assume online until told otherwise
		log:         logging.WithComponent("scheduler"),
	}
}

// Start starts the background loop. Calling Start on a running scheduler is
// a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)

	s.log.Info().Dur("interval", s.interval).Msg("background sync scheduler started")
}

// Stop stops the scheduler and waits for an in-flight pass to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()

	s.log.Info().Msg("background sync scheduler stopped")
}

// SetOnlineStatus flips the online flag. While offline no passes are
// attempted; pending outbox rows wait for the next online pass.
func (s *Scheduler) SetOnlineStatus(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isOnline != online {
		s.log.Info().Bool("online", online).Msg("online status changed")
	}
	s.isOnline = online
}

// IsOnline returns whether the scheduler is in online mode.
func (s *Scheduler) IsOnline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isOnline
}

// IsRunning returns whether the scheduler loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// LastSyncTime returns when the last successful pass finished, or the zero
// time if none has.
func (s *Scheduler) LastSyncTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSyncTime
}

// TriggerSync starts an immediate pass unless one is already in flight.
// Returns true if a pass was started.
func (s *Scheduler) TriggerSync(ctx context.Context) bool {
	if !s.beginPass() {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runPass(ctx)
	}()
	return true
}

// SyncNow runs a pass synchronously and returns its error. It waits out an
// in-flight pass guard by refusing, like TriggerSync, rather than queuing.
func (s *Scheduler) SyncNow(ctx context.Context) error {
	if !s.beginPass() {
		return nil
	}
	return s.runPass(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if !s.IsOnline() {
				continue
			}
			if !s.beginPass() {
				s.log.Debug().Msg("sync already in progress, skipping tick")
				continue
			}
			if err := s.runPass(ctx); err != nil {
				s.log.Error().Err(err).Msg("periodic sync pass failed")
			}
		}
	}
}

// beginPass claims the in-progress guard. Returns false if a pass already
// holds it.
func (s *Scheduler) beginPass() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.syncInProgress {
		return false
	}
	s.syncInProgress = true
	return true
}

// runPass executes one pass; the caller must have claimed the guard.
func (s *Scheduler) runPass(ctx context.Context) error {
	defer func() {
		s.mu.Lock()
		s.syncInProgress = false
		s.mu.Unlock()
	}()

	passCtx, cancel := context.WithTimeout(ctx, s.passTimeout)
	defer cancel()

	result, err := s.engine.Sync(passCtx, s.session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.lastSyncTime = time.Now()
	s.mu.Unlock()

	if result.Drain != nil && result.Drain.Halted {
		// A systemic remote failure halted the outbox; the next tick
		// retries the remaining pending rows.
		s.log.Warn().Str("pass_id", result.PassID).Msg("outbox halted mid-drain")
	}
	return nil
}
