// Package reminder schedules delayed one-shot DMs and fires them from a
// periodic background sweep.
package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/redis/go-redis/v9"

	"github.com/blitzboy11/Xsin/platform"
)

// DefaultSweepInterval matches the original 5 time-unit cadence; a due
// reminder fires at or after FireAt and within one sweep period of it.
const DefaultSweepInterval = 5 * time.Second

var redisPendingKey = "xsin/reminders"

// Reminder is one pending delayed notification. ID is assigned at creation:
// two reminders may share owner, text, and fire time, so value identity is
// not enough to retire one safely.
type Reminder struct {
	ID      string    `json:"id"`
	OwnerID string    `json:"owner_id"`
	Text    string    `json:"text"`
	FireAt  time.Time `json:"fire_at"`
}

type Config struct {
	Logger *slog.Logger
	Client platform.Client
	// Optional: pending reminders are mirrored to a redis hash so they
	// survive restarts. Nil disables persistence.
	Redis         *redis.Client
	SweepInterval time.Duration
}

// Scheduler owns the pending set. Schedule may be called from any goroutine
// at any time, including while a sweep is running: the pending set is a
// concurrent map keyed by reminder id, the sweep collects due ids in one
// pass and retires each with LoadAndDelete in a second, so concurrent
// insertion is never corrupted or skipped and nothing fires twice.
type Scheduler struct {
	logger        *slog.Logger
	client        platform.Client
	rdb           *redis.Client
	sweepInterval time.Duration
	pending       *xsync.MapOf[string, *Reminder]

	// overridden in tests
	now func() time.Time
}

func NewScheduler(cfg Config) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Scheduler{
		logger:        logger.With("component", "reminder"),
		client:        cfg.Client,
		rdb:           cfg.Redis,
		sweepInterval: interval,
		pending:       xsync.NewMapOf[string, *Reminder](),
		now:           time.Now,
	}
}

// Schedule inserts a pending reminder firing delay from now and returns its
// id. A negative delay is normalized to zero (fires on the next sweep tick)
// rather than rejected.
func (s *Scheduler) Schedule(ctx context.Context, ownerID string, delay time.Duration, text string) (string, error) {
	if delay < 0 {
		s.logger.Warn("negative reminder delay normalized to zero", "owner", ownerID, "delay", delay)
		delay = 0
	}
	r := &Reminder{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		Text:    text,
		FireAt:  s.now().Add(delay),
	}
	s.pending.Store(r.ID, r)
	remindersScheduled.Inc()
	if s.rdb != nil {
		b, err := json.Marshal(r)
		if err != nil {
			return r.ID, fmt.Errorf("encoding reminder %s: %w", r.ID, err)
		}
		// persistence is a mirror; the in-memory reminder still fires
		// this process even if the write fails
		if err := s.rdb.HSet(ctx, redisPendingKey, r.ID, b).Err(); err != nil {
			s.logger.Warn("persisting reminder failed", "id", r.ID, "err", err)
		}
	}
	return r.ID, nil
}

// Pending reports the current number of pending reminders.
func (s *Scheduler) Pending() int {
	return s.pending.Size()
}

// LoadPending rehydrates the pending set from redis after a restart.
// Reminders already past due fire on the first sweep.
func (s *Scheduler) LoadPending(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}
	vals, err := s.rdb.HGetAll(ctx, redisPendingKey).Result()
	if err != nil {
		return fmt.Errorf("reading persisted reminders: %w", err)
	}
	loaded := 0
	for id, raw := range vals {
		var r Reminder
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			s.logger.Warn("dropping malformed persisted reminder", "id", id, "err", err)
			if err := s.rdb.HDel(ctx, redisPendingKey, id).Err(); err != nil {
				s.logger.Warn("removing malformed persisted reminder failed", "id", id, "err", err)
			}
			continue
		}
		s.pending.Store(r.ID, &r)
		loaded++
	}
	if loaded > 0 {
		s.logger.Info("rehydrated pending reminders", "count", loaded)
	}
	return nil
}

// Run sweeps on a fixed period until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep fires every reminder due as of now. Exported so tests (and a future
// admin surface) can drive it without the ticker.
//
// Due ids are collected during the Range pass and each is claimed with
// LoadAndDelete before delivery: whoever wins the claim fires it, exactly
// once. A reminder whose delivery fails is still retired after the one
// attempt; endless re-queueing would be worse than a dropped ping.
func (s *Scheduler) Sweep(ctx context.Context) {
	now := s.now()
	var due []string
	s.pending.Range(func(id string, r *Reminder) bool {
		if !r.FireAt.After(now) {
			due = append(due, id)
		}
		return true
	})
	for _, id := range due {
		r, ok := s.pending.LoadAndDelete(id)
		if !ok {
			continue
		}
		if err := s.client.SendDirectMessage(ctx, r.OwnerID, "Reminder: "+r.Text); err != nil {
			remindersFailed.Inc()
			s.logger.Error("reminder delivery failed, retiring anyway", "id", r.ID, "owner", r.OwnerID, "err", err)
		} else {
			remindersFired.Inc()
		}
		if s.rdb != nil {
			if err := s.rdb.HDel(ctx, redisPendingKey, r.ID).Err(); err != nil {
				s.logger.Warn("removing persisted reminder failed", "id", r.ID, "err", err)
			}
		}
	}
}
