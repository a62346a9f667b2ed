package sched

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"homework-status-bot/internal/config"
	"homework-status-bot/internal/domain"
	"homework-status-bot/internal/domain/ports/adapter"
	"homework-status-bot/internal/infra/logging"
	"homework-status-bot/internal/infra/metrics"
	"homework-status-bot/internal/usecase"
)

// State is the step of the poll loop currently executing.
type State string

const (
	StatePolling    State = "polling"
	StateValidating State = "validating"
	StateParsing    State = "parsing"
	StateNotifying  State = "notifying"
	StateError      State = "error"
	StateSleeping   State = "sleeping"
)

var allStates = []string{
	string(StatePolling), string(StateValidating), string(StateParsing),
	string(StateNotifying), string(StateError), string(StateSleeping),
}

// FailurePrefix starts every error notification sent to the chat.
const FailurePrefix = "Program failure: "

// StatusPoller runs fetch -> validate -> parse -> notify -> sleep forever.
// It is not safe for concurrent use; Run owns it.
type StatusPoller struct {
	api        adapter.HomeworkAPI
	notifier   usecase.NotifyUseCase
	interval   time.Duration
	backoffMax time.Duration

	locker     adapter.Locker
	lockKey    string
	lockTTL    time.Duration
	leaseToken string

	cursor     int64
	lastErrMsg string
	failures   int
	state      State

	after func(time.Duration) <-chan time.Time
	log   *zerolog.Logger
}

func NewStatusPoller(cfg *config.PollerConfig, api adapter.HomeworkAPI, notifier usecase.NotifyUseCase, logger *zerolog.Logger) *StatusPoller {
	compLog := logger.With().Str("component", "StatusPoller").Logger()
	interval := cfg.RetryPeriod
	if interval <= 0 {
		interval = config.DefaultRetryPeriod
	}
	cursor := cfg.FromDate
	if cursor <= 0 {
		cursor = time.Now().Unix()
	}
	return &StatusPoller{
		api:        api,
		notifier:   notifier,
		interval:   interval,
		backoffMax: cfg.BackoffMax,
		cursor:     cursor,
		state:      StateSleeping,
		after:      time.After,
		log:        &compLog,
	}
}

// WithLease makes every cycle hold a lease on key first. Cycles that cannot
// get it are skipped.
func (p *StatusPoller) WithLease(locker adapter.Locker, key string, ttl time.Duration) *StatusPoller {
	p.locker = locker
	p.lockKey = key
	p.lockTTL = ttl
	return p
}

// Cursor is the from_date the next fetch will use.
func (p *StatusPoller) Cursor() int64 { return p.cursor }

func (p *StatusPoller) State() State { return p.state }

// Run loops until ctx is canceled.
func (p *StatusPoller) Run(ctx context.Context) error {
	p.log.Info().
		Int64("from_date", p.cursor).
		Dur("interval", p.interval).
		Msg("Starting status poller")
	defer p.releaseLease()

	for {
		_ = p.RunOnce(ctx)

		d := p.nextDelay()
		p.setState(StateSleeping)
		p.log.Trace().Dur("sleep", d).Msg("sleeping until next cycle")
		select {
		case <-ctx.Done():
			p.log.Info().Msg("Stopping status poller")
			return ctx.Err()
		case <-p.after(d):
		}
	}
}

// RunOnce executes a single cycle and returns the failure it handled, if any.
// The failure has already been logged and reported to the chat.
func (p *StatusPoller) RunOnce(ctx context.Context) error {
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithCursor(ctx, p.cursor)
	log := logging.With(ctx, p.log)
	defer logging.TraceDuration(log, "StatusPoller.RunOnce")()

	if !p.acquireLease(ctx, log) {
		metrics.IncPollCycle("skipped")
		return nil
	}

	p.setState(StatePolling)
	payload, err := p.api.GetHomeworkStatuses(ctx, p.cursor)
	if err != nil {
		return p.fail(ctx, log, err)
	}
	if next, ok := usecase.CurrentDate(payload); ok {
		p.cursor = next
		metrics.SetCursor(next)
	}

	p.setState(StateValidating)
	homeworks, err := usecase.CheckResponse(payload)
	if err != nil {
		return p.fail(ctx, log, err)
	}
	if len(homeworks) == 0 {
		log.Debug().Msg("no new homework statuses")
		p.succeed()
		return nil
	}

	p.setState(StateParsing)
	message, err := usecase.ParseStatus(homeworks[0])
	if err != nil {
		return p.fail(ctx, log, err)
	}

	p.setState(StateNotifying)
	if p.notifier.Send(ctx, usecase.NotifyKindStatus, message) {
		log.Info().Str("message", message).Msg("homework status change delivered")
	}
	p.succeed()
	return nil
}

func (p *StatusPoller) succeed() {
	p.failures = 0
	p.lastErrMsg = ""
	metrics.IncPollCycle("ok")
}

// fail is the single dispatch point for every error kind.
func (p *StatusPoller) fail(ctx context.Context, log *zerolog.Logger, err error) error {
	kind := domain.KindOf(err)
	p.setState(StateError)
	p.failures++
	metrics.IncPollCycle("failed")
	metrics.IncPollFailure(kind.String())

	ev := log.Error()
	if kind.Fatal() {
		ev = log.WithLevel(zerolog.FatalLevel)
	}
	ev.Err(err).Str("kind", kind.String()).Int("consecutive_failures", p.failures).Msg("poll cycle failed")

	if ctx.Err() != nil {
		return err
	}
	text := FailurePrefix + err.Error()
	if text == p.lastErrMsg {
		metrics.IncNotification(usecase.NotifyKindError, "deduplicated")
		return err
	}
	if p.notifier.Send(ctx, usecase.NotifyKindError, text) {
		p.lastErrMsg = text
	}
	return err
}

// nextDelay is the fixed interval, or with backoff enabled the interval
// doubled per consecutive failure and capped at backoffMax.
func (p *StatusPoller) nextDelay() time.Duration {
	if p.backoffMax <= p.interval || p.failures == 0 {
		return p.interval
	}
	d := p.interval
	for i := 1; i < p.failures; i++ {
		d *= 2
		if d >= p.backoffMax {
			return p.backoffMax
		}
	}
	return d
}

func (p *StatusPoller) acquireLease(ctx context.Context, log *zerolog.Logger) bool {
	if p.locker == nil {
		return true
	}
	if p.leaseToken != "" {
		err := p.locker.Refresh(ctx, p.lockKey, p.leaseToken, p.lockTTL)
		if err == nil {
			return true
		}
		if !errors.Is(err, domain.ErrLockNotAcquired) {
			log.Warn().Err(err).Msg("lease refresh failed; polling anyway")
			return true
		}
		log.Warn().Msg("poller lease lost")
		p.leaseToken = ""
	}

	token, err := p.locker.TryLock(ctx, p.lockKey, p.lockTTL)
	switch {
	case err == nil:
		p.leaseToken = token
		log.Info().Str("key", p.lockKey).Msg("poller lease acquired")
		return true
	case errors.Is(err, domain.ErrLockNotAcquired):
		log.Debug().Str("key", p.lockKey).Msg("another instance holds the poller lease; skipping cycle")
		return false
	default:
		log.Warn().Err(err).Msg("lease store unavailable; polling anyway")
		return true
	}
}

func (p *StatusPoller) releaseLease() {
	if p.locker == nil || p.leaseToken == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.locker.Unlock(ctx, p.lockKey, p.leaseToken); err != nil {
		p.log.Warn().Err(err).Msg("failed to release poller lease")
	}
	p.leaseToken = ""
}

func (p *StatusPoller) setState(s State) {
	p.state = s
	metrics.SetState(string(s), allStates)
}
