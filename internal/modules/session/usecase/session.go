package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	profiledto "prapp/internal/modules/profile/dto"
	profilein "prapp/internal/modules/profile/port/in"
	"prapp/internal/modules/session/domain"
	sessiondto "prapp/internal/modules/session/dto"
	sessionin "prapp/internal/modules/session/port/in"
	"prapp/internal/modules/session/service"
	"prapp/internal/platform/clock"
	apperrors "prapp/internal/platform/errors"
)

type Options struct {
	Warmup time.Duration
	// RecordAborted makes Exit from an active session write an aborted record.
	RecordAborted bool
	Logger        hclog.Logger
}

type Interactor struct {
	svc     *service.SessionService
	profile profilein.Usecase
	clock   clock.Clock
	opts    Options
}

func NewInteractor(svc *service.SessionService, profile profilein.Usecase, clk clock.Clock, opts Options) sessionin.Usecase {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	opts.Logger = opts.Logger.Named("session")
	return &Interactor{svc: svc, profile: profile, clock: clk, opts: opts}
}

// Open mounts a session in the initializing state and schedules activation
// after the warm-up delay.
func (i *Interactor) Open(ctx context.Context, input sessiondto.OpenInput) (sessionin.Controller, error) {
	lc, err := domain.NewLifecycle(input.SessionID)
	if err != nil {
		return nil, err
	}
	r := &run{
		uc:      i,
		lc:      lc,
		seed:    i.profile.Load(ctx),
		updates: make(chan sessiondto.StateOutput, 4),
		logger:  i.opts.Logger.With("session_id", input.SessionID),
	}
	r.mu.Lock()
	r.timer = i.clock.AfterFunc(i.opts.Warmup, r.activate)
	r.mu.Unlock()
	r.logger.Debug("session opened", "warmup", i.opts.Warmup)
	return r, nil
}

type run struct {
	uc     *Interactor
	logger hclog.Logger

	mu      sync.Mutex
	lc      *domain.Lifecycle
	timer   clock.Timer
	seed    profiledto.ProfileOutput
	updates chan sessiondto.StateOutput
	closed  bool
}

func (r *run) activate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lc.TornDown() {
		r.logger.Debug("warm-up fired after teardown, ignored")
		return
	}
	if err := r.lc.Activate(); err != nil {
		r.logger.Warn("activation rejected", "error", err)
		return
	}
	r.seed = r.uc.profile.Load(context.Background())
	r.emitLocked()
}

func (r *run) State() sessiondto.StateOutput {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *run) Updates() <-chan sessiondto.StateOutput {
	return r.updates
}

// Complete is the only business transition: it writes the session record,
// the canned improvements and the activated flag in one profile merge. On
// any error the session stays active.
func (r *run) Complete(ctx context.Context) (sessiondto.CompleteOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.lc.CanComplete(); err != nil {
		return sessiondto.CompleteOutput{}, err
	}

	var record profiledto.SessionRecord
	updated, err := r.uc.profile.Modify(ctx, func(current profiledto.ProfileOutput) (profiledto.UpdateInput, error) {
		input, rec, err := r.uc.svc.CompletionUpdate(r.lc.SessionID(), current)
		record = rec
		return input, err
	})
	if err != nil {
		r.logger.Warn("complete session failed", "error", err)
		return sessiondto.CompleteOutput{}, err
	}
	if err := r.lc.Complete(); err != nil {
		return sessiondto.CompleteOutput{}, err
	}
	if !updated.Durable {
		r.logger.Error("session completed but profile not persisted", "error", updated.DurabilityError)
	}
	r.seed = updated
	r.emitLocked()
	r.closeLocked()
	r.logger.Info("session completed", "score", domain.PlaceholderScore)
	return sessiondto.CompleteOutput{
		Session:         record,
		Improvements:    updated.Improvements,
		ActivationState: updated.ActivationState,
		Durable:         updated.Durable,
		Target:          sessiondto.TargetProfile,
	}, nil
}

// Exit abandons the session and navigates to the profile. An aborted record
// is written only when enabled and the session was active.
func (r *run) Exit(ctx context.Context) (sessiondto.ExitOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := sessiondto.ExitOutput{Target: sessiondto.TargetProfile}
	if r.lc.TornDown() {
		return out, nil
	}
	wasActive := r.lc.AcceptsInput()
	r.teardownLocked()
	if !wasActive || !r.uc.opts.RecordAborted {
		return out, nil
	}

	var record profiledto.SessionRecord
	_, err := r.uc.profile.Modify(ctx, func(current profiledto.ProfileOutput) (profiledto.UpdateInput, error) {
		input, rec, err := r.uc.svc.AbortUpdate(r.lc.SessionID(), current)
		record = rec
		return input, err
	})
	if errors.Is(err, apperrors.ErrDuplicateSession) {
		r.logger.Info("session already recorded, aborted record skipped")
		return out, nil
	}
	if err != nil {
		return out, err
	}
	out.Recorded = true
	out.Session = record
	return out, nil
}

// Teardown cancels a pending warm-up. A warm-up that fires afterwards has no
// effect.
func (r *run) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teardownLocked()
}

func (r *run) teardownLocked() {
	if r.lc.TornDown() {
		return
	}
	r.lc.Teardown()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.closeLocked()
	r.logger.Debug("session torn down", "state", r.lc.State())
}

func (r *run) snapshotLocked() sessiondto.StateOutput {
	return sessiondto.StateOutput{
		SessionID:       r.lc.SessionID(),
		State:           string(r.lc.State()),
		PreparationType: r.seed.PreparationType,
		Agenda:          r.seed.Agenda,
		Greeting:        r.uc.svc.Greeting(r.seed),
		AcceptsInput:    r.lc.AcceptsInput(),
		TornDown:        r.lc.TornDown(),
	}
}

func (r *run) emitLocked() {
	if r.closed {
		return
	}
	select {
	case r.updates <- r.snapshotLocked():
	default:
		r.logger.Warn("state update dropped, consumer not draining")
	}
}

func (r *run) closeLocked() {
	if r.closed {
		return
	}
	r.closed = true
	close(r.updates)
}
