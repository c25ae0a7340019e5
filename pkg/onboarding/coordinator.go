package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/cryptox"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/routing"
)

var (
	ErrInvalidTransition = errors.New("onboarding: invalid transition")
	ErrEmptyToken        = errors.New("onboarding: empty invite token")

	// ErrReauthRequired is returned when the redeem call was rejected for an
	// expired or missing session. The coordinator is back in PendingAuth with
	// the intent kept; sign in again and call Authenticated.
	ErrReauthRequired = errors.New("onboarding: re-authentication required")
)

// FailedError is returned by operations that leave the coordinator in
// PhaseFailed, or stuck in PhaseSettling.
type FailedError struct {
	State State
	Err   error
}

func (e *FailedError) Error() string {
	if e.Err == nil {
		return "onboarding: " + e.State.String()
	}
	return fmt.Sprintf("onboarding: %s: %v", e.State, e.Err)
}

func (e *FailedError) Unwrap() error { return e.Err }

// Result is a successful redemption.
type Result struct {
	ResourceID    string
	Role          string
	AlreadyLinked bool
}

// Redeemer performs the server-side redemption.
type Redeemer interface {
	Redeem(ctx context.Context, token, identityID string) (Result, error)
}

// IdentityView is the client's copy of the identity.
type IdentityView struct {
	IdentityID         string
	Role               string
	OnboardingComplete bool
}

// IdentityRefresher re-reads the identity from the server.
type IdentityRefresher interface {
	Refresh(ctx context.Context) (IdentityView, error)
}

type Config struct {
	// RedeemTimeout bounds each Redeem call.
	RedeemTimeout time.Duration
	// MaxTimeoutRetries is how many extra attempts a TIMEOUT gets.
	MaxTimeoutRetries int
	// MaxRefreshAttempts bounds the identity refresh after a redemption.
	MaxRefreshAttempts int
	// RefreshInterval is the first backoff between refresh attempts.
	RefreshInterval time.Duration

	Clock  func() time.Time
	Logger *slog.Logger
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		RedeemTimeout:      15 * time.Second,
		MaxTimeoutRetries:  2,
		MaxRefreshAttempts: 3,
		RefreshInterval:    250 * time.Millisecond,
	}
}

// Coordinator drives one invite from acceptance to a settled identity.
//
// Operations are serialized; each runs to completion before the next
// starts. Observers are called synchronously, in order, for every state
// change. An observer may read State, InFlight and Snapshot but must not
// call an operation.
//
// The coordinator is also the provisioning guard: while InFlight reports
// true, nothing else may create or change the identity's role.
type Coordinator struct {
	cfg       Config
	intents   IntentStore
	redeemer  Redeemer
	refresher IdentityRefresher
	log       *slog.Logger

	opMu sync.Mutex // serializes operations

	mu            sync.Mutex
	state         State
	intent        *Intent
	resumed       bool
	authenticated bool
	identity      *IdentityView
	result        *Result
	observers     map[int]func(State)
	nextObserver  int
}

var _ Guard = (*Coordinator)(nil)

func NewCoordinator(cfg Config, intents IntentStore, redeemer Redeemer, refresher IdentityRefresher) *Coordinator {
	def := DefaultConfig()
	if cfg.RedeemTimeout <= 0 {
		cfg.RedeemTimeout = def.RedeemTimeout
	}
	if cfg.MaxTimeoutRetries < 0 {
		cfg.MaxTimeoutRetries = 0
	}
	if cfg.MaxRefreshAttempts <= 0 {
		cfg.MaxRefreshAttempts = def.MaxRefreshAttempts
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = def.RefreshInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Coordinator{
		cfg:       cfg,
		intents:   intents,
		redeemer:  redeemer,
		refresher: refresher,
		log:       log.With("component", "onboarding"),
		observers: make(map[int]func(State)),
	}
}

// ============================================================================
// Read side
// ============================================================================

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Intent returns the pending intent, if any.
func (c *Coordinator) Intent() (Intent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.intent == nil {
		return Intent{}, false
	}
	return *c.intent, true
}

// Result returns the last successful redemption.
func (c *Coordinator) Result() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return Result{}, false
	}
	return *c.result, true
}

// InFlight reports whether a redemption is pending or running. Provisioning
// code must not write the identity's role while it is true. It stays true
// through Failed and Cancel while the intent is kept, and is released only
// by Decline or by reaching Done.
func (c *Coordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlightLocked()
}

func (c *Coordinator) inFlightLocked() bool {
	return c.intent != nil || c.state.Phase == PhaseRedeeming || c.state.Phase == PhaseSettling
}

// Snapshot composes the routing view from the coordinator and the latest
// identity it has seen.
func (c *Coordinator) Snapshot() routing.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := routing.Snapshot{
		Authenticated: c.authenticated,
		IntentPending: c.intent != nil,
		Loading:       c.authenticated && c.identity == nil,
	}
	if c.state.Phase == PhaseSettling && c.state.Reason == ReasonNone {
		s.Loading = true
	}
	if c.identity != nil {
		s.Role = c.identity.Role
		s.OnboardingComplete = c.identity.OnboardingComplete
	}
	return s
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (c *Coordinator) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextObserver
	c.nextObserver++
	c.observers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// ObserveIdentity feeds an identity view from elsewhere in the app, such as
// a profile fetch after sign-in.
func (c *Coordinator) ObserveIdentity(v IdentityView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authenticated = true
	c.identity = &v
}

// SignedOut forgets the session. A pending intent is kept.
func (c *Coordinator) SignedOut() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	c.authenticated = false
	c.identity = nil
	c.mu.Unlock()
}

// ============================================================================
// Operations
// ============================================================================

// Resume reads the persisted intent. Only the first call touches storage.
// With an intent pending the coordinator moves to PendingAuth.
func (c *Coordinator) Resume(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	resumed, pending := c.resumed, c.intent != nil
	c.resumed = true
	phase := c.state.Phase
	c.mu.Unlock()

	if !pending && !resumed {
		in, err := c.intents.Load(ctx)
		switch {
		case errors.Is(err, ErrNoIntent):
		case err != nil:
			return fmt.Errorf("load intent: %w", err)
		default:
			c.mu.Lock()
			c.intent = &in
			c.mu.Unlock()
			pending = true
			c.log.Info("resumed pending invite", "token", cryptox.RedactToken(in.Token))
		}
	}

	if pending && phase == PhaseIdle {
		c.transition(State{Phase: PhasePendingAuth})
	}
	return nil
}

// Accept records the user's decision to redeem token. The intent is durable
// before Accept returns; the caller then runs sign-in and reports it with
// Authenticated.
func (c *Coordinator) Accept(ctx context.Context, token string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if token == "" {
		return ErrEmptyToken
	}

	switch c.State().Phase {
	case PhaseIdle, PhasePendingAuth, PhaseFailed, PhaseDone:
	default:
		return fmt.Errorf("%w: accept during %s", ErrInvalidTransition, c.State())
	}

	in := Intent{Token: token, SavedAt: c.cfg.Clock().UTC()}
	if err := c.intents.Save(ctx, in); err != nil {
		return fmt.Errorf("save intent: %w", err)
	}

	c.mu.Lock()
	c.intent = &in
	c.resumed = true
	c.result = nil
	c.mu.Unlock()

	c.log.Info("invite accepted", "token", cryptox.RedactToken(token))
	c.transition(State{Phase: PhasePendingAuth})
	return nil
}

// Cancel abandons the sign-in flow. The intent stays, so the invite is
// offered again on the next Resume and the guard stays held.
func (c *Coordinator) Cancel() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.State().Phase == PhasePendingAuth {
		c.transition(State{Phase: PhaseIdle})
	}
}

// Decline drops the invite for good.
func (c *Coordinator) Decline(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.State().Phase == PhaseSettling {
		// Already redeemed on the server; only RetrySettle makes sense.
		return fmt.Errorf("%w: decline during %s", ErrInvalidTransition, c.State())
	}

	if err := c.intents.Clear(ctx); err != nil {
		return fmt.Errorf("clear intent: %w", err)
	}

	c.mu.Lock()
	c.intent = nil
	c.mu.Unlock()

	c.log.Info("invite declined")
	c.transition(State{Phase: PhaseIdle})
	return nil
}

// Authenticated reports a completed sign-in. With an intent pending it runs
// the redemption and settles; otherwise it only records the session.
func (c *Coordinator) Authenticated(ctx context.Context, identityID string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	c.authenticated = true
	pending := c.intent != nil
	phase := c.state.Phase
	c.mu.Unlock()

	if !pending || (phase != PhasePendingAuth && phase != PhaseIdle) {
		return nil
	}
	return c.redeem(ctx, identityID)
}

// Retry re-runs a failed redemption with the kept intent.
func (c *Coordinator) Retry(ctx context.Context, identityID string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	phase, pending := c.state.Phase, c.intent != nil
	c.authenticated = true
	c.mu.Unlock()

	if phase != PhaseFailed || !pending {
		return fmt.Errorf("%w: retry during %s", ErrInvalidTransition, c.State())
	}
	return c.redeem(ctx, identityID)
}

// RetrySettle retries the post-redemption refresh. Redeem is not called
// again.
func (c *Coordinator) RetrySettle(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.State().Phase != PhaseSettling {
		return fmt.Errorf("%w: retry settle during %s", ErrInvalidTransition, c.State())
	}
	return c.settle(ctx)
}

// ============================================================================
// Internals (opMu held)
// ============================================================================

func (c *Coordinator) redeem(ctx context.Context, identityID string) error {
	in, _ := c.Intent()
	log := c.log.With("token", cryptox.RedactToken(in.Token), "identity_id", identityID)

	c.transition(State{Phase: PhaseRedeeming})

	var (
		res    Result
		reason Reason
		err    error
	)
	for attempt := 0; ; attempt++ {
		rctx, cancel := context.WithTimeout(ctx, c.cfg.RedeemTimeout)
		res, err = c.redeemer.Redeem(rctx, in.Token, identityID)
		cancel()

		var ok bool
		reason, ok = classify(err)
		if ok {
			break
		}
		if reason == ReasonReauthRequired {
			log.Info("session rejected during redemption, awaiting sign-in")
			c.mu.Lock()
			c.authenticated = false
			c.identity = nil
			c.mu.Unlock()
			c.transition(State{Phase: PhasePendingAuth})
			return fmt.Errorf("%w: %w", ErrReauthRequired, err)
		}
		if reason != ReasonTimeout || attempt >= c.cfg.MaxTimeoutRetries || ctx.Err() != nil {
			log.Warn("redemption failed", "reason", reason, "attempts", attempt+1, "error", err)
			st := State{Phase: PhaseFailed, Reason: reason}
			c.transition(st)
			return &FailedError{State: st, Err: err}
		}
		log.Info("redemption timed out, retrying", "attempt", attempt+1)
	}

	if err != nil {
		// ALREADY_LINKED from an older server: the link exists, the rest
		// comes from the refresh.
		res = Result{AlreadyLinked: true}
	}

	c.mu.Lock()
	c.result = &res
	c.mu.Unlock()

	log.Info("invite redeemed", "resource_id", res.ResourceID, "already_linked", res.AlreadyLinked)
	c.transition(State{Phase: PhaseSettling})
	return c.settle(ctx)
}

// settle refreshes the identity until it shows the redemption's effects,
// then clears the intent. Failure leaves the coordinator in Settling with a
// reason; RetrySettle picks up from there.
func (c *Coordinator) settle(ctx context.Context) error {
	var view IdentityView
	op := func() error {
		v, err := c.refresher.Refresh(ctx)
		if err != nil {
			return err
		}
		if v.Role == "" || !v.OnboardingComplete {
			return errors.New("identity not yet updated")
		}
		view = v
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.RefreshInterval
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.cfg.MaxRefreshAttempts-1)), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		c.log.Warn("identity refresh after redemption failed", "error", err)
		st := State{Phase: PhaseSettling, Reason: ReasonRefreshFailed}
		c.transition(st)
		return &FailedError{State: st, Err: err}
	}

	c.mu.Lock()
	c.identity = &view
	c.mu.Unlock()

	if err := c.intents.Clear(ctx); err != nil {
		c.log.Warn("failed to clear redeemed intent", "error", err)
		st := State{Phase: PhaseSettling, Reason: ReasonPersistFailed}
		c.transition(st)
		return &FailedError{State: st, Err: err}
	}

	c.mu.Lock()
	c.intent = nil
	c.mu.Unlock()

	c.transition(State{Phase: PhaseDone})
	return nil
}

// transition sets the state and notifies observers in registration order.
func (c *Coordinator) transition(s State) {
	c.mu.Lock()
	c.state = s
	ids := make([]int, 0, len(c.observers))
	for id := range c.observers {
		ids = append(ids, id)
	}
	fns := make([]func(State), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, c.observers[id])
	}
	c.mu.Unlock()

	c.log.Debug("state changed", "state", s.String())
	for _, fn := range fns {
		fn(s)
	}
}
