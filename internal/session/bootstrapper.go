package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/mdr/duck-rewards-website/internal/domain"
)

// Bootstrapper establishes and maintains the Session. It is the sole
// writer: peripheral forms call its sign-in/up/out operations, and external
// auth-state notifications arrive through the Notifier it subscribes to.
//
// Profile fetches run asynchronously. Each fetch is tagged with the
// generation it was issued for; a result only commits if no newer identity
// has been applied since, so a slow fetch for a superseded identity can
// never clobber the state of a more recent one.
type Bootstrapper struct {
	backend Backend

	mu       sync.Mutex
	identity *domain.Identity
	profile  *domain.User
	loading  bool
	gen      uint64

	onChange    func(Session)
	unsubscribe func()
}

// NewBootstrapper subscribes to the notifier (when given) and starts in the
// loading state. Call Initialize to resolve the initial session and Close
// to release the subscription.
func NewBootstrapper(backend Backend, notifier *Notifier) *Bootstrapper {
	b := &Bootstrapper{
		backend: backend,
		loading: true,
	}
	if notifier != nil {
		b.unsubscribe = notifier.Subscribe(b.HandleAuthChange)
	}
	return b
}

// SetOnChange registers a hook invoked with a snapshot after every state
// change. Used by rendering layers to re-evaluate what the user can see.
func (b *Bootstrapper) SetOnChange(fn func(Session)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Close releases the notifier subscription.
func (b *Bootstrapper) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

// Snapshot returns the current session value.
func (b *Bootstrapper) Snapshot() Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Session{Identity: b.identity, Profile: b.profile, Loading: b.loading}
}

// Initialize resolves whether an identity already exists and, if so, kicks
// off the profile fetch. It always reaches a terminal decision: whatever
// fails, loading ends up false once the fetch (or its absence) resolves.
func (b *Bootstrapper) Initialize(ctx context.Context) {
	identity, err := b.backend.CurrentIdentity(ctx)

	b.mu.Lock()
	if err != nil {
		log.Printf("ERROR [session.Bootstrapper] initial session check failed: %v", err)
		b.identity = nil
		b.profile = nil
		b.loading = false
		b.notifyLocked()
		b.mu.Unlock()
		return
	}
	if identity == nil {
		b.identity = nil
		b.profile = nil
		b.loading = false
		b.notifyLocked()
		b.mu.Unlock()
		return
	}

	b.identity = identity
	b.gen++
	gen := b.gen
	b.notifyLocked()
	b.mu.Unlock()

	go b.fetchProfile(ctx, identity.ID, gen)
}

// HandleAuthChange absorbs an externally-reported auth-state change. It is
// idempotent: delivering the same notification twice lands in the same end
// state. The latest-applied identity is authoritative; any in-flight fetch
// for an older identity is invalidated by the generation bump.
func (b *Bootstrapper) HandleAuthChange(identity *domain.Identity) {
	b.mu.Lock()
	b.gen++
	gen := b.gen

	if identity == nil {
		b.identity = nil
		b.profile = nil
		b.loading = false
		b.notifyLocked()
		b.mu.Unlock()
		return
	}

	b.identity = identity
	b.notifyLocked()
	b.mu.Unlock()

	go b.fetchProfile(context.Background(), identity.ID, gen)
}

func (b *Bootstrapper) fetchProfile(ctx context.Context, userID uuid.UUID, gen uint64) {
	profile, err := b.backend.FetchProfile(ctx, userID)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		// A newer identity was applied while this fetch was in flight;
		// its result no longer speaks for anyone.
		return
	}
	if err != nil {
		log.Printf("ERROR [session.Bootstrapper] profile fetch failed for %s: %v", userID, err)
		b.profile = nil
	} else {
		b.profile = profile
	}
	b.loading = false
	b.notifyLocked()
}

// SignUp registers a new account. It never populates the session: email
// verification may still be outstanding, so the caller decides where to
// navigate next.
func (b *Bootstrapper) SignUp(ctx context.Context, email, password string, role domain.UserType, metadata json.RawMessage) (*domain.Identity, error) {
	return b.backend.RegisterAccount(ctx, email, password, role, metadata)
}

// SignIn verifies credentials and, for business accounts, the partnership
// approval gate before committing the session. A pending or rejected
// business is signed straight back out and the session stays empty. If the
// approval lookup itself fails, the sign-in fails; a transport error never
// silently admits anyone.
func (b *Bootstrapper) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	identity, err := b.backend.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile, err := b.backend.FetchProfile(ctx, identity.ID)
	if err != nil {
		// Degrade to an identity-only session; the gate will fall back to
		// customer routing until a profile shows up.
		log.Printf("ERROR [session.Bootstrapper] profile fetch failed during sign-in for %s: %v", identity.ID, err)
		profile = nil
	}

	if profile != nil && profile.UserType == domain.UserTypeBusiness {
		status, err := b.backend.BusinessApprovalStatus(ctx, identity.ID)
		if err != nil && !errors.Is(err, domain.ErrBusinessNotFound) {
			if invErr := b.backend.InvalidateSession(ctx); invErr != nil {
				log.Printf("ERROR [session.Bootstrapper] sign-out after failed approval check: %v", invErr)
			}
			return nil, err
		}
		switch status {
		case domain.ApprovalPending:
			b.rejectSignIn(ctx)
			return nil, domain.ErrBusinessPending
		case domain.ApprovalRejected:
			b.rejectSignIn(ctx)
			return nil, domain.ErrBusinessRejected
		}
	}

	b.mu.Lock()
	b.gen++
	b.identity = identity
	b.profile = profile
	b.loading = false
	b.notifyLocked()
	b.mu.Unlock()

	return identity, nil
}

// rejectSignIn undoes an authentication whose authorization gate failed.
func (b *Bootstrapper) rejectSignIn(ctx context.Context) {
	if err := b.backend.InvalidateSession(ctx); err != nil {
		log.Printf("ERROR [session.Bootstrapper] sign-out after denied sign-in: %v", err)
	}
	b.mu.Lock()
	b.gen++
	b.identity = nil
	b.profile = nil
	b.loading = false
	b.notifyLocked()
	b.mu.Unlock()
}

// SignOut invalidates the session with the backend. The local state is only
// cleared on success; on failure the last-known-good session stands and the
// error is surfaced to the caller.
func (b *Bootstrapper) SignOut(ctx context.Context) error {
	if err := b.backend.InvalidateSession(ctx); err != nil {
		return err
	}

	b.mu.Lock()
	b.gen++
	b.identity = nil
	b.profile = nil
	b.loading = false
	b.notifyLocked()
	b.mu.Unlock()
	return nil
}

// notifyLocked invokes the change hook with a snapshot. Callers hold b.mu.
func (b *Bootstrapper) notifyLocked() {
	if b.onChange == nil {
		return
	}
	snapshot := Session{Identity: b.identity, Profile: b.profile, Loading: b.loading}
	go b.onChange(snapshot)
}
