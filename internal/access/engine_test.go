package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studydeck/deckapi/internal/auth"
	"github.com/studydeck/deckapi/internal/db/models"
	"github.com/studydeck/deckapi/internal/repository"
)

// fixtureStore is an in-memory DeckSource/UserSource pair.
type fixtureStore struct {
	decks   map[int64]DeckRef
	users   map[string]int64
	deckErr error
	userErr error
}

func (f *fixtureStore) LookupDeck(_ context.Context, deckID int64) (DeckRef, error) {
	if f.deckErr != nil {
		return DeckRef{}, f.deckErr
	}
	deck, ok := f.decks[deckID]
	if !ok {
		return DeckRef{}, repository.ErrNotFound
	}
	return deck, nil
}

func (f *fixtureStore) ResolveUserID(_ context.Context, subject string) (int64, error) {
	if f.userErr != nil {
		return 0, f.userErr
	}
	id, ok := f.users[subject]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

var (
	ownerPrincipal = auth.Principal{UserID: 7, Subject: "owner", Role: auth.RoleUser}
	otherPrincipal = auth.Principal{UserID: 9, Subject: "other", Role: auth.RoleUser}
	adminPrincipal = auth.Principal{UserID: 1, Subject: "admin", Role: auth.RoleAdmin}
	anonymous      = auth.Anonymous()
)

func newFixtureEngine() (*Engine, *fixtureStore) {
	store := &fixtureStore{
		decks: map[int64]DeckRef{
			1: {ID: 1, OwnerID: 7, Status: models.StatusPrivate},
			2: {ID: 2, OwnerID: 7, Status: models.StatusPublic},
			3: {ID: 3, OwnerID: 7, Status: models.StatusPending},
			4: {ID: 4, OwnerID: 7, Status: models.StatusUnlisted},
			5: {ID: 5, OwnerID: 7, Status: models.DeckStatus(9)},
		},
		users: map[string]int64{
			"owner": 7,
			"other": 9,
			"admin": 1,
		},
	}
	return NewEngine(store, store), store
}

func TestEngine_CanRead_PublicVisibleToAnyone(t *testing.T) {
	engine, _ := newFixtureEngine()
	ctx := context.Background()

	for _, p := range []auth.Principal{ownerPrincipal, otherPrincipal, adminPrincipal, anonymous} {
		assert.True(t, engine.CanRead(ctx, 2, p), "public deck must be readable by %q", p.Subject)
	}
}

// Pending decks stay world-readable while they wait in the moderation
// queue. That includes anonymous visitors. Surprising, but deliberate; do
// not tighten this without a policy change.
func TestEngine_CanRead_PendingVisibleToAnyone(t *testing.T) {
	engine, _ := newFixtureEngine()
	ctx := context.Background()

	for _, p := range []auth.Principal{ownerPrincipal, otherPrincipal, adminPrincipal, anonymous} {
		assert.True(t, engine.CanRead(ctx, 3, p), "pending deck must be readable by %q", p.Subject)
	}
}

func TestEngine_CanRead_PrivateDeck(t *testing.T) {
	engine, _ := newFixtureEngine()
	ctx := context.Background()

	assert.True(t, engine.CanRead(ctx, 1, ownerPrincipal))
	assert.True(t, engine.CanRead(ctx, 1, adminPrincipal))
	assert.False(t, engine.CanRead(ctx, 1, otherPrincipal))
	assert.False(t, engine.CanRead(ctx, 1, anonymous))
}

func TestEngine_CanRead_UnlistedDeck(t *testing.T) {
	engine, _ := newFixtureEngine()
	ctx := context.Background()

	assert.True(t, engine.CanRead(ctx, 4, ownerPrincipal))
	assert.True(t, engine.CanRead(ctx, 4, adminPrincipal))
	assert.False(t, engine.CanRead(ctx, 4, otherPrincipal))
	assert.False(t, engine.CanRead(ctx, 4, anonymous))
}

func TestEngine_CanRead_InvalidStatusDeniesEveryone(t *testing.T) {
	engine, _ := newFixtureEngine()
	ctx := context.Background()

	for _, p := range []auth.Principal{ownerPrincipal, otherPrincipal, adminPrincipal, anonymous} {
		assert.False(t, engine.CanRead(ctx, 5, p), "invalid status must deny %q", p.Subject)
	}
}

func TestEngine_NonexistentDeckDeniesEverything(t *testing.T) {
	engine, _ := newFixtureEngine()
	ctx := context.Background()

	for _, p := range []auth.Principal{ownerPrincipal, otherPrincipal, adminPrincipal, anonymous} {
		assert.False(t, engine.CanRead(ctx, 404, p))
		assert.False(t, engine.CanModify(ctx, 404, p))
		assert.False(t, engine.CanDelete(ctx, 404, p))
	}
}

func TestEngine_LookupErrorDenies(t *testing.T) {
	engine, store := newFixtureEngine()
	ctx := context.Background()
	store.deckErr = errors.New("store unavailable")

	assert.False(t, engine.CanRead(ctx, 2, adminPrincipal))
	assert.False(t, engine.CanModify(ctx, 2, adminPrincipal))
	assert.False(t, engine.CanDelete(ctx, 2, adminPrincipal))
}

func TestEngine_CanModify_StatusIrrelevant(t *testing.T) {
	engine, _ := newFixtureEngine()
	ctx := context.Background()

	// Writes stay owner-gated even on public decks.
	for _, deckID := range []int64{1, 2, 3, 4} {
		assert.True(t, engine.CanModify(ctx, deckID, ownerPrincipal), "owner must modify deck %d", deckID)
		assert.True(t, engine.CanModify(ctx, deckID, adminPrincipal), "admin must modify deck %d", deckID)
		assert.False(t, engine.CanModify(ctx, deckID, otherPrincipal), "non-owner must not modify deck %d", deckID)
		assert.False(t, engine.CanModify(ctx, deckID, anonymous), "anonymous must not modify deck %d", deckID)
	}
}

func TestEngine_CanDelete_MatchesModify(t *testing.T) {
	engine, _ := newFixtureEngine()
	ctx := context.Background()

	assert.True(t, engine.CanDelete(ctx, 2, ownerPrincipal))
	assert.True(t, engine.CanDelete(ctx, 2, adminPrincipal))
	assert.False(t, engine.CanDelete(ctx, 2, otherPrincipal))
	assert.False(t, engine.CanDelete(ctx, 2, anonymous))
}

func TestEngine_CanCreate(t *testing.T) {
	engine, _ := newFixtureEngine()

	assert.True(t, engine.CanCreate(ownerPrincipal))
	assert.True(t, engine.CanCreate(adminPrincipal))
	assert.False(t, engine.CanCreate(anonymous))
	assert.False(t, engine.CanCreate(auth.Principal{UserID: 3, Subject: "norole"}))
}

func TestEngine_CanAccessUserDecks(t *testing.T) {
	engine, _ := newFixtureEngine()
	ctx := context.Background()

	assert.True(t, engine.CanAccessUserDecks(ctx, 7, ownerPrincipal), "own deck list")
	assert.False(t, engine.CanAccessUserDecks(ctx, 7, otherPrincipal), "someone else's deck list")
	assert.True(t, engine.CanAccessUserDecks(ctx, 7, adminPrincipal), "admin may list anyone's")
	assert.True(t, engine.CanAccessUserDecks(ctx, 42, adminPrincipal), "admin even for unknown users")
	assert.False(t, engine.CanAccessUserDecks(ctx, 7, anonymous))
}

func TestEngine_CanAccessUserDecks_ResolutionFailureDenies(t *testing.T) {
	engine, store := newFixtureEngine()
	ctx := context.Background()
	store.userErr = errors.New("store unavailable")

	assert.False(t, engine.CanAccessUserDecks(ctx, 7, ownerPrincipal))
	// Admin short-circuits before identity resolution.
	assert.True(t, engine.CanAccessUserDecks(ctx, 7, adminPrincipal))
}

func TestEngine_OwnershipNeedsResolvableIdentity(t *testing.T) {
	engine, _ := newFixtureEngine()
	ctx := context.Background()

	ghost := auth.Principal{UserID: 7, Subject: "ghost", Role: auth.RoleUser}
	assert.False(t, engine.CanRead(ctx, 1, ghost), "unresolvable subject is never owner")
	assert.False(t, engine.CanModify(ctx, 1, ghost))
}

// Spec scenario: deck{id:1, ownerId:7, status:PRIVATE}.
func TestEngine_PrivateDeckScenario(t *testing.T) {
	engine, _ := newFixtureEngine()
	ctx := context.Background()

	assert.True(t, engine.CanRead(ctx, 1, auth.Principal{UserID: 7, Subject: "owner", Role: auth.RoleUser}))
	assert.False(t, engine.CanRead(ctx, 1, auth.Principal{UserID: 9, Subject: "other", Role: auth.RoleUser}))
	assert.False(t, engine.CanRead(ctx, 1, anonymous))
	assert.True(t, engine.CanRead(ctx, 1, auth.Principal{UserID: 1, Subject: "admin", Role: auth.RoleAdmin}))
}

func TestEngine_DecisionsAreIdempotent(t *testing.T) {
	engine, _ := newFixtureEngine()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, engine.CanRead(ctx, 2, anonymous))
		assert.False(t, engine.CanModify(ctx, 2, otherPrincipal))
		assert.True(t, engine.CanAccessUserDecks(ctx, 7, ownerPrincipal))
	}
}
